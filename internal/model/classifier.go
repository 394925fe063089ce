package model

// Classifier is the pretrained multi-class probability estimator behind the
// scoring engine. Given one feature row it returns one probability per class,
// in training class order. Implementations must be safe for concurrent use
// once loaded.
type Classifier interface {
	Probabilities(features []float64) ([]float64, error)
	NumFeatures() int
	NumClasses() int
}
