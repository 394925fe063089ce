package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// SoftmaxClassifier evaluates a multinomial logistic regression exported as a
// JSON artifact by the offline training pipeline. Weights are laid out one
// row per class, one column per feature.
type SoftmaxClassifier struct {
	weights [][]float64
	bias    []float64
}

type softmaxArtifact struct {
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

// LoadSoftmax reads and validates a model artifact from disk.
func LoadSoftmax(path string) (*SoftmaxClassifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact %s: %w", path, err)
	}
	var artifact softmaxArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("parse model artifact %s: %w", path, err)
	}
	return NewSoftmax(artifact.Weights, artifact.Bias)
}

// NewSoftmax builds a classifier from raw coefficients.
func NewSoftmax(weights [][]float64, bias []float64) (*SoftmaxClassifier, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("model artifact has no weight rows")
	}
	if len(bias) != len(weights) {
		return nil, fmt.Errorf("model artifact has %d bias terms for %d classes", len(bias), len(weights))
	}
	width := len(weights[0])
	if width == 0 {
		return nil, fmt.Errorf("model artifact has zero-width weight rows")
	}
	for i, row := range weights {
		if len(row) != width {
			return nil, fmt.Errorf("model artifact weight row %d has width %d, want %d", i, len(row), width)
		}
	}
	return &SoftmaxClassifier{weights: weights, bias: bias}, nil
}

// Probabilities returns the softmax distribution over classes for one row.
func (c *SoftmaxClassifier) Probabilities(features []float64) ([]float64, error) {
	if len(features) != c.NumFeatures() {
		return nil, fmt.Errorf("model expects %d features, got %d", c.NumFeatures(), len(features))
	}

	logits := make([]float64, len(c.weights))
	maxLogit := math.Inf(-1)
	for i, row := range c.weights {
		sum := c.bias[i]
		for j, w := range row {
			sum += w * features[j]
		}
		logits[i] = sum
		if sum > maxLogit {
			maxLogit = sum
		}
	}

	// Shift by the max logit so exp never overflows.
	var total float64
	probs := make([]float64, len(logits))
	for i, logit := range logits {
		probs[i] = math.Exp(logit - maxLogit)
		total += probs[i]
	}
	for i := range probs {
		probs[i] /= total
	}
	return probs, nil
}

func (c *SoftmaxClassifier) NumFeatures() int {
	return len(c.weights[0])
}

func (c *SoftmaxClassifier) NumClasses() int {
	return len(c.weights)
}
