package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"archetype-quiz/internal/domain"
	"archetype-quiz/internal/model"
)

var (
	ErrModelUnavailable = errors.New("classifier model unavailable")
	ErrSchemaMismatch   = errors.New("schema does not match model dimensions")
)

// ClassifierAdapter turns a session trait vector into an archetype
// probability distribution using the loaded model. The adapter owns the
// positional correspondence between schema order and model input columns,
// and between catalog order and model output classes.
type ClassifierAdapter struct {
	classifier model.Classifier
	schema     []string
	catalog    []string
	logger     *zap.Logger
}

// NewClassifierAdapter wraps classifier, which may be nil when no artifact
// was loaded; every Classify call then reports ErrModelUnavailable.
func NewClassifierAdapter(classifier model.Classifier, schema, catalog []string, logger *zap.Logger) *ClassifierAdapter {
	return &ClassifierAdapter{
		classifier: classifier,
		schema:     schema,
		catalog:    catalog,
		logger:     logger,
	}
}

// Available reports whether a model artifact was loaded.
func (a *ClassifierAdapter) Available() bool {
	return a.classifier != nil
}

// ValidateDimensions checks schema and catalog lengths against the loaded
// model. Called at startup so a versioning drift between the trained model
// and the serving lists fails before the first request.
func (a *ClassifierAdapter) ValidateDimensions() error {
	if a.classifier == nil {
		return ErrModelUnavailable
	}
	if got, want := a.classifier.NumFeatures(), len(a.schema); got != want {
		return fmt.Errorf("%w: model expects %d features, schema has %d", ErrSchemaMismatch, got, want)
	}
	if got, want := a.classifier.NumClasses(), len(a.catalog); got != want {
		return fmt.Errorf("%w: model outputs %d classes, catalog has %d", ErrSchemaMismatch, got, want)
	}
	return nil
}

// Classify returns one probability per catalog archetype, in catalog order.
// The input row is built by reading the vector in exact schema order; schema
// traits missing from the vector read as zero.
func (a *ClassifierAdapter) Classify(vec domain.TraitVector) ([]float64, error) {
	if err := a.ValidateDimensions(); err != nil {
		if errors.Is(err, ErrSchemaMismatch) {
			// A mismatch here means the serving lists drifted from the
			// deployed model; that is a deployment defect, not bad input.
			a.logger.Error("schema/model dimension mismatch", zap.Error(err))
		}
		return nil, err
	}

	features := make([]float64, len(a.schema))
	for i, trait := range a.schema {
		features[i] = vec[trait]
	}

	probs, err := a.classifier.Probabilities(features)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	if len(probs) != len(a.catalog) {
		return nil, fmt.Errorf("%w: model returned %d probabilities, catalog has %d", ErrSchemaMismatch, len(probs), len(a.catalog))
	}
	return probs, nil
}
