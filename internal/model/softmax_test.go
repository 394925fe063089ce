package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestNewSoftmaxValidatesShape(t *testing.T) {
	if _, err := NewSoftmax(nil, nil); err == nil {
		t.Fatalf("expected error for empty weights")
	}
	if _, err := NewSoftmax([][]float64{{1, 2}}, []float64{0, 0}); err == nil {
		t.Fatalf("expected error for bias/class count mismatch")
	}
	if _, err := NewSoftmax([][]float64{{1, 2}, {1}}, []float64{0, 0}); err == nil {
		t.Fatalf("expected error for ragged weight rows")
	}
	if _, err := NewSoftmax([][]float64{{}}, []float64{0}); err == nil {
		t.Fatalf("expected error for zero-width rows")
	}
}

func TestSoftmaxProbabilitiesSumToOne(t *testing.T) {
	clf, err := NewSoftmax([][]float64{{0.5, -0.2}, {-0.1, 0.3}, {0.2, 0.2}}, []float64{0.1, 0, -0.1})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	probs, err := clf.Probabilities([]float64{3, -1})
	if err != nil {
		t.Fatalf("probabilities: %v", err)
	}
	if len(probs) != 3 {
		t.Fatalf("expected 3 probabilities, got %d", len(probs))
	}

	var sum float64
	for _, p := range probs {
		if p < 0 || p > 1 {
			t.Fatalf("probability out of range: %v", p)
		}
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("expected probabilities to sum to 1, got %v", sum)
	}
}

func TestSoftmaxHighestLogitWins(t *testing.T) {
	// Class 1 weights the first feature much harder than the others.
	clf, err := NewSoftmax([][]float64{{0.1}, {2}, {0.5}}, []float64{0, 0, 0})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	probs, err := clf.Probabilities([]float64{5})
	if err != nil {
		t.Fatalf("probabilities: %v", err)
	}
	if !(probs[1] > probs[2] && probs[2] > probs[0]) {
		t.Fatalf("expected ordering by logit, got %v", probs)
	}
}

func TestSoftmaxLargeLogitsDoNotOverflow(t *testing.T) {
	clf, err := NewSoftmax([][]float64{{500}, {-500}}, []float64{0, 0})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	probs, err := clf.Probabilities([]float64{10})
	if err != nil {
		t.Fatalf("probabilities: %v", err)
	}
	for _, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			t.Fatalf("expected finite probabilities, got %v", probs)
		}
	}
	if probs[0] < 0.999 {
		t.Fatalf("expected class 0 to dominate, got %v", probs)
	}
}

func TestSoftmaxFeatureWidthMismatch(t *testing.T) {
	clf, err := NewSoftmax([][]float64{{1, 2}}, []float64{0})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if _, err := clf.Probabilities([]float64{1}); err == nil {
		t.Fatalf("expected error for wrong feature width")
	}
}

func TestLoadSoftmaxFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	artifact := `{"weights": [[0.1, 0.2], [-0.1, 0.4]], "bias": [0.05, -0.05]}`
	if err := os.WriteFile(path, []byte(artifact), 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	clf, err := LoadSoftmax(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if clf.NumFeatures() != 2 || clf.NumClasses() != 2 {
		t.Fatalf("unexpected dimensions: %d features, %d classes", clf.NumFeatures(), clf.NumClasses())
	}
}

func TestLoadSoftmaxMissingFile(t *testing.T) {
	if _, err := LoadSoftmax(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing artifact")
	}
}

func TestLoadSoftmaxBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	if _, err := LoadSoftmax(path); err == nil {
		t.Fatalf("expected error for malformed artifact")
	}
}
