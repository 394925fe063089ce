package model

// Mock returns a fixed distribution, for tests without a real artifact.
type Mock struct {
	Probs    []float64
	Features int
	Err      error
}

func (m *Mock) Probabilities(features []float64) ([]float64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]float64, len(m.Probs))
	copy(out, m.Probs)
	return out, nil
}

func (m *Mock) NumFeatures() int {
	return m.Features
}

func (m *Mock) NumClasses() int {
	return len(m.Probs)
}
