package domain

// Question is one entry of the question bank. Questions carry no ID; they are
// identified by their position in the bank.
type Question struct {
	Prompt  string            `json:"prompt" yaml:"prompt"`
	Options map[string]Option `json:"options" yaml:"options"`
}

// Option is one selectable answer and the trait deltas choosing it applies.
type Option struct {
	Description string             `json:"description" yaml:"description"`
	Traits      map[string]float64 `json:"traits" yaml:"traits"`
}
