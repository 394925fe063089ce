package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"archetype-quiz/internal/domain"
)

// Bank is the ordered, read-only question list driving a quiz. It is loaded
// once at startup and shared freely across sessions.
type Bank struct {
	questions []domain.Question
}

// Load reads a question file. The format is picked by extension: .yaml/.yml
// is parsed as YAML, anything else as JSON.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question file %s: %w", path, err)
	}

	var questions []domain.Question
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &questions)
	default:
		err = json.Unmarshal(data, &questions)
	}
	if err != nil {
		return nil, fmt.Errorf("parse question file %s: %w", path, err)
	}

	return New(questions)
}

// New validates the question list and wraps it. Unknown trait names inside
// option deltas are allowed; the accumulator ignores them at scoring time.
func New(questions []domain.Question) (*Bank, error) {
	for i, q := range questions {
		if strings.TrimSpace(q.Prompt) == "" {
			return nil, fmt.Errorf("question %d: empty prompt", i)
		}
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("question %d: no options", i)
		}
		for key, opt := range q.Options {
			if strings.TrimSpace(opt.Description) == "" {
				return nil, fmt.Errorf("question %d option %q: empty description", i, key)
			}
		}
	}
	return &Bank{questions: questions}, nil
}

// Empty returns a bank with no questions. Every lookup misses, which is the
// degraded mode used when the question file cannot be loaded.
func Empty() *Bank {
	return &Bank{}
}

// Get returns the question at index, or ok=false when index is out of range.
func (b *Bank) Get(index int) (domain.Question, bool) {
	if index < 0 || index >= len(b.questions) {
		return domain.Question{}, false
	}
	return b.questions[index], true
}

// Len returns the number of questions in the bank.
func (b *Bank) Len() int {
	return len(b.questions)
}
