// Package bankfile loads the question bank from a static JSON asset, the
// same shape the browser game fetched once at startup.
package bankfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"level-quiz-game/internal/domain"
)

// Loader reads a question bank from a JSON file on disk.
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// LoadBank reads, unmarshals and validates the asset. Malformed records are
// rejected here, at load time, rather than skipped silently.
func (l *Loader) LoadBank(_ context.Context) (domain.QuestionBank, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	var bank domain.QuestionBank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("unmarshal question bank: %w", err)
	}
	if err := bank.Validate(); err != nil {
		return nil, fmt.Errorf("validate question bank: %w", err)
	}
	return bank, nil
}
