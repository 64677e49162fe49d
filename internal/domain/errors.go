package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrGameInProgress is returned when Start is called mid play-through.
	ErrGameInProgress = errors.New("game already in progress")
	// ErrNoActiveQuestion is returned when an answer or hint request arrives
	// while no question is awaiting an answer.
	ErrNoActiveQuestion = errors.New("no active question")
)

// InvalidRecordError reports a malformed question-bank record, caught at load
// time.
type InvalidRecordError struct {
	Prompt string
	Reason string
}

func newInvalidRecordError(prompt, reason string) *InvalidRecordError {
	return &InvalidRecordError{Prompt: prompt, Reason: reason}
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid question record %q: %s", e.Prompt, e.Reason)
}
