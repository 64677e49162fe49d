package domain

import "strings"

// QuestionType tags the two kinds of questions the game knows how to ask.
type QuestionType string

const (
	MultipleChoice QuestionType = "multipleChoice"
	TypeIn         QuestionType = "typeIn"
)

// QuestionRecord is one entry of the static question bank. Records are
// read-only to the game core; the JSON tags match the bank asset format.
type QuestionRecord struct {
	Level         int          `json:"level"`
	Type          QuestionType `json:"questionType"`
	Prompt        string       `json:"question"`
	Choices       []string     `json:"choices,omitempty"` // multipleChoice only
	CorrectAnswer string       `json:"correctAnswer"`
	Hint          string       `json:"hint,omitempty"`
}

// Validate checks structural invariants of a single record.
func (q QuestionRecord) Validate() error {
	if q.Level < 1 {
		return newInvalidRecordError(q.Prompt, "level must be positive")
	}
	switch q.Type {
	case MultipleChoice:
		if len(q.Choices) == 0 {
			return newInvalidRecordError(q.Prompt, "multipleChoice record has no choices")
		}
		found := false
		for _, choice := range q.Choices {
			if choice == q.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return newInvalidRecordError(q.Prompt, "choices do not include the correct answer")
		}
	case TypeIn:
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			return newInvalidRecordError(q.Prompt, "typeIn record has an empty correct answer")
		}
	default:
		return newInvalidRecordError(q.Prompt, "unknown question type "+string(q.Type))
	}
	return nil
}

// QuestionBank is the full static collection of question records.
type QuestionBank []QuestionRecord

// Validate fails fast on the first malformed record. Loaders call this so a
// broken bank is rejected at load time instead of corrupting a play-through.
func (b QuestionBank) Validate() error {
	for _, q := range b {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Scoreboard is the cumulative tally shown alongside every question and
// feedback event.
type Scoreboard struct {
	TotalCorrect  int `json:"totalCorrect"`
	TotalAnswered int `json:"totalAnswered"`
}
