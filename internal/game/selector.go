package game

import (
	"math/rand"

	"level-quiz-game/internal/domain"
)

// SelectLevel builds the working set for a level: the bank records tagged
// with that level, in a uniformly random order. The bank itself is never
// mutated; the returned slice is owned by the caller and consumed
// front-to-back for the duration of the level.
//
// An empty result is not an error: the state machine treats an empty level
// session as immediately exhausted.
func SelectLevel(bank domain.QuestionBank, level int, rng *rand.Rand) []domain.QuestionRecord {
	picked := make([]domain.QuestionRecord, 0, len(bank))
	for _, record := range bank {
		if record.Level == level {
			picked = append(picked, record)
		}
	}
	// Fisher-Yates, last index down to 1.
	for i := len(picked) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked
}
