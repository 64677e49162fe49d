package game

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"level-quiz-game/internal/domain"
)

// BankRepository loads the question bank (from file/cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context) (domain.QuestionBank, error)
}

// Presenter receives the directives the game emits as it transitions. It is
// the only contract a UI adapter has to honor. Implementations must not call
// back into the Game; every method is invoked with the game lock held.
type Presenter interface {
	RenderQuestion(level int, record domain.QuestionRecord, board domain.Scoreboard)
	ShowHint(text string)
	FeedbackCorrect(board domain.Scoreboard)
	FeedbackIncorrect(board domain.Scoreboard)
	FeedbackMissingInput()
	ShowFinalScreen(totalCorrect, totalAnswered int)
	ShowIdleTitle()
}

// Store abstracts how games are kept per player (in-memory, Redis-marked, etc).
type Store interface {
	GetOrCreate(playerID string, create func() *Game) *Game
	Get(playerID string) (*Game, bool)
	DeleteIfFinished(playerID string)
}

// NoHintMessage is shown when the current record carries no hint.
const NoHintMessage = "No hint available."

// Config holds the tunables of one play-through.
type Config struct {
	RequiredCorrect int           // correct answers needed to pass a level early
	MaxLevel        int           // last level; passing it ends the game
	AdvanceDelay    time.Duration // cosmetic pause between correct feedback and the next question
	Rand            *rand.Rand    // nil = time-seeded source
}

// DefaultConfig returns the tunables of the stock game.
func DefaultConfig() Config {
	return Config{
		RequiredCorrect: 10,
		MaxLevel:        10,
		AdvanceDelay:    800 * time.Millisecond,
	}
}

type phase int

const (
	phaseIdle phase = iota
	phaseAwaiting
	phaseComplete
)

// Game is the level-progression and scoring state machine for a single
// play-through. It consumes answer submissions one at a time and drives its
// Presenter with render/feedback directives.
type Game struct {
	bankRepo BankRepository
	cfg      Config
	sleep    func(time.Duration)

	mu             sync.Mutex
	presenter      Presenter
	bank           domain.QuestionBank
	bankLoaded     bool
	phase          phase
	level          int
	questions      []domain.QuestionRecord
	cursor         int
	correctInLevel int
	totalCorrect   int
	totalAnswered  int
}

// New builds an idle game. cfg zero values fall back to DefaultConfig.
func New(bankRepo BankRepository, presenter Presenter, cfg Config) *Game {
	defaults := DefaultConfig()
	if cfg.RequiredCorrect <= 0 {
		cfg.RequiredCorrect = defaults.RequiredCorrect
	}
	if cfg.MaxLevel <= 0 {
		cfg.MaxLevel = defaults.MaxLevel
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Game{
		bankRepo:  bankRepo,
		cfg:       cfg,
		sleep:     time.Sleep,
		presenter: presenter,
	}
}

// AttachPresenter swaps the presenter, e.g. when a player reconnects and the
// stored game is resumed over a fresh connection. The current phase is
// replayed to the new presenter so a resumed player sees the question (or
// final screen) they left off at instead of a blank title.
func (g *Game) AttachPresenter(p Presenter) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.presenter = p
	switch g.phase {
	case phaseAwaiting:
		p.RenderQuestion(g.level, g.questions[g.cursor], g.scoreboardLocked())
	case phaseComplete:
		p.ShowFinalScreen(g.totalCorrect, g.totalAnswered)
	default:
		p.ShowIdleTitle()
	}
}

// Start begins a play-through from level 1. The question bank is fetched on
// the first Start only; a load failure degrades to an empty bank, which
// cascades through every level straight to the final screen instead of
// crashing.
func (g *Game) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == phaseAwaiting {
		return domain.ErrGameInProgress
	}

	if !g.bankLoaded {
		bank, err := g.bankRepo.GetBank(ctx)
		if err != nil {
			// Single decision point for the degraded path. Swap this for an
			// explicit error screen if the cascade turns out to be unwanted.
			log.Printf("question bank load failed, starting with empty bank: %v", err)
			bank = nil
		}
		g.bank = bank
		g.bankLoaded = true
	}

	g.totalCorrect = 0
	g.totalAnswered = 0
	g.startLevelLocked(1)
	return nil
}

// SubmitAnswer evaluates the player's answer to the current question.
// Submissions that carry no usable answer (no choice selected, or a blank
// type-in field) are refused before comparison: counters stay untouched and
// the presenter gets a missing-input cue instead of wrong-answer feedback.
func (g *Game) SubmitAnswer(raw string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != phaseAwaiting {
		return domain.ErrNoActiveQuestion
	}

	record := g.questions[g.cursor]
	answer, ok := normalizeSubmission(record, raw)
	if !ok {
		g.presenter.FeedbackMissingInput()
		return nil
	}

	g.totalAnswered++
	if answer != record.CorrectAnswer {
		g.presenter.FeedbackIncorrect(g.scoreboardLocked())
		return nil
	}

	g.totalCorrect++
	g.correctInLevel++
	g.presenter.FeedbackCorrect(g.scoreboardLocked())
	if g.cfg.AdvanceDelay > 0 {
		// Cosmetic only: lets the success animation play before the next
		// question appears. Zero in tests.
		g.sleep(g.cfg.AdvanceDelay)
	}
	g.cursor++
	g.advanceLocked()
	return nil
}

// RequestHint shows the current question's hint. It never touches counters.
func (g *Game) RequestHint() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != phaseAwaiting {
		return domain.ErrNoActiveQuestion
	}
	hint := g.questions[g.cursor].Hint
	if hint == "" {
		hint = NoHintMessage
	}
	g.presenter.ShowHint(hint)
	return nil
}

// Restart zeroes the tallies, discards the level session and returns to the
// idle title. The already-fetched bank is kept; Restart never refetches.
func (g *Game) Restart() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.totalCorrect = 0
	g.totalAnswered = 0
	g.level = 0
	g.questions = nil
	g.cursor = 0
	g.correctInLevel = 0
	g.phase = phaseIdle
	g.presenter.ShowIdleTitle()
}

// Finished reports whether the play-through reached the final screen.
func (g *Game) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase == phaseComplete
}

// Scoreboard returns the cumulative tally of the current play-through.
func (g *Game) Scoreboard() domain.Scoreboard {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scoreboardLocked()
}

// startLevelLocked replaces the level session wholesale and hands control to
// the advance check, which either renders the first question or, for an
// empty working set, ends the level immediately.
func (g *Game) startLevelLocked(level int) {
	g.level = level
	g.questions = SelectLevel(g.bank, level, g.cfg.Rand)
	g.cursor = 0
	g.correctInLevel = 0
	g.advanceLocked()
}

// advanceLocked is the level-exhaustion check. Reaching the required-correct
// threshold short-circuits the remaining questions; running out of questions
// ends the level regardless. Both paths converge on the same level-end
// branch.
func (g *Game) advanceLocked() {
	if g.correctInLevel < g.cfg.RequiredCorrect && g.cursor < len(g.questions) {
		g.phase = phaseAwaiting
		g.presenter.RenderQuestion(g.level, g.questions[g.cursor], g.scoreboardLocked())
		return
	}

	if g.level >= g.cfg.MaxLevel {
		g.phase = phaseComplete
		g.presenter.ShowFinalScreen(g.totalCorrect, g.totalAnswered)
		return
	}
	g.startLevelLocked(g.level + 1)
}

func (g *Game) scoreboardLocked() domain.Scoreboard {
	return domain.Scoreboard{
		TotalCorrect:  g.totalCorrect,
		TotalAnswered: g.totalAnswered,
	}
}

// normalizeSubmission applies the per-type comparison rule and reports
// whether the submission carries an answer at all. Multiple choice demands
// one of the record's choice values; type-in answers are trimmed and must be
// non-empty.
func normalizeSubmission(record domain.QuestionRecord, raw string) (string, bool) {
	switch record.Type {
	case domain.MultipleChoice:
		for _, choice := range record.Choices {
			if choice == raw {
				return raw, true
			}
		}
		return "", false
	default:
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return "", false
		}
		return trimmed, true
	}
}
