package game_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"level-quiz-game/internal/domain"
	"level-quiz-game/internal/game"
	"level-quiz-game/internal/infra/memory"
)

// recordingPresenter captures every directive the game emits so tests can
// assert on ordering and payloads without any UI in the loop.
type recordingPresenter struct {
	current       domain.QuestionRecord
	currentLevel  int
	rendered      int
	hints         []string
	correct       int
	incorrect     int
	missing       int
	idleShown     int
	finalShown    bool
	finalCorrect  int
	finalAnswered int
	lastBoard     domain.Scoreboard
}

func (p *recordingPresenter) RenderQuestion(level int, record domain.QuestionRecord, board domain.Scoreboard) {
	p.current = record
	p.currentLevel = level
	p.rendered++
	p.lastBoard = board
}

func (p *recordingPresenter) ShowHint(text string) { p.hints = append(p.hints, text) }

func (p *recordingPresenter) FeedbackCorrect(board domain.Scoreboard) {
	p.correct++
	p.lastBoard = board
}

func (p *recordingPresenter) FeedbackIncorrect(board domain.Scoreboard) {
	p.incorrect++
	p.lastBoard = board
}

func (p *recordingPresenter) FeedbackMissingInput() { p.missing++ }

func (p *recordingPresenter) ShowFinalScreen(totalCorrect, totalAnswered int) {
	p.finalShown = true
	p.finalCorrect = totalCorrect
	p.finalAnswered = totalAnswered
}

func (p *recordingPresenter) ShowIdleTitle() { p.idleShown++ }

// typeInBank builds n type-in records for the given level, each with a
// distinct answer.
func typeInBank(level, n int) domain.QuestionBank {
	bank := make(domain.QuestionBank, 0, n)
	for i := 0; i < n; i++ {
		bank = append(bank, domain.QuestionRecord{
			Level:         level,
			Type:          domain.TypeIn,
			Prompt:        fmt.Sprintf("level %d question %d", level, i),
			CorrectAnswer: fmt.Sprintf("answer-%d-%d", level, i),
		})
	}
	return bank
}

func newTestGame(t *testing.T, bank domain.QuestionBank, cfg game.Config) (*game.Game, *recordingPresenter) {
	t.Helper()
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(1))
	}
	presenter := &recordingPresenter{}
	repo := memory.NewBankRepository(memory.NewStaticBankLoader(bank), time.Minute)
	return game.New(repo, presenter, cfg), presenter
}

func TestThresholdShortCircuitsRemainingQuestions(t *testing.T) {
	g, p := newTestGame(t, typeInBank(1, 15), game.Config{RequiredCorrect: 10, MaxLevel: 1})

	if err := g.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 10; i++ {
		if err := g.SubmitAnswer(p.current.CorrectAnswer); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	if !p.finalShown {
		t.Fatalf("expected final screen after reaching the threshold")
	}
	if p.finalCorrect != 10 || p.finalAnswered != 10 {
		t.Fatalf("expected 10/10 on the final screen, got %d/%d", p.finalCorrect, p.finalAnswered)
	}
	// Questions 11-15 must never have been presented.
	if p.rendered != 10 {
		t.Fatalf("expected exactly 10 rendered questions, got %d", p.rendered)
	}
}

func TestExhaustionWithoutThresholdEndsLevel(t *testing.T) {
	bank := append(typeInBank(1, 5), typeInBank(2, 1)...)
	g, p := newTestGame(t, bank, game.Config{RequiredCorrect: 10, MaxLevel: 2})

	if err := g.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	// Answer each level-1 question wrong once, then right, until the set runs out.
	for i := 0; i < 5; i++ {
		if err := g.SubmitAnswer("definitely wrong"); err != nil {
			t.Fatalf("wrong submit: %v", err)
		}
		if err := g.SubmitAnswer(p.current.CorrectAnswer); err != nil {
			t.Fatalf("correct submit: %v", err)
		}
	}

	if p.finalShown {
		t.Fatalf("final screen shown before the last level")
	}
	if p.currentLevel != 2 {
		t.Fatalf("expected play to proceed to level 2, got level %d", p.currentLevel)
	}
	board := g.Scoreboard()
	if board.TotalCorrect != 5 || board.TotalAnswered != 10 {
		t.Fatalf("expected 5/10, got %d/%d", board.TotalCorrect, board.TotalAnswered)
	}
}

func TestScoringMonotonicity(t *testing.T) {
	bank := domain.QuestionBank{{
		Level:         1,
		Type:          domain.MultipleChoice,
		Prompt:        "pick right",
		Choices:       []string{"right", "wrong"},
		CorrectAnswer: "right",
	}}
	g, _ := newTestGame(t, bank, game.Config{RequiredCorrect: 10, MaxLevel: 1})

	if err := g.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	prev := g.Scoreboard()
	steps := []string{"wrong", "", "wrong", "not-a-choice", "wrong"}
	for _, raw := range steps {
		if err := g.SubmitAnswer(raw); err != nil {
			t.Fatalf("submit %q: %v", raw, err)
		}
		board := g.Scoreboard()
		if board.TotalAnswered < prev.TotalAnswered || board.TotalCorrect < prev.TotalCorrect {
			t.Fatalf("counters decreased: %+v -> %+v", prev, board)
		}
		if board.TotalCorrect > board.TotalAnswered {
			t.Fatalf("totalCorrect %d exceeds totalAnswered %d", board.TotalCorrect, board.TotalAnswered)
		}
		prev = board
	}
	// Three valid wrong answers, two refusals.
	if prev.TotalAnswered != 3 || prev.TotalCorrect != 0 {
		t.Fatalf("expected 0/3, got %d/%d", prev.TotalCorrect, prev.TotalAnswered)
	}
}

func TestMissingInputLeavesStateUntouched(t *testing.T) {
	bank := domain.QuestionBank{
		{
			Level:         1,
			Type:          domain.MultipleChoice,
			Prompt:        "choose",
			Choices:       []string{"a", "b"},
			CorrectAnswer: "a",
		},
		{
			Level:         1,
			Type:          domain.TypeIn,
			Prompt:        "type",
			CorrectAnswer: "a",
		},
	}
	g, p := newTestGame(t, bank, game.Config{RequiredCorrect: 10, MaxLevel: 1})

	if err := g.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	first := p.current

	var blanks []string
	if first.Type == domain.MultipleChoice {
		blanks = []string{"", "c", ""}
	} else {
		blanks = []string{"", "   ", "\t"}
	}
	for _, raw := range blanks {
		if err := g.SubmitAnswer(raw); err != nil {
			t.Fatalf("refused submit returned error: %v", err)
		}
	}

	if p.missing != len(blanks) {
		t.Fatalf("expected %d missing-input cues, got %d", len(blanks), p.missing)
	}
	board := g.Scoreboard()
	if board.TotalAnswered != 0 || board.TotalCorrect != 0 {
		t.Fatalf("refused submissions touched counters: %+v", board)
	}
	if p.rendered != 1 || p.current.Prompt != first.Prompt {
		t.Fatalf("expected the same question to remain current")
	}
}

func TestConfiguredEndToEnd(t *testing.T) {
	g, p := newTestGame(t, typeInBank(1, 10), game.Config{RequiredCorrect: 3, MaxLevel: 1})

	if err := g.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := g.SubmitAnswer(p.current.CorrectAnswer); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	if !p.finalShown {
		t.Fatalf("expected game to end immediately after the 3rd correct answer")
	}
	if p.finalCorrect != 3 || p.finalAnswered != 3 {
		t.Fatalf("expected final 3/3, got %d/%d", p.finalCorrect, p.finalAnswered)
	}
	if !g.Finished() {
		t.Fatalf("expected finished game")
	}
}

func TestEmptyBankCascadesToFinalScreen(t *testing.T) {
	g, p := newTestGame(t, domain.QuestionBank{}, game.Config{RequiredCorrect: 10, MaxLevel: 10})

	if err := g.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	if !p.finalShown || p.finalCorrect != 0 || p.finalAnswered != 0 {
		t.Fatalf("expected an immediate 0/0 final screen, got shown=%v %d/%d",
			p.finalShown, p.finalCorrect, p.finalAnswered)
	}
	if p.rendered != 0 {
		t.Fatalf("no question should ever render on an empty bank, got %d", p.rendered)
	}
}

func TestBankLoadFailureDegradesToEmptyRun(t *testing.T) {
	presenter := &recordingPresenter{}
	repo := memory.NewBankRepository(memory.NewStaticBankLoader(nil), time.Minute)
	g := game.New(repo, presenter, game.Config{RequiredCorrect: 10, MaxLevel: 10, Rand: rand.New(rand.NewSource(1))})

	if err := g.Start(context.Background()); err != nil {
		t.Fatalf("start must not fail on a broken bank: %v", err)
	}
	if !presenter.finalShown || presenter.finalAnswered != 0 {
		t.Fatalf("expected degenerate 0-attempt completion, got %+v", presenter)
	}
}

func TestHintFallsBackWhenRecordHasNone(t *testing.T) {
	bank := domain.QuestionBank{{
		Level:         1,
		Type:          domain.TypeIn,
		Prompt:        "no hint here",
		CorrectAnswer: "x",
	}}
	g, p := newTestGame(t, bank, game.Config{RequiredCorrect: 10, MaxLevel: 1})

	if err := g.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := g.RequestHint(); err != nil {
		t.Fatalf("hint: %v", err)
	}

	if len(p.hints) != 1 || p.hints[0] != game.NoHintMessage {
		t.Fatalf("expected fallback hint, got %v", p.hints)
	}
	board := g.Scoreboard()
	if board.TotalAnswered != 0 {
		t.Fatalf("hint request must not touch counters: %+v", board)
	}
}

func TestRestartResetsTalliesWithoutRefetch(t *testing.T) {
	loader := &countingLoader{BankLoader: memory.NewStaticBankLoader(typeInBank(1, 3))}
	// Zero TTL forces the repository to consult the loader on every Start,
	// so the counter proves the game itself fetches only once.
	repo := memory.NewBankRepository(loader, 0)
	presenter := &recordingPresenter{}
	g := game.New(repo, presenter, game.Config{RequiredCorrect: 2, MaxLevel: 1, Rand: rand.New(rand.NewSource(1))})

	if err := g.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := g.SubmitAnswer(presenter.current.CorrectAnswer); err != nil {
		t.Fatalf("submit: %v", err)
	}

	g.Restart()
	if presenter.idleShown != 1 {
		t.Fatalf("expected idle title after restart")
	}
	board := g.Scoreboard()
	if board.TotalCorrect != 0 || board.TotalAnswered != 0 {
		t.Fatalf("restart must zero the tallies, got %+v", board)
	}

	if err := g.Start(context.Background()); err != nil {
		t.Fatalf("second start: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected a single bank fetch across restarts, got %d", loader.calls)
	}
}

func TestTypeInAnswersAreTrimmed(t *testing.T) {
	bank := domain.QuestionBank{{
		Level:         1,
		Type:          domain.TypeIn,
		Prompt:        "capital of France",
		CorrectAnswer: "Paris",
	}}
	g, p := newTestGame(t, bank, game.Config{RequiredCorrect: 10, MaxLevel: 1})

	if err := g.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := g.SubmitAnswer("  Paris \n"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if p.correct != 1 {
		t.Fatalf("expected trimmed answer to count as correct")
	}
}

func TestCallsOutsideAwaitingState(t *testing.T) {
	g, p := newTestGame(t, typeInBank(1, 2), game.Config{RequiredCorrect: 10, MaxLevel: 1})

	if err := g.SubmitAnswer("x"); err != domain.ErrNoActiveQuestion {
		t.Fatalf("expected ErrNoActiveQuestion before start, got %v", err)
	}
	if err := g.RequestHint(); err != domain.ErrNoActiveQuestion {
		t.Fatalf("expected ErrNoActiveQuestion before start, got %v", err)
	}

	if err := g.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if p.rendered != 1 {
		t.Fatalf("expected the first question rendered, got %d", p.rendered)
	}
	if err := g.Start(context.Background()); err != domain.ErrGameInProgress {
		t.Fatalf("expected ErrGameInProgress, got %v", err)
	}
}

func TestAttachPresenterReplaysCurrentPhase(t *testing.T) {
	g, first := newTestGame(t, typeInBank(1, 3), game.Config{RequiredCorrect: 3, MaxLevel: 1})

	// Idle game: a fresh presenter lands on the title.
	g.AttachPresenter(first)
	if first.idleShown != 1 || first.rendered != 0 {
		t.Fatalf("expected idle title for an idle game, got %+v", first)
	}

	if err := g.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := g.SubmitAnswer(first.current.CorrectAnswer); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Mid-level: the new presenter is shown the question in play, with the
	// tallies so far.
	resumed := &recordingPresenter{}
	g.AttachPresenter(resumed)
	if resumed.rendered != 1 || resumed.current.Prompt != first.current.Prompt {
		t.Fatalf("expected the in-play question replayed, got %+v", resumed)
	}
	if resumed.lastBoard.TotalCorrect != 1 || resumed.lastBoard.TotalAnswered != 1 {
		t.Fatalf("expected the 1/1 scoreboard replayed, got %+v", resumed.lastBoard)
	}
	if resumed.idleShown != 0 {
		t.Fatalf("idle title shown for a game in progress")
	}

	for !resumed.finalShown {
		if err := g.SubmitAnswer(resumed.current.CorrectAnswer); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	// Finished game: the new presenter gets the final screen.
	late := &recordingPresenter{}
	g.AttachPresenter(late)
	if !late.finalShown || late.finalCorrect != 3 || late.finalAnswered != 3 {
		t.Fatalf("expected the 3/3 final screen replayed, got %+v", late)
	}
}

type countingLoader struct {
	memory.BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context) (domain.QuestionBank, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx)
}
