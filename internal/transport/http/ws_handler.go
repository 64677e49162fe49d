package http

import (
	"encoding/json"
	"log"
	"net/http"

	"level-quiz-game/internal/domain"
	"level-quiz-game/internal/game"
	"github.com/gorilla/websocket"
)

// Message types exchanged over the socket.
const (
	typeStart    = "start"
	typeHint     = "hint"
	typeAnswer   = "answer"
	typeRestart  = "restart"
	typeQuestion = "question"
	typeFeedback = "feedback"
	typeFinal    = "finalScore"
	typeIdle     = "idle"
	typeError    = "error"
)

// Feedback statuses.
const (
	statusCorrect      = "correct"
	statusIncorrect    = "incorrect"
	statusMissingInput = "missingInput"
)

// WSHandler is the Presentation adapter: it turns inbound socket messages
// into game calls and game directives into outbound socket events.
type WSHandler struct {
	store    game.Store
	bank     game.BankRepository
	gameCfg  game.Config
	upgrader websocket.Upgrader
}

func NewWSHandler(store game.Store, bank game.BankRepository, cfg game.Config) *WSHandler {
	return &WSHandler{
		store:   store,
		bank:    bank,
		gameCfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type questionPayload struct {
	Level      int                 `json:"level"`
	Prompt     string              `json:"question"`
	Type       domain.QuestionType `json:"questionType"`
	Choices    []string            `json:"choices,omitempty"`
	Scoreboard domain.Scoreboard   `json:"scoreboard"`
}

type hintPayload struct {
	Text string `json:"text"`
}

type feedbackPayload struct {
	Status     string             `json:"status"`
	Scoreboard *domain.Scoreboard `json:"scoreboard,omitempty"`
}

type finalScorePayload struct {
	TotalCorrect  int `json:"totalCorrect"`
	TotalAnswered int `json:"totalAnswered"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into a
// per-player game. The read loop is the single goroutine driving the game,
// so the presenter writes to the socket directly.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "missing playerId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	presenter := &wsPresenter{conn: conn}
	g := h.store.GetOrCreate(playerID, func() *game.Game {
		return game.New(h.bank, presenter, h.gameCfg)
	})
	// Rebind the socket; AttachPresenter replays the current phase, so a
	// fresh game opens on the idle title and a resumed one on its question.
	g.AttachPresenter(presenter)
	defer h.store.DeleteIfFinished(playerID)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case typeStart:
			if err := g.Start(r.Context()); err != nil {
				presenter.sendError(err.Error())
			}
		case typeHint:
			if err := g.RequestHint(); err != nil {
				presenter.sendError(err.Error())
			}
		case typeAnswer:
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				presenter.sendError("invalid answer payload")
				continue
			}
			if err := g.SubmitAnswer(payload.Answer); err != nil {
				presenter.sendError(err.Error())
			}
		case typeRestart:
			g.Restart()
		default:
			presenter.sendError("unsupported message type")
		}
	}
}

// wsPresenter maps game.Presenter directives onto outbound socket events.
// All calls happen on the connection's read-loop goroutine.
type wsPresenter struct {
	conn *websocket.Conn
}

func (p *wsPresenter) RenderQuestion(level int, record domain.QuestionRecord, board domain.Scoreboard) {
	// The correct answer never crosses the wire.
	p.send(outboundMessage[questionPayload]{Type: typeQuestion, Payload: questionPayload{
		Level:      level,
		Prompt:     record.Prompt,
		Type:       record.Type,
		Choices:    record.Choices,
		Scoreboard: board,
	}})
}

func (p *wsPresenter) ShowHint(text string) {
	p.send(outboundMessage[hintPayload]{Type: typeHint, Payload: hintPayload{Text: text}})
}

func (p *wsPresenter) FeedbackCorrect(board domain.Scoreboard) {
	p.send(outboundMessage[feedbackPayload]{Type: typeFeedback, Payload: feedbackPayload{Status: statusCorrect, Scoreboard: &board}})
}

func (p *wsPresenter) FeedbackIncorrect(board domain.Scoreboard) {
	p.send(outboundMessage[feedbackPayload]{Type: typeFeedback, Payload: feedbackPayload{Status: statusIncorrect, Scoreboard: &board}})
}

func (p *wsPresenter) FeedbackMissingInput() {
	p.send(outboundMessage[feedbackPayload]{Type: typeFeedback, Payload: feedbackPayload{Status: statusMissingInput}})
}

func (p *wsPresenter) ShowFinalScreen(totalCorrect, totalAnswered int) {
	p.send(outboundMessage[finalScorePayload]{Type: typeFinal, Payload: finalScorePayload{
		TotalCorrect:  totalCorrect,
		TotalAnswered: totalAnswered,
	}})
}

func (p *wsPresenter) ShowIdleTitle() {
	p.send(outboundMessage[struct{}]{Type: typeIdle})
}

func (p *wsPresenter) sendError(message string) {
	p.send(outboundMessage[errorPayload]{Type: typeError, Payload: errorPayload{Message: message}})
}

func (p *wsPresenter) send(msg any) {
	if err := p.conn.WriteJSON(msg); err != nil {
		log.Printf("ws write error: %v", err)
	}
}
