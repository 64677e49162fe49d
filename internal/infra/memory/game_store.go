package memory

import (
	"sync"

	"level-quiz-game/internal/game"
)

// GameStore is an in-memory implementation of game.Store.
type GameStore struct {
	mu    sync.RWMutex
	games map[string]*game.Game
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[string]*game.Game),
	}
}

func (s *GameStore) GetOrCreate(playerID string, create func() *game.Game) *game.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.games[playerID]; ok {
		return g
	}
	g := create()
	s.games[playerID] = g
	return g
}

func (s *GameStore) Get(playerID string) (*game.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[playerID]
	return g, ok
}

func (s *GameStore) DeleteIfFinished(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[playerID]
	if !ok {
		return
	}
	if g.Finished() {
		delete(s.games, playerID)
	}
}
