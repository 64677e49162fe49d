package redis

import (
	"context"
	"sync"
	"time"

	"level-quiz-game/internal/game"
	"github.com/redis/go-redis/v9"
)

// GameStore is a Redis-aware implementation of game.Store.
// Notes:
//   - Games themselves stay in a local in-memory map; the state machine is an
//     in-process object driven synchronously by its connection.
//   - Redis marks per-player liveness (and could be extended to share
//     play-through snapshots across instances).
type GameStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	games  map[string]*game.Game
}

func NewGameStore(client *redis.Client, ttl time.Duration) *GameStore {
	return &GameStore{
		client: client,
		ttl:    ttl,
		games:  make(map[string]*game.Game),
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
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(playerID), "1", s.ttl).Err()
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
		_ = s.client.Del(context.Background(), s.key(playerID)).Err()
	}
}

func (s *GameStore) key(playerID string) string {
	return "quiz:game:" + playerID
}
