package redis

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"live-trivia-service/internal/app"
	"live-trivia-service/internal/domain"
)

// SessionStore is a Redis-aware implementation of app.Registry.
// Notes:
//   - Games live in a local map; each game serializes its own mutations.
//   - Redis holds a liveness marker per session so room codes stay unique
//     across instances sharing the same Redis.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Game
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Game),
	}
}

func (s *SessionStore) Create(sessionID string, questions []domain.Question) *app.Game {
	game := app.NewGame(sessionID, questions)
	s.mu.Lock()
	s.sessions[sessionID] = game
	s.mu.Unlock()
	// best-effort liveness marker
	if err := s.client.Set(context.Background(), s.key(sessionID), "1", s.ttl).Err(); err != nil {
		log.Printf("session %s: set liveness marker: %v", sessionID, err)
	}
	return game
}

func (s *SessionStore) Get(sessionID string) (*app.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.sessions[sessionID]
	return game, ok
}

func (s *SessionStore) Remove(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	if err := s.client.Del(context.Background(), s.key(sessionID)).Err(); err != nil {
		log.Printf("session %s: clear liveness marker: %v", sessionID, err)
	}
}

// Live reports whether a session id is in use here or on another instance.
func (s *SessionStore) Live(ctx context.Context, sessionID string) (bool, error) {
	if _, ok := s.Get(sessionID); ok {
		return true, nil
	}
	n, err := s.client.Exists(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SessionStore) key(sessionID string) string {
	return "trivia:session:" + sessionID
}
