package memory

import (
	"sync"

	"live-trivia-service/internal/app"
	"live-trivia-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.Registry. The map lock
// only guards membership; each game serializes its own mutations.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Game
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Game),
	}
}

func (s *SessionStore) Create(sessionID string, questions []domain.Question) *app.Game {
	game := app.NewGame(sessionID, questions)
	s.mu.Lock()
	s.sessions[sessionID] = game
	s.mu.Unlock()
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
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len reports how many sessions are live.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
