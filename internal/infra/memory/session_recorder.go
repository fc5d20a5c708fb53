package memory

import (
	"context"
	"sync"

	"live-trivia-service/internal/domain"
)

// SessionRecorder keeps the latest record per session in memory.
type SessionRecorder struct {
	mu      sync.RWMutex
	records map[string]domain.SessionRecord
}

func NewSessionRecorder() *SessionRecorder {
	return &SessionRecorder{records: make(map[string]domain.SessionRecord)}
}

func (r *SessionRecorder) SaveSession(_ context.Context, record domain.SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.SessionID] = record
	return nil
}

// Session returns the latest record saved for sessionID.
func (r *SessionRecorder) Session(sessionID string) (domain.SessionRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[sessionID]
	return record, ok
}
