package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"live-trivia-service/internal/domain"
)

// gameSession is the bun model behind the game_sessions table.
type gameSession struct {
	bun.BaseModel `bun:"table:game_sessions,alias:gs"`

	ID            string     `bun:"id,pk"`
	QuestionSetID string     `bun:"question_set_id,nullzero"`
	Status        string     `bun:"status,notnull"`
	PlayerCount   int        `bun:"player_count,notnull"`
	QuestionCount int        `bun:"question_count,notnull"`
	Winner        string     `bun:"winner,nullzero"`
	CreatedAt     time.Time  `bun:"created_at,notnull"`
	StartedAt     *time.Time `bun:"started_at"`
	CompletedAt   *time.Time `bun:"completed_at"`
}

// SessionRecorder upserts session summaries with bun.
type SessionRecorder struct {
	db *bun.DB
}

func NewSessionRecorder(db *bun.DB) *SessionRecorder {
	return &SessionRecorder{db: db}
}

// SaveSession implements app.SessionRepository.
func (r *SessionRecorder) SaveSession(ctx context.Context, record domain.SessionRecord) error {
	row := &gameSession{
		ID:            record.SessionID,
		QuestionSetID: record.QuestionSetID,
		Status:        string(record.Status),
		PlayerCount:   record.PlayerCount,
		QuestionCount: record.QuestionCount,
		Winner:        record.Winner,
		CreatedAt:     record.CreatedAt.UTC(),
		StartedAt:     optionalTime(record.StartedAt),
		CompletedAt:   optionalTime(record.CompletedAt),
	}
	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("status = EXCLUDED.status").
		Set("player_count = EXCLUDED.player_count").
		Set("winner = EXCLUDED.winner").
		Set("started_at = EXCLUDED.started_at").
		Set("completed_at = EXCLUDED.completed_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("save session %s: %w", record.SessionID, err)
	}
	return nil
}

// Session loads one session summary.
func (r *SessionRecorder) Session(ctx context.Context, sessionID string) (domain.SessionRecord, error) {
	row := new(gameSession)
	if err := r.db.NewSelect().Model(row).Where("id = ?", sessionID).Scan(ctx); err != nil {
		return domain.SessionRecord{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	record := domain.SessionRecord{
		SessionID:     row.ID,
		QuestionSetID: row.QuestionSetID,
		Status:        domain.Status(row.Status),
		PlayerCount:   row.PlayerCount,
		QuestionCount: row.QuestionCount,
		Winner:        row.Winner,
		CreatedAt:     row.CreatedAt,
	}
	if row.StartedAt != nil {
		record.StartedAt = *row.StartedAt
	}
	if row.CompletedAt != nil {
		record.CompletedAt = *row.CompletedAt
	}
	return record, nil
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	utc := t.UTC()
	return &utc
}
