// Package sqlite records session summaries in a local SQLite file for
// single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"live-trivia-service/internal/domain"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SessionRecorder persists session summaries in SQLite.
type SessionRecorder struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	if value == 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

// Open opens the SQLite file at path and applies the schema. The path
// ":memory:" opens a private in-memory database.
func Open(path string) (*SessionRecorder, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := ":memory:"
	if path != dsn {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// each connection would get its own database
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schemaSQL); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SessionRecorder{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (r *SessionRecorder) Close() error {
	if r == nil || r.sqlDB == nil {
		return nil
	}
	return r.sqlDB.Close()
}

// SaveSession implements app.SessionRepository.
func (r *SessionRecorder) SaveSession(ctx context.Context, record domain.SessionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(record.SessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	_, err := r.sqlDB.ExecContext(
		ctx,
		`INSERT INTO game_sessions (
		   id, question_set_id, status, player_count, question_count,
		   winner, created_at, started_at, completed_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status = excluded.status,
		   player_count = excluded.player_count,
		   winner = excluded.winner,
		   started_at = excluded.started_at,
		   completed_at = excluded.completed_at`,
		record.SessionID,
		record.QuestionSetID,
		string(record.Status),
		record.PlayerCount,
		record.QuestionCount,
		record.Winner,
		toMillis(record.CreatedAt),
		toMillis(record.StartedAt),
		toMillis(record.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", record.SessionID, err)
	}
	return nil
}

// Session loads one session summary.
func (r *SessionRecorder) Session(ctx context.Context, sessionID string) (domain.SessionRecord, error) {
	var (
		record                          domain.SessionRecord
		status                          string
		createdAt, startedAt, completed int64
	)
	err := r.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, question_set_id, status, player_count, question_count,
		        winner, created_at, started_at, completed_at
		 FROM game_sessions WHERE id = ?`,
		sessionID,
	).Scan(
		&record.SessionID,
		&record.QuestionSetID,
		&status,
		&record.PlayerCount,
		&record.QuestionCount,
		&record.Winner,
		&createdAt,
		&startedAt,
		&completed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SessionRecord{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.SessionRecord{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	record.Status = domain.Status(status)
	record.CreatedAt = fromMillis(createdAt)
	record.StartedAt = fromMillis(startedAt)
	record.CompletedAt = fromMillis(completed)
	return record, nil
}
