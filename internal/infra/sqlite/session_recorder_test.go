package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"live-trivia-service/internal/domain"
)

func TestSessionRecorderUpserts(t *testing.T) {
	recorder, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer recorder.Close()

	ctx := context.Background()
	created := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	record := domain.SessionRecord{
		SessionID:     "ROOM01",
		QuestionSetID: "set-1",
		Status:        domain.StatusWaiting,
		QuestionCount: 10,
		CreatedAt:     created,
	}
	if err := recorder.SaveSession(ctx, record); err != nil {
		t.Fatalf("save waiting: %v", err)
	}

	record.Status = domain.StatusCompleted
	record.PlayerCount = 3
	record.StartedAt = created.Add(time.Minute)
	record.CompletedAt = created.Add(10 * time.Minute)
	record.Winner = "p2"
	if err := recorder.SaveSession(ctx, record); err != nil {
		t.Fatalf("save completed: %v", err)
	}

	got, err := recorder.Session(ctx, "ROOM01")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Status != domain.StatusCompleted || got.Winner != "p2" || got.PlayerCount != 3 {
		t.Fatalf("unexpected record %+v", got)
	}
	if !got.CreatedAt.Equal(created) || !got.CompletedAt.Equal(record.CompletedAt) {
		t.Fatalf("unexpected timestamps %+v", got)
	}
}

func TestSessionRecorderKeepsZeroTimes(t *testing.T) {
	recorder, err := Open(filepath.Join(t.TempDir(), "trivia.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer recorder.Close()

	ctx := context.Background()
	if err := recorder.SaveSession(ctx, domain.SessionRecord{
		SessionID: "ROOM02",
		Status:    domain.StatusWaiting,
		CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := recorder.Session(ctx, "ROOM02")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.StartedAt.IsZero() || !got.CompletedAt.IsZero() {
		t.Fatalf("expected zero start/completion, got %+v", got)
	}

	if _, err := recorder.Session(ctx, "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := recorder.SaveSession(ctx, domain.SessionRecord{}); err == nil {
		t.Fatalf("expected empty session id to be rejected")
	}
}
