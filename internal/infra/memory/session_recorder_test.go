package memory

import (
	"context"
	"testing"

	"live-trivia-service/internal/domain"
)

func TestSessionRecorderKeepsLatest(t *testing.T) {
	recorder := NewSessionRecorder()
	ctx := context.Background()

	_ = recorder.SaveSession(ctx, domain.SessionRecord{SessionID: "room-1", Status: domain.StatusWaiting})
	_ = recorder.SaveSession(ctx, domain.SessionRecord{SessionID: "room-1", Status: domain.StatusCompleted, Winner: "p1"})

	record, ok := recorder.Session("room-1")
	if !ok {
		t.Fatalf("expected record")
	}
	if record.Status != domain.StatusCompleted || record.Winner != "p1" {
		t.Fatalf("expected latest record, got %+v", record)
	}
	if _, ok := recorder.Session("room-2"); ok {
		t.Fatalf("expected no record for unknown session")
	}
}
