package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"live-trivia-service/internal/domain"
)

func TestQuestionRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(map[string][]domain.RawQuestion{
			"set-1": sampleQuestions(),
		}),
	}
	repo := NewQuestionRepository(loader, time.Minute)

	if _, err := repo.Questions(context.Background(), "set-1"); err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if loader.Calls() != 1 {
		t.Fatalf("expected loader once, got %d", loader.Calls())
	}

	questions, err := repo.Questions(context.Background(), "set-1")
	if err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if loader.Calls() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.Calls())
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
}

func TestQuestionRepositoryExpires(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(map[string][]domain.RawQuestion{
			"set-1": sampleQuestions(),
		}),
	}
	repo := NewQuestionRepository(loader, time.Minute)
	now := time.Now()
	repo.clock = func() time.Time { return now }

	_, _ = repo.Questions(context.Background(), "set-1")
	now = now.Add(2 * time.Minute)
	_, _ = repo.Questions(context.Background(), "set-1")
	if loader.Calls() != 2 {
		t.Fatalf("expected reload after expiry, got %d calls", loader.Calls())
	}
}

func TestQuestionRepositoryUnknownSet(t *testing.T) {
	repo := NewQuestionRepository(NewStaticQuestionLoader(nil), time.Minute)
	if _, err := repo.Questions(context.Background(), "missing"); !errors.Is(err, domain.ErrQuestionSetNotFound) {
		t.Fatalf("expected ErrQuestionSetNotFound, got %v", err)
	}
}

type countingLoader struct {
	QuestionLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context, setID string) ([]domain.RawQuestion, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.QuestionLoader.LoadQuestions(ctx, setID)
}

func (l *countingLoader) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func sampleQuestions() []domain.RawQuestion {
	return []domain.RawQuestion{
		{ID: "q1", Text: "What is 2 + 2?", CorrectAnswer: "4", Options: []string{"3", "4", "5"}, Difficulty: "easy"},
		{ID: "q2", Text: "Largest planet?", CorrectAnswer: "Jupiter", Options: []string{"Mars", "Jupiter", "Venus"}, Difficulty: "easy"},
	}
}
