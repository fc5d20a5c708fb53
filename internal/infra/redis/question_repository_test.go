package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"live-trivia-service/internal/domain"
	"live-trivia-service/internal/infra/memory"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader(map[string][]domain.RawQuestion{
			"set-1": sampleQuestions(),
		}),
	}
	repo := NewQuestionRepository(client, loader, time.Minute)

	questions, err := repo.Questions(context.Background(), "set-1")
	if err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if len(questions) != 1 || questions[0].CorrectAnswer != "4" {
		t.Fatalf("unexpected questions %+v", questions)
	}
	if loader.Calls() != 1 {
		t.Fatalf("expected loader called once, got %d", loader.Calls())
	}
	if !mr.Exists("trivia:questions:set-1") {
		t.Fatalf("expected redis key to be set")
	}
	if ttl := mr.TTL("trivia:questions:set-1"); ttl < time.Minute || ttl > time.Minute+6*time.Second {
		t.Fatalf("expected ttl with jitter, got %v", ttl)
	}

	// Second call should hit cache, loader not incremented.
	cached, _ := repo.Questions(context.Background(), "set-1")
	if loader.Calls() != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.Calls())
	}
	if len(cached) != 1 || cached[0].Options[1] != "4" {
		t.Fatalf("unexpected cached questions %+v", cached)
	}

	if err := repo.Invalidate(context.Background(), "set-1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = repo.Questions(context.Background(), "set-1")
	if loader.Calls() != 2 {
		t.Fatalf("expected reload after invalidate, loader calls=%d", loader.Calls())
	}
}

func TestQuestionRepositoryCollapsesConcurrentMisses(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	release := make(chan struct{})
	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader(map[string][]domain.RawQuestion{
			"set-1": sampleQuestions(),
		}),
		gate: release,
	}
	repo := NewQuestionRepository(newClient(mr), loader, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Questions(context.Background(), "set-1"); err != nil {
				t.Errorf("get questions: %v", err)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if loader.Calls() != 1 {
		t.Fatalf("expected a single load, got %d", loader.Calls())
	}
}

func TestQuestionRepositoryPropagatesLoaderErrors(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := NewQuestionRepository(newClient(mr), memory.NewStaticQuestionLoader(nil), time.Minute)
	if _, err := repo.Questions(context.Background(), "missing"); !errors.Is(err, domain.ErrQuestionSetNotFound) {
		t.Fatalf("expected ErrQuestionSetNotFound, got %v", err)
	}
	if mr.Exists("trivia:questions:missing") {
		t.Fatalf("expected nothing cached for a failed load")
	}
}

type countingLoader struct {
	memory.QuestionLoader
	gate  chan struct{}
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context, setID string) ([]domain.RawQuestion, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	if l.gate != nil {
		<-l.gate
	}
	return l.QuestionLoader.LoadQuestions(ctx, setID)
}

func (l *countingLoader) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func sampleQuestions() []domain.RawQuestion {
	return []domain.RawQuestion{
		{
			ID:            "q1",
			Text:          "What is 2 + 2?",
			CorrectAnswer: "4",
			Options:       []string{"3", "4", "5"},
			Category:      "math",
			Difficulty:    "easy",
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
