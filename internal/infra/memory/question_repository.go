package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"live-trivia-service/internal/domain"
)

// QuestionLoader fetches question sets from a backing store (e.g., Postgres).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, setID string) ([]domain.RawQuestion, error)
}

// QuestionRepository caches question sets with TTL to avoid repeated DB hits.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedSet
}

type cachedSet struct {
	questions []domain.RawQuestion
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedSet),
	}
}

// Questions implements app.QuestionProvider.
func (r *QuestionRepository) Questions(ctx context.Context, setID string) ([]domain.RawQuestion, error) {
	if questions, ok := r.lookup(setID); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(setID, func() (interface{}, error) {
		if questions, ok := r.lookup(setID); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadQuestions(ctx, setID)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[setID] = cachedSet{
			questions: questions,
			expiresAt: r.clock().Add(r.ttlWithJitterLocked()),
		}
		r.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.RawQuestion), nil
}

func (r *QuestionRepository) lookup(setID string) ([]domain.RawQuestion, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[setID]; ok && entry.expiresAt.After(now) {
		return entry.questions, true
	}
	return nil, false
}

// ttlWithJitterLocked adds up to 10% jitter to spread expirations.
func (r *QuestionRepository) ttlWithJitterLocked() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticQuestionLoader is a loader backed by an in-memory map (useful for tests/demos).
type StaticQuestionLoader struct {
	sets map[string][]domain.RawQuestion
}

func NewStaticQuestionLoader(sets map[string][]domain.RawQuestion) *StaticQuestionLoader {
	return &StaticQuestionLoader{sets: sets}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context, setID string) ([]domain.RawQuestion, error) {
	if questions, ok := l.sets[setID]; ok {
		return questions, nil
	}
	return nil, domain.ErrQuestionSetNotFound
}
