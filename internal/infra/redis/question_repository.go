package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"live-trivia-service/internal/domain"
)

// QuestionLoader fetches question sets from a backing store (e.g., Postgres).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, setID string) ([]domain.RawQuestion, error)
}

// QuestionRepository caches question sets in Redis and falls back to a loader on cache miss.
// Sets are stored as JSON: SET trivia:questions:{setID} [...]
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Questions implements app.QuestionProvider.
func (r *QuestionRepository) Questions(ctx context.Context, setID string) ([]domain.RawQuestion, error) {
	if questions, ok := r.cached(ctx, setID); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(setID, func() (interface{}, error) {
		// Re-check cache in case another caller filled it.
		if questions, ok := r.cached(ctx, setID); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadQuestions(ctx, setID)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(questions)
		if err != nil {
			return nil, err
		}
		if err := r.client.Set(ctx, r.key(setID), data, r.ttlWithJitter()).Err(); err != nil {
			log.Printf("question set %s: cache write: %v", setID, err)
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.RawQuestion), nil
}

// Invalidate drops a cached set so the next read goes to the loader.
func (r *QuestionRepository) Invalidate(ctx context.Context, setID string) error {
	return r.client.Del(ctx, r.key(setID)).Err()
}

func (r *QuestionRepository) cached(ctx context.Context, setID string) ([]domain.RawQuestion, bool) {
	data, err := r.client.Get(ctx, r.key(setID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("question set %s: cache read: %v", setID, err)
		}
		return nil, false
	}
	var questions []domain.RawQuestion
	if err := json.Unmarshal(data, &questions); err != nil {
		log.Printf("question set %s: corrupt cache entry: %v", setID, err)
		return nil, false
	}
	return questions, true
}

func (r *QuestionRepository) key(setID string) string {
	return "trivia:questions:" + setID
}

// ttlWithJitter adds up to 10% jitter to spread expirations.
func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
