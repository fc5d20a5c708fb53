package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"live-trivia-service/internal/domain"
)

// QuestionLoader loads question set JSONB from Postgres.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context, setID string) ([]domain.RawQuestion, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT questions FROM question_sets WHERE id=$1`, setID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrQuestionSetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load question set: %w", err)
	}
	var questions []domain.RawQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal question set: %w", err)
	}
	return questions, nil
}

// SaveQuestionSet inserts or replaces a question set.
func (l *QuestionLoader) SaveQuestionSet(ctx context.Context, setID, title string, questions []domain.RawQuestion) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("marshal question set: %w", err)
	}
	_, err = l.pool.Exec(ctx, `INSERT INTO question_sets (id, title, questions) VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, questions=EXCLUDED.questions, updated_at=now()`,
		setID, title, string(data))
	if err != nil {
		return fmt.Errorf("save question set: %w", err)
	}
	return nil
}
