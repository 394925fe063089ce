package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"archetype-quiz/internal/domain"
)

type ResultRepository interface {
	Save(ctx context.Context, result domain.QuizResult) error
	FindBySessionID(ctx context.Context, sessionID string) ([]domain.QuizResult, error)
}

type PgResultRepository struct {
	pool *pgxpool.Pool
}

func NewPgResultRepository(pool *pgxpool.Pool) *PgResultRepository {
	return &PgResultRepository{pool: pool}
}

func (r *PgResultRepository) Save(ctx context.Context, result domain.QuizResult) error {
	const query = `
		INSERT INTO quiz_results (id, session_id, top_archetype, scores, answered, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	scores, err := json.Marshal(result.Scores)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}

	_, err = r.pool.Exec(ctx, query,
		result.ID,
		result.SessionID,
		result.TopArchetype,
		scores,
		result.Answered,
		result.CreatedAt,
	)
	return err
}

func (r *PgResultRepository) FindBySessionID(ctx context.Context, sessionID string) ([]domain.QuizResult, error) {
	const query = `
		SELECT id, session_id, top_archetype, scores, answered, created_at
		FROM quiz_results
		WHERE session_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.QuizResult
	for rows.Next() {
		var res domain.QuizResult
		var scores []byte

		if err := rows.Scan(
			&res.ID,
			&res.SessionID,
			&res.TopArchetype,
			&scores,
			&res.Answered,
			&res.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(scores, &res.Scores); err != nil {
			return nil, fmt.Errorf("decode scores for result %s: %w", res.ID, err)
		}
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
