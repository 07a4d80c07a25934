package postgres

import (
	"context"
	"fmt"
	"time"

	"trivia-quiz-bot/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// ScoreStore persists per-user scores in Postgres: one user_scores row per
// user plus an append-only attempts table.
type ScoreStore struct {
	pool *pgxpool.Pool
}

func NewScoreStore(pool *pgxpool.Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

// RecordAttempt upserts the score row and appends the attempt in one
// transaction so concurrent attempts by the same user cannot lose an
// increment.
func (s *ScoreStore) RecordAttempt(ctx context.Context, userID string, correct bool, at time.Time) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	inc := 0
	if correct {
		inc = 1
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO user_scores (user_id, score, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET score = user_scores.score + EXCLUDED.score`,
		userID, inc, at); err != nil {
		return fmt.Errorf("upsert score: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO attempts (user_id, is_correct, created_at) VALUES ($1, $2, $3)`,
		userID, correct, at); err != nil {
		return fmt.Errorf("append attempt: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *ScoreStore) TopScores(ctx context.Context, limit int) ([]domain.UserScoreRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, score, created_at FROM user_scores
		 ORDER BY score DESC, created_at ASC, user_id ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	defer rows.Close()

	var records []domain.UserScoreRecord
	for rows.Next() {
		var record domain.UserScoreRecord
		if err := rows.Scan(&record.UserID, &record.Score, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		attempts, err := s.attempts(ctx, records[i].UserID)
		if err != nil {
			return nil, err
		}
		records[i].Attempts = attempts
	}
	return records, nil
}

func (s *ScoreStore) attempts(ctx context.Context, userID string) ([]domain.Attempt, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT is_correct, created_at FROM attempts WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.Attempt
	for rows.Next() {
		var attempt domain.Attempt
		if err := rows.Scan(&attempt.Correct, &attempt.At); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}
	return attempts, rows.Err()
}
