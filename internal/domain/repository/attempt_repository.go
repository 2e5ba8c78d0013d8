package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"quizhub/internal/common"
	"quizhub/internal/domain/model"
)

type AttemptRepository interface {
	// CreateAttempt appends one attempt row. Attempts are never updated or
	// deleted; duplicates for the same quiz are intentional.
	CreateAttempt(ctx context.Context, attempt *model.QuizAttempt) error
	// FindLatestAttempt returns the user's most recent attempt for the quiz,
	// ordered by the submitter-reported start time.
	FindLatestAttempt(ctx context.Context, quizID, userID string) (*model.QuizAttempt, error)
}

type pgAttemptRepository struct {
	db *sql.DB
}

func NewPgAttemptRepository(db *sql.DB) AttemptRepository {
	return &pgAttemptRepository{db: db}
}

func (r *pgAttemptRepository) CreateAttempt(ctx context.Context, attempt *model.QuizAttempt) error {
	answersJSON, err := json.Marshal(attempt.Answers)
	if err != nil {
		return fmt.Errorf("pgAttemptRepository.CreateAttempt marshal answers: %w", err)
	}

	query := `INSERT INTO quiz_attempts (id, quiz_id, user_id, start_time_ms, end_time_ms, answers, score)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.db.ExecContext(ctx, query, attempt.ID, attempt.QuizID, attempt.UserID, attempt.StartTimeMs, attempt.EndTimeMs, answersJSON, attempt.Score)
	if err != nil {
		return fmt.Errorf("pgAttemptRepository.CreateAttempt: %w", err)
	}
	return nil
}

func (r *pgAttemptRepository) FindLatestAttempt(ctx context.Context, quizID, userID string) (*model.QuizAttempt, error) {
	query := `SELECT id, quiz_id, user_id, start_time_ms, end_time_ms, answers, score, created_at
	          FROM quiz_attempts
	          WHERE quiz_id = $1 AND user_id = $2
	          ORDER BY start_time_ms DESC
	          LIMIT 1`

	attempt := &model.QuizAttempt{}
	var answersJSON []byte
	err := r.db.QueryRowContext(ctx, query, quizID, userID).Scan(
		&attempt.ID, &attempt.QuizID, &attempt.UserID,
		&attempt.StartTimeMs, &attempt.EndTimeMs, &answersJSON, &attempt.Score, &attempt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgAttemptRepository.FindLatestAttempt: %w", err)
	}

	if err := json.Unmarshal(answersJSON, &attempt.Answers); err != nil {
		return nil, fmt.Errorf("pgAttemptRepository.FindLatestAttempt decode answers for attempt %s: %w", attempt.ID, common.ErrDataIntegrity)
	}
	return attempt, nil
}
