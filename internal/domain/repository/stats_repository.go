package repository

import (
	"context"
	"database/sql"
	"fmt"
)

type StatsRepository interface {
	// RecordAttempt folds one scored attempt into the user's aggregate row.
	RecordAttempt(ctx context.Context, userID string, percentage int) error
}

type pgStatsRepository struct {
	db *sql.DB
}

func NewPgStatsRepository(db *sql.DB) StatsRepository {
	return &pgStatsRepository{db: db}
}

func (r *pgStatsRepository) RecordAttempt(ctx context.Context, userID string, percentage int) error {
	query := `INSERT INTO user_stats (user_id, attempts_recorded, best_percentage)
	          VALUES ($1, 1, $2)
	          ON CONFLICT (user_id) DO UPDATE SET
	              attempts_recorded = user_stats.attempts_recorded + 1,
	              best_percentage   = GREATEST(user_stats.best_percentage, EXCLUDED.best_percentage),
	              updated_at        = CURRENT_TIMESTAMP`
	if _, err := r.db.ExecContext(ctx, query, userID, percentage); err != nil {
		return fmt.Errorf("pgStatsRepository.RecordAttempt: %w", err)
	}
	return nil
}
