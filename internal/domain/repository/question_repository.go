package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"quizhub/internal/domain/model"
)

type QuestionRepository interface {
	InsertQuestions(ctx context.Context, questions []model.Question) error
	// SampleIDs draws n distinct question ids uniformly from the whole pool.
	SampleIDs(ctx context.Context, tx *sql.Tx, n int) ([]string, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Question, error)
}

type pgQuestionRepository struct {
	db *sql.DB
}

func NewPgQuestionRepository(db *sql.DB) QuestionRepository {
	return &pgQuestionRepository{db: db}
}

func (r *pgQuestionRepository) InsertQuestions(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	stmt, err := r.db.PrepareContext(ctx, `INSERT INTO questions (id, question_text, options, correct_answer) VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return fmt.Errorf("pgQuestionRepository.InsertQuestions prepare: %w", err)
	}
	defer stmt.Close()

	for _, q := range questions {
		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("pgQuestionRepository.InsertQuestions marshal options for %s: %w", q.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, q.ID, q.QuestionText, optionsJSON, q.CorrectAnswer); err != nil {
			return fmt.Errorf("pgQuestionRepository.InsertQuestions exec for %s: %w", q.ID, err)
		}
	}
	return nil
}

func (r *pgQuestionRepository) SampleIDs(ctx context.Context, tx *sql.Tx, n int) ([]string, error) {
	// Uniform without-replacement sample over the full current pool,
	// independent of id numbering.
	query := `SELECT id FROM questions ORDER BY random() LIMIT $1`

	var rows *sql.Rows
	var err error
	if tx != nil {
		rows, err = tx.QueryContext(ctx, query, n)
	} else {
		rows, err = r.db.QueryContext(ctx, query, n)
	}
	if err != nil {
		return nil, fmt.Errorf("pgQuestionRepository.SampleIDs query: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("pgQuestionRepository.SampleIDs scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgQuestionRepository.SampleIDs rows.Err: %w", err)
	}
	return ids, nil
}

func (r *pgQuestionRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Question, error) {
	if len(ids) == 0 {
		return []model.Question{}, nil
	}
	// Placeholders like ($1, $2, ...); result order follows the store, not
	// the input list.
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(
		`SELECT id, question_text, options, correct_answer FROM questions WHERE id IN (%s)`,
		strings.Join(placeholders, ","))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgQuestionRepository.FindByIDs query: %w", err)
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var optionsJSON []byte
		if err := rows.Scan(&q.ID, &q.QuestionText, &optionsJSON, &q.CorrectAnswer); err != nil {
			return nil, fmt.Errorf("pgQuestionRepository.FindByIDs scan: %w", err)
		}
		if err := json.Unmarshal(optionsJSON, &q.Options); err != nil {
			return nil, fmt.Errorf("pgQuestionRepository.FindByIDs unmarshal options for %s: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgQuestionRepository.FindByIDs rows.Err: %w", err)
	}
	return questions, nil
}
