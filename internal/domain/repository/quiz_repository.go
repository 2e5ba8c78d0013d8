package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"quizhub/internal/common"
	"quizhub/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type QuizRepository interface {
	CreateQuiz(ctx context.Context, tx *sql.Tx, quiz *model.Quiz) error
	FindQuizByID(ctx context.Context, id string) (*model.Quiz, error)
	ListQuizzesByUser(ctx context.Context, userID string) ([]model.QuizSummary, error)
}

type pgQuizRepository struct {
	db *sql.DB
}

func NewPgQuizRepository(db *sql.DB) QuizRepository {
	return &pgQuizRepository{db: db}
}

func (r *pgQuizRepository) CreateQuiz(ctx context.Context, tx *sql.Tx, quiz *model.Quiz) error {
	// Strict round-trip serialization: the id list is validated here at write
	// time so a read-side parse failure can only mean real corruption.
	selectedJSON, err := json.Marshal(quiz.SelectedQuestions)
	if err != nil {
		return fmt.Errorf("pgQuizRepository.CreateQuiz marshal selected_questions: %w", err)
	}

	query := `INSERT INTO quizzes (id, slug, title, description, user_id, start_time_ms, end_time_ms, selected_questions)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if tx != nil {
		_, err = tx.ExecContext(ctx, query, quiz.ID, quiz.Slug, quiz.Title, quiz.Description, quiz.UserID, quiz.StartTimeMs, quiz.EndTimeMs, selectedJSON)
	} else {
		_, err = r.db.ExecContext(ctx, query, quiz.ID, quiz.Slug, quiz.Title, quiz.Description, quiz.UserID, quiz.StartTimeMs, quiz.EndTimeMs, selectedJSON)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for slug
			return fmt.Errorf("quiz with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgQuizRepository.CreateQuiz: %w", err)
	}
	return nil
}

func (r *pgQuizRepository) FindQuizByID(ctx context.Context, id string) (*model.Quiz, error) {
	query := `SELECT id, slug, title, description, user_id, start_time_ms, end_time_ms, selected_questions, created_at
	          FROM quizzes WHERE id = $1`

	quiz := &model.Quiz{}
	var selectedJSON []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&quiz.ID, &quiz.Slug, &quiz.Title, &quiz.Description, &quiz.UserID,
		&quiz.StartTimeMs, &quiz.EndTimeMs, &selectedJSON, &quiz.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgQuizRepository.FindQuizByID: %w", err)
	}

	// A selected_questions value that does not decode is a fatal integrity
	// error, never an empty-list fallback.
	if err := json.Unmarshal(selectedJSON, &quiz.SelectedQuestions); err != nil {
		return nil, fmt.Errorf("pgQuizRepository.FindQuizByID decode selected_questions for quiz %s: %w", id, common.ErrDataIntegrity)
	}
	return quiz, nil
}

func (r *pgQuizRepository) ListQuizzesByUser(ctx context.Context, userID string) ([]model.QuizSummary, error) {
	query := `
        SELECT q.id, q.slug, q.title, q.description, q.start_time_ms, q.end_time_ms,
               jsonb_array_length(q.selected_questions) AS question_count,
               MAX(qa.score) AS score
        FROM quizzes q
        LEFT JOIN quiz_attempts qa ON q.id = qa.quiz_id
        WHERE q.user_id = $1
        GROUP BY q.id, q.slug, q.title, q.description, q.start_time_ms, q.end_time_ms, q.selected_questions
        ORDER BY q.start_time_ms DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgQuizRepository.ListQuizzesByUser query: %w", err)
	}
	defer rows.Close()

	summaries := []model.QuizSummary{}
	for rows.Next() {
		var s model.QuizSummary
		if err := rows.Scan(&s.ID, &s.Slug, &s.Title, &s.Description, &s.StartTimeMs, &s.EndTimeMs, &s.QuestionCount, &s.BestScore); err != nil {
			return nil, fmt.Errorf("pgQuizRepository.ListQuizzesByUser scan: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgQuizRepository.ListQuizzesByUser rows.Err: %w", err)
	}
	return summaries, nil
}
