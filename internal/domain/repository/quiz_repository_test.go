package repository

import (
	"context"
	"testing"
	"time"

	"quizhub/internal/common"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuizRepoFixture(t *testing.T) (QuizRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPgQuizRepository(db), mock
}

func quizRowColumns() []string {
	return []string{"id", "slug", "title", "description", "user_id", "start_time_ms", "end_time_ms", "selected_questions", "created_at"}
}

func TestFindQuizByIDDecodesSelectedQuestions(t *testing.T) {
	repo, mock := newQuizRepoFixture(t)

	rows := sqlmock.NewRows(quizRowColumns()).
		AddRow("quiz-1", "daily-drill-quiz1", "Daily Drill", "", "user-7", int64(1000), int64(601000), []byte(`["q1","q2","q3"]`), time.Now())
	mock.ExpectQuery("SELECT id, slug, title, description, user_id, start_time_ms, end_time_ms, selected_questions, created_at").
		WithArgs("quiz-1").
		WillReturnRows(rows)

	quiz, err := repo.FindQuizByID(context.Background(), "quiz-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"q1", "q2", "q3"}, quiz.SelectedQuestions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindQuizByIDCorruptSelectedQuestionsIsIntegrityError(t *testing.T) {
	repo, mock := newQuizRepoFixture(t)

	rows := sqlmock.NewRows(quizRowColumns()).
		AddRow("quiz-1", "daily-drill-quiz1", "Daily Drill", "", "user-7", int64(1000), int64(601000), []byte(`{"not":"an array`), time.Now())
	mock.ExpectQuery("SELECT id, slug, title, description, user_id, start_time_ms, end_time_ms, selected_questions, created_at").
		WithArgs("quiz-1").
		WillReturnRows(rows)

	quiz, err := repo.FindQuizByID(context.Background(), "quiz-1")
	assert.Nil(t, quiz)
	assert.ErrorIs(t, err, common.ErrDataIntegrity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindQuizByIDUnknownIDIsNotFound(t *testing.T) {
	repo, mock := newQuizRepoFixture(t)

	mock.ExpectQuery("SELECT id, slug, title, description, user_id, start_time_ms, end_time_ms, selected_questions, created_at").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(quizRowColumns()))

	quiz, err := repo.FindQuizByID(context.Background(), "missing")
	assert.Nil(t, quiz)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
