package service

import (
	"context"
	"database/sql"
	"sort"

	"quizhub/internal/common"
	"quizhub/internal/domain/model"
)

type fakeUserRepo struct {
	usersByID map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{usersByID: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range f.usersByID {
		if u.Username == user.Username {
			return common.ErrConflict
		}
	}
	copied := *user
	f.usersByID[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.usersByID {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.usersByID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

type fakeQuestionRepo struct {
	pool []model.Question

	insertCalls int
	sampleCalls int
}

func (f *fakeQuestionRepo) InsertQuestions(_ context.Context, questions []model.Question) error {
	f.insertCalls++
	f.pool = append(f.pool, questions...)
	return nil
}

func (f *fakeQuestionRepo) SampleIDs(_ context.Context, _ *sql.Tx, n int) ([]string, error) {
	f.sampleCalls++
	ids := make([]string, 0, n)
	for _, q := range f.pool {
		if len(ids) == n {
			break
		}
		ids = append(ids, q.ID)
	}
	return ids, nil
}

func (f *fakeQuestionRepo) FindByIDs(_ context.Context, ids []string) ([]model.Question, error) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []model.Question
	for _, q := range f.pool {
		if wanted[q.ID] {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeQuizRepo struct {
	quizzesByID map[string]*model.Quiz
	summaries   map[string][]model.QuizSummary

	createCalls int
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{
		quizzesByID: make(map[string]*model.Quiz),
		summaries:   make(map[string][]model.QuizSummary),
	}
}

func (f *fakeQuizRepo) CreateQuiz(_ context.Context, _ *sql.Tx, quiz *model.Quiz) error {
	f.createCalls++
	copied := *quiz
	f.quizzesByID[quiz.ID] = &copied
	return nil
}

func (f *fakeQuizRepo) FindQuizByID(_ context.Context, id string) (*model.Quiz, error) {
	q, ok := f.quizzesByID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *q
	return &copied, nil
}

func (f *fakeQuizRepo) ListQuizzesByUser(_ context.Context, userID string) ([]model.QuizSummary, error) {
	return f.summaries[userID], nil
}

type fakeAttemptRepo struct {
	attempts []model.QuizAttempt
}

func (f *fakeAttemptRepo) CreateAttempt(_ context.Context, attempt *model.QuizAttempt) error {
	f.attempts = append(f.attempts, *attempt)
	return nil
}

func (f *fakeAttemptRepo) FindLatestAttempt(_ context.Context, quizID, userID string) (*model.QuizAttempt, error) {
	var matching []model.QuizAttempt
	for _, a := range f.attempts {
		if a.QuizID == quizID && a.UserID == userID {
			matching = append(matching, a)
		}
	}
	if len(matching) == 0 {
		return nil, common.ErrNotFound
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].StartTimeMs > matching[j].StartTimeMs
	})
	latest := matching[0]
	return &latest, nil
}

type fakePublisher struct {
	published  []any
	publishErr error
}

func (f *fakePublisher) Publish(_ context.Context, payload any) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, payload)
	return nil
}
