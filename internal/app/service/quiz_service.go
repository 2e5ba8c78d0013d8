package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math"
	"time"

	"quizhub/internal/common"
	"quizhub/internal/domain/model"
	"quizhub/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// EventPublisher pushes attempt events to the stats queue. Publishing is
// fire-and-forget with respect to request handling.
type EventPublisher interface {
	Publish(ctx context.Context, payload any) error
}

// QuizService owns the quiz lifecycle: create, start, submit, review.
type QuizService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.AttemptRepository
	userRepo     repository.UserRepository
	events       EventPublisher
	db           *sql.DB // For transactions

	questionCount int
	quizDuration  time.Duration
	now           func() time.Time
}

func NewQuizService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	userRepo repository.UserRepository,
	events EventPublisher,
	db *sql.DB,
	questionCount int,
	quizDuration time.Duration,
) *QuizService {
	return &QuizService{
		quizRepo:      quizRepo,
		questionRepo:  questionRepo,
		attemptRepo:   attemptRepo,
		userRepo:      userRepo,
		events:        events,
		db:            db,
		questionCount: questionCount,
		quizDuration:  quizDuration,
		now:           time.Now,
	}
}

type CreateQuizRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	UserID      string `json:"userId"`
	StartTime   int64  `json:"startTime,omitempty"` // epoch ms; defaults to now
	EndTime     int64  `json:"endTime,omitempty"`   // epoch ms; defaults to start + quiz duration
}

type CreateQuizResult struct {
	QuizID    string `json:"quizId"`
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
}

// CreateQuiz draws a uniform without-replacement sample of question ids from
// the whole pool and persists the quiz row. Selection and insert commit
// atomically or not at all.
func (s *QuizService) CreateQuiz(ctx context.Context, req CreateQuizRequest) (*CreateQuizResult, error) {
	if req.UserID == "" {
		return nil, common.Errorf("missing required fields: %w", common.ErrBadRequest)
	}

	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}

	startMs := req.StartTime
	if startMs == 0 {
		startMs = s.now().UnixMilli()
	}
	endMs := req.EndTime
	if endMs == 0 {
		endMs = startMs + s.quizDuration.Milliseconds()
	}
	if endMs <= startMs {
		return nil, common.Errorf("end time must be after start time: %w", common.ErrValidation)
	}

	title := req.Title
	if title == "" {
		title = "Untitled Quiz"
	}
	quizID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	selectedIDs, err := s.questionRepo.SampleIDs(ctx, tx, s.questionCount)
	if err != nil {
		return nil, common.Errorf("failed to sample questions: %w", err)
	}
	if len(selectedIDs) < s.questionCount {
		return nil, common.Errorf("question pool has fewer than %d questions: %w", s.questionCount, common.ErrValidation)
	}

	quiz := &model.Quiz{
		ID:                quizID,
		Slug:              slug.Make(title) + "-" + quizID[:8],
		Title:             title,
		Description:       req.Description,
		UserID:            req.UserID,
		StartTimeMs:       startMs,
		EndTimeMs:         endMs,
		SelectedQuestions: selectedIDs,
	}

	if err := s.quizRepo.CreateQuiz(ctx, tx, quiz); err != nil {
		return nil, common.Errorf("failed to create quiz: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	return &CreateQuizResult{QuizID: quiz.ID, StartTime: startMs, EndTime: endMs}, nil
}

type StartQuizResult struct {
	Quiz      *model.Quiz      `json:"quiz"`
	Questions []model.Question `json:"questions"`
}

// StartQuiz resolves the quiz's selected question ids to full records.
// Timestamps stay timezone-neutral epoch milliseconds; any display
// localization belongs to the client.
func (s *QuizService) StartQuiz(ctx context.Context, quizID string) (*StartQuizResult, error) {
	quiz, err := s.quizRepo.FindQuizByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("quiz lookup failed: %w", err)
	}

	questions, err := s.questionRepo.FindByIDs(ctx, quiz.SelectedQuestions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch questions: %w", err)
	}

	return &StartQuizResult{Quiz: quiz, Questions: questions}, nil
}

type SubmitQuizRequest struct {
	Answers   []model.SubmittedAnswer `json:"answers"`
	StartTime int64                   `json:"startTime"` // submitter-reported, epoch ms
	EndTime   int64                   `json:"endTime"`
}

type SubmitQuizResult struct {
	Score      int  `json:"score"`
	Total      int  `json:"total"`
	Percentage int  `json:"percentage"`
	Expired    bool `json:"expired"`
}

// SubmitQuiz scores the answers against the quiz deadline and appends one
// attempt row. Late submissions persist their raw answers for audit but
// always score zero. Repeated calls append repeated rows.
func (s *QuizService) SubmitQuiz(ctx context.Context, quizID, userID string, req SubmitQuizRequest) (*SubmitQuizResult, error) {
	quiz, err := s.quizRepo.FindQuizByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("quiz lookup failed: %w", err)
	}

	submitMs := s.now().UnixMilli()
	expired := submitMs > quiz.EndTimeMs

	score := 0
	if !expired {
		questions, err := s.questionRepo.FindByIDs(ctx, quiz.SelectedQuestions)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch questions for scoring: %w", err)
		}
		correctByID := make(map[string]int, len(questions))
		for _, q := range questions {
			correctByID[q.ID] = q.CorrectAnswer
		}
		chosenByID := make(map[string]int, len(req.Answers))
		for _, a := range req.Answers {
			chosenByID[a.QuestionID] = a.AnswerChosen
		}
		for _, qID := range quiz.SelectedQuestions {
			correct, present := correctByID[qID]
			if !present {
				continue
			}
			if chosen, answered := chosenByID[qID]; answered && chosen == correct {
				score++
			}
		}
	}

	attempt := &model.QuizAttempt{
		ID:          uuid.NewString(),
		QuizID:      quizID,
		UserID:      userID,
		StartTimeMs: req.StartTime,
		EndTimeMs:   req.EndTime,
		Answers:     req.Answers,
		Score:       score,
	}
	if attempt.Answers == nil {
		attempt.Answers = []model.SubmittedAnswer{}
	}
	if err := s.attemptRepo.CreateAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}

	total := len(quiz.SelectedQuestions)
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(score) * 100 / float64(total)))
	}

	if s.events != nil {
		event := model.AttemptRecordedEvent{
			UserID:     userID,
			QuizID:     quizID,
			Score:      score,
			Percentage: percentage,
			Expired:    expired,
		}
		if err := s.events.Publish(ctx, event); err != nil {
			// Stats are best-effort; the attempt row is already durable.
			log.Printf("Failed to publish attempt event for quiz %s: %v", quizID, err)
		}
	}

	return &SubmitQuizResult{Score: score, Total: total, Percentage: percentage, Expired: expired}, nil
}

type ReviewQuizResult struct {
	UserAnswers map[string]int   `json:"userAnswers"`
	Score       int              `json:"score"`
	Questions   []model.Question `json:"questions"`
}

// ReviewQuiz joins the quiz's question set with the requesting user's most
// recent attempt.
func (s *QuizService) ReviewQuiz(ctx context.Context, quizID, userID string) (*ReviewQuizResult, error) {
	quiz, err := s.quizRepo.FindQuizByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("quiz lookup failed: %w", err)
	}

	attempt, err := s.attemptRepo.FindLatestAttempt(ctx, quizID, userID)
	if err != nil {
		return nil, fmt.Errorf("attempt lookup failed: %w", err)
	}

	userAnswers := make(map[string]int, len(attempt.Answers))
	for _, a := range attempt.Answers {
		userAnswers[a.QuestionID] = a.AnswerChosen
	}

	questions, err := s.questionRepo.FindByIDs(ctx, quiz.SelectedQuestions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch questions: %w", err)
	}

	return &ReviewQuizResult{UserAnswers: userAnswers, Score: attempt.Score, Questions: questions}, nil
}

type QuizListResult struct {
	Quizzes []model.QuizSummary `json:"quizzes"`
	Message *string             `json:"message"`
}

// ListQuizzes returns the quizzes owned by the user, each joined with its
// best attempt score.
func (s *QuizService) ListQuizzes(ctx context.Context, userID string) (*QuizListResult, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}

	summaries, err := s.quizRepo.ListQuizzesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	result := &QuizListResult{Quizzes: summaries}
	if len(summaries) == 0 {
		msg := "No quizzes found"
		result.Message = &msg
	}
	return result, nil
}
