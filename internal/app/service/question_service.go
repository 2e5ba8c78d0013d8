package service

import (
	"context"
	"fmt"

	"quizhub/internal/common"
	"quizhub/internal/domain/model"
	"quizhub/internal/domain/repository"

	"github.com/google/uuid"
)

type QuestionService struct {
	questionRepo repository.QuestionRepository
}

func NewQuestionService(questionRepo repository.QuestionRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo}
}

type QuestionInput struct {
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"` // must be one of Options
}

type PushQuestionsRequest struct {
	Questions []QuestionInput `json:"questions"`
}

// PushQuestions loads a batch into the shared pool. The correct answer is
// supplied as option text and stored as an index, so a question pushed with
// options [A,B,C] and correctAnswer "B" reads back with index 1.
func (s *QuestionService) PushQuestions(ctx context.Context, req PushQuestionsRequest) (int, error) {
	if len(req.Questions) == 0 {
		return 0, common.Errorf("questions must be a non-empty array: %w", common.ErrValidation)
	}

	questions := make([]model.Question, 0, len(req.Questions))
	for i, in := range req.Questions {
		if in.QuestionText == "" {
			return 0, common.Errorf("question %d has empty text: %w", i, common.ErrValidation)
		}
		if len(in.Options) < 2 {
			return 0, common.Errorf("question %d needs at least two options: %w", i, common.ErrValidation)
		}
		correctIndex := -1
		for j, opt := range in.Options {
			if opt == in.CorrectAnswer {
				correctIndex = j
				break
			}
		}
		if correctIndex == -1 {
			return 0, common.Errorf("question %d: correct answer is not among the options: %w", i, common.ErrValidation)
		}
		questions = append(questions, model.Question{
			ID:            uuid.NewString(),
			QuestionText:  in.QuestionText,
			Options:       in.Options,
			CorrectAnswer: correctIndex,
		})
	}

	if err := s.questionRepo.InsertQuestions(ctx, questions); err != nil {
		return 0, fmt.Errorf("failed to insert questions: %w", err)
	}
	return len(questions), nil
}
