package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"quizhub/internal/api/middleware"
	"quizhub/internal/app/service"
	"quizhub/internal/common"

	"github.com/go-chi/chi/v5"
)

type QuestionHandler struct {
	questionService *service.QuestionService
}

func NewQuestionHandler(qs *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: qs}
}

func (h *QuestionHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/quizzes_question_push", h.pushQuestions)
}

func (h *QuestionHandler) pushQuestions(w http.ResponseWriter, r *http.Request) {
	var req service.PushQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	count, err := h.questionService.PushQuestions(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]string{
		"message": fmt.Sprintf("%d questions added successfully", count),
	})
}
