package handler

import (
	"encoding/json"
	"net/http"

	"quizhub/internal/api/middleware"
	"quizhub/internal/app/service"
	"quizhub/internal/common"

	"github.com/go-chi/chi/v5"
)

type QuizHandler struct {
	quizService *service.QuizService
}

func NewQuizHandler(qs *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: qs}
}

func (h *QuizHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/quizzes/user/{userID}", h.listQuizzes)
	r.Post("/quizzes/create", h.createQuiz)
	r.Get("/quiz/{quizID}/start", h.startQuiz)
	r.Post("/quiz/{quizID}/submit", h.submitQuiz)
	r.Get("/quiz/{quizID}/results/{userID}", h.reviewQuiz)
}

func (h *QuizHandler) listQuizzes(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	result, err := h.quizService.ListQuizzes(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *QuizHandler) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req service.CreateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	result, err := h.quizService.CreateQuiz(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, result)
}

func (h *QuizHandler) startQuiz(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")

	result, err := h.quizService.StartQuiz(r.Context(), quizID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *QuizHandler) submitQuiz(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.SubmitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	result, err := h.quizService.SubmitQuiz(r.Context(), quizID, userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *QuizHandler) reviewQuiz(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")
	pathUserID := chi.URLParam(r, "userID")
	tokenUserID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	// Review is scoped to the requesting user's own attempts.
	if pathUserID != tokenUserID {
		common.RespondWithError(w, http.StatusForbidden, "Cannot view another user's results")
		return
	}

	result, err := h.quizService.ReviewQuiz(r.Context(), quizID, tokenUserID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}
