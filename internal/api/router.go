package api

import (
	"net/http"
	"time"

	"quizhub/internal/api/handler"
	"quizhub/internal/app/service"
	"quizhub/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	questionService *service.QuestionService,
	quizService *service.QuizService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the Bearer token when present, puts claims in context.
	// Authenticator (per route group) rejects requests without a valid one.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(authService)
	r.Group(func(public chi.Router) {
		authHandler.RegisterRoutes(public)
	})

	// Question pool push (authenticated, admin use)
	questionHandler := handler.NewQuestionHandler(questionService)
	r.Group(questionHandler.RegisterRoutes)

	// Quiz lifecycle routes (authenticated)
	quizHandler := handler.NewQuizHandler(quizService)
	r.Group(quizHandler.RegisterRoutes)

	return r
}
