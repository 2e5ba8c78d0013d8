package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizhub/internal/api"
	"quizhub/internal/app/service"
	"quizhub/internal/app/worker"
	"quizhub/internal/common/security"
	"quizhub/internal/domain/repository"
	"quizhub/internal/platform/config"
	"quizhub/internal/platform/database"
	"quizhub/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	if err := database.Migrate(context.Background()); err != nil {
		log.Fatalf("Schema migration failed: %v", err)
	}
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	queue.ConnectRedis()
	defer queue.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	questionRepo := repository.NewPgQuestionRepository(database.DB)
	quizRepo := repository.NewPgQuizRepository(database.DB)
	attemptRepo := repository.NewPgAttemptRepository(database.DB)
	statsRepo := repository.NewPgStatsRepository(database.DB)

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo)
	questionService := service.NewQuestionService(questionRepo)
	attemptEvents := queue.NewPublisher(queue.RDB, config.AppConfig.AttemptStatsQueueName)
	quizService := service.NewQuizService(
		quizRepo, questionRepo, attemptRepo, userRepo,
		attemptEvents, database.DB,
		config.AppConfig.QuizQuestionCount,
		time.Duration(config.AppConfig.QuizDurationSeconds)*time.Second,
	)

	// 7. Initialize Stats Worker (as a goroutine)
	statsWorker := worker.NewStatsWorker(queue.RDB, statsRepo)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go statsWorker.Start(workerCtx)
	fmt.Println("Stats worker started.")

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, questionService, quizService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel() // Signal worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and worker stopped gracefully.")
}
