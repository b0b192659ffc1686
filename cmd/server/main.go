package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/learngate/learngate-backend/internal/config"
	"github.com/learngate/learngate-backend/internal/database"
	"github.com/learngate/learngate-backend/internal/handler"
	"github.com/learngate/learngate-backend/internal/logger"
	"github.com/learngate/learngate-backend/internal/repository"
	"github.com/learngate/learngate-backend/internal/router"
	"github.com/learngate/learngate-backend/internal/service"
	"github.com/learngate/learngate-backend/internal/validator"
	"github.com/learngate/learngate-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting LearnGate Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	enrollRepo := repository.NewEnrollmentRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	resultRepo := repository.NewExamResultRepository(pool)
	progressRepo := repository.NewProgressRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, userRepo, rdb)
	courseService := service.NewCourseService(courseRepo, rdb, log)
	progressService := service.NewProgressService(courseService, progressRepo, enrollRepo, rdb, log)
	examService := service.NewExamService(courseService, progressService, enrollRepo, resultRepo, rdb, log)
	enrollService := service.NewEnrollmentService(enrollRepo, courseService, log)
	paymentService := service.NewPaymentService(paymentRepo, enrollRepo, log)
	dashboardService := service.NewDashboardService(userRepo, enrollRepo, resultRepo, courseRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Course:     handler.NewCourseHandler(courseService),
		Exam:       handler.NewExamHandler(examService),
		Progress:   handler.NewProgressHandler(progressService),
		Enrollment: handler.NewEnrollmentHandler(enrollService, courseService, examService),
		Payment:    handler.NewPaymentHandler(paymentService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	resultWorker := worker.NewResultWorker(pool, resultRepo, rdb, log)
	progressWorker := worker.NewProgressWorker(progressRepo, rdb, log)

	go resultWorker.Start(workerCtx)
	go progressWorker.Start(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load all published courses into Redis BEFORE accepting traffic.
	// This avoids race conditions from lazy loading under thundering herd.
	if err := courseService.PrewarmAllCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
