package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/intervue/intervue-backend/internal/config"
	"github.com/intervue/intervue-backend/internal/database"
	"github.com/intervue/intervue-backend/internal/decode"
	"github.com/intervue/intervue-backend/internal/handler"
	"github.com/intervue/intervue-backend/internal/logger"
	"github.com/intervue/intervue-backend/internal/oracle"
	"github.com/intervue/intervue-backend/internal/repository"
	"github.com/intervue/intervue-backend/internal/router"
	"github.com/intervue/intervue-backend/internal/service"
	"github.com/intervue/intervue-backend/internal/validator"
	"github.com/intervue/intervue-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Bool("oracle_enabled", cfg.OracleEnabled).
		Msg("Starting Intervue Backend")

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
	interviewerRepo := repository.NewInterviewerRepository(pool)
	candidateRepo := repository.NewCandidateRepository(pool)
	interviewRepo := repository.NewInterviewRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	resumeStore := decode.NewResumeStore(cfg)
	oracleAdapter := oracle.NewAdapter(oracle.NewClient(cfg), cfg.OracleEnabled, log)
	eventBus := service.NewRedisBus(rdb, log)

	authService := service.NewAuthService(cfg, rdb, interviewerRepo)
	candidateService := service.NewCandidateService(candidateRepo, resumeStore)
	interviewService := service.NewInterviewService(interviewRepo, candidateRepo, oracleAdapter, eventBus)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Candidate: handler.NewCandidateHandler(candidateService),
		Interview: handler.NewInterviewHandler(interviewService),
		WS:        handler.NewWSHandler(rdb, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	eventWorker := worker.NewEventWorker(pool, rdb, log)
	go eventWorker.Start(workerCtx)

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

	// 2. Stop the worker and wait for the queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
