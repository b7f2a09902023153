package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/interviewlab/backend/internal/api"
	"github.com/interviewlab/backend/internal/evaluator"
	"github.com/interviewlab/backend/internal/infrastructure/config"
	"github.com/interviewlab/backend/internal/llm"
	"github.com/interviewlab/backend/internal/media"
	"github.com/interviewlab/backend/internal/prompt"
	"github.com/interviewlab/backend/internal/service"
	"github.com/interviewlab/backend/internal/store"

	_ "github.com/interviewlab/backend/docs" // generated swagger docs
)

// @title           InterviewLab API
// @version         1.0
// @description     AI mock interview practice — generated questions, text/audio/video answers, and weighted multi-criteria feedback.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	interviewCfg, err := config.LoadInterview(cfg.InterviewConfigPath)
	if err != nil {
		logger.Error("invalid interview configuration", "error", err)
		os.Exit(1)
	}

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.ArchivePath)
	if err != nil {
		logger.Error("failed to open archive database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	client := llm.New(llm.Options{
		BaseURL:         cfg.LLMURL,
		APIKey:          cfg.LLMAPIKey,
		Model:           cfg.LLMModel,
		TranscribeModel: cfg.TranscribeModel,
		Timeout:         cfg.LLMTimeout,
		MaxAttempts:     cfg.LLMMaxAttempts,
	}, logger)

	prompts := prompt.NewBuilder(interviewCfg.MaxQuestions)
	questions := service.NewLLMQuestionGenerator(client, prompts, logger)
	eval := evaluator.New(client, prompts, interviewCfg, logger)
	normalizer := media.NewNormalizer(interviewCfg.Media, client, cfg.FFmpegPath, cfg.FFprobePath, logger)

	svc := service.NewInterviewService(interviewCfg, questions, eval, normalizer, db, logger)
	handler := api.NewHandler(svc, db, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       5 * time.Minute, // video uploads
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      5 * time.Minute, // submit blocks for the full evaluation
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
