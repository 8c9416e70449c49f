package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tiptally/tiptally/internal/common"
	"github.com/tiptally/tiptally/internal/export"
	"github.com/tiptally/tiptally/internal/guard"
	"github.com/tiptally/tiptally/internal/llm"
	"github.com/tiptally/tiptally/internal/llm/openai"
	"github.com/tiptally/tiptally/internal/parse"
	"github.com/tiptally/tiptally/internal/repository"
	"github.com/tiptally/tiptally/internal/server"
	"github.com/tiptally/tiptally/internal/vision"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := repository.HealthCheck(ctx, store, 5*time.Second, logger); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		VisionModel: cfg.LLM.VisionModel,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	limiter := guard.NewRateLimiter(cfg.Guard.ParseLimit, cfg.Guard.ParseWindow, logger)
	spam := guard.NewSpamDetector(cfg.Guard.SpamWindow)

	// Without a key the parser skips the remote call and the extractor
	// serves fixed placeholder results.
	var chat llm.ChatCompleter
	var backend vision.Backend = vision.MockBackend{}
	if client.Configured() {
		chat = client
		backend = vision.NewLiveBackend(client, logger)
	} else {
		logger.Warn("no API key configured, running in mock mode")
	}

	parser := parse.NewParser(chat, limiter, spam, logger)
	extractor := vision.NewExtractor(backend, logger)
	exporter := export.NewService(store, logger)

	srv := server.New(parser, extractor, store, exporter, logger)
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("tiptally listening", "addr", cfg.Server.HTTPAddr, "vision_mode", extractor.Mode())
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func openStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (repository.Store, error) {
	if cfg.Database.DSN != "" {
		return repository.OpenPostgres(ctx, repository.Config{
			DSN:             cfg.Database.DSN,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
			DialTimeout:     cfg.Database.DialTimeout,
		}, logger)
	}
	return repository.OpenSQLite(ctx, cfg.Database.SQLitePath, logger)
}
