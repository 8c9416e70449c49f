package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/tiptally/tiptally/internal/common"
	"github.com/tiptally/tiptally/internal/guard"
	"github.com/tiptally/tiptally/internal/llm"
	"github.com/tiptally/tiptally/internal/llm/openai"
	"github.com/tiptally/tiptally/internal/parse"
)

// tipparse runs one shift description through the parse pipeline and prints
// the structured result. Useful for prompt tuning without the server.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: tipparse <shift description>")
		os.Exit(2)
	}
	text := strings.Join(os.Args[1:], " ")

	cfg := common.LoadConfig()

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	var chat llm.ChatCompleter
	if client.Configured() {
		chat = client
	} else {
		logger.Warn("no API key configured, using heuristic extraction only")
	}

	limiter := guard.NewRateLimiter(cfg.Guard.ParseLimit, cfg.Guard.ParseWindow, logger)
	spam := guard.NewSpamDetector(cfg.Guard.SpamWindow)
	parser := parse.NewParser(chat, limiter, spam, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	entry, err := parser.Parse(ctx, common.AnonymousUserKey, text)
	if err != nil {
		logger.Error("parse failed", "error", err)
		os.Exit(1)
	}
	logger.Info("parse.ok",
		"disposition", parse.DispositionFor(entry),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(entry)
}
