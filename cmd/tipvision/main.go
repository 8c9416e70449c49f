package main

import (
	"context"
	"encoding/json"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tiptally/tiptally/constants"
	"github.com/tiptally/tiptally/internal/async"
	"github.com/tiptally/tiptally/internal/common"
	"github.com/tiptally/tiptally/internal/llm/openai"
	"github.com/tiptally/tiptally/internal/vision"
)

// tipvision extracts earnings or receipt fields from one image, or from
// every image under a directory when -dir is given.
func main() {
	var (
		dir     = flag.String("dir", "", "process every image under this directory")
		receipt = flag.Bool("receipt", false, "treat images as paper receipts instead of earnings screenshots")
		workers = flag.Int("workers", 4, "batch worker count")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if *dir == "" && flag.NArg() < 1 {
		logger.Error("usage: tipvision [-receipt] [-dir path] [image]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		VisionModel: cfg.LLM.VisionModel,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	var backend vision.Backend = vision.MockBackend{}
	if client.Configured() {
		backend = vision.NewLiveBackend(client, logger)
	} else {
		logger.Warn("no API key configured, serving placeholder extractions")
	}
	extractor := vision.NewExtractor(backend, logger)

	kind := async.KindEarnings
	if *receipt {
		kind = async.KindReceipt
	}

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")

	if *dir == "" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		emit(out, runOne(ctx, extractor, flag.Arg(0), kind))
		return
	}

	queue := async.NewVisionQueue(extractor, func(res async.Result) {
		emit(out, res)
	}, logger,
		async.WithWorkers(*workers),
		async.WithQueueSize(512),
		async.WithProcessTimeout(2*time.Minute),
	)

	count := 0
	err := filepath.WalkDir(*dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if _, ok := constants.AllowedImageExtensions[ext]; !ok {
			return nil
		}
		count++
		return queue.Enqueue(context.Background(), async.Job{
			Path:        path,
			Kind:        kind,
			SubmittedAt: time.Now(),
			TraceID:     uuid.NewString(),
		})
	})
	if err != nil {
		logger.Error("directory walk failed", "dir", *dir, "error", err)
	}

	queue.Shutdown(context.Background())
	logger.Info("batch complete", "dir", *dir, "images", count)
}

func runOne(ctx context.Context, extractor *vision.Extractor, path string, kind async.ImageKind) async.Result {
	res := async.Result{Job: async.Job{Path: path, Kind: kind, SubmittedAt: time.Now()}}
	if kind == async.KindReceipt {
		r := extractor.AnalyzeReceipt(ctx, path)
		res.Receipt = &r
		return res
	}
	e := extractor.AnalyzeEarningsScreenshot(ctx, path)
	res.Earnings = &e
	return res
}

var emitMu sync.Mutex

func emit(enc *json.Encoder, res async.Result) {
	emitMu.Lock()
	defer emitMu.Unlock()
	out := map[string]any{"path": res.Job.Path, "kind": res.Job.Kind}
	if res.Earnings != nil {
		out["earnings"] = res.Earnings
	}
	if res.Receipt != nil {
		out["receipt"] = res.Receipt
	}
	_ = enc.Encode(out)
}
