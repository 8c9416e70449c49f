package vision

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Extractor is the public surface for both vision tasks. It never returns
// an error: any failure (image unreadable, remote call failed, reply
// malformed) degrades to the same labeled placeholder the mock backend
// produces, so the UI always has something reviewable.
type Extractor struct {
	backend Backend
	logger  *slog.Logger
	timeout time.Duration
}

type ExtractorOption func(*Extractor)

// WithCallTimeout bounds each remote extraction call.
func WithCallTimeout(d time.Duration) ExtractorOption {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

func NewExtractor(backend Backend, logger *slog.Logger, opts ...ExtractorOption) *Extractor {
	if backend == nil {
		backend = MockBackend{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{
		backend: backend,
		logger:  logger,
		timeout: 30 * time.Second,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Mode reports which backend is active ("live" or "mock").
func (e *Extractor) Mode() string { return e.backend.Name() }

// AnalyzeEarningsScreenshot extracts structured earnings from a screenshot
// at imagePath.
func (e *Extractor) AnalyzeEarningsScreenshot(ctx context.Context, imagePath string) ExtractedEarnings {
	rid := uuid.New().String()
	start := time.Now()
	e.logger.Info("vision.earnings.start", "req_id", rid, "backend", e.backend.Name(), "path", imagePath)

	img, err := LoadImage(imagePath)
	if err != nil {
		e.logger.Warn("vision.earnings.image_error", "req_id", rid, "error", err)
		return MockEarnings()
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	out, err := e.backend.ExtractEarnings(callCtx, img)
	if err != nil {
		e.logger.Warn("vision.earnings.failed", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return MockEarnings()
	}

	e.logger.Info("vision.earnings.ok",
		"req_id", rid, "app", out.App,
		"confidence", out.Confidence, "needs_review", out.NeedsReview,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out
}

// AnalyzeReceipt extracts structured receipt fields from a photo at
// imagePath.
func (e *Extractor) AnalyzeReceipt(ctx context.Context, imagePath string) ExtractedReceipt {
	rid := uuid.New().String()
	start := time.Now()
	e.logger.Info("vision.receipt.start", "req_id", rid, "backend", e.backend.Name(), "path", imagePath)

	img, err := LoadImage(imagePath)
	if err != nil {
		e.logger.Warn("vision.receipt.image_error", "req_id", rid, "error", err)
		return MockReceipt()
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	out, err := e.backend.ExtractReceipt(callCtx, img)
	if err != nil {
		e.logger.Warn("vision.receipt.failed", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return MockReceipt()
	}

	e.logger.Info("vision.receipt.ok",
		"req_id", rid, "merchant", out.MerchantName,
		"confidence", out.Confidence, "needs_review", out.NeedsReview,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out
}
