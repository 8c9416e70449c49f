package async

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tiptally/tiptally/internal/vision"
)

func writeTestImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte{0x01, 0x02, 0x03}, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVisionQueueProcessesAllJobs(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	extractor := vision.NewExtractor(vision.MockBackend{}, logger)

	var mu sync.Mutex
	results := map[string]Result{}
	q := NewVisionQueue(extractor, func(r Result) {
		mu.Lock()
		defer mu.Unlock()
		results[r.Job.Path] = r
	}, logger, WithWorkers(2), WithQueueSize(16))

	dir := t.TempDir()
	paths := []string{
		writeTestImage(t, dir, "a.jpg"),
		writeTestImage(t, dir, "b.jpg"),
		writeTestImage(t, dir, "c.jpg"),
	}
	for _, p := range paths[:2] {
		if err := q.Enqueue(context.Background(), Job{Path: p, Kind: KindEarnings, SubmittedAt: time.Now()}); err != nil {
			t.Fatal(err)
		}
	}
	if err := q.Enqueue(context.Background(), Job{Path: paths[2], Kind: KindReceipt, SubmittedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	q.Shutdown(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 3 {
		t.Fatalf("processed %d jobs, want 3", len(results))
	}
	for _, p := range paths[:2] {
		r := results[p]
		if r.Earnings == nil || r.Receipt != nil {
			t.Errorf("earnings job %s got %+v", p, r)
		}
	}
	if r := results[paths[2]]; r.Receipt == nil || r.Earnings != nil {
		t.Errorf("receipt job got %+v", r)
	}
}

func TestVisionQueueEnqueueAfterShutdownIsIgnored(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	extractor := vision.NewExtractor(vision.MockBackend{}, logger)

	called := false
	q := NewVisionQueue(extractor, func(Result) { called = true }, logger, WithWorkers(1))
	q.Shutdown(context.Background())

	if err := q.Enqueue(context.Background(), Job{Path: "late.jpg", Kind: KindEarnings}); err != nil {
		t.Fatalf("post-shutdown enqueue should be a no-op, got %v", err)
	}
	if called {
		t.Error("job accepted after shutdown")
	}
}

func TestVisionQueueShutdownIsIdempotent(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	extractor := vision.NewExtractor(vision.MockBackend{}, logger)
	q := NewVisionQueue(extractor, nil, logger, WithWorkers(1))

	q.Shutdown(context.Background())
	q.Shutdown(context.Background()) // second call must not panic
}
