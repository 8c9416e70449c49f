package async

import (
	"context"
	"sync"
	"time"

	"log/slog"

	"github.com/tiptally/tiptally/internal/vision"
)

// Result carries one finished extraction. Exactly one of Earnings or
// Receipt is set, matching the job's Kind.
type Result struct {
	Job      Job
	Earnings *vision.ExtractedEarnings
	Receipt  *vision.ExtractedReceipt
}

// VisionQueue runs image extractions on a fixed worker pool and hands each
// finished Result to the sink.
type VisionQueue struct {
	extractor *vision.Extractor
	sink      func(Result)
	logger    *slog.Logger
	workers   int
	timeout   time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*VisionQueue)

func WithWorkers(n int) Option {
	return func(q *VisionQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *VisionQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *VisionQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewVisionQueue(extractor *vision.Extractor, sink func(Result), logger *slog.Logger, opts ...Option) *VisionQueue {
	q := &VisionQueue{
		extractor: extractor,
		sink:      sink,
		logger:    logger,
		workers:   4,
		timeout:   2 * time.Minute,
		ch:        make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *VisionQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					res := Result{Job: job}
					switch job.Kind {
					case KindReceipt:
						r := q.extractor.AnalyzeReceipt(ctx, job.Path)
						res.Receipt = &r
					default:
						e := q.extractor.AnalyzeEarningsScreenshot(ctx, job.Path)
						res.Earnings = &e
					}
					cancel()

					q.logger.Info("processed image", "worker_id", workerID, "path", job.Path, "kind", job.Kind)
					if q.sink != nil {
						q.sink(res)
					}
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *VisionQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return nil
	}
	select {
	case q.ch <- job:
		q.logger.Info("queued image for extraction", "path", job.Path, "kind", job.Kind)
	default:
		q.logger.Warn("queue full, applying backpressure", "path", job.Path)
		q.ch <- job
	}
	return nil
}

func (q *VisionQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
