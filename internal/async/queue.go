package async

import (
	"context"
	"time"
)

// ImageKind selects which vision extraction a queued image goes through.
type ImageKind string

const (
	KindEarnings ImageKind = "earnings"
	KindReceipt  ImageKind = "receipt"
)

// Job is the smallest useful unit. Extend as needed later (user, retry, etc).
type Job struct {
	Path        string
	Kind        ImageKind
	SubmittedAt time.Time
	TraceID     string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
