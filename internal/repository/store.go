package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tiptally/tiptally/internal/entity"
)

// EntryFilter narrows entry listings. Nil fields mean "no constraint".
type EntryFilter struct {
	JobID    *uuid.UUID
	FromDate *time.Time
	ToDate   *time.Time
}

type JobRepository interface {
	Create(ctx context.Context, job *entity.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error)
	List(ctx context.Context, userKey string) ([]*entity.Job, error)
}

type TipEntryRepository interface {
	Create(ctx context.Context, e *entity.TipEntry) error
	List(ctx context.Context, userKey string, filter EntryFilter) ([]*entity.TipEntry, error)
	Summarize(ctx context.Context, userKey string, filter EntryFilter) ([]*entity.JobSummary, error)
}

// Store bundles the repositories over one database handle. Two
// implementations exist: Postgres (server deployments) and SQLite (local /
// CLI use).
type Store interface {
	Jobs() JobRepository
	Entries() TipEntryRepository
	Ping(ctx context.Context) error
	Close()
}
