package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiptally/tiptally/internal/common"
	"github.com/tiptally/tiptally/internal/entity"
)

type pgJobRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewJobRepository(pool *pgxpool.Pool, logger *slog.Logger) JobRepository {
	return &pgJobRepository{pool: pool, logger: logger}
}

func (r *pgJobRepository) Create(ctx context.Context, job *entity.Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO jobs (id, user_key, name, hourly_rate, default_shift, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		job.ID, job.UserKey, job.Name, job.HourlyRate, job.DefaultShift, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create job", "user_key", job.UserKey, "error", err)
		return common.NewAppError(common.CodeDatabase, "failed to create job", err)
	}
	return nil
}

func (r *pgJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, user_key, name, hourly_rate, default_shift, created_at, updated_at
		 FROM jobs WHERE id = $1`, id)

	var job entity.Job
	err := row.Scan(&job.ID, &job.UserKey, &job.Name, &job.HourlyRate, &job.DefaultShift,
		&job.CreatedAt, &job.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewAppError(common.CodeNotFound, "job not found", err)
	}
	if err != nil {
		r.logger.Error("failed to get job", "job_id", id, "error", err)
		return nil, common.NewAppError(common.CodeDatabase, "failed to get job", err)
	}
	return &job, nil
}

func (r *pgJobRepository) List(ctx context.Context, userKey string) ([]*entity.Job, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_key, name, hourly_rate, default_shift, created_at, updated_at
		 FROM jobs WHERE user_key = $1 ORDER BY name`, userKey)
	if err != nil {
		r.logger.Error("failed to list jobs", "user_key", userKey, "error", err)
		return nil, common.NewAppError(common.CodeDatabase, "failed to list jobs", err)
	}
	defer rows.Close()

	var jobs []*entity.Job
	for rows.Next() {
		var job entity.Job
		if err := rows.Scan(&job.ID, &job.UserKey, &job.Name, &job.HourlyRate, &job.DefaultShift,
			&job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, common.NewAppError(common.CodeDatabase, "failed to scan job", err)
		}
		jobs = append(jobs, &job)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError(common.CodeDatabase, "failed to list jobs", err)
	}
	return jobs, nil
}
