package repository

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiptally/tiptally/internal/common"
	"github.com/tiptally/tiptally/internal/entity"
)

type pgTipEntryRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewTipEntryRepository(pool *pgxpool.Pool, logger *slog.Logger) TipEntryRepository {
	return &pgTipEntryRepository{pool: pool, logger: logger}
}

func (r *pgTipEntryRepository) Create(ctx context.Context, e *entity.TipEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO tip_entries
		   (id, user_key, job_id, entry_date, tips_earned, hours_worked,
		    shift_type, notes, source, confidence, needs_review, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		e.ID, e.UserKey, e.JobID, e.EntryDate, e.TipsEarned, e.HoursWorked,
		e.ShiftType, e.Notes, e.Source, e.Confidence, e.NeedsReview, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create tip entry", "user_key", e.UserKey, "error", err)
		return common.NewAppError(common.CodeDatabase, "failed to create tip entry", err)
	}
	return nil
}

func (r *pgTipEntryRepository) List(ctx context.Context, userKey string, filter EntryFilter) ([]*entity.TipEntry, error) {
	query := `SELECT id, user_key, job_id, entry_date, tips_earned, hours_worked,
	                 shift_type, notes, source, confidence, needs_review, created_at, updated_at
	          FROM tip_entries WHERE user_key = $1`
	args := []any{userKey}
	query, args = appendEntryFilter(query, args, filter)
	query += ` ORDER BY entry_date DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list tip entries", "user_key", userKey, "error", err)
		return nil, common.NewAppError(common.CodeDatabase, "failed to list tip entries", err)
	}
	defer rows.Close()

	var entries []*entity.TipEntry
	for rows.Next() {
		var e entity.TipEntry
		if err := rows.Scan(&e.ID, &e.UserKey, &e.JobID, &e.EntryDate, &e.TipsEarned, &e.HoursWorked,
			&e.ShiftType, &e.Notes, &e.Source, &e.Confidence, &e.NeedsReview, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, common.NewAppError(common.CodeDatabase, "failed to scan tip entry", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError(common.CodeDatabase, "failed to list tip entries", err)
	}
	return entries, nil
}

func (r *pgTipEntryRepository) Summarize(ctx context.Context, userKey string, filter EntryFilter) ([]*entity.JobSummary, error) {
	query := `SELECT t.job_id, COALESCE(j.name, ''), COUNT(*),
	                 COALESCE(SUM(t.tips_earned), 0), COALESCE(SUM(t.hours_worked), 0)
	          FROM tip_entries t
	          LEFT JOIN jobs j ON j.id = t.job_id
	          WHERE t.user_key = $1`
	args := []any{userKey}
	query, args = appendSummaryFilter(query, args, filter)
	query += ` GROUP BY t.job_id, j.name ORDER BY j.name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to summarize tip entries", "user_key", userKey, "error", err)
		return nil, common.NewAppError(common.CodeDatabase, "failed to summarize tip entries", err)
	}
	defer rows.Close()

	var summaries []*entity.JobSummary
	for rows.Next() {
		var s entity.JobSummary
		if err := rows.Scan(&s.JobID, &s.JobName, &s.EntryCount, &s.TotalTips, &s.TotalHours); err != nil {
			return nil, common.NewAppError(common.CodeDatabase, "failed to scan summary", err)
		}
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError(common.CodeDatabase, "failed to summarize tip entries", err)
	}
	return summaries, nil
}

func appendEntryFilter(query string, args []any, filter EntryFilter) (string, []any) {
	if filter.JobID != nil {
		args = append(args, *filter.JobID)
		query += ` AND job_id = $` + strconv.Itoa(len(args))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		query += ` AND entry_date >= $` + strconv.Itoa(len(args))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		query += ` AND entry_date <= $` + strconv.Itoa(len(args))
	}
	return query, args
}

func appendSummaryFilter(query string, args []any, filter EntryFilter) (string, []any) {
	if filter.JobID != nil {
		args = append(args, *filter.JobID)
		query += ` AND t.job_id = $` + strconv.Itoa(len(args))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		query += ` AND t.entry_date >= $` + strconv.Itoa(len(args))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		query += ` AND t.entry_date <= $` + strconv.Itoa(len(args))
	}
	return query, args
}
