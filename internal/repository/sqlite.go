package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tiptally/tiptally/internal/common"
	"github.com/tiptally/tiptally/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS jobs (
	id            TEXT PRIMARY KEY,
	user_key      TEXT NOT NULL,
	name          TEXT NOT NULL,
	hourly_rate   REAL,
	default_shift TEXT,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_user ON jobs(user_key);

CREATE TABLE IF NOT EXISTS tip_entries (
	id           TEXT PRIMARY KEY,
	user_key     TEXT NOT NULL,
	job_id       TEXT REFERENCES jobs(id),
	entry_date   TEXT NOT NULL,
	tips_earned  REAL NOT NULL,
	hours_worked REAL NOT NULL,
	shift_type   TEXT,
	notes        TEXT,
	source       TEXT NOT NULL,
	confidence   REAL,
	needs_review INTEGER NOT NULL DEFAULT 0,
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_user_date ON tip_entries(user_key, entry_date);
`

const sqliteDateLayout = "2006-01-02"

// SQLiteStore implements Store over a single-file SQLite database. It is
// the zero-setup option for the CLIs and local development.
type SQLiteStore struct {
	db      *sql.DB
	jobs    JobRepository
	entries TipEntryRepository
	logger  *slog.Logger
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	logger.Info("opening sqlite database", "path", path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Error("failed to open sqlite database", "error", err)
		return nil, common.NewAppError(common.CodeDatabase, "failed to open sqlite database", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		logger.Error("failed to apply sqlite schema", "error", err)
		return nil, common.NewAppError(common.CodeDatabase, "failed to apply sqlite schema", err)
	}

	return &SQLiteStore{
		db:      db,
		jobs:    &sqliteJobRepository{db: db, logger: logger},
		entries: &sqliteTipEntryRepository{db: db, logger: logger},
		logger:  logger,
	}, nil
}

func (s *SQLiteStore) Jobs() JobRepository         { return s.jobs }
func (s *SQLiteStore) Entries() TipEntryRepository { return s.entries }

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("failed to close sqlite database", "error", err)
	}
}

type sqliteJobRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func (r *sqliteJobRepository) Create(ctx context.Context, job *entity.Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO jobs (id, user_key, name, hourly_rate, default_shift, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		job.ID.String(), job.UserKey, job.Name, nullFloat(job.HourlyRate), nullString(job.DefaultShift),
		job.CreatedAt.Format(time.RFC3339), job.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		r.logger.Error("failed to create job", "user_key", job.UserKey, "error", err)
		return common.NewAppError(common.CodeDatabase, "failed to create job", err)
	}
	return nil
}

func (r *sqliteJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_key, name, hourly_rate, default_shift, created_at, updated_at
		 FROM jobs WHERE id = ?`, id.String())

	job, err := scanJobRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError(common.CodeNotFound, "job not found", err)
	}
	if err != nil {
		r.logger.Error("failed to get job", "job_id", id, "error", err)
		return nil, common.NewAppError(common.CodeDatabase, "failed to get job", err)
	}
	return job, nil
}

func (r *sqliteJobRepository) List(ctx context.Context, userKey string) ([]*entity.Job, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_key, name, hourly_rate, default_shift, created_at, updated_at
		 FROM jobs WHERE user_key = ? ORDER BY name`, userKey)
	if err != nil {
		r.logger.Error("failed to list jobs", "user_key", userKey, "error", err)
		return nil, common.NewAppError(common.CodeDatabase, "failed to list jobs", err)
	}
	defer rows.Close()

	var jobs []*entity.Job
	for rows.Next() {
		job, err := scanJobRow(rows.Scan)
		if err != nil {
			return nil, common.NewAppError(common.CodeDatabase, "failed to scan job", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError(common.CodeDatabase, "failed to list jobs", err)
	}
	return jobs, nil
}

type sqliteTipEntryRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func (r *sqliteTipEntryRepository) Create(ctx context.Context, e *entity.TipEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	var jobID any
	if e.JobID != nil {
		jobID = e.JobID.String()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tip_entries
		   (id, user_key, job_id, entry_date, tips_earned, hours_worked,
		    shift_type, notes, source, confidence, needs_review, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.UserKey, jobID, e.EntryDate.Format(sqliteDateLayout),
		e.TipsEarned, e.HoursWorked, nullString(e.ShiftType), nullString(e.Notes),
		e.Source, nullFloat(e.Confidence), e.NeedsReview,
		e.CreatedAt.Format(time.RFC3339), e.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		r.logger.Error("failed to create tip entry", "user_key", e.UserKey, "error", err)
		return common.NewAppError(common.CodeDatabase, "failed to create tip entry", err)
	}
	return nil
}

func (r *sqliteTipEntryRepository) List(ctx context.Context, userKey string, filter EntryFilter) ([]*entity.TipEntry, error) {
	query := `SELECT id, user_key, job_id, entry_date, tips_earned, hours_worked,
	                 shift_type, notes, source, confidence, needs_review, created_at, updated_at
	          FROM tip_entries WHERE user_key = ?`
	args := []any{userKey}
	query, args = appendSQLiteEntryFilter(query, args, filter, "")
	query += ` ORDER BY entry_date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list tip entries", "user_key", userKey, "error", err)
		return nil, common.NewAppError(common.CodeDatabase, "failed to list tip entries", err)
	}
	defer rows.Close()

	var entries []*entity.TipEntry
	for rows.Next() {
		e, err := scanEntryRow(rows.Scan)
		if err != nil {
			return nil, common.NewAppError(common.CodeDatabase, "failed to scan tip entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError(common.CodeDatabase, "failed to list tip entries", err)
	}
	return entries, nil
}

func (r *sqliteTipEntryRepository) Summarize(ctx context.Context, userKey string, filter EntryFilter) ([]*entity.JobSummary, error) {
	query := `SELECT t.job_id, COALESCE(j.name, ''), COUNT(*),
	                 COALESCE(SUM(t.tips_earned), 0), COALESCE(SUM(t.hours_worked), 0)
	          FROM tip_entries t
	          LEFT JOIN jobs j ON j.id = t.job_id
	          WHERE t.user_key = ?`
	args := []any{userKey}
	query, args = appendSQLiteEntryFilter(query, args, filter, "t.")
	query += ` GROUP BY t.job_id, j.name ORDER BY j.name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to summarize tip entries", "user_key", userKey, "error", err)
		return nil, common.NewAppError(common.CodeDatabase, "failed to summarize tip entries", err)
	}
	defer rows.Close()

	var summaries []*entity.JobSummary
	for rows.Next() {
		var s entity.JobSummary
		var jobID sql.NullString
		if err := rows.Scan(&jobID, &s.JobName, &s.EntryCount, &s.TotalTips, &s.TotalHours); err != nil {
			return nil, common.NewAppError(common.CodeDatabase, "failed to scan summary", err)
		}
		if jobID.Valid {
			if id, err := uuid.Parse(jobID.String); err == nil {
				s.JobID = &id
			}
		}
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError(common.CodeDatabase, "failed to summarize tip entries", err)
	}
	return summaries, nil
}

func appendSQLiteEntryFilter(query string, args []any, filter EntryFilter, prefix string) (string, []any) {
	if filter.JobID != nil {
		query += ` AND ` + prefix + `job_id = ?`
		args = append(args, filter.JobID.String())
	}
	if filter.FromDate != nil {
		query += ` AND ` + prefix + `entry_date >= ?`
		args = append(args, filter.FromDate.Format(sqliteDateLayout))
	}
	if filter.ToDate != nil {
		query += ` AND ` + prefix + `entry_date <= ?`
		args = append(args, filter.ToDate.Format(sqliteDateLayout))
	}
	return query, args
}

func scanJobRow(scan func(dest ...any) error) (*entity.Job, error) {
	var (
		job        entity.Job
		id         string
		rate       sql.NullFloat64
		shift      sql.NullString
		created    string
		updated    string
		parseError error
	)
	if err := scan(&id, &job.UserKey, &job.Name, &rate, &shift, &created, &updated); err != nil {
		return nil, err
	}
	job.ID, parseError = uuid.Parse(id)
	if parseError != nil {
		return nil, parseError
	}
	if rate.Valid {
		job.HourlyRate = &rate.Float64
	}
	if shift.Valid {
		job.DefaultShift = &shift.String
	}
	job.CreatedAt, _ = time.Parse(time.RFC3339, created)
	job.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &job, nil
}

func scanEntryRow(scan func(dest ...any) error) (*entity.TipEntry, error) {
	var (
		e          entity.TipEntry
		id         string
		jobID      sql.NullString
		entryDate  string
		shift      sql.NullString
		notes      sql.NullString
		confidence sql.NullFloat64
		created    string
		updated    string
	)
	if err := scan(&id, &e.UserKey, &jobID, &entryDate, &e.TipsEarned, &e.HoursWorked,
		&shift, &notes, &e.Source, &confidence, &e.NeedsReview, &created, &updated); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	e.ID = parsed
	if jobID.Valid {
		if v, err := uuid.Parse(jobID.String); err == nil {
			e.JobID = &v
		}
	}
	// entry_date may carry a time component when written by other tools
	e.EntryDate, _ = time.Parse(sqliteDateLayout, strings.SplitN(entryDate, "T", 2)[0])
	if shift.Valid {
		e.ShiftType = &shift.String
	}
	if notes.Valid {
		e.Notes = &notes.String
	}
	if confidence.Valid {
		e.Confidence = &confidence.Float64
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, created)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &e, nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
