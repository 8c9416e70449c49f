package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/tiptally/tiptally/internal/repository"
)

// Service is a tiny façade over repositories that produces XLSX bytes for exports.
type Service struct {
	store  repository.Store
	logger *slog.Logger
}

func NewService(store repository.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportEntriesXLSX returns an XLSX workbook (as bytes) for the given user
// and date window.
// If only from is provided -> from..today (inclusive).
// If only to is provided   -> beginning..to (inclusive).
// If neither is provided   -> all entries for the user.
func (s *Service) ExportEntriesXLSX(ctx context.Context, userKey string, jobID *uuid.UUID, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	// Normalize dates (date-only, UTC)
	var fromDate, toDate *time.Time
	if from != nil {
		f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
		fromDate = &f
	}
	if to != nil {
		t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
		toDate = &t
	}
	if fromDate != nil && toDate == nil {
		today := time.Now().UTC()
		t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		toDate = &t
	}

	entries, err := s.store.Entries().List(ctx, userKey, repository.EntryFilter{
		JobID:    jobID,
		FromDate: fromDate,
		ToDate:   toDate,
	})
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}

	// Resolve job names once; entries only carry the ID.
	jobNames := map[uuid.UUID]string{}
	jobs, err := s.store.Jobs().List(ctx, userKey)
	if err == nil {
		for _, j := range jobs {
			jobNames[j.ID] = j.Name
		}
	}

	f := excelize.NewFile()
	const sheet = "Tips"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Date",
		"Job",
		"Shift",
		"Hours Worked",
		"Tips Earned",
		"Hourly Rate",
		"Source",
		"Notes",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, e := range entries {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		if !e.EntryDate.IsZero() {
			write(1, e.EntryDate.Format("2006-01-02"))
		} else {
			write(1, "")
		}

		jobName := ""
		if e.JobID != nil {
			jobName = jobNames[*e.JobID]
		}
		write(2, jobName)

		shift := ""
		if e.ShiftType != nil {
			shift = *e.ShiftType
		}
		write(3, shift)

		write(4, e.HoursWorked)
		write(5, e.TipsEarned)

		// Effective hourly rate, tips only
		if e.HoursWorked > 0 {
			write(6, fmt.Sprintf("%.2f", e.TipsEarned/e.HoursWorked))
		} else {
			write(6, "")
		}

		write(7, e.Source)

		notes := ""
		if e.Notes != nil {
			notes = *e.Notes
		}
		write(8, truncate(notes, 140))

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 12) // date
	_ = f.SetColWidth(sheet, "B", "B", 22) // job
	_ = f.SetColWidth(sheet, "C", "C", 12) // shift
	_ = f.SetColWidth(sheet, "D", "F", 14) // numbers
	_ = f.SetColWidth(sheet, "G", "G", 12) // source
	_ = f.SetColWidth(sheet, "H", "H", 48) // notes

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"user_key", userKey,
		"rows", len(entries),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
