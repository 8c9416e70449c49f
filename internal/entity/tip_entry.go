package entity

import (
	"time"

	"github.com/google/uuid"
)

// TipEntry is a confirmed, persisted record of tips earned during one
// shift. Only validated values reach this type; raw parse input never does.
type TipEntry struct {
	ID          uuid.UUID  `json:"id"`
	UserKey     string     `json:"user_key"`
	JobID       *uuid.UUID `json:"job_id,omitempty"`
	EntryDate   time.Time  `json:"entry_date"`
	TipsEarned  float64    `json:"tips_earned"`
	HoursWorked float64    `json:"hours_worked"`
	ShiftType   *string    `json:"shift_type,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	Source      string     `json:"source"` // constants.EntrySource value
	Confidence  *float64   `json:"confidence,omitempty"`
	NeedsReview bool       `json:"needs_review"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// JobSummary aggregates logged entries for one job.
type JobSummary struct {
	JobID      *uuid.UUID `json:"job_id,omitempty"`
	JobName    string     `json:"job_name"`
	EntryCount int        `json:"entry_count"`
	TotalTips  float64    `json:"total_tips"`
	TotalHours float64    `json:"total_hours"`
}
