package entity

import (
	"time"

	"github.com/google/uuid"
)

// Job represents a position a user works (e.g. "Server @ Harbor Grill")
// for data transfer between layers.
type Job struct {
	ID           uuid.UUID `json:"id"`
	UserKey      string    `json:"user_key"`
	Name         string    `json:"name"`
	HourlyRate   *float64  `json:"hourly_rate,omitempty"`
	DefaultShift *string   `json:"default_shift,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
