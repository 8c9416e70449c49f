package parse

import "math"

// Bounds enforced before any value reaches persistence.
const (
	MaxTipsEarned  = 100000.0
	MaxHoursWorked = 24.0
)

// Verdict is the outcome of bounds validation. Errors are user-facing; the
// first one is what the caller should surface.
type Verdict struct {
	Valid  bool
	Errors []string
}

// ValidateEntry checks a parsed entry against the numeric bounds. It never
// mutates its input; callers decide how to discard or reset offending
// fields. Tips are checked before hours so the first surfaced error keeps
// the established tips-first ordering.
func ValidateEntry(e ParsedTipEntry) Verdict {
	var errs []string

	if !finite(e.TipsEarned) {
		errs = append(errs, "tips amount must be a number")
	} else if e.TipsEarned < 0 || e.TipsEarned > MaxTipsEarned {
		errs = append(errs, "tips amount must be between $0 and $100,000")
	}

	if !finite(e.HoursWorked) {
		errs = append(errs, "hours worked must be a number")
	} else if e.HoursWorked <= 0 || e.HoursWorked > MaxHoursWorked {
		errs = append(errs, "hours worked must be more than 0 and at most 24")
	}

	if !finite(e.Confidence) || e.Confidence < 0 || e.Confidence > 1 {
		errs = append(errs, "confidence must be between 0 and 1")
	}

	return Verdict{Valid: len(errs) == 0, Errors: errs}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
