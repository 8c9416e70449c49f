package parse

import (
	"math"
	"testing"
)

func TestValidateEntryBounds(t *testing.T) {
	tests := []struct {
		name      string
		entry     ParsedTipEntry
		valid     bool
		firstErr  string
	}{
		{
			name:  "typical shift",
			entry: ParsedTipEntry{TipsEarned: 85, HoursWorked: 5, Confidence: 0.95},
			valid: true,
		},
		{
			name:  "zero tips is a real outcome",
			entry: ParsedTipEntry{TipsEarned: 0, HoursWorked: 6, Confidence: 0.9},
			valid: true,
		},
		{
			name:  "boundary values pass",
			entry: ParsedTipEntry{TipsEarned: MaxTipsEarned, HoursWorked: MaxHoursWorked, Confidence: 1},
			valid: true,
		},
		{
			name:     "negative tips",
			entry:    ParsedTipEntry{TipsEarned: -5, HoursWorked: 5, Confidence: 0.9},
			firstErr: "tips amount must be between $0 and $100,000",
		},
		{
			name:     "tips over cap",
			entry:    ParsedTipEntry{TipsEarned: 100001, HoursWorked: 5, Confidence: 0.9},
			firstErr: "tips amount must be between $0 and $100,000",
		},
		{
			name:     "zero hours",
			entry:    ParsedTipEntry{TipsEarned: 85, HoursWorked: 0, Confidence: 0.9},
			firstErr: "hours worked must be more than 0 and at most 24",
		},
		{
			name:     "hours over a day",
			entry:    ParsedTipEntry{TipsEarned: 85, HoursWorked: 25, Confidence: 0.9},
			firstErr: "hours worked must be more than 0 and at most 24",
		},
		{
			name:     "confidence out of range",
			entry:    ParsedTipEntry{TipsEarned: 85, HoursWorked: 5, Confidence: 1.5},
			firstErr: "confidence must be between 0 and 1",
		},
		{
			name:     "NaN tips",
			entry:    ParsedTipEntry{TipsEarned: math.NaN(), HoursWorked: 5, Confidence: 0.9},
			firstErr: "tips amount must be a number",
		},
		{
			name:     "infinite hours",
			entry:    ParsedTipEntry{TipsEarned: 85, HoursWorked: math.Inf(1), Confidence: 0.9},
			firstErr: "hours worked must be a number",
		},
		{
			// tips error must come first so the user fixes tips before hours
			name:     "both out of bounds reports tips first",
			entry:    ParsedTipEntry{TipsEarned: -1, HoursWorked: 30, Confidence: 0.9},
			firstErr: "tips amount must be between $0 and $100,000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateEntry(tt.entry)
			if got.Valid != tt.valid {
				t.Fatalf("Valid = %v, want %v (errors: %v)", got.Valid, tt.valid, got.Errors)
			}
			if !tt.valid && got.Errors[0] != tt.firstErr {
				t.Errorf("Errors[0] = %q, want %q", got.Errors[0], tt.firstErr)
			}
		})
	}
}

func TestDispositionFor(t *testing.T) {
	tests := []struct {
		name  string
		entry ParsedTipEntry
		want  Disposition
	}{
		{"high confidence", ParsedTipEntry{Confidence: 0.95}, DispositionAccept},
		{"exactly 0.9", ParsedTipEntry{Confidence: 0.9}, DispositionAccept},
		{"mid confidence", ParsedTipEntry{Confidence: 0.8}, DispositionConfirm},
		{"exactly 0.7", ParsedTipEntry{Confidence: 0.7}, DispositionConfirm},
		{"low confidence", ParsedTipEntry{Confidence: 0.5}, DispositionClarify},
		{"open question overrides confidence", ParsedTipEntry{Confidence: 0.95, NeedsClarification: true}, DispositionClarify},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DispositionFor(tt.entry); got != tt.want {
				t.Errorf("DispositionFor = %q, want %q", got, tt.want)
			}
		})
	}
}
