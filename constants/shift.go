package constants

import (
	"strings"
)

type ShiftType string

const (
	ShiftBreakfast ShiftType = "breakfast"
	ShiftLunch     ShiftType = "lunch"
	ShiftDinner    ShiftType = "dinner"
	ShiftLateNight ShiftType = "late_night"
)

var allShiftTypes = []ShiftType{
	ShiftBreakfast,
	ShiftLunch,
	ShiftDinner,
	ShiftLateNight,
}

func ShiftTypesAsStrings() []string {
	result := make([]string, len(allShiftTypes))
	for i, s := range allShiftTypes {
		result[i] = string(s)
	}
	return result
}

// CanonicalizeShift maps a free-form label to a known shift type.
// The second return is false when the label did not match anything.
func CanonicalizeShift(input string) (ShiftType, bool) {
	if input == "" {
		return "", false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")

	// synonyms map
	synonyms := map[string]ShiftType{
		"brunch":     ShiftBreakfast,
		"morning":    ShiftBreakfast,
		"am":         ShiftBreakfast,
		"afternoon":  ShiftLunch,
		"midday":     ShiftLunch,
		"evening":    ShiftDinner,
		"night":      ShiftDinner,
		"pm":         ShiftDinner,
		"close":      ShiftLateNight,
		"closing":    ShiftLateNight,
		"overnight":  ShiftLateNight,
		"late":       ShiftLateNight,
		"graveyard":  ShiftLateNight,
		"latenight":  ShiftLateNight,
		"late_shift": ShiftLateNight,
	}

	if s, ok := synonyms[normalized]; ok {
		return s, true
	}

	for _, s := range allShiftTypes {
		if normalized == string(s) {
			return s, true
		}
	}

	return "", false
}
