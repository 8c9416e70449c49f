package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// Fallback heuristic: local, non-AI extraction used only when the remote
// model call cannot be completed. It looks for the first dollar-shaped
// numeral and the first number followed by an hour-unit word.
var (
	currencyRe = regexp.MustCompile(`\$\s*(\d+(?:,\d{3})*(?:\.\d{1,2})?)`)
	hoursRe    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:hours?|hrs?|h)\b`)
)

const (
	fallbackConfidenceBoth    = 0.6
	fallbackConfidencePartial = 0.3
)

// FallbackExtract produces a best-effort entry from text alone. notes keeps
// the (injection-sanitized) input so nothing the user typed is lost.
// Confidence is 0.6 when both tips and hours were found, 0.3 otherwise.
// When a value is missing, tips are asked about first.
func FallbackExtract(text string) ParsedTipEntry {
	entry := ParsedTipEntry{
		Notes:      text,
		Confidence: fallbackConfidencePartial,
	}

	tipsFound := false
	if m := currencyRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil && v <= MaxTipsEarned {
			entry.TipsEarned = v
			tipsFound = true
		}
	}

	hoursFound := false
	if m := hoursRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 && v <= MaxHoursWorked {
			entry.HoursWorked = v
			hoursFound = true
		}
	}

	switch {
	case tipsFound && hoursFound:
		entry.Confidence = fallbackConfidenceBoth
	case !tipsFound:
		entry.NeedsClarification = true
		entry.ClarificationQuestion = "How much did you make in tips?"
	default: // tips found, hours missing
		entry.NeedsClarification = true
		entry.ClarificationQuestion = "How many hours did you work?"
	}

	return entry
}
