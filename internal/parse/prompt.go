package parse

import (
	"encoding/json"
	"strings"
)

// BuildSystemPrompt composes the fixed system instruction: flexible parsing,
// honest confidence scoring, valid-JSON-only replies, and the exact output
// shape with worked examples.
func BuildSystemPrompt() string {
	parts := []string{
		"You parse casual shift reports from service-industry workers (servers, bartenders, baristas, delivery drivers) into structured tip entries.",
		"Be flexible about phrasing: people write things like 'made 120 tonight', 'pulled a double', 'slow lunch, maybe 40 bucks'.",
		"Score your own confidence honestly between 0 and 1. Never inflate confidence to avoid asking a question.",
		"If tips or hours cannot be determined with reasonable confidence, set needs_clarification to true and ask ONE short, friendly clarification_question.",
		"shift_type must be one of: breakfast, lunch, dinner, late_night. Omit it if the text gives no hint.",
		"Put any qualitative remarks (busy patio, bad weather, good section) into notes.",
		"Return ONLY valid JSON that matches the provided JSON Schema. No prose, no markdown fences.",
		"Never output null. If a field is not present, omit it.",
		"JSON Schema:\n" + mustJSON(BuildTipEntryJSONSchema()),
		"Examples:",
		`Input: "Made $85 in 5 hours tonight" -> {"tips_earned": 85, "hours_worked": 5, "shift_type": "dinner", "confidence": 0.95, "needs_clarification": false}`,
		`Input: "Brutal Saturday double, 10hrs, walked with 240. Patio was slammed" -> {"tips_earned": 240, "hours_worked": 10, "notes": "Patio was slammed", "confidence": 0.9, "needs_clarification": false}`,
		`Input: "Slow lunch today" -> {"tips_earned": 0, "hours_worked": 0, "shift_type": "lunch", "confidence": 0.2, "needs_clarification": true, "clarification_question": "How much did you make in tips, and how many hours did you work?"}`,
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt wraps the sanitized shift report. The sanitizer has
// already bounded and screened the text; nothing else is added here so the
// model sees the report verbatim.
func BuildUserPrompt(safeText string) string {
	var b strings.Builder
	b.WriteString("Shift report:\n")
	b.WriteString(safeText)
	b.WriteString("\n\nReturn ONLY JSON that matches the schema.")
	return b.String()
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
