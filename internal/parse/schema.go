package parse

import "github.com/tiptally/tiptally/constants"

// BuildTipEntryJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It is embedded in the prompt and used locally to validate the
// model reply before the typed decode.
func BuildTipEntryJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"tips_earned":  map[string]any{"type": "number", "minimum": 0.0},
			"hours_worked": map[string]any{"type": "number", "minimum": 0.0},
			"shift_type": map[string]any{
				"type": "string",
				"enum": constants.ShiftTypesAsStrings(),
			},
			"notes":                  map[string]any{"type": "string"},
			"confidence":             map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"needs_clarification":    map[string]any{"type": "boolean"},
			"clarification_question": map[string]any{"type": "string"},
		},
		"required": []string{"tips_earned", "hours_worked", "confidence", "needs_clarification"},
	}
}
