package parse

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/tiptally/tiptally/constants"
)

// RepairModelJSON normalizes a model reply before schema validation:
// - renames known synonyms (tips -> tips_earned, hours -> hours_worked)
// - coerces numeric strings ("$85", "5.5") to numbers
// - coerces boolean strings to booleans
// - canonicalizes shift_type, dropping labels we don't recognize
// - drops null/empty optionals and unknown keys
// Returns the repaired document and the list of adjustments made.
func RepairModelJSON(raw []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("repair: decode: %w", err)
	}

	adjusted := make([]string, 0, 8)
	renamed := func(from, to string) {
		if v, ok := m[from]; ok {
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			adjusted = append(adjusted, from+"->"+to)
		}
	}

	// 1) rename synonyms to the schema's field names
	renamed("tips", "tips_earned")
	renamed("tip_amount", "tips_earned")
	renamed("total_tips", "tips_earned")
	renamed("hours", "hours_worked")
	renamed("hours_work", "hours_worked")
	renamed("shift", "shift_type")
	renamed("note", "notes")
	renamed("clarification", "clarification_question")
	renamed("question", "clarification_question")
	renamed("needs_clarity", "needs_clarification")

	// 2) coerce numeric fields the model sometimes emits as strings
	for _, k := range []string{"tips_earned", "hours_worked", "confidence"} {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			// already a number
		case string:
			s := strings.TrimSpace(t)
			s = strings.TrimPrefix(s, "$")
			s = strings.ReplaceAll(s, ",", "")
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				m[k] = f
				adjusted = append(adjusted, k+"(string->number)")
			} else {
				delete(m, k)
				adjusted = append(adjusted, k+"(unparseable)")
			}
		case nil:
			delete(m, k)
			adjusted = append(adjusted, k+"(null)")
		default:
			delete(m, k)
			adjusted = append(adjusted, k+"(type)")
		}
	}

	// 3) coerce boolean-ish needs_clarification
	if v, ok := m["needs_clarification"]; ok {
		switch t := v.(type) {
		case bool:
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
				m["needs_clarification"] = b
				adjusted = append(adjusted, "needs_clarification(string->bool)")
			} else {
				delete(m, "needs_clarification")
				adjusted = append(adjusted, "needs_clarification(unparseable)")
			}
		default:
			delete(m, "needs_clarification")
			adjusted = append(adjusted, "needs_clarification(type)")
		}
	}

	// 4) canonicalize shift_type; unrecognized labels are dropped rather
	// than failing the whole document
	if v, ok := m["shift_type"].(string); ok {
		if shift, known := constants.CanonicalizeShift(v); known {
			m["shift_type"] = string(shift)
		} else {
			delete(m, "shift_type")
			adjusted = append(adjusted, "shift_type(unknown)")
		}
	}

	// 5) trim string optionals, dropping empties
	for _, k := range []string{"notes", "clarification_question"} {
		if v, ok := m[k]; ok {
			s, isStr := v.(string)
			if !isStr || strings.TrimSpace(s) == "" {
				delete(m, k)
				adjusted = append(adjusted, k+"(empty)")
			} else {
				m[k] = strings.TrimSpace(s)
			}
		}
	}

	// 6) remove unknown keys (strict additionalProperties friendliness)
	allowed := map[string]struct{}{
		"tips_earned": {}, "hours_worked": {}, "shift_type": {}, "notes": {},
		"confidence": {}, "needs_clarification": {}, "clarification_question": {},
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			adjusted = append(adjusted, k+"(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, adjusted, fmt.Errorf("repair: encode: %w", err)
	}
	return out, adjusted, nil
}
