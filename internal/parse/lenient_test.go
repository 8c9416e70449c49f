package parse

import (
	"encoding/json"
	"testing"
)

func repair(t *testing.T, raw string) map[string]any {
	t.Helper()
	out, _, err := RepairModelJSON([]byte(raw))
	if err != nil {
		t.Fatalf("RepairModelJSON(%q): %v", raw, err)
	}
	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("repaired doc is not JSON: %v", err)
	}
	return m
}

func TestRepairModelJSONRenamesSynonyms(t *testing.T) {
	m := repair(t, `{"tips": 85, "hours": 5, "shift": "dinner", "confidence": 0.9, "needs_clarification": false}`)

	if m["tips_earned"] != 85.0 {
		t.Errorf("tips_earned = %v, want 85", m["tips_earned"])
	}
	if m["hours_worked"] != 5.0 {
		t.Errorf("hours_worked = %v, want 5", m["hours_worked"])
	}
	if m["shift_type"] != "dinner" {
		t.Errorf("shift_type = %v, want dinner", m["shift_type"])
	}
	if _, leaked := m["tips"]; leaked {
		t.Error("synonym key 'tips' was not removed")
	}
}

func TestRepairModelJSONCoercesStrings(t *testing.T) {
	m := repair(t, `{"tips_earned": "$1,200.50", "hours_worked": "5.5", "confidence": "0.8", "needs_clarification": "false"}`)

	if m["tips_earned"] != 1200.50 {
		t.Errorf("tips_earned = %v, want 1200.5", m["tips_earned"])
	}
	if m["hours_worked"] != 5.5 {
		t.Errorf("hours_worked = %v, want 5.5", m["hours_worked"])
	}
	if m["confidence"] != 0.8 {
		t.Errorf("confidence = %v, want 0.8", m["confidence"])
	}
	if m["needs_clarification"] != false {
		t.Errorf("needs_clarification = %v, want false", m["needs_clarification"])
	}
}

func TestRepairModelJSONDropsGarbage(t *testing.T) {
	m := repair(t, `{"tips_earned": "lots", "hours_worked": null, "shift_type": "graveyard-ish", "notes": "  ", "model_thoughts": "hmm", "confidence": 0.5, "needs_clarification": false}`)

	for _, k := range []string{"tips_earned", "hours_worked", "shift_type", "notes", "model_thoughts"} {
		if _, ok := m[k]; ok {
			t.Errorf("key %q should have been dropped", k)
		}
	}
	if m["confidence"] != 0.5 {
		t.Errorf("confidence = %v, want 0.5", m["confidence"])
	}
}

func TestRepairModelJSONCanonicalizesShiftSynonyms(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"brunch", "breakfast"},
		{"closing", "late_night"},
		{"Dinner", "dinner"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m := repair(t, `{"tips_earned": 10, "hours_worked": 2, "confidence": 0.9, "needs_clarification": false, "shift_type": "`+tt.input+`"}`)
			if m["shift_type"] != tt.want {
				t.Errorf("shift_type = %v, want %v", m["shift_type"], tt.want)
			}
		})
	}
}

func TestRepairModelJSONRejectsNonObject(t *testing.T) {
	if _, _, err := RepairModelJSON([]byte(`[1, 2, 3]`)); err == nil {
		t.Error("array input should fail")
	}
	if _, _, err := RepairModelJSON([]byte(`not json`)); err == nil {
		t.Error("prose input should fail")
	}
}
