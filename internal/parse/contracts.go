package parse

// ParsedTipEntry is the normalized shape we want from the LLM. It is
// transient: the UI shows it for confirmation and only confirmed fields are
// copied into a persisted entry.
type ParsedTipEntry struct {
	TipsEarned            float64 `json:"tips_earned"`
	HoursWorked           float64 `json:"hours_worked"`
	ShiftType             string  `json:"shift_type,omitempty"` // breakfast|lunch|dinner|late_night
	Notes                 string  `json:"notes,omitempty"`
	Confidence            float64 `json:"confidence"` // 0..1
	NeedsClarification    bool    `json:"needs_clarification"`
	ClarificationQuestion string  `json:"clarification_question,omitempty"`
}

// Disposition tells the caller how much ceremony a parse result needs
// before it can be saved.
type Disposition string

const (
	// DispositionAccept: high-confidence result, usable without prompting.
	DispositionAccept Disposition = "accept"
	// DispositionConfirm: values were inferred; show them for confirmation.
	DispositionConfirm Disposition = "confirm"
	// DispositionClarify: the user must answer the clarification question.
	DispositionClarify Disposition = "clarify"
)

// DispositionFor applies the confidence policy: >=0.9 with no open question
// is directly usable, [0.7,0.9) needs confirmation, below 0.7 always needs
// clarification.
func DispositionFor(e ParsedTipEntry) Disposition {
	switch {
	case e.NeedsClarification || e.Confidence < 0.7:
		return DispositionClarify
	case e.Confidence >= 0.9:
		return DispositionAccept
	default:
		return DispositionConfirm
	}
}
