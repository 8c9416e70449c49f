package vision

import (
	"encoding/json"
	"strings"

	"github.com/tiptally/tiptally/constants"
)

// reviewPolicy is shared by both tasks: the conditions under which the model
// must set needs_review and explain itself in review_reason.
const reviewPolicy = "Set needs_review to true and explain in review_reason when ANY of these hold: " +
	"the image is cropped or partially visible; numerals are blurry or unreadable; " +
	"the time period covered is ambiguous (e.g. 'this week' without dates); " +
	"you cannot tell whether a total already includes tips."

// BuildEarningsSystemPrompt enumerates the visual patterns of the gig apps
// we recognize plus the strict output shape.
func BuildEarningsSystemPrompt() string {
	parts := []string{
		"You analyze screenshots of delivery and rideshare driver earnings screens.",
		"Recognized apps and their visual patterns: " +
			"doordash (red/white Dasher app, 'Dash' summaries, 'Active time'); " +
			"ubereats / uber (black/green Uber driver app, 'Trip earnings', weekly bar chart); " +
			"grubhub (orange/blue, 'Scheduled blocks', 'Contribution'); " +
			"instacart (green/white, 'Batch earnings', 'Customer tip'); " +
			"lyft (pink/white, 'Ride earnings'); " +
			"shipt (teal/white, 'Shopped orders'); " +
			"spark (Walmart Spark, blue/yellow, 'Trip earnings').",
		"If the app cannot be identified, use \"unknown\" with a low app_confidence.",
		"Report only amounts that are visible. Use null for any amount the screenshot does not show. Never guess.",
		"Copy the key visible numbers and labels into raw_text as supporting evidence.",
		reviewPolicy,
		"Allowed app values: " + strings.Join(constants.GigAppsAsStrings(), ", ") + ".",
		"Return ONLY JSON matching this schema, no prose:",
		mustJSON(BuildEarningsJSONSchema()),
	}
	return strings.Join(parts, " ")
}

// BuildReceiptSystemPrompt describes paper-receipt layout conventions.
func BuildReceiptSystemPrompt() string {
	parts := []string{
		"You analyze photos of paper restaurant and retail receipts.",
		"Layout conventions: merchant name and address at the top; line items in the middle; " +
			"subtotal, tax, tip, and total near the bottom; the tip line is often handwritten on printed credit slips; " +
			"payment method appears as CASH, VISA, MASTERCARD, AMEX, or a masked card number.",
		"Use ISO-8601 dates (YYYY-MM-DD). Use null for any amount not on the receipt. Never guess.",
		"A handwritten tip overrides a printed $0.00 tip line.",
		"Copy the key visible lines into raw_text as supporting evidence.",
		reviewPolicy,
		"Return ONLY JSON matching this schema, no prose:",
		mustJSON(BuildReceiptJSONSchema()),
	}
	return strings.Join(parts, " ")
}

// BuildEarningsJSONSchema returns the JSON-Schema for earnings replies.
// Amount fields accept null so the model can say "not shown".
func BuildEarningsJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"app":            map[string]any{"type": "string", "enum": constants.GigAppsAsStrings()},
			"app_confidence": confidenceProp(),
			"total_earnings": nullableNumberProp(),
			"tip_amount":     nullableNumberProp(),
			"base_pay":       nullableNumberProp(),
			"bonus_amount":   nullableNumberProp(),
			"period":         map[string]any{"type": "string"},
			"delivery_count": map[string]any{"type": []string{"integer", "null"}, "minimum": 0},
			"hours_worked":   nullableNumberProp(),
			"raw_text":       map[string]any{"type": "string"},
			"confidence":     confidenceProp(),
			"needs_review":   map[string]any{"type": "boolean"},
			"review_reason":  map[string]any{"type": "string"},
		},
		"required": []string{"app", "confidence", "needs_review"},
	}
}

// BuildReceiptJSONSchema returns the JSON-Schema for receipt replies.
func BuildReceiptJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"merchant_name":  map[string]any{"type": "string"},
			"date":           map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"total":          nullableNumberProp(),
			"tip_amount":     nullableNumberProp(),
			"subtotal":       nullableNumberProp(),
			"tax":            nullableNumberProp(),
			"payment_method": map[string]any{"type": "string"},
			"raw_text":       map[string]any{"type": "string"},
			"confidence":     confidenceProp(),
			"needs_review":   map[string]any{"type": "boolean"},
			"review_reason":  map[string]any{"type": "string"},
		},
		"required": []string{"confidence", "needs_review"},
	}
}

func nullableNumberProp() map[string]any {
	return map[string]any{"type": []string{"number", "null"}, "minimum": 0.0}
}

func confidenceProp() map[string]any {
	return map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0}
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
