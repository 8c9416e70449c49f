package vision

import "context"

// ExtractedEarnings is the structured result of analyzing a delivery or
// rideshare earnings screenshot. Amount fields are nil when the screenshot
// does not show them. Transient: surfaced for user confirmation, never
// auto-saved.
type ExtractedEarnings struct {
	App           string   `json:"app"` // constants.GigApp value or "unknown"
	AppConfidence float64  `json:"app_confidence"`
	TotalEarnings *float64 `json:"total_earnings"`
	TipAmount     *float64 `json:"tip_amount"`
	BasePay       *float64 `json:"base_pay"`
	BonusAmount   *float64 `json:"bonus_amount"`
	Period        string   `json:"period,omitempty"` // date or range as shown on screen
	DeliveryCount *int     `json:"delivery_count"`
	HoursWorked   *float64 `json:"hours_worked"`
	RawText       string   `json:"raw_text,omitempty"`
	Confidence    float64  `json:"confidence"`
	NeedsReview   bool     `json:"needs_review"`
	ReviewReason  string   `json:"review_reason,omitempty"`
}

// ExtractedReceipt is the structured result of analyzing a paper receipt.
type ExtractedReceipt struct {
	MerchantName  string   `json:"merchant_name,omitempty"`
	Date          string   `json:"date,omitempty"` // YYYY-MM-DD
	Total         *float64 `json:"total"`
	TipAmount     *float64 `json:"tip_amount"`
	Subtotal      *float64 `json:"subtotal"`
	Tax           *float64 `json:"tax"`
	PaymentMethod string   `json:"payment_method,omitempty"`
	RawText       string   `json:"raw_text,omitempty"`
	Confidence    float64  `json:"confidence"`
	NeedsReview   bool     `json:"needs_review"`
	ReviewReason  string   `json:"review_reason,omitempty"`
}

// Backend is the extraction strategy, selected once at construction time:
// live against the remote vision service, or the fixed mock used for
// offline development.
type Backend interface {
	Name() string
	ExtractEarnings(ctx context.Context, img Image) (ExtractedEarnings, error)
	ExtractReceipt(ctx context.Context, img Image) (ExtractedReceipt, error)
}
