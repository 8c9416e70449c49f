package vision

import "context"

// mockLabel makes placeholder results unmistakable in the UI and in logs.
const mockLabel = "placeholder result - no live vision extraction was performed"

// MockBackend returns fixed, clearly labeled results. Selected when no API
// credential is configured; also the degradation target for every live
// failure, so callers see one placeholder shape regardless of cause.
type MockBackend struct{}

func (MockBackend) Name() string { return "mock" }

func (MockBackend) ExtractEarnings(context.Context, Image) (ExtractedEarnings, error) {
	return MockEarnings(), nil
}

func (MockBackend) ExtractReceipt(context.Context, Image) (ExtractedReceipt, error) {
	return MockReceipt(), nil
}

// MockEarnings is the fixed earnings placeholder. Identical on every call.
func MockEarnings() ExtractedEarnings {
	total := 87.50
	tip := 62.25
	base := 25.25
	deliveries := 12
	hours := 4.5
	return ExtractedEarnings{
		App:           "doordash",
		AppConfidence: 1,
		TotalEarnings: &total,
		TipAmount:     &tip,
		BasePay:       &base,
		Period:        "Today",
		DeliveryCount: &deliveries,
		HoursWorked:   &hours,
		RawText:       mockLabel,
		Confidence:    0,
		NeedsReview:   true,
		ReviewReason:  mockLabel,
	}
}

// MockReceipt is the fixed receipt placeholder. Identical on every call.
func MockReceipt() ExtractedReceipt {
	total := 64.80
	tip := 10.00
	subtotal := 49.95
	tax := 4.85
	return ExtractedReceipt{
		MerchantName:  "Sample Diner",
		Date:          "2024-01-15",
		Total:         &total,
		TipAmount:     &tip,
		Subtotal:      &subtotal,
		Tax:           &tax,
		PaymentMethod: "VISA",
		RawText:       mockLabel,
		Confidence:    0,
		NeedsReview:   true,
		ReviewReason:  mockLabel,
	}
}
