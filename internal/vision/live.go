package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tiptally/tiptally/constants"
	"github.com/tiptally/tiptally/internal/llm"
)

// LiveBackend sends images to the remote vision service and decodes the
// structured reply. Errors bubble up to the Extractor, which degrades them
// to the mock placeholder.
type LiveBackend struct {
	vc     llm.VisionCompleter
	logger *slog.Logger
}

func NewLiveBackend(vc llm.VisionCompleter, logger *slog.Logger) *LiveBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &LiveBackend{vc: vc, logger: logger}
}

func (b *LiveBackend) Name() string { return "live" }

func (b *LiveBackend) ExtractEarnings(ctx context.Context, img Image) (ExtractedEarnings, error) {
	user := "Analyze this earnings screenshot and extract the structured fields."
	reply, err := b.vc.CompleteVision(ctx, BuildEarningsSystemPrompt(), user, img.DataURL)
	if err != nil {
		return ExtractedEarnings{}, fmt.Errorf("vision call: %w", err)
	}

	doc, err := b.decodeReply(reply, BuildEarningsJSONSchema())
	if err != nil {
		return ExtractedEarnings{}, err
	}

	var out ExtractedEarnings
	if err := json.Unmarshal(doc, &out); err != nil {
		return ExtractedEarnings{}, fmt.Errorf("unmarshal earnings: %w", err)
	}

	// collapse unrecognized app labels rather than trusting them
	if app, ok := constants.CanonicalizeApp(out.App); ok {
		out.App = string(app)
	} else {
		out.App = string(constants.AppUnknown)
	}
	return out, nil
}

func (b *LiveBackend) ExtractReceipt(ctx context.Context, img Image) (ExtractedReceipt, error) {
	user := "Analyze this receipt photo and extract the structured fields."
	reply, err := b.vc.CompleteVision(ctx, BuildReceiptSystemPrompt(), user, img.DataURL)
	if err != nil {
		return ExtractedReceipt{}, fmt.Errorf("vision call: %w", err)
	}

	doc, err := b.decodeReply(reply, BuildReceiptJSONSchema())
	if err != nil {
		return ExtractedReceipt{}, err
	}

	var out ExtractedReceipt
	if err := json.Unmarshal(doc, &out); err != nil {
		return ExtractedReceipt{}, fmt.Errorf("unmarshal receipt: %w", err)
	}
	return out, nil
}

// decodeReply recovers the JSON object from a possibly prose-wrapped reply
// and validates it against the task schema.
func (b *LiveBackend) decodeReply(reply string, schema map[string]any) ([]byte, error) {
	doc := llm.ExtractJSONObject(reply)
	if doc == "" {
		return nil, fmt.Errorf("no JSON object in vision reply (%d bytes)", len(reply))
	}
	if err := llm.ValidateJSONAgainstSchema(schema, []byte(doc)); err != nil {
		return nil, fmt.Errorf("vision reply schema: %w", err)
	}
	return []byte(doc), nil
}
