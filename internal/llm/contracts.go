package llm

import "context"

// ChatCompleter is the remote text-completion surface the parser depends on.
// Implementations return the raw assistant reply text.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// VisionCompleter is the remote vision surface the extractor depends on.
// imageDataURL is a base64 data URL carrying the encoded image.
type VisionCompleter interface {
	CompleteVision(ctx context.Context, system, user, imageDataURL string) (string, error)
}
