package parse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tiptally/tiptally/internal/common"
	"github.com/tiptally/tiptally/internal/guard"
	"github.com/tiptally/tiptally/internal/llm"
)

// RateLimitedError carries the wait estimate surfaced to the user. It is
// the ONLY error Parse ever returns; every other failure degrades to a
// reviewable ParsedTipEntry.
type RateLimitedError struct {
	ResetIn time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.ResetIn.Round(time.Second))
}

func (e *RateLimitedError) Unwrap() error { return common.ErrRateLimited }

const spamReason = "That looks like a repeat of your last entry. If it's a different shift, reword it slightly."

// Parser turns free-form shift reports into ParsedTipEntry values. The
// guard runs before anything touches the remote service; the remote call is
// timeout-bounded; every remote failure falls back to the local heuristic.
type Parser struct {
	chat    llm.ChatCompleter
	limiter *guard.RateLimiter
	spam    *guard.SpamDetector
	logger  *slog.Logger
	timeout time.Duration
}

type ParserOption func(*Parser)

// WithTimeout bounds the remote model call.
func WithTimeout(d time.Duration) ParserOption {
	return func(p *Parser) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func NewParser(chat llm.ChatCompleter, limiter *guard.RateLimiter, spam *guard.SpamDetector, logger *slog.Logger, opts ...ParserOption) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Parser{
		chat:    chat,
		limiter: limiter,
		spam:    spam,
		logger:  logger,
		timeout: 30 * time.Second,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Parse runs the full pipeline: guard, sanitize, prompt, remote call,
// repair, validate. A rate-limited request returns *RateLimitedError and
// never reaches the remote service; everything else returns a usable entry.
func (p *Parser) Parse(ctx context.Context, userKey, text string) (ParsedTipEntry, error) {
	rid := uuid.New().String()
	start := time.Now()
	if userKey == "" {
		userKey = common.AnonymousUserKey
	}

	san := Sanitize(text)
	if san.Blocked {
		p.logger.Warn("parse.blocked", "req_id", rid, "user_key", userKey, "reason", san.Reason)
		return clarificationOnly(san.Reason), nil
	}
	if san.Safe == "" {
		return clarificationOnly("What would you like to log? Tell me your tips and hours."), nil
	}

	if p.limiter != nil {
		if d := p.limiter.Check(userKey); !d.Allowed {
			return ParsedTipEntry{}, &RateLimitedError{ResetIn: d.ResetIn}
		}
	}
	if p.spam != nil && p.spam.Flag(userKey, san.Safe) {
		p.logger.Warn("parse.spam", "req_id", rid, "user_key", userKey)
		return clarificationOnly(spamReason), nil
	}

	if p.chat == nil {
		// no model configured; the heuristic is all we have
		p.logger.Info("parse.fallback", "req_id", rid, "cause", "no model configured")
		return FallbackExtract(san.Safe), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	p.logger.Info("parse.llm.start", "req_id", rid, "user_key", userKey, "text_len", len(san.Safe))
	reply, err := p.chat.Complete(callCtx, BuildSystemPrompt(), BuildUserPrompt(san.Safe))
	if err != nil {
		p.logger.Warn("parse.llm.error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return FallbackExtract(san.Safe), nil
	}

	entry, ok := p.decodeReply(rid, reply)
	if !ok {
		return FallbackExtract(san.Safe), nil
	}

	if verdict := ValidateEntry(entry); !verdict.Valid {
		p.logger.Warn("parse.validation_failed", "req_id", rid, "errors", verdict.Errors)
		entry.TipsEarned = 0
		entry.HoursWorked = 0
		entry.Confidence = clamp01(entry.Confidence)
		entry.NeedsClarification = true
		entry.ClarificationQuestion = verdict.Errors[0]
	}

	// confidence below 0.7 always means the result is not trustworthy on
	// its own, whatever the model claimed
	if entry.Confidence < 0.7 {
		entry.NeedsClarification = true
	}

	p.logger.Info("parse.ok",
		"req_id", rid,
		"tips", entry.TipsEarned,
		"hours", entry.HoursWorked,
		"confidence", entry.Confidence,
		"needs_clarification", entry.NeedsClarification,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return entry, nil
}

// decodeReply extracts, repairs, schema-validates, and decodes the model
// reply. ok=false sends the caller to the fallback heuristic.
func (p *Parser) decodeReply(rid, reply string) (ParsedTipEntry, bool) {
	doc := llm.ExtractJSONObject(reply)
	if doc == "" {
		p.logger.Warn("parse.llm.no_json", "req_id", rid, "reply_len", len(reply))
		return ParsedTipEntry{}, false
	}

	repaired, adjusted, err := RepairModelJSON([]byte(doc))
	if err != nil {
		p.logger.Warn("parse.llm.repair_failed", "req_id", rid, "error", err)
		return ParsedTipEntry{}, false
	}
	if len(adjusted) > 0 {
		p.logger.Info("parse.llm.repaired", "req_id", rid, "adjusted", adjusted)
	}

	if err := llm.ValidateJSONAgainstSchema(BuildTipEntryJSONSchema(), repaired); err != nil {
		p.logger.Warn("parse.llm.schema_failed", "req_id", rid, "error", err)
		return ParsedTipEntry{}, false
	}

	var entry ParsedTipEntry
	if err := json.Unmarshal(repaired, &entry); err != nil {
		p.logger.Warn("parse.llm.unmarshal_failed", "req_id", rid, "error", err)
		return ParsedTipEntry{}, false
	}
	return entry, true
}

func clarificationOnly(question string) ParsedTipEntry {
	return ParsedTipEntry{
		NeedsClarification:    true,
		ClarificationQuestion: question,
	}
}

func clamp01(f float64) float64 {
	switch {
	case !finite(f) || f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
