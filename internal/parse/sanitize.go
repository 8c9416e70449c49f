package parse

import (
	"regexp"
	"strings"
)

// MaxInputLength bounds free-text input before it is considered at all.
const MaxInputLength = 500

// SanitizeResult is the verdict on one piece of user text. When Blocked is
// true, Safe is empty and Reason must be surfaced to the user instead of
// forwarding anything to the model.
type SanitizeResult struct {
	Safe    string
	Blocked bool
	Reason  string
}

type injectionRule struct {
	pattern *regexp.Regexp
	reason  string
}

const (
	reasonInjection = "That message looks like an attempt to change how the assistant works. Please just describe your shift."
	reasonMarkup    = "That message contains markup the assistant can't accept. Please describe your shift in plain text."
)

var injectionRules = []injectionRule{
	{regexp.MustCompile(`(?i)ignore\s+(?:all\s+)?(?:previous|prior|above|earlier)\s+(?:instructions|prompts|messages|rules)`), reasonInjection},
	{regexp.MustCompile(`(?i)disregard\s+(?:all\s+)?(?:previous|prior|your|the)\s+(?:instructions|prompts|rules)`), reasonInjection},
	{regexp.MustCompile(`(?i)(?:reveal|show|print|repeat|output)\s+(?:your\s+|the\s+)?system\s*prompt`), reasonInjection},
	{regexp.MustCompile(`(?i)system\s*prompt`), reasonInjection},
	{regexp.MustCompile(`(?i)you\s+are\s+(?:now|no\s+longer)\b`), reasonInjection},
	{regexp.MustCompile(`(?i)(?:act|behave|respond|answer)\s+as\s+(?:the\s+|a\s+)?(?:system|admin|administrator|developer|root)`), reasonInjection},
	{regexp.MustCompile(`(?i)pretend\s+(?:to\s+be|you\s+are)`), reasonInjection},
	{regexp.MustCompile(`(?i)\b(?:jailbreak|dan\s+mode|developer\s+mode)\b`), reasonInjection},
	{regexp.MustCompile(`(?i)<\s*/?\s*(?:script|system|prompt|img|iframe)`), reasonMarkup},
}

var controlCharRe = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")

// Sanitize trims, truncates, and screens one piece of free text. Pure and
// deterministic; never touches I/O.
func Sanitize(input string) SanitizeResult {
	s := strings.TrimSpace(input)
	if len(s) > MaxInputLength {
		s = s[:MaxInputLength]
	}

	for _, rule := range injectionRules {
		if rule.pattern.MatchString(s) {
			return SanitizeResult{Blocked: true, Reason: rule.reason}
		}
	}

	// Strip markup characters the model has no business seeing in a shift
	// report, then collapse whatever whitespace that leaves behind.
	s = strings.NewReplacer("<", "", ">", "", "`", "").Replace(s)
	s = controlCharRe.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")

	return SanitizeResult{Safe: s}
}
