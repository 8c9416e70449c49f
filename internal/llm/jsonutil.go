package llm

import (
	"regexp"
	"strings"
)

// Models are told to return JSON only, but in practice they wrap it in
// markdown fences or prose. These patterns recover the object.
var (
	jsonBlockPattern  = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	jsonObjectPattern = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
	trailingCommaRe   = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSONObject extracts the first well-formed-looking JSON object from a
// model reply, preferring fenced code blocks, and strips trailing commas.
// Returns "" when no object is found.
func ExtractJSONObject(content string) string {
	raw := ""
	if matches := jsonBlockPattern.FindStringSubmatch(content); len(matches) > 1 {
		raw = matches[1]
	} else if m := jsonObjectPattern.FindString(content); m != "" {
		raw = m
	}
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(trailingCommaRe.ReplaceAllString(raw, "$1"))
}
