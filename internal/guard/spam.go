package guard

import (
	"strings"
	"sync"
	"time"
	"unicode"
)

const spamHistoryDepth = 3

type submission struct {
	normalized string
	at         time.Time
}

// SpamDetector flags repeated identical or near-identical submissions from
// the same user key within a short window. History lives in process memory
// only, alongside the rate counters.
type SpamDetector struct {
	mu      sync.Mutex
	window  time.Duration
	now     func() time.Time
	history map[string][]submission
}

func NewSpamDetector(window time.Duration) *SpamDetector {
	if window <= 0 {
		window = 30 * time.Second
	}
	return &SpamDetector{
		window:  window,
		now:     time.Now,
		history: make(map[string][]submission),
	}
}

// WithNow injects a time source for tests.
func (d *SpamDetector) WithNow(now func() time.Time) *SpamDetector {
	if now != nil {
		d.now = now
	}
	return d
}

// Flag reports whether text is a near-duplicate of the user's recent
// submissions, and records it either way.
func (d *SpamDetector) Flag(userKey, text string) bool {
	norm := normalizeText(text)

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	recent := d.history[userKey][:0]
	for _, s := range d.history[userKey] {
		if now.Sub(s.at) <= d.window {
			recent = append(recent, s)
		}
	}

	flagged := false
	for _, s := range recent {
		if norm != "" && (s.normalized == norm || nearDuplicate(s.normalized, norm)) {
			flagged = true
			break
		}
	}

	recent = append(recent, submission{normalized: norm, at: now})
	if len(recent) > spamHistoryDepth {
		recent = recent[len(recent)-spamHistoryDepth:]
	}
	d.history[userKey] = recent

	return flagged
}

// normalizeText lowercases and strips punctuation so trivial edits don't
// defeat duplicate detection.
func normalizeText(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '$' || r == '.':
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// nearDuplicate compares word sets; two submissions sharing at least 80% of
// their combined vocabulary count as the same message.
func nearDuplicate(a, b string) bool {
	wa := strings.Fields(a)
	wb := strings.Fields(b)
	if len(wa) == 0 || len(wb) == 0 {
		return false
	}

	set := make(map[string]struct{}, len(wa))
	for _, w := range wa {
		set[w] = struct{}{}
	}
	shared := 0
	union := len(set)
	seen := make(map[string]struct{}, len(wb))
	for _, w := range wb {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if _, ok := set[w]; ok {
			shared++
		} else {
			union++
		}
	}
	return float64(shared)/float64(union) >= 0.8
}
