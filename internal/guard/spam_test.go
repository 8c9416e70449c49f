package guard

import (
	"testing"
	"time"
)

func TestSpamDetectorFlagsExactRepeat(t *testing.T) {
	d := NewSpamDetector(30 * time.Second)

	if d.Flag("u1", "made $85 in 5 hours") {
		t.Fatal("first submission must not be flagged")
	}
	if !d.Flag("u1", "made $85 in 5 hours") {
		t.Error("identical repeat should be flagged")
	}
}

func TestSpamDetectorFlagsNearDuplicate(t *testing.T) {
	d := NewSpamDetector(30 * time.Second)

	d.Flag("u1", "Made $85 in 5 hours tonight")
	if !d.Flag("u1", "made $85 in 5 hours tonight!!") {
		t.Error("punctuation/case tweak should still be flagged")
	}
}

func TestSpamDetectorAllowsDistinctEntries(t *testing.T) {
	d := NewSpamDetector(30 * time.Second)

	d.Flag("u1", "Made $85 in 5 hours tonight")
	if d.Flag("u1", "Slow lunch, only $30 over 4 hours") {
		t.Error("a genuinely different shift report must pass")
	}
}

func TestSpamDetectorWindowExpires(t *testing.T) {
	now := time.Now()
	d := NewSpamDetector(30 * time.Second).WithNow(func() time.Time { return now })

	d.Flag("u1", "made $85 in 5 hours")
	now = now.Add(31 * time.Second)
	if d.Flag("u1", "made $85 in 5 hours") {
		t.Error("repeat outside the window must not be flagged")
	}
}

func TestSpamDetectorKeysAreIndependent(t *testing.T) {
	d := NewSpamDetector(30 * time.Second)

	d.Flag("u1", "made $85 in 5 hours")
	if d.Flag("u2", "made $85 in 5 hours") {
		t.Error("another user's identical text is not spam")
	}
}

func TestNearDuplicate(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "made 85 in 5 hours", "made 85 in 5 hours", true},
		{"one word added still counts", "made $85 in 5 hours tonight", "made $85 in 5 hours tonight again", true},
		{"one word swapped falls short", "made $85 in 5 hours tonight ok", "made $85 in 5 hours tonight yes", false},
		{"disjoint", "slow lunch", "busy dinner", false},
		{"empty", "", "made 85", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nearDuplicate(normalizeText(tt.a), normalizeText(tt.b)); got != tt.want {
				t.Errorf("nearDuplicate(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
