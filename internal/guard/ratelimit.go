package guard

import (
	"log/slog"
	"sync"
	"time"
)

// Decision is the outcome of a rate-limit check. ResetIn is how long the
// caller should wait before the window reopens; zero when Allowed.
type Decision struct {
	Allowed bool
	ResetIn time.Duration
}

type rateState struct {
	count   int
	resetAt time.Time
}

// RateLimiter is a fixed-window per-key counter held in process memory.
// Windows reset lazily on the next check after expiry; counters are lost on
// restart, which is accepted for this use.
type RateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	now    func() time.Time
	states map[string]*rateState
	logger *slog.Logger
}

type RateLimiterOption func(*RateLimiter)

// WithClock injects a time source. Tests use this to advance the window.
func WithClock(now func() time.Time) RateLimiterOption {
	return func(l *RateLimiter) {
		if now != nil {
			l.now = now
		}
	}
}

func NewRateLimiter(limit int, window time.Duration, logger *slog.Logger, opts ...RateLimiterOption) *RateLimiter {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	l := &RateLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		states: make(map[string]*rateState),
		logger: logger,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Check consumes one slot for key if the window allows it. A request that is
// admitted counts against the window even if the caller later cancels it.
func (l *RateLimiter) Check(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	st, ok := l.states[key]
	if !ok || !now.Before(st.resetAt) {
		l.states[key] = &rateState{count: 1, resetAt: now.Add(l.window)}
		l.maybePurgeLocked(now)
		return Decision{Allowed: true}
	}

	if st.count >= l.limit {
		l.logger.Warn("guard.rate_limited", "user_key", key, "count", st.count, "reset_in_ms", st.resetAt.Sub(now).Milliseconds())
		return Decision{Allowed: false, ResetIn: st.resetAt.Sub(now)}
	}

	st.count++
	return Decision{Allowed: true}
}

// maybePurgeLocked drops expired entries so the map does not grow without
// bound across many one-off user keys. Called with l.mu held.
func (l *RateLimiter) maybePurgeLocked(now time.Time) {
	if len(l.states) < 1024 {
		return
	}
	for k, st := range l.states {
		if !now.Before(st.resetAt) {
			delete(l.states, k)
		}
	}
}
