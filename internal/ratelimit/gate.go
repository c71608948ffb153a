package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Gate is a thread-safe sliding-window admission gate.
// Acquire blocks the caller until admitting one more request keeps the
// number of grants in any window of the configured period at or below
// the configured maximum. Requests are never denied, only delayed, and
// callers are admitted in the order the internal lock is granted.
type Gate struct {
	// maxRequests is the number of grants allowed per period.
	maxRequests int

	// period is the sliding window length.
	period time.Duration

	// mu guards stamps. Acquisition, pruning, and recording happen in
	// one critical section so racing callers cannot over-admit.
	mu sync.Mutex

	// stamps holds grant timestamps in ascending order, pruned lazily.
	stamps []time.Time

	// now is the clock source, replaceable in tests.
	now func() time.Time
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock replaces the clock source. Tests use this to drive the
// window deterministically without sleeping.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		g.now = now
	}
}

// New creates a Gate admitting maxRequests per period.
func New(maxRequests int, period time.Duration, opts ...Option) *Gate {
	g := &Gate{
		maxRequests: maxRequests,
		period:      period,
		stamps:      make([]time.Time, 0, maxRequests),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Acquire blocks until a request may be admitted under the sliding
// window, then records the grant. It returns early with the context's
// error if ctx is cancelled while waiting.
func (g *Gate) Acquire(ctx context.Context) error {
	for {
		g.mu.Lock()
		now := g.now()
		g.prune(now)

		if len(g.stamps) < g.maxRequests {
			g.stamps = append(g.stamps, now)
			g.mu.Unlock()
			return nil
		}

		// Window full: the oldest grant must expire before one more
		// request fits. Wait outside the lock, then re-check, because
		// another caller may claim the freed slot first.
		wait := g.stamps[0].Add(g.period).Sub(now)
		g.mu.Unlock()

		if wait <= 0 {
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Remaining returns how many requests can currently be admitted without
// blocking, after pruning expired grants.
func (g *Gate) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prune(g.now())
	return g.maxRequests - len(g.stamps)
}

// ResetIn returns the time until the oldest outstanding grant leaves
// the window, or zero if no grants are outstanding.
func (g *Gate) ResetIn() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prune(g.now())
	if len(g.stamps) == 0 {
		return 0
	}

	reset := g.stamps[0].Add(g.period).Sub(g.now())
	if reset < 0 {
		return 0
	}
	return reset
}

// Limit returns the number of grants allowed per window.
func (g *Gate) Limit() int {
	return g.maxRequests
}

// Period returns the sliding window length.
func (g *Gate) Period() time.Duration {
	return g.period
}

// Reset discards all recorded grants.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stamps = g.stamps[:0]
}

// prune drops grants older than the window. Callers must hold mu.
func (g *Gate) prune(now time.Time) {
	cutoff := now.Add(-g.period)
	i := 0
	for i < len(g.stamps) && !g.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		g.stamps = append(g.stamps[:0], g.stamps[i:]...)
	}
}
