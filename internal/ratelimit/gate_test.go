package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock is a controllable clock source for deterministic tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// TestGateAcquire tests admission accounting under the sliding window.
func TestGateAcquire(t *testing.T) {
	t.Parallel()

	t.Run("admits up to the window limit without blocking", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		g := New(3, 5*time.Minute, WithClock(clock.Now))

		for i := 0; i < 3; i++ {
			if err := g.Acquire(context.Background()); err != nil {
				t.Fatalf("acquire %d failed: %v", i, err)
			}
		}

		if got := g.Remaining(); got != 0 {
			t.Errorf("expected 0 remaining, got %d", got)
		}
	})

	t.Run("expired grants free the window", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		g := New(2, time.Minute, WithClock(clock.Now))

		if err := g.Acquire(context.Background()); err != nil {
			t.Fatalf("acquire failed: %v", err)
		}
		if err := g.Acquire(context.Background()); err != nil {
			t.Fatalf("acquire failed: %v", err)
		}
		if got := g.Remaining(); got != 0 {
			t.Fatalf("expected 0 remaining, got %d", got)
		}

		clock.Advance(61 * time.Second)

		if got := g.Remaining(); got != 2 {
			t.Errorf("expected window to clear, got %d remaining", got)
		}
		if err := g.Acquire(context.Background()); err != nil {
			t.Errorf("acquire after expiry failed: %v", err)
		}
	})

	t.Run("cancelled context unblocks a waiting caller", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		g := New(1, time.Hour, WithClock(clock.Now))

		if err := g.Acquire(context.Background()); err != nil {
			t.Fatalf("acquire failed: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := g.Acquire(ctx)
		if err == nil {
			t.Fatal("expected context error while window is full")
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
	})
}

// TestGateResetIn tests the reset countdown.
func TestGateResetIn(t *testing.T) {
	t.Parallel()

	t.Run("zero when idle", func(t *testing.T) {
		t.Parallel()

		g := New(5, time.Minute, WithClock(newFakeClock().Now))
		if got := g.ResetIn(); got != 0 {
			t.Errorf("expected 0 reset time, got %v", got)
		}
	})

	t.Run("tracks the oldest outstanding grant", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		g := New(5, time.Minute, WithClock(clock.Now))

		if err := g.Acquire(context.Background()); err != nil {
			t.Fatalf("acquire failed: %v", err)
		}
		clock.Advance(40 * time.Second)

		if got := g.ResetIn(); got != 20*time.Second {
			t.Errorf("expected 20s until reset, got %v", got)
		}
	})
}

// TestGateReset tests explicit state clearing.
func TestGateReset(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	g := New(2, time.Minute, WithClock(clock.Now))

	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	g.Reset()

	if got := g.Remaining(); got != 2 {
		t.Errorf("expected full window after reset, got %d remaining", got)
	}
	if got := g.ResetIn(); got != 0 {
		t.Errorf("expected 0 reset time after reset, got %v", got)
	}
}

// TestGateWindowInvariant verifies no window of the configured period
// ever contains more grants than the limit, with real timing and
// concurrent callers.
func TestGateWindowInvariant(t *testing.T) {
	t.Parallel()

	const (
		limit  = 3
		period = 100 * time.Millisecond
		total  = 9
	)

	g := New(limit, period)

	var (
		mu     sync.Mutex
		grants []time.Time
		wg     sync.WaitGroup
	)

	for i := 0; i < total; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.Acquire(context.Background()); err != nil {
				t.Errorf("acquire failed: %v", err)
				return
			}
			mu.Lock()
			grants = append(grants, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(grants) != total {
		t.Fatalf("expected %d grants, got %d", total, len(grants))
	}

	// Sort by grant time; goroutine scheduling does not guarantee the
	// recorded order matches admission order.
	for i := 1; i < len(grants); i++ {
		for j := i; j > 0 && grants[j].Before(grants[j-1]); j-- {
			grants[j], grants[j-1] = grants[j-1], grants[j]
		}
	}

	// Any grant and the grant `limit` positions later must be at least
	// one period apart. A small tolerance absorbs timestamping skew
	// between Acquire returning and time.Now being captured.
	const tolerance = 25 * time.Millisecond
	for i := 0; i+limit < len(grants); i++ {
		gap := grants[i+limit].Sub(grants[i])
		if gap < period-tolerance {
			t.Errorf("window over-admission: grants %d and %d only %v apart", i, i+limit, gap)
		}
	}
}
