// Package timer implements the local focus countdown as an explicit state
// machine: Idle(remaining) and Running(remaining), advanced by external
// ticks so tests never need a wall clock.
package timer

import (
	"context"
	"fmt"
	"sync"
)

// DefaultSessionSeconds is the standard 25-minute focus interval.
const DefaultSessionSeconds = 1500

// FlushFunc persists one finished interval. elapsedSeconds is what the user
// actually focused; implementations append a session record to the store.
type FlushFunc func(ctx context.Context, elapsedSeconds int) error

// Status is a read-only view of the timer state.
type Status struct {
	RemainingSeconds int
	Running          bool
}

// Timer owns the countdown state. All transitions are synchronous; the only
// potentially slow call is the flush, which runs inline on the transition
// that triggers it. The timer always resets after a flush, even a failed
// one. The error is returned to the caller and never retried here.
type Timer struct {
	mu             sync.Mutex
	sessionSeconds int
	remaining      int
	running        bool
	flush          FlushFunc
}

// New creates an idle timer with a full interval remaining.
func New(opts ...Option) *Timer {
	t := &Timer{
		sessionSeconds: DefaultSessionSeconds,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.remaining = t.sessionSeconds
	return t
}

// Status returns the current countdown state.
func (t *Timer) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Status{RemainingSeconds: t.remaining, Running: t.running}
}

// Start moves Idle to Running. Starting a running timer is a no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = true
}

// Reset returns to Idle with a full interval and no flush.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reset()
}

// Save flushes the elapsed portion of the current interval and resets. It is
// valid from both Idle and Running; the flush error, if any, is returned
// after the timer has already reset.
func (t *Timer) Save(ctx context.Context) error {
	t.mu.Lock()
	elapsed := t.sessionSeconds - t.remaining
	flush := t.flush
	t.reset()
	t.mu.Unlock()

	return runFlush(ctx, flush, elapsed)
}

// Tick advances the countdown by one second. In Idle it is a no-op. When the
// countdown depletes, the full interval is flushed and the timer re-enters
// Idle with a fresh interval.
func (t *Timer) Tick(ctx context.Context) error {
	t.mu.Lock()
	if !t.running || t.remaining <= 0 {
		t.mu.Unlock()
		return nil
	}
	t.remaining--
	if t.remaining > 0 {
		t.mu.Unlock()
		return nil
	}
	elapsed := t.sessionSeconds
	flush := t.flush
	t.reset()
	t.mu.Unlock()

	return runFlush(ctx, flush, elapsed)
}

// reset re-enters Idle with a full interval. Callers hold t.mu.
func (t *Timer) reset() {
	t.remaining = t.sessionSeconds
	t.running = false
}

func runFlush(ctx context.Context, flush FlushFunc, elapsed int) error {
	if flush == nil {
		return nil
	}
	if err := flush(ctx, elapsed); err != nil {
		return fmt.Errorf("flush focus session: %w", err)
	}
	return nil
}
