// Package poll runs a bounded retry loop against an injectable clock.
package poll

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Result is the outcome of Until.
type Result string

const (
	Verified Result = "verified"
	TimedOut Result = "timed_out"
)

var ErrInvalidSchedule = errors.New("poll: interval and maxAttempts must be positive")

// Clock waits. Real code uses SystemClock; tests drive a FakeClock.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Predicate is checked once per attempt.
type Predicate func(ctx context.Context) (bool, error)

// Until waits interval, checks predicate, and repeats up to maxAttempts checks.
// A predicate error stops the loop and is returned as is.
func Until(ctx context.Context, clock Clock, predicate Predicate, interval time.Duration, maxAttempts int) (Result, error) {
	if interval <= 0 || maxAttempts <= 0 {
		return TimedOut, ErrInvalidSchedule
	}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := clock.Sleep(ctx, interval); err != nil {
			return TimedOut, err
		}
		ok, err := predicate(ctx)
		if err != nil {
			return TimedOut, err
		}
		if ok {
			return Verified, nil
		}
	}
	return TimedOut, nil
}

// SystemClock sleeps on real timers.
type SystemClock struct{}

func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// FakeClock returns from Sleep immediately and records the simulated time.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	return nil
}

// Now is the start time plus every slept duration.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleeps returns the durations passed to Sleep, in order.
func (c *FakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}
