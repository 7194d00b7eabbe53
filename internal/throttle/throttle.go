// Package throttle serialises outbound calls behind a fixed delay.
package throttle

import (
	"context"
	"time"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Throttle enforces a mandatory delay before each call.
type Throttle struct {
	sleep SleepFunc
	delay time.Duration
}

// New creates a throttle. A nil sleep uses Sleep.
func New(delay time.Duration, sleep SleepFunc) *Throttle {
	if sleep == nil {
		sleep = Sleep
	}

	return &Throttle{delay: delay, sleep: sleep}
}

// Wait blocks for the configured delay.
func (t *Throttle) Wait(ctx context.Context) error {
	return t.sleep(ctx, t.delay)
}

// WaitFor blocks for an explicit duration through the same sleeper.
func (t *Throttle) WaitFor(ctx context.Context, d time.Duration) error {
	return t.sleep(ctx, d)
}

// Recorder is a SleepFunc for tests that records waits without sleeping.
type Recorder struct {
	Waits []time.Duration
}

// Sleep records d and returns immediately.
func (r *Recorder) Sleep(ctx context.Context, d time.Duration) error {
	r.Waits = append(r.Waits, d)
	return ctx.Err()
}

// Total returns the sum of recorded waits.
func (r *Recorder) Total() time.Duration {
	var total time.Duration
	for _, w := range r.Waits {
		total += w
	}

	return total
}
