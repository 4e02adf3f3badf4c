// Package retry runs an operation under a bounded attempt schedule. Each
// attempt gets its own timeout and attempts are separated by a back-off
// delay. The policy knows nothing about the operation it wraps.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy describes how many attempts to make and how long each may take.
type Policy struct {
	// Timeouts holds one per-attempt timeout; its length is the attempt count.
	Timeouts []time.Duration
	// Backoff returns the pause after the given 1-based attempt failed.
	Backoff func(attempt int) time.Duration
	// Prepare, when set, runs before each attempt under the parent context.
	// Its duration does not count against the attempt's timeout.
	Prepare func(ctx context.Context, attempt int)
	// Notify, when set, is called after every failed attempt.
	Notify func(attempt int, err error)
}

// Linear returns a back-off that waits attempt × step.
func Linear(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

// DefaultPolicy tolerates a cold service: 10s, 20s and 40s attempts with a
// 1.5s linear back-off.
func DefaultPolicy() Policy {
	return Policy{
		Timeouts: []time.Duration{10 * time.Second, 20 * time.Second, 40 * time.Second},
		Backoff:  Linear(1500 * time.Millisecond),
	}
}

// Attempts returns the maximum number of attempts.
func (p Policy) Attempts() int {
	return len(p.Timeouts)
}

// ErrNoAttempts is returned by Do for a policy without timeouts.
var ErrNoAttempts = errors.New("retry: policy allows no attempts")

// policyBackOff adapts Policy.Backoff to backoff.BackOff. The library asks
// for a delay only when another attempt follows.
type policyBackOff struct {
	delay   func(attempt int) time.Duration
	attempt int
}

func (b *policyBackOff) NextBackOff() time.Duration {
	b.attempt++
	if b.delay == nil {
		return 0
	}
	if d := b.delay(b.attempt); d > 0 {
		return d
	}
	return 0
}

func (b *policyBackOff) Reset() {
	b.attempt = 0
}

// Do calls op until it succeeds or the policy is exhausted. The context
// passed to op expires after that attempt's timeout. When every attempt
// fails the returned error wraps the last one.
func Do(ctx context.Context, p Policy, op func(ctx context.Context, attempt int) error) error {
	n := p.Attempts()
	if n == 0 {
		return ErrNoAttempts
	}

	var (
		attempt int
		lastErr error
	)
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		if p.Prepare != nil {
			p.Prepare(ctx, attempt)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, p.Timeouts[attempt-1])
		defer cancel()

		if err := op(attemptCtx, attempt); err != nil {
			lastErr = err
			if p.Notify != nil {
				p.Notify(attempt, err)
			}
			return struct{}{}, err
		}
		return struct{}{}, nil
	},
		backoff.WithBackOff(&policyBackOff{delay: p.Backoff}),
		backoff.WithMaxTries(uint(n)),
		backoff.WithMaxElapsedTime(0),
	)
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return fmt.Errorf("retry: attempt %d: %w", attempt, errors.Join(ctx.Err(), lastErr))
	}
	return fmt.Errorf("retry: all %d attempts failed: %w", n, lastErr)
}
