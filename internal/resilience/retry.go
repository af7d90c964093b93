// Package resilience provides retry with exponential backoff for the
// network operations that reach central storage. Campus networks and
// HPC login nodes drop connections often enough that a single failed
// dial should not abort a long transfer session.
package resilience

import (
	"context"
	"math/rand"
	"time"
)

// Policy defines how an operation is retried.
type Policy struct {
	// MaxRetries is the number of retry attempts after the initial
	// call.
	MaxRetries int
	// BaseDelay is the delay before the first retry. Zero means
	// 500ms.
	BaseDelay time.Duration
	// MaxDelay caps the growing delay. Zero means 10s.
	MaxDelay time.Duration
	// Jitter randomizes delays to avoid lockstep retries.
	Jitter bool
	// ShouldRetry decides whether an error is worth retrying. Nil
	// retries everything except context cancellation. Permanent
	// failures (bad credentials, rejected host keys) should return
	// false.
	ShouldRetry func(error) bool
}

// Do runs fn, retrying per the policy. The error of the last attempt
// is returned when every attempt fails.
func Do(ctx context.Context, policy Policy, fn func() error) error {
	var lastErr error

	attempts := policy.MaxRetries + 1
	for attempt := range attempts {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if policy.ShouldRetry != nil && !policy.ShouldRetry(err) {
			return err
		}
		if attempt == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(Backoff(attempt, policy)):
		}
	}
	return lastErr
}

// Backoff returns the delay before retry number attempt:
// BaseDelay * 2^attempt, capped at MaxDelay.
func Backoff(attempt int, policy Policy) time.Duration {
	base := policy.BaseDelay
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	maxDelay := policy.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 10 * time.Second
	}

	delay := base
	for range attempt {
		delay *= 2
		if delay >= maxDelay {
			delay = maxDelay
			break
		}
	}

	if policy.Jitter {
		// 0.5x to 1.5x of the computed delay.
		delay = time.Duration(float64(delay) * (0.5 + rand.Float64()))
		if delay > maxDelay {
			delay = maxDelay
		}
	}
	return delay
}
