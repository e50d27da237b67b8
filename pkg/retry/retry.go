// Package retry provides backoff wrappers for fallible calls.
package retry

import (
	"context"
	"time"
)

// ShouldRetry decides whether a failed attempt should be retried.
// attempt is zero-based. A nil predicate retries everything.
type ShouldRetry func(err error, attempt int) bool

// Do invokes op up to attempts times with exponential backoff
// (baseDelay·2^attempt between attempts). The last error propagates
// unchanged once attempts are exhausted or the predicate declines.
// Sleeping honors ctx; cancellation during backoff returns the
// context's error.
func Do[T any](ctx context.Context, op func(ctx context.Context) (T, error), attempts int, baseDelay time.Duration, shouldRetry ShouldRetry) (T, error) {
	return run(ctx, op, attempts, shouldRetry, func(attempt int) time.Duration {
		return baseDelay << attempt
	})
}

// DoLinear is Do with linear backoff: baseDelay·(attempt+1).
func DoLinear[T any](ctx context.Context, op func(ctx context.Context) (T, error), attempts int, baseDelay time.Duration, shouldRetry ShouldRetry) (T, error) {
	return run(ctx, op, attempts, shouldRetry, func(attempt int) time.Duration {
		return baseDelay * time.Duration(attempt+1)
	})
}

func run[T any](ctx context.Context, op func(ctx context.Context) (T, error), attempts int, shouldRetry ShouldRetry, delay func(attempt int) time.Duration) (T, error) {
	var zero T
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		// Last attempt: no predicate consult, no sleep.
		if attempt == attempts-1 {
			break
		}
		if shouldRetry != nil && !shouldRetry(err, attempt) {
			break
		}
		if err := sleep(ctx, delay(attempt)); err != nil {
			return zero, err
		}
	}
	return zero, lastErr
}

// sleep blocks the calling goroutine only; it wakes early on ctx
// cancellation.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
