// Package retry is a small reusable retry policy shared by the two
// language-model call sites. It replaces per-call retry loops with one
// policy parameterized by attempt bound, backoff curve, and a
// retryable-error predicate.
package retry

import (
	"context"
	"log/slog"
	"time"
)

// Policy controls how Do re-invokes a failing operation.
type Policy struct {
	// MaxAttempts is the total number of invocations, not re-invocations.
	MaxAttempts int

	// Backoff returns the wait before retrying after attempt (0-based)
	// failed with err. A nil Backoff means retry immediately.
	Backoff func(attempt int, err error) time.Duration

	// Retryable reports whether err is worth another attempt. A nil
	// Retryable retries everything.
	Retryable func(err error) bool

	Logger *slog.Logger
}

// ExpBackoff waits 2^attempt units.
func ExpBackoff(unit time.Duration) func(int, error) time.Duration {
	return func(attempt int, _ error) time.Duration {
		return unit << uint(attempt)
	}
}

// ConstBackoff waits the same duration every time.
func ConstBackoff(d time.Duration) func(int, error) time.Duration {
	return func(int, error) time.Duration { return d }
}

// Do runs fn until it succeeds, exhausts MaxAttempts, fails a
// non-retryable way, or ctx is done. It returns the last error.
func (p Policy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	log := p.Logger
	if log == nil {
		log = slog.Default()
	}
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = fn(ctx); err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt == attempts-1 {
			break
		}

		var wait time.Duration
		if p.Backoff != nil {
			wait = p.Backoff(attempt, err)
		}
		log.Warn("retry.backoff",
			"op", op,
			"attempt", attempt+1,
			"max_attempts", attempts,
			"wait_ms", wait.Milliseconds(),
			"error", err,
		)
		if wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return err
}
