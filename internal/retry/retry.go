// Package retry runs network-dependent operations with a bounded number of
// retries and a fixed delay between attempts.
//
// The delay between attempts is fixed; backoff and jitter are not implemented.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultMaxRetries = 3
	DefaultDelay      = time.Second
)

// Policy bounds how often an operation is retried.
type Policy struct {
	MaxRetries int
	Delay      time.Duration
	Logger     *slog.Logger
}

// DefaultPolicy returns 3 retries with a one second delay.
func DefaultPolicy() Policy {
	return Policy{MaxRetries: DefaultMaxRetries, Delay: DefaultDelay}
}

// Do executes op until it succeeds or MaxRetries additional attempts have
// failed. Attempts run sequentially; the caller blocks until the last one
// settles.
func Do[T any](ctx context.Context, p Policy, label string, op func(context.Context) (T, error)) (T, error) {
	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}
	attempts := retries + 1

	var (
		zero    T
		lastErr error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		p.warn(label+" failed",
			"label", label,
			"attempt", attempt,
			"attempts", attempts,
			"error", err,
		)

		if attempt == attempts {
			break
		}

		p.debug("retry scheduled", "label", label, "delay", p.Delay)
		if err := wait(ctx, p.Delay); err != nil {
			return zero, fmt.Errorf("%s: retry aborted after attempt %d: %w", label, attempt, err)
		}
	}

	return zero, fmt.Errorf("%s after %d retries: %w", label, retries, lastErr)
}

func wait(ctx context.Context, d time.Duration) error {
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

func (p Policy) warn(msg string, args ...any) {
	if p.Logger != nil {
		p.Logger.Warn(msg, args...)
	}
}

func (p Policy) debug(msg string, args ...any) {
	if p.Logger != nil {
		p.Logger.Debug(msg, args...)
	}
}
