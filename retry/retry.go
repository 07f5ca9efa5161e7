// retry/retry.go
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// Options governs one retried operation. Immutable per call.
type Options struct {
	// MaxRetries is the number of retries after the first attempt, so the
	// operation runs at most MaxRetries+1 times total.
	MaxRetries int
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the grown delay.
	MaxDelay time.Duration
	// Multiplier grows the delay between consecutive retries (>= 1).
	Multiplier float64
	// Jitter randomizes each delay by the given factor; 0 disables jitter,
	// which keeps the delay sequence deterministic.
	Jitter float64
}

// DefaultOptions: 3 retries, 500ms base, 10s cap, doubling, half jitter.
func DefaultOptions() Options {
	return Options{
		MaxRetries: 3,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Multiplier: 2,
		Jitter:     0.5,
	}
}

// newBackOff translates Options into the backoff policy used by Do.
func newBackOff(opts Options) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = opts.BaseDelay
	b.MaxInterval = opts.MaxDelay
	if opts.Multiplier >= 1 {
		b.Multiplier = opts.Multiplier
	}
	b.RandomizationFactor = opts.Jitter
	b.Reset()
	return b
}

// Do runs op with bounded exponential backoff. The failure is classified
// before each retry, never before the first attempt: transient network and
// RPC conditions are retried, anything else is propagated immediately. On
// exhausting all attempts the last observed error is returned unchanged so
// upstream classification still sees the original failure.
//
// The delay is awaited cooperatively; cancelling ctx aborts the wait.
func Do[T any](ctx context.Context, opts Options, logger *zap.Logger, op func() (T, error)) (T, error) {
	operation := func() (T, error) {
		v, err := op()
		if err != nil && !IsRetryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}

	notify := func(err error, delay time.Duration) {
		if logger != nil {
			logger.Warn("Retrying after error",
				zap.Error(err),
				zap.Duration("backoff", delay))
		}
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(newBackOff(opts)),
		backoff.WithMaxTries(uint(opts.MaxRetries)+1),
		backoff.WithNotify(notify),
	)
}
