// poller/poller.go
package poller

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-dex-sdk/types"
)

// Strategy selects how the wait between status probes evolves.
type Strategy string

const (
	// StrategyFixed keeps a constant interval between probes.
	StrategyFixed Strategy = "fixed"
	// StrategyExponential grows the interval by BackoffFactor per probe,
	// capped at MaxInterval.
	StrategyExponential Strategy = "exponential"
)

// State is the terminal outcome of one polling run. TimedOut is distinct
// from Failed: attempt exhaustion means the true on-chain outcome is
// unknown, not that the transaction was rejected.
type State string

const (
	StatePending   State = "pending"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateTimedOut  State = "timed_out"
)

// Options governs one polling run.
type Options struct {
	Strategy      Strategy
	Interval      time.Duration
	MaxAttempts   int
	BackoffFactor float64
	MaxInterval   time.Duration
}

// DefaultOptions: 30 fixed probes half a second apart, matching the
// confirmation window of a typical Solana transaction.
func DefaultOptions() Options {
	return Options{
		Strategy:    StrategyFixed,
		Interval:    500 * time.Millisecond,
		MaxAttempts: 30,
	}
}

// Result describes how a polling run ended. Status is the last observation,
// nil when no probe ever answered.
type Result struct {
	State    State
	Attempts int
	Elapsed  time.Duration
	Status   *types.TxStatus
}

// ProbeFunc issues a single status check for a previously-submitted action.
type ProbeFunc func(ctx context.Context) (*types.TxStatus, error)

// Poller drives status probes until a terminal state or attempt exhaustion.
type Poller struct {
	logger *zap.Logger
	opts   Options
}

// New builds a poller; zero option fields fall back to defaults.
func New(logger *zap.Logger, opts Options) *Poller {
	def := DefaultOptions()
	if opts.Strategy == "" {
		opts.Strategy = def.Strategy
	}
	if opts.Interval <= 0 {
		opts.Interval = def.Interval
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = def.MaxAttempts
	}
	if opts.BackoffFactor < 1 {
		opts.BackoffFactor = 1
	}
	if opts.MaxInterval <= 0 {
		opts.MaxInterval = opts.Interval
	}
	return &Poller{
		logger: logger.Named("poller"),
		opts:   opts,
	}
}

// Await probes until the action succeeds, fails on-chain, or MaxAttempts
// probes have been spent, in which case the result is TimedOut.
//
// A transport error during a probe is swallowed and treated as still
// pending: one failed status check must not abort the whole confirmation
// wait. An unrecognized or "not found" status is likewise still pending.
// Cancelling ctx is the explicit cancellation hook; it returns ctx.Err().
func (p *Poller) Await(ctx context.Context, hash string, probe ProbeFunc) (*Result, error) {
	start := time.Now()
	interval := p.opts.Interval

	result := &Result{State: StatePending}

	for attempt := 1; attempt <= p.opts.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result.Attempts = attempt

		status, err := probe(ctx)
		if err != nil {
			// Пробу с транзиентной ошибкой считаем "еще в ожидании".
			p.logger.Warn("Status probe failed",
				zap.String("tx_hash", hash),
				zap.Int("attempt", attempt),
				zap.Error(err))
		} else if status != nil {
			result.Status = status
			switch status.State {
			case types.TxSucceeded:
				result.State = StateSucceeded
				result.Elapsed = time.Since(start)
				return result, nil
			case types.TxFailed:
				result.State = StateFailed
				result.Elapsed = time.Since(start)
				return result, nil
			}
		}

		if attempt == p.opts.MaxAttempts {
			break
		}
		if err := p.wait(ctx, interval); err != nil {
			return nil, err
		}
		interval = p.nextInterval(interval)
	}

	p.logger.Warn("Confirmation attempts exhausted",
		zap.String("tx_hash", hash),
		zap.Int("attempts", result.Attempts))
	result.State = StateTimedOut
	result.Elapsed = time.Since(start)
	return result, nil
}

// wait suspends cooperatively for d or until ctx is cancelled.
func (p *Poller) wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// nextInterval советует паузу перед следующей пробой согласно стратегии.
func (p *Poller) nextInterval(current time.Duration) time.Duration {
	if p.opts.Strategy != StrategyExponential {
		return current
	}
	next := time.Duration(float64(current) * p.opts.BackoffFactor)
	if next > p.opts.MaxInterval {
		next = p.opts.MaxInterval
	}
	return next
}
