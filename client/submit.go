// client/submit.go
package client

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-dex-sdk/errs"
	"github.com/rovshanmuradov/solana-dex-sdk/metrics"
	"github.com/rovshanmuradov/solana-dex-sdk/poller"
	"github.com/rovshanmuradov/solana-dex-sdk/retry"
	"github.com/rovshanmuradov/solana-dex-sdk/storage/models"
	"github.com/rovshanmuradov/solana-dex-sdk/types"
)

// SubmitOption overrides one policy for a single submission.
type SubmitOption func(*submitParams)

type submitParams struct {
	retryOpts retry.Options
	pollOpts  poller.Options
}

// WithSubmitRetry overrides the backoff policy for this submission only.
func WithSubmitRetry(opts retry.Options) SubmitOption {
	return func(p *submitParams) { p.retryOpts = opts }
}

// WithSubmitPolling overrides the confirmation polling policy for this
// submission only.
func WithSubmitPolling(opts poller.Options) SubmitOption {
	return func(p *submitParams) { p.pollOpts = opts }
}

// SubmitWithRetryAndPoll executes a quote end to end: simulate, sign and
// broadcast each run under the retry policy, then the confirmation is
// awaited by polling the submission channel's status probe.
//
// The returned SubmissionResult is always terminal. Failures before
// broadcast carry no transaction hash; a broadcast that later times out
// polling reports DeadlineExceeded with the hash set, because the on-chain
// outcome is unknown rather than negative. Only context cancellation is
// surfaced as a Go error.
func (c *Client) SubmitWithRetryAndPoll(ctx context.Context, quote *types.Quote, opts ...SubmitOption) (*types.SubmissionResult, error) {
	params := submitParams{retryOpts: c.retryOpts, pollOpts: c.pollOpts}
	for _, opt := range opts {
		opt(&params)
	}

	if quote == nil {
		return failure(errs.New(errs.KindValidation, "quote must not be nil"), errs.KindValidation, ""), nil
	}
	if !quote.Deadline.IsZero() && time.Now().After(quote.Deadline) {
		return failure(errs.New(errs.KindDeadlineExceeded, "quote deadline already passed"),
			errs.KindDeadlineExceeded, ""), nil
	}

	intent := &types.SwapIntent{
		TokenIn:      quote.TokenIn,
		TokenOut:     quote.TokenOut,
		AmountIn:     quote.AmountIn,
		AmountOutMin: quote.AmountOutMin,
		Path:         quote.Path,
		Deadline:     quote.Deadline,
	}

	opLog := c.logger.WithOperation("submit_swap")
	opLog.Info("Submitting swap",
		zap.String("token_in", string(intent.TokenIn)),
		zap.String("token_out", string(intent.TokenOut)),
		zap.String("amount_in", intent.AmountIn.String()),
		zap.Any("path", intent.Path))

	// Симуляция до подписи: дешевый отсев до траты на транзакцию.
	if _, err := retry.Do(ctx, params.retryOpts, opLog, func() (struct{}, error) {
		return struct{}{}, c.channel.Simulate(ctx, intent)
	}); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		opLog.Error("Simulation failed", zap.Error(err))
		return c.finish(ctx, failure(err, errs.KindSimulation, "")), nil
	}

	signed, err := retry.Do(ctx, params.retryOpts, opLog, func() (*types.SignedIntent, error) {
		return c.channel.Sign(ctx, intent)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		opLog.Error("Signing failed", zap.Error(err))
		return c.finish(ctx, failure(err, errs.KindNoSigner, "")), nil
	}

	hash, err := retry.Do(ctx, params.retryOpts, opLog, func() (string, error) {
		return c.channel.Broadcast(ctx, signed)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		opLog.Error("Broadcast failed", zap.Error(err))
		return c.finish(ctx, failure(err, errs.KindTransaction, "")), nil
	}

	txLog := c.logger.WithTransaction(hash)
	txLog.Info("Transaction broadcast, awaiting confirmation")
	c.recordSubmission(ctx, intent, hash)

	p := poller.New(c.logger.Logger, params.pollOpts)
	res, err := p.Await(ctx, hash, func(ctx context.Context) (*types.TxStatus, error) {
		return c.channel.CheckStatus(ctx, hash)
	})
	if err != nil {
		return nil, err
	}
	metrics.ObservePollAttempts(res.Attempts)

	result := c.resolve(res, hash, txLog)
	return c.finish(ctx, result), nil
}

// resolve maps a terminal polling result onto the submission outcome.
func (c *Client) resolve(res *poller.Result, hash string, txLog *zap.Logger) *types.SubmissionResult {
	switch res.State {
	case poller.StateSucceeded:
		var slot uint64
		if res.Status != nil {
			slot = res.Status.Slot
		}
		txLog.Info("Transaction confirmed",
			zap.Uint64("slot", slot),
			zap.Int("attempts", res.Attempts),
			zap.Duration("elapsed", res.Elapsed))
		return &types.SubmissionResult{
			Success: &types.SubmissionSuccess{TxHash: hash, Slot: slot},
		}
	case poller.StateFailed:
		raw := "transaction failed on chain"
		if res.Status != nil && res.Status.Err != "" {
			raw = res.Status.Err
		}
		txLog.Error("Transaction failed on chain", zap.String("chain_error", raw))
		// Классифицируем сырую строку ошибки контракта по таблице кодов.
		return failure(errors.New(raw), errs.KindTransaction, hash)
	default:
		txLog.Warn("Confirmation window exhausted",
			zap.Int("attempts", res.Attempts),
			zap.Duration("elapsed", res.Elapsed))
		return &types.SubmissionResult{
			Failure: &types.SubmissionFailure{
				Kind:    string(errs.KindDeadlineExceeded),
				Message: "confirmation not observed within the polling window",
				TxHash:  hash,
			},
		}
	}
}

// failure builds a failure result from err, classifying its message into a
// kind. When classification yields Unknown the stage's fallback kind is
// used instead: an opaque simulation error is still a simulation error.
func failure(err error, fallback errs.Kind, txHash string) *types.SubmissionResult {
	classified := errs.Classify(err)
	kind := classified.Kind
	if kind == errs.KindUnknown {
		kind = fallback
	}
	msg := classified.Message
	if msg == "" && err != nil {
		msg = err.Error()
	}
	return &types.SubmissionResult{
		Failure: &types.SubmissionFailure{
			Kind:    string(kind),
			Message: msg,
			TxHash:  txHash,
		},
	}
}

// finish records metrics and persists the terminal outcome.
func (c *Client) finish(ctx context.Context, result *types.SubmissionResult) *types.SubmissionResult {
	if result.Failed() {
		metrics.ObserveSubmission(result.Failure.Kind)
		c.updateSubmission(ctx, result.Failure.TxHash, "failed",
			result.Failure.Kind, result.Failure.Message)
	} else {
		metrics.ObserveSubmission("succeeded")
		c.updateSubmission(ctx, result.Success.TxHash, "succeeded", "", "")
	}
	return result
}

// recordSubmission persists the pending submission when storage is
// configured. Best-effort, like quote persistence.
func (c *Client) recordSubmission(ctx context.Context, intent *types.SwapIntent, hash string) {
	if c.store == nil {
		return
	}
	sub := &models.Submission{
		TxHash:       hash,
		TokenIn:      string(intent.TokenIn),
		TokenOut:     string(intent.TokenOut),
		AmountIn:     intent.AmountIn.String(),
		AmountOutMin: intent.AmountOutMin.String(),
		Path:         joinPath(intent.Path),
		Status:       "pending",
	}
	if err := c.store.SaveSubmission(ctx, sub); err != nil {
		c.logger.Warn("Failed to persist submission", zap.Error(err))
	}
}

func (c *Client) updateSubmission(ctx context.Context, hash, status, kind, msg string) {
	if c.store == nil || hash == "" {
		return
	}
	if err := c.store.UpdateSubmissionStatus(ctx, hash, status, kind, msg); err != nil {
		c.logger.Warn("Failed to update submission status", zap.Error(err))
	}
}
