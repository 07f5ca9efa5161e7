// types/types.go
package types

import (
	"math/big"
	"time"
)

// TokenID identifies a fungible token (a mint address on Solana).
type TokenID string

// PoolID identifies a liquidity pool account.
type PoolID string

// TradeType определяет направление расчета котировки.
type TradeType string

const (
	// TradeExactIn: amountIn задан вызывающей стороной, amountOut вычисляется.
	TradeExactIn TradeType = "exact_in"
	// TradeExactOut: amountOut задан, amountIn вычисляется.
	TradeExactOut TradeType = "exact_out"
)

// Reserves holds one pool's reserves, already oriented to the trade
// direction: In is the reserve of the token being sold into the pool.
// Read fresh from the pool oracle for every quote, never cached across hops.
type Reserves struct {
	In  *big.Int
	Out *big.Int
}

// Hop describes a single pool traversal within a route. Immutable after
// creation.
type Hop struct {
	Pool           PoolID
	TokenIn        TokenID
	TokenOut       TokenID
	AmountIn       *big.Int
	AmountOut      *big.Int
	FeeBps         uint16
	FeeAmount      *big.Int
	PriceImpactBps uint16
}

// Quote is a priced, slippage-bounded exchange intent.
//
// For exact-in requests AmountIn is caller-supplied and AmountOut derived;
// for exact-out the reverse. AmountOutMin is always <= AmountOut.
// Path always has at least two entries; Hops is populated for every route,
// with a single element for direct swaps.
type Quote struct {
	TokenIn        TokenID
	TokenOut       TokenID
	AmountIn       *big.Int
	AmountOut      *big.Int
	AmountOutMin   *big.Int
	FeeBps         uint16
	FeeAmount      *big.Int
	PriceImpactBps uint16
	Path           []TokenID
	Deadline       time.Time
	Hops           []Hop
}

// SwapIntent is the executable form of a quote handed to the submission
// channel. The channel owns instruction encoding; the core only carries the
// amounts and the path.
type SwapIntent struct {
	TokenIn      TokenID
	TokenOut     TokenID
	AmountIn     *big.Int
	AmountOutMin *big.Int
	Path         []TokenID
	Deadline     time.Time
}

// SignedIntent is a signed, broadcast-ready transaction produced by the
// submission channel. Payload is opaque to the core.
type SignedIntent struct {
	Intent  *SwapIntent
	Payload []byte
}

// TxState is the observed lifecycle state of a submitted transaction.
type TxState string

const (
	TxPending   TxState = "pending"
	TxSucceeded TxState = "succeeded"
	TxFailed    TxState = "failed"
)

// TxStatus is one observation of a submitted transaction, as returned by a
// status probe. Err carries the raw on-chain error string when State is
// TxFailed.
type TxStatus struct {
	State         TxState
	Slot          uint64
	Confirmations uint64
	Err           string
}

// SubmissionResult is the terminal outcome of one submission lifecycle.
// Exactly one of Success or Failure is set.
type SubmissionResult struct {
	Success *SubmissionSuccess
	Failure *SubmissionFailure
}

// SubmissionSuccess reports a confirmed transaction.
type SubmissionSuccess struct {
	TxHash string
	Slot   uint64
}

// SubmissionFailure reports a failed or unconfirmed submission. TxHash is
// empty when the failure happened before broadcast. Kind is one of the
// closed error kinds from the errs package, kept as a string here so types
// stays a leaf package.
type SubmissionFailure struct {
	Kind    string
	Message string
	TxHash  string
}

// Failed reports whether the result is a failure.
func (r *SubmissionResult) Failed() bool {
	return r.Failure != nil
}
