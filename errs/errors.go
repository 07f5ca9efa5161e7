// errs/errors.go
package errs

import (
	"errors"
	"fmt"
)

// Kind is one of the closed set of failure categories every error surfaced
// by the SDK is mapped onto. Callers pattern-match on Kind and never see raw
// transport errors.
type Kind string

const (
	KindNetwork               Kind = "network_error"
	KindRPC                   Kind = "rpc_error"
	KindSimulation            Kind = "simulation_error"
	KindTransaction           Kind = "transaction_error"
	KindDeadlineExceeded      Kind = "deadline_exceeded"
	KindSlippageExceeded      Kind = "slippage_exceeded"
	KindInsufficientLiquidity Kind = "insufficient_liquidity"
	KindPairNotFound          Kind = "pair_not_found"
	KindValidation            Kind = "validation_error"
	KindFlashLoan             Kind = "flash_loan_error"
	KindCircuitBreaker        Kind = "circuit_breaker_active"
	KindNoSigner              Kind = "no_signer"
	KindUnknown               Kind = "unknown"
)

// Error is a typed SDK error. It preserves the original cause and optional
// structured details (pool id, expected/actual amounts, tolerance) for
// diagnostics.
type Error struct {
	Kind    Kind
	Message string
	TxHash  string
	Details map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap возвращает оригинальную ошибку
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a typed error around a cause.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithTxHash attaches the transaction hash and returns the error.
func (e *Error) WithTxHash(hash string) *Error {
	e.TxHash = hash
	return e
}

// WithDetail attaches one structured detail and returns the error.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// KindOf extracts the Kind from any error, classifying untyped ones.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return Classify(err).Kind
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind == kind
	}
	return false
}
