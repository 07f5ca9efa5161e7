// errs/classify.go
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// onChainErrorCodes maps numeric program error codes (Anchor custom error
// numbers) onto kinds. New on-chain codes must be added here by hand; the
// mapping is deliberately a fixed table, not a heuristic.
var onChainErrorCodes = map[int]Kind{
	6000: KindInsufficientLiquidity, // InsufficientLiquidity
	6001: KindDeadlineExceeded,      // DeadlineExpired
	6002: KindValidation,            // InvalidAmount
	6004: KindSlippageExceeded,      // ExceededSlippage
	6005: KindCircuitBreaker,        // PoolPaused
	6007: KindFlashLoan,             // ReentrancyDetected
}

// substringRule maps message fragments onto a kind. Rules are evaluated in
// order; the first rule with any matching fragment wins.
type substringRule struct {
	fragments []string
	kind      Kind
}

// substringRules is the best-effort fallback when no typed error and no
// known numeric code is present. Order follows specificity: business
// conditions before generic transport buckets.
var substringRules = []substringRule{
	{[]string{"deadline", "expired"}, KindDeadlineExceeded},
	{[]string{"slippage", "insufficient output", "exceededslippage"}, KindSlippageExceeded},
	{[]string{"liquidity"}, KindInsufficientLiquidity},
	{[]string{"circuit", "paused"}, KindCircuitBreaker},
	{[]string{"connection refused", "connection reset", "no such host", "broken pipe", "network"}, KindNetwork},
	{[]string{"rate limit", "too many requests", "429"}, KindRPC},
	{[]string{"no signer", "signing failed", "missing signature", "unknown signer"}, KindNoSigner},
	{[]string{"flash", "reentrancy", "callback"}, KindFlashLoan},
	{[]string{"invalid", "validation", "required"}, KindValidation},
	{[]string{"pair not found", "no pool", "pool not found", "market not found"}, KindPairNotFound},
	{[]string{"simulation", "simulate", "preflight"}, KindSimulation},
	{[]string{"transaction"}, KindTransaction},
}

// Classify maps any raw collaborator failure onto the closed taxonomy.
// Order: an already-typed *Error passes through unchanged; then a numeric
// on-chain error code found in the message is looked up in the fixed table;
// then substring heuristics; finally KindUnknown, preserving the original
// message and cause for diagnostics.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	if kind, ok := matchErrorCode(lower); ok {
		return Wrap(kind, err, msg)
	}

	for _, rule := range substringRules {
		for _, fragment := range rule.fragments {
			if strings.Contains(lower, fragment) {
				return Wrap(rule.kind, err, msg)
			}
		}
	}

	return Wrap(KindUnknown, err, msg)
}

// matchErrorCode scans the message for any known on-chain error code, in
// decimal ("custom program error: 6004") or hex ("0x1774") form.
func matchErrorCode(lower string) (Kind, bool) {
	for code, kind := range onChainErrorCodes {
		if strings.Contains(lower, fmt.Sprintf("0x%x", code)) {
			return kind, true
		}
		if containsNumber(lower, code) {
			return kind, true
		}
	}
	return "", false
}

// containsNumber reports whether the decimal form of code appears in the
// message as a standalone number, not as part of a longer digit run.
func containsNumber(s string, code int) bool {
	needle := fmt.Sprintf("%d", code)
	for idx := strings.Index(s, needle); idx >= 0; {
		before := idx == 0 || !isDigit(s[idx-1])
		afterIdx := idx + len(needle)
		after := afterIdx >= len(s) || !isDigit(s[afterIdx])
		if before && after {
			return true
		}
		next := strings.Index(s[idx+1:], needle)
		if next < 0 {
			return false
		}
		idx += 1 + next
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
