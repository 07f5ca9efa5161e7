// retry/classify.go
package retry

import (
	"context"
	"errors"
	"strings"
)

// retryableFragments are the transient transport and RPC conditions worth
// another attempt. Everything else is treated as permanent.
var retryableFragments = []string{
	"rate limit",
	"too many requests",
	"429",
	"service unavailable",
	"503",
	"connection reset",
	"connection refused",
	"connection closed",
	"no such host",
	"not found",
	"timeout",
	"timed out",
	"deadline exceeded",
	"temporarily",
	"eof",
}

// IsRetryable reports whether the failure is a transient condition.
// Context cancellation is never retried: the caller asked to stop.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, fragment := range retryableFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
