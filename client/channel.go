// client/channel.go
package client

import (
	"context"

	"github.com/rovshanmuradov/solana-dex-sdk/types"
)

// SubmissionChannel is the capability the client consumes to execute a
// swap. Instruction encoding, key custody and raw transport live behind it;
// the core only drives the simulate → sign → broadcast → poll sequence.
type SubmissionChannel interface {
	// Simulate dry-runs the intent and returns the failure it would hit.
	Simulate(ctx context.Context, intent *types.SwapIntent) error
	// Sign builds and signs a broadcast-ready transaction for the intent.
	Sign(ctx context.Context, intent *types.SwapIntent) (*types.SignedIntent, error)
	// Broadcast submits the signed transaction and returns its hash.
	Broadcast(ctx context.Context, signed *types.SignedIntent) (string, error)
	// CheckStatus probes the transaction's confirmation state. An unknown
	// hash reports TxPending: "not yet visible" and "pending" are
	// indistinguishable to a status probe.
	CheckStatus(ctx context.Context, hash string) (*types.TxStatus, error)
}
