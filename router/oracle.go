// router/oracle.go
package router

import (
	"context"

	"github.com/rovshanmuradov/solana-dex-sdk/types"
)

// PoolOracle is the capability the routing core consumes for pool
// membership and live pricing inputs. Reserves and the dynamic fee are read
// fresh for every quote; the oracle may be shared and makes no consistency
// promises across calls, so a multi-hop quote can observe reserves that
// shifted between hops. That is accepted as a best-effort approximation.
type PoolOracle interface {
	// ListPools returns all known pool ids.
	ListPools(ctx context.Context) ([]types.PoolID, error)
	// PoolTokens returns the two constituent tokens of a pool.
	PoolTokens(ctx context.Context, id types.PoolID) (types.TokenID, types.TokenID, error)
	// PoolReserves returns the pool's reserves oriented so that In is the
	// reserve of tokenIn.
	PoolReserves(ctx context.Context, id types.PoolID, tokenIn types.TokenID) (*types.Reserves, error)
	// PoolDynamicFee returns the pool's current fee in basis points. The fee
	// varies with the pool's volatility state on-chain; the core treats it as
	// an opaque input.
	PoolDynamicFee(ctx context.Context, id types.PoolID) (uint16, error)
}
