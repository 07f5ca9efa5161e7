// router/route.go
package router

import (
	"errors"
	"math/big"

	"github.com/rovshanmuradov/solana-dex-sdk/types"
)

// ErrChainLength rejects a chained route with fewer than two hops: a chain
// of one is a direct route and the type distinction enforces that.
var ErrChainLength = errors.New("chained route requires at least two hops")

// Route is a priced path through one or more pools. The two shapes are a
// tagged variant rather than a branch on slice length, so "chained implies
// at least two hops" holds by construction.
type Route interface {
	Hops() []types.Hop
	Path() []types.TokenID
	AmountIn() *big.Int
	AmountOut() *big.Int

	isRoute()
}

// Direct is a single-pool route.
type Direct struct {
	Hop types.Hop
}

func (d Direct) isRoute() {}

func (d Direct) Hops() []types.Hop { return []types.Hop{d.Hop} }

func (d Direct) Path() []types.TokenID {
	return []types.TokenID{d.Hop.TokenIn, d.Hop.TokenOut}
}

func (d Direct) AmountIn() *big.Int { return d.Hop.AmountIn }

func (d Direct) AmountOut() *big.Int { return d.Hop.AmountOut }

// Chained is a multi-pool route where each hop's output feeds the next
// hop's input. Construct with NewChained.
type Chained struct {
	hops []types.Hop
}

// NewChained builds a chained route from at least two hops.
func NewChained(hops []types.Hop) (Chained, error) {
	if len(hops) < 2 {
		return Chained{}, ErrChainLength
	}
	return Chained{hops: hops}, nil
}

func (c Chained) isRoute() {}

func (c Chained) Hops() []types.Hop { return c.hops }

func (c Chained) Path() []types.TokenID {
	path := make([]types.TokenID, 0, len(c.hops)+1)
	path = append(path, c.hops[0].TokenIn)
	for _, h := range c.hops {
		path = append(path, h.TokenOut)
	}
	return path
}

func (c Chained) AmountIn() *big.Int { return c.hops[0].AmountIn }

func (c Chained) AmountOut() *big.Int { return c.hops[len(c.hops)-1].AmountOut }
