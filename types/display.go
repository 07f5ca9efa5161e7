// types/display.go
package types

import (
	"github.com/rovshanmuradov/solana-dex-sdk/numeric"
)

// ExecutionPrice returns the realized price amountOut/amountIn as an exact
// fraction. Panics on a zero AmountIn, which GetQuote never produces.
func (q *Quote) ExecutionPrice() numeric.Rational {
	return numeric.New(q.AmountOut, q.AmountIn)
}

// PriceImpactPercent renders the aggregate price impact as a percentage
// string with two decimals, e.g. "0.25".
func (q *Quote) PriceImpactPercent() string {
	return numeric.Ratio(int64(q.PriceImpactBps), 100).ToFixed(2, numeric.RoundHalfUp)
}

// FeePercent renders the aggregate fee as a percentage string with two
// decimals.
func (q *Quote) FeePercent() string {
	return numeric.Ratio(int64(q.FeeBps), 100).ToFixed(2, numeric.RoundHalfUp)
}
