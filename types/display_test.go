// types/display_test.go
package types

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rovshanmuradov/solana-dex-sdk/numeric"
)

func TestQuoteDisplay(t *testing.T) {
	q := &Quote{
		AmountIn:       big.NewInt(5000),
		AmountOut:      big.NewInt(4920),
		FeeBps:         60,
		PriceImpactBps: 113,
	}

	price := q.ExecutionPrice()
	assert.Equal(t, "0.984", price.ToSignificant(6, numeric.RoundHalfUp))

	assert.Equal(t, "0.60", q.FeePercent())
	assert.Equal(t, "1.13", q.PriceImpactPercent())
}
