// amm/math_test.go
package amm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bi(v int64) *big.Int { return big.NewInt(v) }

func TestAmountOut(t *testing.T) {
	tests := []struct {
		name       string
		amountIn   int64
		reserveIn  int64
		reserveOut int64
		feeBps     uint16
		expected   int64
	}{
		{
			name:     "balanced pool with 30bps fee",
			amountIn: 5000, reserveIn: 10000, reserveOut: 10000, feeBps: 30,
			// 5000*9970*10000 / (10000*10000 + 5000*9970) = 3326
			expected: 3326,
		},
		{
			name:     "deep pool with 30bps fee",
			amountIn: 5000, reserveIn: 1000000, reserveOut: 1000000, feeBps: 30,
			expected: 4960,
		},
		{
			name:     "zero fee equals pure constant product",
			amountIn: 5000, reserveIn: 10000, reserveOut: 10000, feeBps: 0,
			// floor(5000*10000/15000)
			expected: 3333,
		},
		{
			name:     "full fee yields zero output",
			amountIn: 5000, reserveIn: 10000, reserveOut: 10000, feeBps: 10000,
			expected: 0,
		},
		{
			name:     "tiny input rounds to zero",
			amountIn: 1, reserveIn: 1000000, reserveOut: 1000, feeBps: 30,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := AmountOut(bi(tt.amountIn), bi(tt.reserveIn), bi(tt.reserveOut), tt.feeBps)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out.Int64())
		})
	}
}

func TestAmountOutErrors(t *testing.T) {
	_, err := AmountOut(bi(0), bi(100), bi(100), 30)
	assert.ErrorIs(t, err, ErrInsufficientInput)

	_, err = AmountOut(bi(100), bi(0), bi(100), 30)
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)

	_, err = AmountOut(bi(100), bi(100), bi(0), 30)
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)

	_, err = AmountOut(bi(100), bi(100), bi(100), 10001)
	assert.ErrorIs(t, err, ErrInvalidFee)
}

// The product invariant must hold for every fee level: the pool never pays
// out more than the constant product allows.
func TestAmountOutInvariant(t *testing.T) {
	reserveIn := bi(31337)
	reserveOut := bi(271828)
	k := new(big.Int).Mul(reserveIn, reserveOut)

	for _, feeBps := range []uint16{0, 1, 30, 100, 9999, 10000} {
		for _, amountIn := range []int64{1, 7, 500, 31337, 1000000} {
			out, err := AmountOut(bi(amountIn), reserveIn, reserveOut, feeBps)
			require.NoError(t, err)

			newIn := new(big.Int).Add(reserveIn, bi(amountIn))
			newOut := new(big.Int).Sub(reserveOut, out)
			product := new(big.Int).Mul(newIn, newOut)
			assert.True(t, product.Cmp(k) >= 0,
				"invariant violated at fee=%d amountIn=%d", feeBps, amountIn)
		}
	}
}

func TestAmountIn(t *testing.T) {
	in, err := AmountIn(bi(3326), bi(10000), bi(10000), 30)
	require.NoError(t, err)

	// The ceiling bias guarantees the round trip never under-delivers.
	out, err := AmountOut(in, bi(10000), bi(10000), 30)
	require.NoError(t, err)
	assert.True(t, out.Cmp(bi(3326)) >= 0)
}

func TestAmountInRoundTrip(t *testing.T) {
	reserveIn := bi(1000000)
	reserveOut := bi(2500000)

	for _, want := range []int64{1, 99, 12345, 2499999} {
		in, err := AmountIn(bi(want), reserveIn, reserveOut, 25)
		require.NoError(t, err)

		out, err := AmountOut(in, reserveIn, reserveOut, 25)
		require.NoError(t, err)
		assert.True(t, out.Cmp(bi(want)) >= 0,
			"round trip under-delivered: want %d got %s", want, out)
	}
}

func TestAmountInErrors(t *testing.T) {
	// Requesting the whole reserve or more is unfillable at any price.
	_, err := AmountIn(bi(10000), bi(10000), bi(10000), 30)
	assert.ErrorIs(t, err, ErrInsufficientReserve)

	_, err = AmountIn(bi(10001), bi(10000), bi(10000), 30)
	assert.ErrorIs(t, err, ErrInsufficientReserve)

	_, err = AmountIn(bi(0), bi(10000), bi(10000), 30)
	assert.ErrorIs(t, err, ErrInsufficientOutput)

	_, err = AmountIn(bi(100), bi(0), bi(10000), 30)
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)

	_, err = AmountIn(bi(100), bi(10000), bi(10000), 10000)
	assert.ErrorIs(t, err, ErrInvalidFee)
}

func TestPriceImpactBps(t *testing.T) {
	// idealOut = floor(5000*10000/10000) = 5000, actual 3326
	// impact = floor((5000-3326)*10000/5000) = 3348
	impact := PriceImpactBps(bi(5000), bi(10000), bi(10000), bi(3326))
	assert.Equal(t, uint16(3348), impact)

	// Deep pool, negligible impact.
	impact = PriceImpactBps(bi(5000), bi(1000000), bi(1000000), bi(4960))
	assert.Equal(t, uint16(80), impact)

	// Zero reserves report maximum impact instead of dividing by zero.
	assert.Equal(t, uint16(10000), PriceImpactBps(bi(5000), bi(0), bi(10000), bi(0)))
	assert.Equal(t, uint16(10000), PriceImpactBps(bi(5000), bi(10000), bi(0), bi(0)))

	// Ideal output of zero likewise.
	assert.Equal(t, uint16(10000), PriceImpactBps(bi(1), bi(1000000), bi(10), bi(0)))

	// Actual at or above ideal clamps to zero.
	assert.Equal(t, uint16(0), PriceImpactBps(bi(5000), bi(10000), bi(10000), bi(5000)))
}

func TestFeeAmount(t *testing.T) {
	assert.Equal(t, int64(15), FeeAmount(bi(5000), 30).Int64())
	assert.Equal(t, int64(0), FeeAmount(bi(5000), 0).Int64())
	assert.Equal(t, int64(5000), FeeAmount(bi(5000), 10000).Int64())
	// Floor division.
	assert.Equal(t, int64(0), FeeAmount(bi(333), 1).Int64())
}
