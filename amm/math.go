// amm/math.go
package amm

import (
	"errors"
	"math/big"
)

// BpsDenominator is the basis-point scale used for fees and tolerances.
const BpsDenominator = 10000

var (
	// ErrInsufficientInput: amountIn is zero or negative.
	ErrInsufficientInput = errors.New("insufficient input amount")
	// ErrInsufficientOutput: amountOut is zero or negative.
	ErrInsufficientOutput = errors.New("insufficient output amount")
	// ErrInsufficientLiquidity: one of the reserves is zero or negative.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	// ErrInsufficientReserve: the pool can never produce that much output.
	ErrInsufficientReserve = errors.New("insufficient reserve for requested output")
	// ErrInvalidFee: feeBps is outside [0, 10000], or the fee consumes the
	// entire input on an exact-output request.
	ErrInvalidFee = errors.New("invalid fee")
)

var bpsDen = big.NewInt(BpsDenominator)

// AmountOut computes the output of a constant-product pool for a given
// input under an integer basis-point fee, with floor division:
//
//	feeFactor     = 10000 - feeBps
//	amountInFee   = amountIn * feeFactor
//	out           = floor(amountInFee * reserveOut / (reserveIn*10000 + amountInFee))
//
// The product invariant (reserveIn+amountIn)*(reserveOut-out) >=
// reserveIn*reserveOut holds for every feeBps in [0, 10000]; feeBps=10000
// yields zero output.
func AmountOut(amountIn, reserveIn, reserveOut *big.Int, feeBps uint16) (*big.Int, error) {
	if feeBps > BpsDenominator {
		return nil, ErrInvalidFee
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, ErrInsufficientInput
	}
	if reserveIn == nil || reserveOut == nil || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return nil, ErrInsufficientLiquidity
	}

	feeFactor := big.NewInt(int64(BpsDenominator - feeBps))
	amountInFee := new(big.Int).Mul(amountIn, feeFactor)

	numerator := new(big.Int).Mul(amountInFee, reserveOut)
	denominator := new(big.Int).Mul(reserveIn, bpsDen)
	denominator.Add(denominator, amountInFee)

	return numerator.Quo(numerator, denominator), nil
}

// AmountIn computes the input required to receive exactly amountOut:
//
//	in = floor(reserveIn * amountOut * 10000 / ((reserveOut-amountOut) * feeFactor)) + 1
//
// The +1 is a deliberate ceiling bias: input rounds up, output rounds down,
// so the caller never under-pays and AmountOut(AmountIn(y)) >= y always.
func AmountIn(amountOut, reserveIn, reserveOut *big.Int, feeBps uint16) (*big.Int, error) {
	if feeBps > BpsDenominator {
		return nil, ErrInvalidFee
	}
	if amountOut == nil || amountOut.Sign() <= 0 {
		return nil, ErrInsufficientOutput
	}
	if reserveIn == nil || reserveOut == nil || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return nil, ErrInsufficientLiquidity
	}
	if amountOut.Cmp(reserveOut) >= 0 {
		return nil, ErrInsufficientReserve
	}
	if feeBps == BpsDenominator {
		// A 100% fee produces zero output for any input.
		return nil, ErrInvalidFee
	}

	feeFactor := big.NewInt(int64(BpsDenominator - feeBps))

	numerator := new(big.Int).Mul(reserveIn, amountOut)
	numerator.Mul(numerator, bpsDen)

	denominator := new(big.Int).Sub(reserveOut, amountOut)
	denominator.Mul(denominator, feeFactor)

	in := numerator.Quo(numerator, denominator)
	return in.Add(in, big.NewInt(1)), nil
}

// PriceImpactBps estimates the deviation of the realized output from the
// zero-slippage reference output idealOut = floor(amountIn*reserveOut/reserveIn),
// in basis points. It reports the maximum (10000) when either reserve or the
// reference output is zero, signaling a fully illiquid pool rather than
// dividing by zero.
func PriceImpactBps(amountIn, reserveIn, reserveOut, actualOut *big.Int) uint16 {
	if reserveIn == nil || reserveOut == nil || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return BpsDenominator
	}
	idealOut := new(big.Int).Mul(amountIn, reserveOut)
	idealOut.Quo(idealOut, reserveIn)
	if idealOut.Sign() <= 0 {
		return BpsDenominator
	}

	diff := new(big.Int).Sub(idealOut, actualOut)
	if diff.Sign() <= 0 {
		return 0
	}
	impact := diff.Mul(diff, bpsDen)
	impact.Quo(impact, idealOut)
	if !impact.IsInt64() || impact.Int64() > BpsDenominator {
		return BpsDenominator
	}
	return uint16(impact.Int64())
}

// FeeAmount returns the fee charged on amountIn at feeBps, floor division.
func FeeAmount(amountIn *big.Int, feeBps uint16) *big.Int {
	fee := new(big.Int).Mul(amountIn, big.NewInt(int64(feeBps)))
	return fee.Quo(fee, bpsDen)
}
