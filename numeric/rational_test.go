// numeric/rational_test.go
package numeric

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	r := New(big.NewInt(3), big.NewInt(4))
	assert.Equal(t, "3/4", r.String())

	// Sign normalizes onto the numerator.
	r = New(big.NewInt(3), big.NewInt(-4))
	assert.Equal(t, "-3/4", r.String())
	assert.Equal(t, -1, r.Sign())

	r = New(big.NewInt(-3), big.NewInt(-4))
	assert.Equal(t, "3/4", r.String())
	assert.Equal(t, 1, r.Sign())

	assert.Panics(t, func() { New(big.NewInt(1), big.NewInt(0)) })
}

func TestArithmetic(t *testing.T) {
	half := Ratio(1, 2)
	third := Ratio(1, 3)

	// 1/2 + 1/3 = 5/6
	assert.Equal(t, 0, half.Add(third).Cmp(Ratio(5, 6)))
	// 1/2 - 1/3 = 1/6
	assert.Equal(t, 0, half.Sub(third).Cmp(Ratio(1, 6)))
	// 1/2 * 1/3 = 1/6
	assert.Equal(t, 0, half.Mul(third).Cmp(Ratio(1, 6)))
	// (1/2) / (1/3) = 3/2
	assert.Equal(t, 0, half.Div(third).Cmp(Ratio(3, 2)))

	// Results are value-equal, not reduced: 2/4 equals 1/2.
	assert.Equal(t, 0, Ratio(2, 4).Cmp(half))
}

func TestCmp(t *testing.T) {
	assert.Equal(t, -1, Ratio(1, 3).Cmp(Ratio(1, 2)))
	assert.Equal(t, 1, Ratio(2, 3).Cmp(Ratio(1, 2)))
	assert.Equal(t, 0, Ratio(-1, 2).Cmp(Ratio(1, -2)))
	assert.Equal(t, -1, Ratio(-1, 2).Cmp(Ratio(1, 2)))

	// Magnitudes beyond float64 precision still compare exactly.
	big1 := New(mustInt("36893488147419103233"), big.NewInt(1))
	big2 := New(mustInt("36893488147419103234"), big.NewInt(1))
	assert.Equal(t, -1, big1.Cmp(big2))
}

func TestInvert(t *testing.T) {
	assert.Equal(t, 0, Ratio(3, 4).Invert().Cmp(Ratio(4, 3)))
	assert.Equal(t, 0, Ratio(-3, 4).Invert().Cmp(Ratio(-4, 3)))
	assert.Panics(t, func() { Ratio(0, 1).Invert() })
}

func TestToFixed(t *testing.T) {
	tests := []struct {
		name     string
		num, den int64
		places   int
		rounding Rounding
		expected string
	}{
		{"exact value", 1, 4, 2, RoundDown, "0.25"},
		{"truncation", 2, 3, 4, RoundDown, "0.6666"},
		{"half up rounds up", 2, 3, 4, RoundHalfUp, "0.6667"},
		{"half up on exact half", 1, 2, 0, RoundHalfUp, "1"},
		{"round up any remainder", 1, 3, 2, RoundUp, "0.34"},
		{"round up exact value stays", 1, 4, 2, RoundUp, "0.25"},
		{"zero places", 7, 2, 0, RoundDown, "3"},
		{"negative value", -2, 3, 2, RoundHalfUp, "-0.67"},
		{"negative rounds away from zero", -1, 2, 0, RoundHalfUp, "-1"},
		{"small magnitude pads zeros", 1, 800, 4, RoundDown, "0.0012"},
		{"rounds to zero drops sign", -1, 1000, 2, RoundDown, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.num, tt.den).ToFixed(tt.places, tt.rounding)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestToSignificant(t *testing.T) {
	tests := []struct {
		name     string
		num, den int64
		digits   int
		rounding Rounding
		expected string
	}{
		{"integer keeps magnitude", 1999, 1, 2, RoundDown, "1900"},
		{"integer rounds half up", 1999, 1, 2, RoundHalfUp, "2000"},
		{"carry grows the integer part", 999, 10, 2, RoundHalfUp, "100"},
		{"fraction trims trailing zeros", 1, 2, 3, RoundDown, "0.5"},
		{"sub one magnitude exact zeros", 123456, 1000000000, 3, RoundDown, "0.000123"},
		{"sub one rounds half up", 123456, 1000000000, 4, RoundHalfUp, "0.0001235"},
		{"exact integer", 12000, 1, 2, RoundDown, "12000"},
		{"negative value", -2, 3, 3, RoundHalfUp, "-0.667"},
		{"one significant digit", 95, 10, 1, RoundHalfUp, "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.num, tt.den).ToSignificant(tt.digits, tt.rounding)
			assert.Equal(t, tt.expected, got)
		})
	}

	assert.Equal(t, "0", Ratio(0, 5).ToSignificant(4, RoundDown))
	assert.Panics(t, func() { Ratio(1, 2).ToSignificant(0, RoundDown) })
}

func TestImmutability(t *testing.T) {
	a := Ratio(1, 2)
	b := Ratio(1, 3)
	_ = a.Add(b)
	_ = a.Mul(b)
	_ = a.ToFixed(5, RoundHalfUp)

	assert.Equal(t, "1/2", a.String())
	assert.Equal(t, "1/3", b.String())

	// Accessors hand out copies.
	a.Num().SetInt64(99)
	assert.Equal(t, "1/2", a.String())
}

func mustInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad integer literal in test: " + s)
	}
	return v
}
