// numeric/rational.go
package numeric

import (
	"math/big"
	"strings"
)

// Rounding selects how the last rendered digit is resolved.
type Rounding int

const (
	// RoundDown truncates toward zero.
	RoundDown Rounding = iota
	// RoundHalfUp rounds a half or more away from zero.
	RoundHalfUp
	// RoundUp rounds any remainder away from zero.
	RoundUp
)

// Rational is an exact, immutable fraction over arbitrary-precision
// integers. Arithmetic results are NOT reduced to lowest terms; callers may
// rely on value equivalence only, never on minimal representation.
// Comparison is done by cross-multiplication, never via float conversion.
type Rational struct {
	num *big.Int
	den *big.Int
}

// New builds a fraction num/den. A zero denominator is a programming error
// and panics; it is not a recoverable business condition. The sign is
// normalized onto the numerator.
func New(num, den *big.Int) Rational {
	if den.Sign() == 0 {
		panic("numeric: zero denominator")
	}
	n := new(big.Int).Set(num)
	d := new(big.Int).Set(den)
	if d.Sign() < 0 {
		n.Neg(n)
		d.Neg(d)
	}
	return Rational{num: n, den: d}
}

// FromInt builds the fraction v/1.
func FromInt(v *big.Int) Rational {
	return Rational{num: new(big.Int).Set(v), den: big.NewInt(1)}
}

// FromInt64 builds the fraction v/1.
func FromInt64(v int64) Rational {
	return Rational{num: big.NewInt(v), den: big.NewInt(1)}
}

// Ratio builds the fraction num/den from machine integers.
func Ratio(num, den int64) Rational {
	return New(big.NewInt(num), big.NewInt(den))
}

// Num returns a copy of the numerator.
func (r Rational) Num() *big.Int { return new(big.Int).Set(r.num) }

// Den returns a copy of the denominator (always positive).
func (r Rational) Den() *big.Int { return new(big.Int).Set(r.den) }

// Sign returns -1, 0 or +1.
func (r Rational) Sign() int { return r.num.Sign() }

// IsZero reports whether the value is exactly zero.
func (r Rational) IsZero() bool { return r.num.Sign() == 0 }

// Add returns r + o as a new unreduced fraction.
func (r Rational) Add(o Rational) Rational {
	num := new(big.Int).Mul(r.num, o.den)
	num.Add(num, new(big.Int).Mul(o.num, r.den))
	return Rational{num: num, den: new(big.Int).Mul(r.den, o.den)}
}

// Sub returns r - o as a new unreduced fraction.
func (r Rational) Sub(o Rational) Rational {
	num := new(big.Int).Mul(r.num, o.den)
	num.Sub(num, new(big.Int).Mul(o.num, r.den))
	return Rational{num: num, den: new(big.Int).Mul(r.den, o.den)}
}

// Mul returns r * o as a new unreduced fraction.
func (r Rational) Mul(o Rational) Rational {
	return Rational{
		num: new(big.Int).Mul(r.num, o.num),
		den: new(big.Int).Mul(r.den, o.den),
	}
}

// Div returns r / o. Division by a zero value panics.
func (r Rational) Div(o Rational) Rational {
	return r.Mul(o.Invert())
}

// Invert returns 1/r. Inverting a zero value panics.
func (r Rational) Invert() Rational {
	return New(r.den, r.num)
}

// Cmp compares r and o by cross-multiplication, returning -1, 0 or +1.
func (r Rational) Cmp(o Rational) int {
	left := new(big.Int).Mul(r.num, o.den)
	right := new(big.Int).Mul(o.num, r.den)
	return left.Cmp(right)
}

// String renders the raw fraction, for logs and debugging only.
func (r Rational) String() string {
	return r.num.String() + "/" + r.den.String()
}

// ToFixed renders the value with exactly places digits after the decimal
// point, rounded per the given mode. The sign is handled separately from the
// magnitude so rounding is always applied to the absolute value.
func (r Rational) ToFixed(places int, rounding Rounding) string {
	if places < 0 {
		panic("numeric: negative decimal places")
	}
	neg := r.num.Sign() < 0
	n := new(big.Int).Abs(r.num)
	n.Mul(n, pow10(places))
	scaled := divRound(n, r.den, rounding)

	s := scaled.String()
	var out string
	if places == 0 {
		out = s
	} else {
		if len(s) < places+1 {
			s = strings.Repeat("0", places+1-len(s)) + s
		}
		out = s[:len(s)-places] + "." + s[len(s)-places:]
	}
	if neg && scaled.Sign() != 0 {
		out = "-" + out
	}
	return out
}

// ToSignificant renders the value with the given number of significant
// digits, rounded per the given mode, trimming trailing fractional zeros.
// Leading-zero counting for magnitudes below one is exact (repeated
// multiplication by ten), never approximated through logarithms.
func (r Rational) ToSignificant(digits int, rounding Rounding) string {
	if digits < 1 {
		panic("numeric: significant digits must be positive")
	}
	if r.num.Sign() == 0 {
		return "0"
	}
	neg := r.num.Sign() < 0
	n := new(big.Int).Abs(r.num)

	// shift is the power of ten applied before division such that the
	// survived integer carries exactly the wanted significant digits.
	var shift int
	ip := new(big.Int).Quo(n, r.den)
	if ip.Sign() > 0 {
		shift = digits - len(ip.String())
	} else {
		// Value is below one: count leading zeros exactly.
		k := 0
		t := new(big.Int).Set(n)
		for t.Cmp(r.den) < 0 {
			t.Mul(t, big.NewInt(10))
			k++
		}
		shift = digits + k - 1
	}

	var scaled *big.Int
	if shift >= 0 {
		scaled = divRound(new(big.Int).Mul(n, pow10(shift)), r.den, rounding)
	} else {
		scaled = divRound(n, new(big.Int).Mul(r.den, pow10(-shift)), rounding)
	}

	out := formatScaled(scaled, -shift)
	if neg && scaled.Sign() != 0 {
		out = "-" + out
	}
	return out
}

// divRound divides n by d (both non-negative, d > 0) under a rounding mode.
func divRound(n, d *big.Int, rounding Rounding) *big.Int {
	q, rem := new(big.Int).QuoRem(n, d, new(big.Int))
	if rem.Sign() == 0 {
		return q
	}
	switch rounding {
	case RoundUp:
		q.Add(q, big.NewInt(1))
	case RoundHalfUp:
		twice := new(big.Int).Lsh(rem, 1)
		if twice.Cmp(d) >= 0 {
			q.Add(q, big.NewInt(1))
		}
	}
	return q
}

// formatScaled renders scaled * 10^pow as a plain decimal string. A carry
// out of the rounding step (e.g. 99.9 -> 100 at two significant digits) is
// handled naturally because scaled is just an integer here.
func formatScaled(scaled *big.Int, pow int) string {
	s := scaled.String()
	if pow >= 0 {
		return s + strings.Repeat("0", pow)
	}
	p := -pow
	if len(s) <= p {
		s = strings.Repeat("0", p-len(s)+1) + s
	}
	out := s[:len(s)-p] + "." + s[len(s)-p:]
	out = strings.TrimRight(out, "0")
	return strings.TrimSuffix(out, ".")
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
