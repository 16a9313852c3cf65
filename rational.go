// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ratsum

import (
	"fmt"
	"math/big"
	"strings"
)

// Rational is an exact fraction with unbounded numerator and denominator.
//
// Values are always stored in lowest terms with the sign carried by the
// numerator; the denominator is always positive. Older versions of this
// package reduced by the gcd of the signed values and could store a negative
// denominator, so -1/-2 and 1/2 printed differently. That was a bug and
// has been fixed.
//
// The zero value is 0/1. Rationals are never mutated; arithmetic returns
// a new value. The big.Int fields are never modified after construction
// and are never handed out, so copies of a Rational may share them.
type Rational struct {
	n *big.Int // nil only in the zero value, which is read as 0
	d *big.Int // nil only in the zero value, which is read as 1
}

var (
	bigZero = big.NewInt(0) // read only
	bigOne  = big.NewInt(1) // read only
)

// New returns n/d reduced to lowest terms.
// It returns ErrInvalidValue if d is zero.
func New(n, d int64) (Rational, error) {
	if d == 0 {
		return Rational{}, fmt.Errorf("%w: %d/%d: denominator cannot be zero", ErrInvalidValue, n, d)
	}
	return reduce(big.NewInt(n), big.NewInt(d)), nil
}

// NewBig returns n/d reduced to lowest terms.
// It returns ErrInvalidValue if d is zero. n and d are not modified.
func NewBig(n, d *big.Int) (Rational, error) {
	if d.Sign() == 0 {
		return Rational{}, fmt.Errorf("%w: %s/%s: denominator cannot be zero", ErrInvalidValue, n, d)
	}
	return reduce(new(big.Int).Set(n), new(big.Int).Set(d)), nil
}

// FromInt returns n/1.
func FromInt(n int64) Rational {
	return Rational{n: big.NewInt(n), d: bigOne}
}

// reduce takes ownership of n and d, which must not be shared,
// and d must not be zero.
func reduce(n, d *big.Int) Rational {
	// GCD is never negative, whatever the signs of n and d
	if g := new(big.Int).GCD(nil, nil, n, d); g.Cmp(bigOne) > 0 {
		n.Quo(n, g)
		d.Quo(d, g)
	}
	if d.Sign() < 0 {
		n.Neg(n)
		d.Neg(d)
	}
	return Rational{n: n, d: d}
}

// Parse converts a string of the form "<int>/<int>" to a Rational.
// Both parts must be base-10 integers with an optional sign.
// Malformed input and zero denominators return ErrInvalidValue.
func Parse(s string) (Rational, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return Rational{}, fmt.Errorf("%w: %q: want <int>/<int>", ErrInvalidValue, s)
	}
	n, err := parseInt(parts[0])
	if err != nil {
		return Rational{}, fmt.Errorf("%w: numerator: %w", ErrInvalidValue, err)
	}
	d, err := parseInt(parts[1])
	if err != nil {
		return Rational{}, fmt.Errorf("%w: denominator: %w", ErrInvalidValue, err)
	}
	if d.Sign() == 0 {
		return Rational{}, fmt.Errorf("%w: %s: denominator cannot be zero", ErrInvalidValue, s)
	}
	return reduce(n, d), nil
}

// parseInt accepts an optional sign followed by base-10 digits.
func parseInt(s string) (*big.Int, error) {
	if classify(s) != Number {
		return nil, fmt.Errorf("%q: not an integer", s)
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%q: not an integer", s)
	}
	return n, nil
}

// MustParse is like Parse but panics on error.
// It is intended for tests and package-level values.
func MustParse(s string) Rational {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Rational) num() *big.Int {
	if r.n == nil {
		return bigZero
	}
	return r.n
}

func (r Rational) den() *big.Int {
	if r.d == nil {
		return bigOne
	}
	return r.d
}

// Num returns a copy of the numerator.
func (r Rational) Num() *big.Int {
	return new(big.Int).Set(r.num())
}

// Denom returns a copy of the denominator, which is always positive.
func (r Rational) Denom() *big.Int {
	return new(big.Int).Set(r.den())
}

// Add returns r + op.
// Integer and Fraction operands are accepted; any other kind
// returns ErrUnsupportedOperand.
func (r Rational) Add(op Operand) (Rational, error) {
	an, ad := r.num(), r.den()
	switch op.Kind() {
	case IntegerOperand:
		// n = a.n + k*a.d, d = a.d
		n := new(big.Int).Mul(big.NewInt(op.i), ad)
		n.Add(n, an)
		return reduce(n, new(big.Int).Set(ad)), nil
	case FractionOperand:
		// n = a.n*b.d + b.n*a.d, d = a.d*b.d
		bn, bd := op.r.num(), op.r.den()
		n := new(big.Int).Mul(an, bd)
		n.Add(n, new(big.Int).Mul(bn, ad))
		return reduce(n, new(big.Int).Mul(ad, bd)), nil
	}
	return Rational{}, fmt.Errorf("rational + %s: %w", op.Kind(), ErrUnsupportedOperand)
}

// Plus returns r + other.
func (r Rational) Plus(other Rational) (Rational, error) {
	return r.Add(Fraction(other))
}

// Float64 returns the nearest float64 to n/d.
// The conversion is lossy for large numerators or denominators.
func (r Rational) Float64() float64 {
	f, _ := new(big.Rat).SetFrac(r.num(), r.den()).Float64()
	return f
}

// Equal reports whether r and other hold the same reduced value.
func (r Rational) Equal(other Rational) bool {
	return r.num().Cmp(other.num()) == 0 && r.den().Cmp(other.den()) == 0
}

// Cmp returns -1, 0 or +1 as r is less than, equal to or greater than other.
func (r Rational) Cmp(other Rational) int {
	// denominators are positive, so compare a.n*b.d with b.n*a.d
	x := new(big.Int).Mul(r.num(), other.den())
	y := new(big.Int).Mul(other.num(), r.den())
	return x.Cmp(y)
}

// IsZero reports whether r is 0/1.
func (r Rational) IsZero() bool {
	return r.num().Sign() == 0
}

// String returns "<numerator>/<denominator>".
func (r Rational) String() string {
	return r.num().String() + "/" + r.den().String()
}
