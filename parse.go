// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ratsum

import (
	"fmt"
	"math/big"
)

// ParseLiteral converts a single token to a Rational.
// Text containing a slash is parsed with Parse; anything else must be
// a base-10 integer. Errors wrap ErrInvalidValue.
func ParseLiteral(s string) (Rational, error) {
	if classify(s) == Ratio {
		return Parse(s)
	}
	n, err := parseInt(s)
	if err != nil {
		return Rational{}, fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	return reduce(n, big.NewInt(1)), nil
}

// ParseToken converts tok to a Rational.
// On failure it returns a *ParseError holding the token text and position.
func ParseToken(tok *Token) (Rational, error) {
	r, err := ParseLiteral(tok.Text)
	if err != nil {
		return Rational{}, &ParseError{Token: tok.Text, Pos: tok.Position, Err: err}
	}
	return r, nil
}
