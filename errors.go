// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ratsum

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidValue is returned for a zero denominator or a malformed literal.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnsupportedOperand is returned when an operation is given an operand
	// kind it does not accept.
	ErrUnsupportedOperand = errors.New("unsupported operand")

	// ErrIndexOutOfRange is returned by List accessors.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// ParseError is returned when a token can't be parsed as a rational number.
// It unwraps to ErrInvalidValue.
type ParseError struct {
	Token string
	Pos   Position
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%q: %v", e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
