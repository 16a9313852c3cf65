// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ratsum

import (
	"strings"
	"unicode"
)

const (
	// CR is 0x0D or '\r'. It is treated as whitespace, so CR+LF needs no special handling.
	CR rune = rune(13)

	// LF is 0x0A or '\n'
	LF rune = rune(10)
)

func isdigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isspace(ch rune) bool {
	return ch == CR || ch == LF || unicode.IsSpace(ch)
}

// classify returns the kind of a non-empty lexeme.
// Anything containing a slash is a Ratio, even if it turns out to be malformed.
func classify(s string) Kind {
	if strings.ContainsRune(s, '/') {
		return Ratio
	}
	digits := s
	if len(digits) != 0 && (digits[0] == '-' || digits[0] == '+') {
		digits = digits[1:]
	}
	if len(digits) == 0 {
		return Text
	}
	for i := 0; i < len(digits); i++ {
		if !isdigit(digits[i]) {
			return Text
		}
	}
	return Number
}
