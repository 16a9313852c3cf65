// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ratsum

// Token represents a single whitespace-delimited token from the input.
type Token struct {
	Position

	// End is the byte offset in the original input slice.
	// It is exclusive: input[Start:End] is the token's lexeme.
	End int

	Kind Kind   // Number, Ratio, Text or EndOfInput
	Text string // copy of the lexeme
}

// Is reports whether tok.Kind matches the provided kind.
//
// It returns false if tok is nil.
func (tok *Token) Is(kind Kind) bool {
	if tok == nil {
		return false
	}
	return tok.Kind == kind
}

// Lexeme is a helper to return the original text of the token.
func (tok *Token) Lexeme(input []byte) []byte {
	return input[tok.Position.Start:tok.End]
}

// Span returns the span covering the token in the named file.
func (tok *Token) Span(file string) Span {
	return Span{
		File:   file,
		Start:  tok.Position.Start,
		End:    tok.End,
		Line:   tok.Position.Line,
		Column: tok.Position.Column,
	}
}

// Position represents a position in the original source.
type Position struct {
	Line   int // 1-based
	Column int // 1-based, character column
	Start  int // byte index into input (0-based)
}

// Span represents a range in a source file.
type Span struct {
	File string

	// Byte offsets into the original input slice.
	// End is exclusive: input[Start:End] is the token's lexeme.
	Start int
	End   int

	// 1-based line and column of the *start* of the span.
	Line   int
	Column int
}
