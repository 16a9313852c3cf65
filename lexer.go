// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ratsum

import (
	"context"
	"log/slog"
	"unicode/utf8"
)

// Lexer splits an input buffer into whitespace-delimited tokens.
//
// The input is treated as an immutable UTF-8 byte slice. Whitespace is
// anything unicode.IsSpace accepts; invalid UTF-8 bytes are never whitespace
// and end up inside a token. Line numbers advance on LF only, so CR+LF
// behaves like LF.
//
// Columns count runes, not bytes.
type Lexer struct {
	name   string // name of the input source
	input  []byte
	pos    int // position of the next unread byte
	line   int // line number of the next unread rune
	column int // column number of the next unread rune

	// returns a canonical end of input token
	endToken *Token

	// logging
	ctx        context.Context
	logger     *slog.Logger
	tokenCount int
}

func NewLexer(ctx context.Context, path string, input []byte, logger *slog.Logger) *Lexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lexer{
		name:   path,
		input:  input,
		line:   1,
		column: 1,
		ctx:    ctx,
		logger: logger,
	}
}

// Scan returns the next token from the input buffer.
//
// Once we reach end of input, we always return the same EndOfInput token.
func (l *Lexer) Scan() *Token {
	l.skipSpace()
	if l.pos >= len(l.input) {
		if l.endToken == nil {
			l.endToken = &Token{
				Position: Position{Line: l.line, Column: l.column, Start: l.pos},
				End:      l.pos,
				Kind:     EndOfInput,
			}
			l.logger.DebugContext(l.ctx, "lexer: end of input", "file", l.name, "tokens", l.tokenCount)
		}
		return l.endToken
	}

	tok := &Token{Position: Position{Line: l.line, Column: l.column, Start: l.pos}}
	for l.pos < len(l.input) {
		r, w := utf8.DecodeRune(l.input[l.pos:])
		if isspace(r) {
			break
		}
		l.pos, l.column = l.pos+w, l.column+1
	}
	tok.End = l.pos
	tok.Text = string(l.input[tok.Start:tok.End])
	tok.Kind = classify(tok.Text)
	l.tokenCount++
	return tok
}

// skipSpace advances past whitespace, counting lines.
func (l *Lexer) skipSpace() {
	for l.pos < len(l.input) {
		r, w := utf8.DecodeRune(l.input[l.pos:])
		if !isspace(r) {
			return
		}
		l.pos += w
		if r == LF {
			l.line, l.column = l.line+1, 1
		} else {
			l.column++
		}
	}
}

// Tokens returns every token in input, not including the EndOfInput token.
func Tokens(ctx context.Context, path string, input []byte, logger *slog.Logger) []*Token {
	var toks []*Token
	lx := NewLexer(ctx, path, input, logger)
	for tok := lx.Scan(); !tok.Is(EndOfInput); tok = lx.Scan() {
		toks = append(toks, tok)
	}
	return toks
}
