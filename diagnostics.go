// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ratsum

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Diagnostic represents a warning or error with a span in the original source.
type Diagnostic struct {
	Severity slog.Level // Error, Warning, Info
	Message  string     // "skipping invalid input \"x\""
	Span     Span       // where in the file it occurred
	Token    string     // offending lexeme, if any
	Notes    []string   // optional additional help messages
}

// NewSkipDiagnostic returns the warning reported when a token is skipped.
func NewSkipDiagnostic(file string, tok *Token, err error) Diagnostic {
	diag := Diagnostic{
		Severity: slog.LevelWarn,
		Message:  fmt.Sprintf("skipping invalid input %q", tok.Text),
		Span:     tok.Span(file),
		Token:    tok.Text,
	}
	if err != nil {
		// report the cause without repeating the token
		if pe, ok := err.(*ParseError); ok {
			err = pe.Err
		}
		diag.Notes = append(diag.Notes, err.Error())
	}
	return diag
}

// String returns "file:line:column: LEVEL: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.Span.File, d.Span.Line, d.Span.Column, d.Severity, d.Message)
}

// PrintDiagnostic writes the diagnostic, the source line it points at,
// a caret under the start of the span, and any notes.
// Only the first line of a multi-line span is shown.
func PrintDiagnostic(w io.Writer, diag Diagnostic, src []byte) {
	_, _ = fmt.Fprintf(w, "%s\n", diag)

	line := findLine(src, diag.Span.Start, len(src))
	_, _ = fmt.Fprintf(w, "    %s\n", line)

	caretCount := max(diag.Span.Column-1, 0)
	_, _ = fmt.Fprintf(w, "    %s^\n", strings.Repeat(" ", caretCount))

	for _, note := range diag.Notes {
		_, _ = fmt.Fprintf(w, "    note: %s\n", note)
	}
}

// findLine returns the line containing the start byte.
// It searches backwards from start to find the start of the line,
// then forward until it hits end, end of input, or finds a new-line.
// The returned line does not include the new-line or a trailing CR.
// If there is no line, returns an empty slice.
func findLine(src []byte, start, end int) []byte {
	if start < 0 || start >= len(src) {
		return []byte{}
	}
	if end > len(src) {
		end = len(src)
	}

	lineStart := 0
	for i := start - 1; i >= 0; i-- {
		if src[i] == '\n' {
			lineStart = i + 1
			break
		}
	}

	lineEnd := end
	for i := lineStart; i < end; i++ {
		if src[i] == '\n' {
			lineEnd = i
			break
		}
	}
	if lineEnd > lineStart && src[lineEnd-1] == '\r' {
		lineEnd--
	}
	return src[lineStart:lineEnd]
}
