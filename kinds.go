// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ratsum

//go:generate stringer --type Kind

// Kind implements enums for tokens
type Kind int

const (
	UNKNOWN Kind = iota

	Number     // optional sign followed by digits
	Ratio      // any token containing a slash
	Text       // run of text that didn't match anything else
	EndOfInput // end of input
)
