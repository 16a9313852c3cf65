// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package ratsum implements exact rational numbers and an ordered list
// of them, plus the lexer used to read whitespace-separated integers
// and "a/b" fractions from text files.
package ratsum
