// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package renderer

import (
	"fmt"
	"strings"
)

type Option func(p *Renderer) error

// WithCRLF ends lines with CR+LF instead of LF.
func WithCRLF(flag bool) Option {
	return func(p *Renderer) error {
		if flag {
			p.eol = "\r\n"
		} else {
			p.eol = "\n"
		}
		return nil
	}
}

// WithHeader replaces the label on the first line.
func WithHeader(header string) Option {
	return func(p *Renderer) error {
		if header == "" || strings.ContainsAny(header, "\r\n") {
			return fmt.Errorf("header: must be a single, non-empty line")
		}
		p.header = header
		return nil
	}
}
