// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package renderer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/mdhender/ratsum"
)

// DefaultHeader is the label on the first line of the report.
const DefaultHeader = "Sum of all rational numbers"

// Renderer writes the sum report:
//
//	Sum of all rational numbers: <n>/<d>
//	<n>/<d>
//	...
//
// with one line per element in insertion order.
type Renderer struct {
	header string
	eol    string
}

func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		header: DefaultHeader,
		eol:    "\n",
	}
	for _, option := range options {
		err := option(r)
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Render writes the report for sum and list to w.
func (r *Renderer) Render(w io.Writer, sum ratsum.Rational, list *ratsum.List) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s: %s%s", r.header, sum, r.eol); err != nil {
		return err
	}
	for v := range list.Values() {
		if _, err := fmt.Fprintf(bw, "%s%s", v, r.eol); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Bytes returns the report for sum and list.
func (r *Renderer) Bytes(sum ratsum.Rational, list *ratsum.List) []byte {
	buf := &bytes.Buffer{}
	_ = r.Render(buf, sum, list) // writes to a bytes.Buffer don't fail
	return buf.Bytes()
}
