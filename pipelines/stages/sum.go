// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/mdhender/ratsum"
	"github.com/mdhender/ratsum/model"
	"github.com/mdhender/ratsum/renderer"
	"github.com/spf13/afero"
)

// SumService reads rational numbers from input files, sums them,
// and writes the report.
type SumService struct {
	fs       afero.Fs
	logger   *slog.Logger
	renderer *renderer.Renderer
	store    RunStore  // optional
	warnings io.Writer // optional
	mkdir    bool
}

// RunStore defines the store operations needed by SumService.
type RunStore interface {
	InsertRun(ctx context.Context, run *model.Run) (int64, error)
}

type Option func(s *SumService) error

// WithLogger sets the logger used for per-token warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *SumService) error {
		if logger == nil {
			return fmt.Errorf("logger: must not be nil")
		}
		s.logger = logger
		return nil
	}
}

// WithRenderer replaces the default report renderer.
func WithRenderer(r *renderer.Renderer) Option {
	return func(s *SumService) error {
		if r == nil {
			return fmt.Errorf("renderer: must not be nil")
		}
		s.renderer = r
		return nil
	}
}

// WithStore records every run in the store.
func WithStore(store RunStore) Option {
	return func(s *SumService) error {
		s.store = store
		return nil
	}
}

// WithWarnings prints skipped tokens to w, with the source line and a caret,
// instead of logging them.
func WithWarnings(w io.Writer) Option {
	return func(s *SumService) error {
		s.warnings = w
		return nil
	}
}

// WithMkdir creates the output file's parent directory if it is missing.
func WithMkdir(flag bool) Option {
	return func(s *SumService) error {
		s.mkdir = flag
		return nil
	}
}

// NewSumService creates a new SumService that uses the OS filesystem.
func NewSumService(options ...Option) (*SumService, error) {
	r, err := renderer.New()
	if err != nil {
		return nil, err
	}
	s := &SumService{
		fs:       afero.NewOsFs(),
		logger:   slog.Default(),
		renderer: r,
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SetFS sets the filesystem for testing.
func (s *SumService) SetFS(fs afero.Fs) {
	s.fs = fs
}

// Source is where an accepted value came from.
type Source struct {
	File  string
	Token *ratsum.Token
}

// Collection holds the values accepted from a set of input files.
type Collection struct {
	Inputs  []string
	List    *ratsum.List
	Sources []Source // Sources[i] is the origin of List element i
	Skipped []ratsum.Diagnostic
	Tokens  int // total tokens seen, accepted or not
}

// SumRequest contains the parameters for a run.
type SumRequest struct {
	Inputs []string // read in this order
	Output string   // overwritten
}

// SumResult contains the result of a run.
type SumResult struct {
	Sum          ratsum.Rational
	Collection   *Collection
	BytesWritten int
	RunID        int64 // zero if no store is configured
}

// Run reads the inputs, writes the report, and records the run if a store is set.
// Invalid tokens are skipped; I/O and database errors are returned.
func (s *SumService) Run(ctx context.Context, req SumRequest) (*SumResult, error) {
	started := time.Now()

	c, err := s.Collect(ctx, req.Inputs)
	if err != nil {
		return nil, err
	}
	sum, err := c.List.Sum()
	if err != nil {
		return nil, err
	}

	data := s.renderer.Bytes(sum, c.List)
	if err := s.writeOutput(req.Output, data); err != nil {
		return nil, err
	}
	result := &SumResult{
		Sum:          sum,
		Collection:   c,
		BytesWritten: len(data),
	}

	if s.store != nil {
		run := c.Run(req.Output, sum)
		run.CreatedAt = started.UTC()
		if result.RunID, err = s.store.InsertRun(ctx, run); err != nil {
			return nil, &ErrDatabase{Op: "insert run", Err: err}
		}
	}

	s.logger.DebugContext(ctx, "sum: run completed",
		"inputs", len(req.Inputs),
		"elements", c.List.Len(),
		"skipped", len(c.Skipped),
		"elapsed", time.Since(started))
	return result, nil
}

// Collect reads the inputs in order and returns every valid value.
// A missing or unreadable input stops the run.
func (s *SumService) Collect(ctx context.Context, paths []string) (*Collection, error) {
	c := &Collection{
		Inputs: append([]string{}, paths...),
		List:   ratsum.NewList(),
	}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.collectFile(ctx, path, c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (s *SumService) collectFile(ctx context.Context, path string, c *Collection) error {
	input, err := s.readFile(path)
	if err != nil {
		return err
	}

	lx := ratsum.NewLexer(ctx, path, input, s.logger)
	for tok := lx.Scan(); !tok.Is(ratsum.EndOfInput); tok = lx.Scan() {
		c.Tokens++
		value, err := ratsum.ParseToken(tok)
		if err != nil {
			var pe *ratsum.ParseError
			if !errors.As(err, &pe) {
				return err
			}
			diag := ratsum.NewSkipDiagnostic(path, tok, err)
			c.Skipped = append(c.Skipped, diag)
			s.warn(ctx, diag, input)
			continue
		}
		c.List.Append(value)
		c.Sources = append(c.Sources, Source{File: path, Token: tok})
	}
	return nil
}

// readFile reads the whole file; the handle is closed on every path.
func (s *SumService) readFile(path string) ([]byte, error) {
	fd, err := s.fs.Open(path)
	if err != nil {
		return nil, &ErrReadFile{Op: "open", Path: path, Err: err}
	}
	defer fd.Close()

	input, err := io.ReadAll(fd)
	if err != nil {
		return nil, &ErrReadFile{Op: "read", Path: path, Err: err}
	}
	return input, nil
}

func (s *SumService) writeOutput(path string, data []byte) error {
	if s.mkdir {
		if dir := filepath.Dir(path); dir != "." {
			if err := s.fs.MkdirAll(dir, 0o755); err != nil {
				return &ErrWriteFile{Op: "mkdir", Path: dir, Err: err}
			}
		}
	}
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return &ErrWriteFile{Op: "write", Path: path, Err: err}
	}
	return nil
}

func (s *SumService) warn(ctx context.Context, diag ratsum.Diagnostic, input []byte) {
	if s.warnings != nil {
		ratsum.PrintDiagnostic(s.warnings, diag, input)
		return
	}
	args := []any{
		"file", diag.Span.File,
		"line", diag.Span.Line,
		"column", diag.Span.Column,
		"token", diag.Token,
	}
	if len(diag.Notes) != 0 {
		args = append(args, "error", diag.Notes[0])
	}
	s.logger.WarnContext(ctx, "skipping invalid input", args...)
}

// Run converts the collection to a history record.
func (c *Collection) Run(output string, sum ratsum.Rational) *model.Run {
	run := &model.Run{
		Inputs:   append([]string{}, c.Inputs...),
		Output:   output,
		Sum:      sum.String(),
		Elements: c.List.Len(),
		Skipped:  len(c.Skipped),
	}
	for i, v := range c.List.All() {
		src := c.Sources[i]
		run.Values = append(run.Values, &model.Value{
			Seq:         i,
			Numerator:   v.Num().String(),
			Denominator: v.Denom().String(),
			Src: model.SrcRef{
				File:   src.File,
				Line:   src.Token.Line,
				Column: src.Token.Column,
				Token:  src.Token.Text,
			},
		})
	}
	for i, diag := range c.Skipped {
		reason := diag.Message
		if len(diag.Notes) != 0 {
			reason = diag.Notes[0]
		}
		run.Skips = append(run.Skips, &model.Skip{
			Seq:    i,
			Reason: reason,
			Src: model.SrcRef{
				File:   diag.Span.File,
				Line:   diag.Span.Line,
				Column: diag.Span.Column,
				Token:  diag.Token,
			},
		})
	}
	return run
}
