package model

import (
	"time"
)

// Run is one execution of the sum pipeline.
type Run struct {
	ID        int64     `json:"id"        db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Inputs    []string  `json:"inputs"`                  // input paths, in the order read
	Output    string    `json:"output"    db:"output"`   // output path
	Sum       string    `json:"sum"       db:"sum"`      // e.g., "5/6"
	Elements  int       `json:"elements"  db:"elements"` // number of accepted values
	Skipped   int       `json:"skipped"   db:"skipped"`  // number of rejected tokens

	Values []*Value `json:"values,omitempty"` // ordered list for JSON export/import
	Skips  []*Skip  `json:"skips,omitempty"`
}

// Value is one accepted token and the rational it was reduced to.
type Value struct {
	ID          int64  `json:"id"          db:"id"`
	RunID       int64  `json:"runId"       db:"run_id"`
	Seq         int    `json:"seq"         db:"seq"`         // 0-based position in the list
	Numerator   string `json:"numerator"   db:"numerator"`   // base 10, may exceed int64
	Denominator string `json:"denominator" db:"denominator"` // base 10, always positive
	Src         SrcRef `json:"src"         db:"-"`
}

// Skip is one token that could not be parsed.
type Skip struct {
	ID     int64  `json:"id"     db:"id"`
	RunID  int64  `json:"runId"  db:"run_id"`
	Seq    int    `json:"seq"    db:"seq"`
	Reason string `json:"reason" db:"reason"`
	Src    SrcRef `json:"src"    db:"-"`
}

// SrcRef is the provenance of a token.
type SrcRef struct {
	File   string `json:"file"   db:"file"`
	Line   int    `json:"line"   db:"line"`
	Column int    `json:"column" db:"col"`
	Token  string `json:"token"  db:"token"`
}
