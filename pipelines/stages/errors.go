// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"errors"
	"fmt"

	"github.com/mdhender/ratsum"
)

// ErrReadFile is returned when an input file can't be opened or read.
type ErrReadFile struct {
	Op   string // open, read
	Path string
	Err  error
}

func (e *ErrReadFile) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ErrReadFile) Unwrap() error {
	return e.Err
}

// ErrWriteFile is returned when the output file can't be written.
type ErrWriteFile struct {
	Op   string // mkdir, write
	Path string
	Err  error
}

func (e *ErrWriteFile) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ErrWriteFile) Unwrap() error {
	return e.Err
}

// ErrDatabase is returned when database operations fail.
type ErrDatabase struct {
	Op  string
	Err error
}

func (e *ErrDatabase) Error() string {
	return fmt.Sprintf("database %s: %v", e.Op, e.Err)
}

func (e *ErrDatabase) Unwrap() error {
	return e.Err
}

// Error code constants for logging and run history.
const (
	ErrCodeReadFile     = "READ_FILE"
	ErrCodeWriteFile    = "WRITE_FILE"
	ErrCodeDatabase     = "DATABASE"
	ErrCodeInvalidValue = "INVALID_VALUE"
	ErrCodeUnknown      = "UNKNOWN"
)

// ErrorCode returns the error code string for a given error.
func ErrorCode(err error) string {
	var readErr *ErrReadFile
	var writeErr *ErrWriteFile
	var dbErr *ErrDatabase
	switch {
	case errors.As(err, &readErr):
		return ErrCodeReadFile
	case errors.As(err, &writeErr):
		return ErrCodeWriteFile
	case errors.As(err, &dbErr):
		return ErrCodeDatabase
	case errors.Is(err, ratsum.ErrInvalidValue):
		return ErrCodeInvalidValue
	default:
		return ErrCodeUnknown
	}
}
