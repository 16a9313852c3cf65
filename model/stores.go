// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package model

import "context"

// Store is an interface for recording and listing runs.
type Store interface {
	InsertRun(ctx context.Context, run *Run) (int64, error)
	GetRun(ctx context.Context, id int64) (*Run, error)
	GetRuns(ctx context.Context, limit int) ([]*Run, error)
	Close() error
}
