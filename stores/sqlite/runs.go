// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mdhender/ratsum/model"
)

// InsertRun inserts a Run with its inputs, values and skips in a single
// transaction and returns the assigned ID. The IDs of the run and its
// children are updated in place.
func (s *SQLiteStore) InsertRun(ctx context.Context, run *model.Run) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	const runQuery = `
		INSERT INTO runs (created_at, output, sum, elements, skipped)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := tx.ExecContext(ctx, runQuery,
		run.CreatedAt.UTC().Format(time.RFC3339),
		run.Output,
		run.Sum,
		run.Elements,
		run.Skipped,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	const inputQuery = `INSERT INTO run_inputs (run_id, seq, path) VALUES (?, ?, ?)`
	for seq, path := range run.Inputs {
		if _, err := tx.ExecContext(ctx, inputQuery, runID, seq, path); err != nil {
			return 0, fmt.Errorf("insert run_input: %w", err)
		}
	}

	const valueQuery = `
		INSERT INTO run_values (run_id, seq, numerator, denominator, file, line, col, token)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, v := range run.Values {
		result, err := tx.ExecContext(ctx, valueQuery,
			runID, v.Seq, v.Numerator, v.Denominator,
			v.Src.File, v.Src.Line, v.Src.Column, v.Src.Token,
		)
		if err != nil {
			return 0, fmt.Errorf("insert run_value: %w", err)
		}
		if v.ID, err = result.LastInsertId(); err != nil {
			return 0, fmt.Errorf("insert run_value: %w", err)
		}
		v.RunID = runID
	}

	const skipQuery = `
		INSERT INTO run_skips (run_id, seq, reason, file, line, col, token)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for _, sk := range run.Skips {
		result, err := tx.ExecContext(ctx, skipQuery,
			runID, sk.Seq, sk.Reason,
			sk.Src.File, sk.Src.Line, sk.Src.Column, sk.Src.Token,
		)
		if err != nil {
			return 0, fmt.Errorf("insert run_skip: %w", err)
		}
		if sk.ID, err = result.LastInsertId(); err != nil {
			return 0, fmt.Errorf("insert run_skip: %w", err)
		}
		sk.RunID = runID
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	run.ID = runID
	return runID, nil
}

// GetRuns returns the most recent runs, newest first, without their values
// or skips. A limit of zero or less returns every run.
func (s *SQLiteStore) GetRuns(ctx context.Context, limit int) ([]*model.Run, error) {
	if limit <= 0 {
		limit = -1 // sqlite treats a negative limit as no limit
	}
	const query = `
		SELECT id, created_at, output, sum, elements, skipped
		FROM runs
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, run := range runs {
		if run.Inputs, err = s.getRunInputs(ctx, run.ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// GetRun returns a run with its inputs, values and skips, or nil if not found.
func (s *SQLiteStore) GetRun(ctx context.Context, id int64) (*model.Run, error) {
	const query = `
		SELECT id, created_at, output, sum, elements, skipped
		FROM runs
		WHERE id = ?
	`
	run, err := scanRun(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	if run.Inputs, err = s.getRunInputs(ctx, id); err != nil {
		return nil, err
	}
	if run.Values, err = s.getRunValues(ctx, id); err != nil {
		return nil, err
	}
	if run.Skips, err = s.getRunSkips(ctx, id); err != nil {
		return nil, err
	}
	return run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*model.Run, error) {
	var run model.Run
	var createdAt string
	if err := row.Scan(
		&run.ID,
		&createdAt,
		&run.Output,
		&run.Sum,
		&run.Elements,
		&run.Skipped,
	); err != nil {
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		run.CreatedAt = t
	}
	return &run, nil
}

func (s *SQLiteStore) getRunInputs(ctx context.Context, runID int64) ([]string, error) {
	const query = `SELECT path FROM run_inputs WHERE run_id = ? ORDER BY seq`
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query run_inputs: %w", err)
	}
	defer rows.Close()

	var inputs []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		inputs = append(inputs, path)
	}
	return inputs, rows.Err()
}

func (s *SQLiteStore) getRunValues(ctx context.Context, runID int64) ([]*model.Value, error) {
	const query = `
		SELECT id, run_id, seq, numerator, denominator, file, line, col, token
		FROM run_values
		WHERE run_id = ?
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query run_values: %w", err)
	}
	defer rows.Close()

	var values []*model.Value
	for rows.Next() {
		var v model.Value
		if err := rows.Scan(
			&v.ID, &v.RunID, &v.Seq, &v.Numerator, &v.Denominator,
			&v.Src.File, &v.Src.Line, &v.Src.Column, &v.Src.Token,
		); err != nil {
			return nil, err
		}
		values = append(values, &v)
	}
	return values, rows.Err()
}

func (s *SQLiteStore) getRunSkips(ctx context.Context, runID int64) ([]*model.Skip, error) {
	const query = `
		SELECT id, run_id, seq, reason, file, line, col, token
		FROM run_skips
		WHERE run_id = ?
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query run_skips: %w", err)
	}
	defer rows.Close()

	var skips []*model.Skip
	for rows.Next() {
		var sk model.Skip
		if err := rows.Scan(
			&sk.ID, &sk.RunID, &sk.Seq, &sk.Reason,
			&sk.Src.File, &sk.Src.Line, &sk.Src.Column, &sk.Src.Token,
		); err != nil {
			return nil, err
		}
		skips = append(skips, &sk)
	}
	return skips, rows.Err()
}
