package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"verdict/internal/rules"
)

// ResultColumns is the column order of rows produced by ResultRows.
var ResultColumns = []string{
	"run_id", "suite", "dataset_fingerprint", "dataset_rows", "started_at",
	"rule_index", "column_name", "constraint_desc", "passed", "failed_count",
	"error_message",
}

// Run identifies one execution of a suite. Every stored result row carries it.
type Run struct {
	ID    uuid.UUID
	Suite string

	// Fingerprint and Rows identify the validated dataset; see
	// dataset.Dataset.Fingerprint.
	Fingerprint uint64
	Rows        int

	StartedAt time.Time
}

// NewRun starts a run for suite with a fresh random ID.
func NewRun(suite string, fingerprint uint64, rows int) Run {
	return Run{
		ID:          uuid.New(),
		Suite:       suite,
		Fingerprint: fingerprint,
		Rows:        rows,
		StartedAt:   time.Now().UTC(),
	}
}

// FingerprintHex renders the fingerprint as stored: 16 lowercase hex digits.
func (r Run) FingerprintHex() string { return fmt.Sprintf("%016x", r.Fingerprint) }

// ResultRows flattens results into rows aligned to ResultColumns. An empty
// error is stored as NULL.
func ResultRows(run Run, results []rules.ValidationResult) [][]any {
	rows := make([][]any, len(results))
	for i, r := range results {
		var errText any
		if r.Error != "" {
			errText = r.Error
		}
		rows[i] = []any{
			run.ID.String(),
			run.Suite,
			run.FingerprintHex(),
			int64(run.Rows),
			run.StartedAt,
			int64(i),
			r.Column,
			r.Constraint,
			r.Passed,
			int64(r.FailedCount),
			errText,
		}
	}
	return rows
}

// SaveResults streams results into repo in batches of batchSize.
func SaveResults(ctx context.Context, repo Repository, run Run, results []rules.ValidationResult, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("storage: save results: %w", err)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in := make(chan []any, batchSize)
	go func() {
		defer close(in)
		for _, row := range ResultRows(run, results) {
			select {
			case in <- row:
			case <-ctx.Done():
				return
			}
		}
	}()

	n, err := LoadBatches(ctx, ResultColumns, in, batchSize, repo.CopyFrom)
	if err != nil {
		return n, fmt.Errorf("storage: save results: %w", err)
	}
	return n, nil
}

// DefaultBatchSize is used when a non-positive batch size is given.
const DefaultBatchSize = 500
