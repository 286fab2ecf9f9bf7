package ingest

import (
	"context"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
)

var (
	// ErrSource marks failures to open or read the input.
	ErrSource = errors.New("ingest: source unreadable")

	// ErrFormat marks structurally malformed input: no header row, a record
	// the tokenizer rejects, or a record with fewer cells than the schema
	// has fields.
	ErrFormat = errors.New("ingest: malformed input")
)

// ParseError reports a cell that could not be parsed as its field's type.
// Row is the zero-based index among data rows.
type ParseError struct {
	Column   string
	Row      int
	Value    string
	Expected string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse column '%s' row %d: '%s' is not a valid %s",
		e.Column, e.Row, e.Value, e.Expected)
}

// classify maps a reader error onto ErrFormat or ErrSource. Context errors
// are returned unchanged.
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var pe *stdcsv.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return fmt.Errorf("%w: %w", ErrSource, err)
}
