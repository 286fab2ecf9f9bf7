// Package csv reads delimited text as a header row plus a stream of records.
//
// The header is read out of band with ReadHeader; Stream then emits every
// remaining record, tagged with its zero-based data row index, without
// buffering the whole input.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"verdict/internal/config"
)

// ErrNoHeader is returned by ReadHeader on an input with no rows at all.
var ErrNoHeader = errors.New("csv: missing header row")

// Options configures the reader. The zero value reads strict comma-separated
// input with every record as wide as the header.
type Options struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune

	// TrimSpace trims leading and trailing white space from every cell.
	TrimSpace bool

	// LazyQuotes relaxes quote handling (see encoding/csv.Reader.LazyQuotes).
	LazyQuotes bool

	// FieldsPerRecord follows encoding/csv: 0 enforces the header width,
	// a positive value enforces that width, -1 allows ragged records.
	FieldsPerRecord int
}

// OptionsFrom reads Options out of a parser options bag:
//
//	comma (string; first rune used; default ',')
//	trim_space (bool; default false)
//	lazy_quotes (bool; default false)
//	fields_per_record (int; default 0)
func OptionsFrom(o config.Options) Options {
	return Options{
		Comma:           o.Rune("comma", ','),
		TrimSpace:       o.Bool("trim_space", false),
		LazyQuotes:      o.Bool("lazy_quotes", false),
		FieldsPerRecord: o.Int("fields_per_record", 0),
	}
}

// Record is one data row. Row is the zero-based index among data rows (the
// header is not counted).
type Record struct {
	Row    int
	Fields []string
}

// Reader wraps encoding/csv with header extraction and context-aware
// streaming. It is not safe for concurrent use.
type Reader struct {
	cr   *csv.Reader
	trim bool
	row  int
}

// NewReader returns a Reader over r. A leading byte-order mark is removed.
func NewReader(r io.Reader, opt Options) *Reader {
	cr := csv.NewReader(stripBOM(r))
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.LazyQuotes = opt.LazyQuotes
	cr.FieldsPerRecord = opt.FieldsPerRecord
	return &Reader{cr: cr, trim: opt.TrimSpace}
}

// ReadHeader consumes the first row and returns its cells.
func (r *Reader) ReadHeader() ([]string, error) {
	h, err := r.cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	return r.clean(h), nil
}

// Stream reads every remaining record and sends it on out.
//
// Behavior:
//   - Stream stops at the first read error and returns it wrapped; encoding/csv
//     structural failures remain reachable through errors.As(*csv.ParseError).
//   - It returns nil at end of input and ctx.Err() on cancellation.
//   - The caller owns out and is responsible for closing it.
func (r *Reader) Stream(ctx context.Context, out chan<- Record) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rec, err := r.cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("csv: read row %d: %w", r.row, err)
		}

		select {
		case out <- Record{Row: r.row, Fields: r.clean(rec)}:
			r.row++
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *Reader) clean(rec []string) []string {
	if !r.trim {
		return rec
	}
	for i, v := range rec {
		rec[i] = strings.TrimSpace(v)
	}
	return rec
}
