// Package ingest materializes a dataset.Dataset from delimited text under a
// caller-supplied Schema.
//
// Cells are matched to schema fields by position; header names only label
// the resulting columns. The empty cell is null. Loading runs in two phases:
// every record is read into per-field cell buffers, then each field is parsed
// in schema order. A malformed record aborts the first phase, so structural
// errors win over cell errors. In the second phase the first unparsable cell
// of the earliest field is reported. No partial Dataset is returned.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"verdict/internal/dataset"
	"verdict/internal/datasource"
	"verdict/internal/datasource/file"
	csvparse "verdict/internal/parser/csv"
)

// channelBuffer bounds how far the reader goroutine may run ahead of parsing.
const channelBuffer = 256

type settings struct {
	csv csvparse.Options
}

// Option adjusts how the input is tokenized.
type Option func(*settings)

// WithComma sets the field delimiter (default ',').
func WithComma(r rune) Option { return func(s *settings) { s.csv.Comma = r } }

// WithTrimSpace trims white space around every cell before parsing.
func WithTrimSpace(on bool) Option { return func(s *settings) { s.csv.TrimSpace = on } }

// WithCSVOptions replaces all tokenizer options at once, typically with
// csvparse.OptionsFrom applied to a suite's parser options.
func WithCSVOptions(o csvparse.Options) Option { return func(s *settings) { s.csv = o } }

// FromFile opens path ("-" for standard input) and loads it with FromReader.
func FromFile(ctx context.Context, path string, schema dataset.Schema, opts ...Option) (*dataset.Dataset, error) {
	return FromSource(ctx, file.NewLocal(path), schema, opts...)
}

// FromSource opens src and loads it with FromReader. Open failures are
// ErrSource.
func FromSource(ctx context.Context, src datasource.Source, schema dataset.Schema, opts ...Option) (*dataset.Dataset, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrSource, err)
	}
	defer rc.Close()
	return FromReader(ctx, rc, schema, opts...)
}

// FromReader reads a header row and then every record from src, parsing the
// i-th cell of each record as the i-th schema field.
//
// The Dataset's headers are the first schema.Len() header cells. A header
// narrower than the schema is ErrFormat; extra header columns and extra cells
// are ignored.
func FromReader(ctx context.Context, src io.Reader, schema dataset.Schema, opts ...Option) (*dataset.Dataset, error) {
	var s settings
	for _, o := range opts {
		o(&s)
	}

	r := csvparse.NewReader(src, s.csv)
	headers, err := r.ReadHeader()
	if errors.Is(err, csvparse.ErrNoHeader) {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if err != nil {
		return nil, classify(err)
	}
	if len(headers) < schema.Len() {
		return nil, fmt.Errorf("%w: schema declares %d fields but header has %d columns",
			ErrFormat, schema.Len(), len(headers))
	}

	buffers := make([][]string, schema.Len())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := make(chan csvparse.Record, channelBuffer)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		errc <- r.Stream(ctx, out)
	}()

	var recErr error
	for rec := range out {
		if recErr != nil {
			continue // drain so the reader can observe cancellation
		}
		if recErr = appendRecord(buffers, rec); recErr != nil {
			cancel()
		}
	}
	streamErr := <-errc

	if recErr != nil {
		return nil, recErr
	}
	if streamErr != nil {
		return nil, classify(streamErr)
	}

	cols := make([]dataset.Column, schema.Len())
	for i, f := range schema.Fields() {
		col, err := parseColumn(f, buffers[i])
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return dataset.New(headers[:schema.Len()], cols)
}

// appendRecord buffers the first len(buffers) cells of rec. Extra cells are
// dropped.
func appendRecord(buffers [][]string, rec csvparse.Record) error {
	if len(rec.Fields) < len(buffers) {
		return fmt.Errorf("%w: row %d has %d cells, want at least %d",
			ErrFormat, rec.Row, len(rec.Fields), len(buffers))
	}
	for i := range buffers {
		buffers[i] = append(buffers[i], rec.Fields[i])
	}
	return nil
}
