package dataset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/zeebo/xxh3"
)

// ErrShapeMismatch is returned by New when headers and columns disagree in
// count, or when columns differ in length.
var ErrShapeMismatch = errors.New("dataset: shape mismatch")

// Dataset pairs an ordered list of header names with equal-length columns.
// Headers are not required to be unique; name lookups resolve to the first
// match.
type Dataset struct {
	headers []string
	columns []Column
}

// New builds a Dataset from one header per column. Every column must have the
// same length. The dataset takes ownership of the passed columns.
func New(headers []string, columns []Column) (*Dataset, error) {
	if len(headers) != len(columns) {
		return nil, fmt.Errorf("%w: %d headers, %d columns", ErrShapeMismatch, len(headers), len(columns))
	}
	for i, c := range columns {
		if c == nil {
			return nil, fmt.Errorf("%w: column %d (%q) is nil", ErrShapeMismatch, i, headers[i])
		}
		if c.Len() != columns[0].Len() {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d",
				ErrShapeMismatch, headers[i], c.Len(), columns[0].Len())
		}
	}
	return &Dataset{
		headers: append([]string(nil), headers...),
		columns: append([]Column(nil), columns...),
	}, nil
}

// MustNew is New that panics on error. Intended for tests and literals.
func MustNew(headers []string, columns []Column) *Dataset {
	ds, err := New(headers, columns)
	if err != nil {
		panic(err)
	}
	return ds
}

// Headers returns a copy of the header names.
func (d *Dataset) Headers() []string { return append([]string(nil), d.headers...) }

// Columns returns the columns in header order. The slice is a copy; the
// columns themselves are shared and must be treated as read-only.
func (d *Dataset) Columns() []Column { return append([]Column(nil), d.columns...) }

// Shape returns (rows, cols). Rows is the length of the first column, or 0
// when the dataset has no columns.
func (d *Dataset) Shape() (rows, cols int) {
	if len(d.columns) > 0 {
		rows = d.columns[0].Len()
	}
	return rows, len(d.columns)
}

// ColumnIndex returns the index of the first column named name.
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	for i, h := range d.headers {
		if h == name {
			return i, true
		}
	}
	return -1, false
}

// ColumnByName returns the first column named name.
func (d *Dataset) ColumnByName(name string) (Column, bool) {
	i, ok := d.ColumnIndex(name)
	if !ok {
		return nil, false
	}
	return d.columns[i], true
}

// ColumnByIndex returns the column at idx.
func (d *Dataset) ColumnByIndex(idx int) (Column, bool) {
	if idx < 0 || idx >= len(d.columns) {
		return nil, false
	}
	return d.columns[idx], true
}

// String renders the dataset shape, e.g. "Dataset(rows=5, cols=4)".
func (d *Dataset) String() string {
	rows, cols := d.Shape()
	return fmt.Sprintf("Dataset(rows=%d, cols=%d)", rows, cols)
}

// Fingerprint returns an xxh3 digest of the headers, column types, validity
// masks and values. Two datasets with equal contents have equal fingerprints;
// it identifies which data a stored validation run was computed over.
func (d *Dataset) Fingerprint() uint64 {
	h := xxh3.New()
	var buf [8]byte
	putU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = h.Write(buf[:])
	}
	putStr := func(s string) {
		putU64(uint64(len(s)))
		_, _ = h.WriteString(s)
	}

	putU64(uint64(len(d.headers)))
	for i, name := range d.headers {
		putStr(name)
		c := d.columns[i]
		putU64(uint64(c.Type()))
		putU64(uint64(c.Len()))
		switch col := c.(type) {
		case *IntColumn:
			hashVec(col.vec, putU64, func(v int64) { putU64(uint64(v)) })
		case *FloatColumn:
			hashVec(col.vec, putU64, func(v float64) { putU64(math.Float64bits(v)) })
		case *StrColumn:
			hashVec(col.vec, putU64, putStr)
		case *BoolColumn:
			hashVec(col.vec, putU64, func(v bool) {
				if v {
					putU64(1)
				} else {
					putU64(0)
				}
			})
		}
	}
	return h.Sum64()
}

func hashVec[T any](v vec[T], putU64 func(uint64), put func(T)) {
	for _, w := range v.valid.Words() {
		putU64(w)
	}
	for i, x := range v.values {
		if v.valid.Has(i) {
			put(x)
		}
	}
}
