// Package arrowconv converts between dataset.Dataset and Apache Arrow records.
//
// Int maps to INT64, Float to FLOAT64, Str to STRING and Bool to BOOL. Nulls
// are carried in the Arrow validity bitmap in both directions.
package arrowconv

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"verdict/internal/dataset"
)

// ArrowType returns the Arrow type used for t.
func ArrowType(t dataset.DataType) (arrow.DataType, error) {
	switch t {
	case dataset.Int:
		return arrow.PrimitiveTypes.Int64, nil
	case dataset.Float:
		return arrow.PrimitiveTypes.Float64, nil
	case dataset.Str:
		return arrow.BinaryTypes.String, nil
	case dataset.Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	}
	return nil, fmt.Errorf("arrowconv: unsupported data type %s", t)
}

// ToRecord copies ds into a new record allocated from mem. The caller owns the
// record and must Release it. A nil mem uses the Go allocator.
func ToRecord(ds *dataset.Dataset, mem memory.Allocator) (arrow.Record, error) {
	mem = orGo(mem)
	headers := ds.Headers()
	cols := ds.Columns()
	rows, _ := ds.Shape()

	fields := make([]arrow.Field, len(cols))
	arrs := make([]arrow.Array, 0, len(cols))
	defer func() {
		for _, a := range arrs {
			a.Release()
		}
	}()

	for i, c := range cols {
		typ, err := ArrowType(c.Type())
		if err != nil {
			return nil, err
		}
		fields[i] = arrow.Field{Name: headers[i], Type: typ, Nullable: true}
		arr, err := buildArray(mem, c)
		if err != nil {
			return nil, fmt.Errorf("arrowconv: column %q: %w", headers[i], err)
		}
		arrs = append(arrs, arr)
	}
	return array.NewRecord(arrow.NewSchema(fields, nil), arrs, int64(rows)), nil
}

func buildArray(mem memory.Allocator, c dataset.Column) (arrow.Array, error) {
	switch col := c.(type) {
	case *dataset.IntColumn:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		appendAll(col.Values(), b.Append, b.AppendNull)
		return b.NewArray(), nil
	case *dataset.FloatColumn:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		appendAll(col.Values(), b.Append, b.AppendNull)
		return b.NewArray(), nil
	case *dataset.StrColumn:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		appendAll(col.Values(), b.Append, b.AppendNull)
		return b.NewArray(), nil
	case *dataset.BoolColumn:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		appendAll(col.Values(), b.Append, b.AppendNull)
		return b.NewArray(), nil
	}
	return nil, fmt.Errorf("unsupported column %T", c)
}

func appendAll[T any](vals []*T, add func(T), addNull func()) {
	for _, v := range vals {
		if v == nil {
			addNull()
			continue
		}
		add(*v)
	}
}

// FromRecord copies rec into a Dataset. Columns of any Arrow type other than
// INT64, FLOAT64, STRING or BOOL are rejected.
func FromRecord(rec arrow.Record) (*dataset.Dataset, error) {
	schema := rec.Schema()
	headers := make([]string, rec.NumCols())
	cols := make([]dataset.Column, rec.NumCols())
	for i := range cols {
		headers[i] = schema.Field(i).Name
		c, err := fromArray(rec.Column(i))
		if err != nil {
			return nil, fmt.Errorf("arrowconv: column %q: %w", headers[i], err)
		}
		cols[i] = c
	}
	return dataset.New(headers, cols)
}

func fromArray(a arrow.Array) (dataset.Column, error) {
	switch arr := a.(type) {
	case *array.Int64:
		return dataset.IntColumnFrom(arr.Int64Values(), validity(a)), nil
	case *array.Float64:
		return dataset.FloatColumnFrom(arr.Float64Values(), validity(a)), nil
	case *array.String:
		vals := make([]string, arr.Len())
		for i := range vals {
			if arr.IsValid(i) {
				vals[i] = arr.Value(i)
			}
		}
		return dataset.StrColumnFrom(vals, validity(a)), nil
	case *array.Boolean:
		vals := make([]bool, arr.Len())
		for i := range vals {
			if arr.IsValid(i) {
				vals[i] = arr.Value(i)
			}
		}
		return dataset.BoolColumnFrom(vals, validity(a)), nil
	}
	return nil, fmt.Errorf("unsupported arrow type %s", a.DataType())
}

func validity(a arrow.Array) []bool {
	valid := make([]bool, a.Len())
	for i := range valid {
		valid[i] = a.IsValid(i)
	}
	return valid
}

// WriteIPC writes ds to w as a single-batch Arrow IPC stream.
func WriteIPC(w io.Writer, ds *dataset.Dataset, mem memory.Allocator) error {
	rec, err := ToRecord(ds, mem)
	if err != nil {
		return err
	}
	defer rec.Release()

	iw := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(orGo(mem)))
	if err := iw.Write(rec); err != nil {
		_ = iw.Close()
		return fmt.Errorf("arrowconv: write ipc: %w", err)
	}
	if err := iw.Close(); err != nil {
		return fmt.Errorf("arrowconv: close ipc: %w", err)
	}
	return nil
}

// ReadIPC reads the first record batch of an Arrow IPC stream as a Dataset.
func ReadIPC(r io.Reader) (*dataset.Dataset, error) {
	ir, err := ipc.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("arrowconv: open ipc: %w", err)
	}
	defer ir.Release()

	if !ir.Next() {
		if err := ir.Err(); err != nil {
			return nil, fmt.Errorf("arrowconv: read ipc: %w", err)
		}
		return nil, fmt.Errorf("arrowconv: read ipc: empty stream")
	}
	return FromRecord(ir.Record())
}

func orGo(mem memory.Allocator) memory.Allocator {
	if mem == nil {
		return memory.NewGoAllocator()
	}
	return mem
}
