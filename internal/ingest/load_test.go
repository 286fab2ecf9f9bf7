package ingest

import (
	"context"
	"errors"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verdict/internal/dataset"
	csvparse "verdict/internal/parser/csv"
)

func csvOptionsRagged() csvparse.Options {
	return csvparse.Options{Comma: ',', FieldsPerRecord: -1}
}

func allTypesSchema() dataset.Schema {
	return dataset.NewSchema(
		dataset.NewField("id", dataset.Int),
		dataset.NewField("name", dataset.Str),
		dataset.NewField("score", dataset.Float),
		dataset.NewField("active", dataset.Bool),
	)
}

func load(t *testing.T, input string, schema dataset.Schema, opts ...Option) (*dataset.Dataset, error) {
	t.Helper()
	return FromReader(context.Background(), strings.NewReader(input), schema, opts...)
}

func TestFromFile_AllTypes(t *testing.T) {
	t.Parallel()

	ds, err := FromFile(context.Background(), "testdata/all_types.csv", allTypesSchema())
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "score", "active"}, ds.Headers())
	rows, cols := ds.Shape()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 4, cols)

	for _, c := range ds.Columns() {
		assert.Zero(t, c.NullCount())
	}

	score, _ := ds.ColumnByName("score")
	assert.Equal(t, dataset.Float, score.Type())
	median, _ := score.Median()
	assert.Equal(t, 92.0, median)

	active, _ := ds.ColumnByName("active")
	assert.Equal(t, `[bool]: [true, false, true, true, false]`, active.String())
}

func TestFromFile_WithNulls(t *testing.T) {
	t.Parallel()

	ds, err := FromFile(context.Background(), "testdata/with_nulls.csv", allTypesSchema())
	require.NoError(t, err)

	rows, cols := ds.Shape()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 4, cols)

	id, _ := ds.ColumnByName("id")
	assert.Equal(t, []bool{true, false, true, false, true}, id.IsNull())
	sum, _ := id.Sum()
	assert.Equal(t, 6.0, sum)

	score, _ := ds.ColumnByName("score")
	lo, _ := score.Min()
	hi, _ := score.Max()
	assert.Equal(t, 3.3, lo)
	assert.Equal(t, 5.5, hi)

	name, _ := ds.ColumnByName("name")
	assert.Equal(t, `[str]: [null, "bob", "charlie", null, null]`, name.String())

	active, _ := ds.ColumnByName("active")
	assert.Equal(t, `[bool]: [true, null, false, null, true]`, active.String())
}

func TestFromFile_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := FromFile(context.Background(), "testdata/nonexistent.csv", allTypesSchema())
	require.ErrorIs(t, err, ErrSource)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var pe *ParseError
	assert.False(t, errors.As(err, &pe))
}

func TestFromFile_TypeMismatchIsParseError(t *testing.T) {
	t.Parallel()

	// name declared Int: the first data row already fails.
	schema := dataset.NewSchema(
		dataset.NewField("id", dataset.Int),
		dataset.NewField("name", dataset.Int),
		dataset.NewField("score", dataset.Float),
		dataset.NewField("active", dataset.Bool),
	)
	_, err := FromFile(context.Background(), "testdata/all_types.csv", schema)

	var pe *ParseError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, ParseError{Column: "name", Row: 0, Value: "alice", Expected: "Int"}, *pe)
	assert.EqualError(t, err, "failed to parse column 'name' row 0: 'alice' is not a valid Int")
	assert.NotErrorIs(t, err, ErrFormat)
	assert.NotErrorIs(t, err, ErrSource)
}

func TestFromReader_ParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		schema dataset.Schema
		want   ParseError
	}{
		{
			name:   "int",
			input:  "id\n1\n2\nabc\n",
			schema: dataset.NewSchema(dataset.NewField("id", dataset.Int)),
			want:   ParseError{Column: "id", Row: 2, Value: "abc", Expected: "Int"},
		},
		{
			name:   "int_overflow",
			input:  "id\n9223372036854775808\n",
			schema: dataset.NewSchema(dataset.NewField("id", dataset.Int)),
			want:   ParseError{Column: "id", Row: 0, Value: "9223372036854775808", Expected: "Int"},
		},
		{
			name:   "float",
			input:  "x\n1.5\n1.5.0\n",
			schema: dataset.NewSchema(dataset.NewField("x", dataset.Float)),
			want:   ParseError{Column: "x", Row: 1, Value: "1.5.0", Expected: "Float"},
		},
		{
			name:   "bool",
			input:  "flag\nyes\nmaybe\n",
			schema: dataset.NewSchema(dataset.NewField("flag", dataset.Bool)),
			want:   ParseError{Column: "flag", Row: 1, Value: "maybe", Expected: "Bool"},
		},
		{
			name:  "second_column",
			input: "a,b\n1,2\n3,x\n",
			schema: dataset.NewSchema(
				dataset.NewField("a", dataset.Int),
				dataset.NewField("b", dataset.Int),
			),
			want: ParseError{Column: "b", Row: 1, Value: "x", Expected: "Int"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ds, err := load(t, tc.input, tc.schema, WithCSVOptions(csvOptionsRagged()))
			require.Nil(t, ds)
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, tc.want, *pe)
		})
	}
}

func TestFromReader_CellParsing(t *testing.T) {
	t.Parallel()

	input := "i,f,b,s\n-7,NaN,TRUE, padded \n+3,1e400,No,\n,inf,0,x\n"
	schema := dataset.NewSchema(
		dataset.NewField("i", dataset.Int),
		dataset.NewField("f", dataset.Float),
		dataset.NewField("b", dataset.Bool),
		dataset.NewField("s", dataset.Str),
	)
	ds, err := load(t, input, schema)
	require.NoError(t, err)

	i, _ := ds.ColumnByName("i")
	assert.Equal(t, "[i64]: [-7, 3, null]", i.String())

	f, _ := ds.ColumnByName("f")
	fc := f.(*dataset.FloatColumn)
	v0, _ := fc.Value(0)
	v1, _ := fc.Value(1)
	assert.True(t, math.IsNaN(v0))
	assert.True(t, math.IsInf(v1, 1), "out-of-range magnitudes saturate")

	b, _ := ds.ColumnByName("b")
	assert.Equal(t, "[bool]: [true, false, false]", b.String())

	s, _ := ds.ColumnByName("s")
	assert.Equal(t, `[str]: [" padded ", null, "x"]`, s.String(), "cells are not trimmed by default")
}

func TestFromReader_Options(t *testing.T) {
	t.Parallel()

	schema := dataset.NewSchema(dataset.NewField("id", dataset.Int), dataset.NewField("name", dataset.Str))
	ds, err := load(t, "id;name\n 1 ; ann \n", schema, WithComma(';'), WithTrimSpace(true))
	require.NoError(t, err)

	id, _ := ds.ColumnByName("id")
	assert.Equal(t, "[i64]: [1]", id.String())
	name, _ := ds.ColumnByName("name")
	assert.Equal(t, `[str]: ["ann"]`, name.String())
}

func TestFromReader_Structure(t *testing.T) {
	t.Parallel()

	two := dataset.NewSchema(dataset.NewField("a", dataset.Int), dataset.NewField("b", dataset.Int))

	t.Run("empty_input", func(t *testing.T) {
		t.Parallel()
		_, err := load(t, "", two)
		require.ErrorIs(t, err, ErrFormat)
	})

	t.Run("header_narrower_than_schema", func(t *testing.T) {
		t.Parallel()
		_, err := load(t, "a\n1\n", two)
		require.ErrorIs(t, err, ErrFormat)
	})

	t.Run("ragged_row", func(t *testing.T) {
		t.Parallel()
		_, err := load(t, "a,b\n1,2\n3\n", two)
		require.ErrorIs(t, err, ErrFormat)
	})

	t.Run("short_row_when_ragged_allowed", func(t *testing.T) {
		t.Parallel()
		_, err := load(t, "a,b\n1,2\n3\n", two, WithCSVOptions(csvOptionsRagged()))
		require.ErrorIs(t, err, ErrFormat)
		assert.Contains(t, err.Error(), "row 1 has 1 cells")
	})

	t.Run("bare_quote", func(t *testing.T) {
		t.Parallel()
		_, err := load(t, "a,b\n1,\"2\n", two)
		require.ErrorIs(t, err, ErrFormat)
	})

	t.Run("extra_columns_ignored", func(t *testing.T) {
		t.Parallel()
		ds, err := load(t, "a,b,c\n1,2,zzz\n", two)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, ds.Headers())
	})

	t.Run("header_only", func(t *testing.T) {
		t.Parallel()
		ds, err := load(t, "a,b\n", two)
		require.NoError(t, err)
		rows, cols := ds.Shape()
		assert.Zero(t, rows)
		assert.Equal(t, 2, cols)
	})
}

type failingReader struct{ after string }

func (f *failingReader) Read(p []byte) (int, error) {
	if f.after == "" {
		return 0, errors.New("disk on fire")
	}
	n := copy(p, f.after)
	f.after = f.after[n:]
	return n, nil
}

func TestFromReader_ReadFailureIsSourceError(t *testing.T) {
	t.Parallel()

	schema := dataset.NewSchema(dataset.NewField("a", dataset.Int))
	_, err := FromReader(context.Background(), &failingReader{after: "a\n1\n"}, schema)
	require.ErrorIs(t, err, ErrSource)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestFromReader_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	schema := dataset.NewSchema(dataset.NewField("a", dataset.Int))
	_, err := FromReader(ctx, strings.NewReader("a\n1\n2\n"), schema)
	require.ErrorIs(t, err, context.Canceled)
}

// TestFromReader_ErrorPrecedence locks in the two-phase load: the whole input
// is read before any cell is parsed, so a malformed record anywhere beats a
// bad cell, and among bad cells the earliest schema field wins over reading
// order.
func TestFromReader_ErrorPrecedence(t *testing.T) {
	t.Parallel()

	two := dataset.NewSchema(dataset.NewField("a", dataset.Int), dataset.NewField("b", dataset.Int))

	t.Run("earlier_field_reported_first", func(t *testing.T) {
		t.Parallel()
		_, err := load(t, "a,b\n1,x\n2,3\ny,4\n", two)

		var pe *ParseError
		require.True(t, errors.As(err, &pe), "got %v", err)
		assert.Equal(t, ParseError{Column: "a", Row: 2, Value: "y", Expected: "Int"}, *pe)
	})

	t.Run("structural_error_after_bad_cell", func(t *testing.T) {
		t.Parallel()
		_, err := load(t, "a,b\nz,1\n2,3\n4\n", two)

		require.ErrorIs(t, err, ErrFormat)
		var pe *ParseError
		assert.False(t, errors.As(err, &pe), "cell errors must not mask malformed records")
	})

	t.Run("short_row_after_bad_cell_when_ragged_allowed", func(t *testing.T) {
		t.Parallel()
		_, err := load(t, "a,b\nz,1\n4\n", two, WithCSVOptions(csvOptionsRagged()))

		require.ErrorIs(t, err, ErrFormat)
		assert.Contains(t, err.Error(), "row 1 has 1 cells")
	})

	t.Run("read_failure_after_bad_cell", func(t *testing.T) {
		t.Parallel()
		_, err := FromReader(context.Background(), &failingReader{after: "a,b\nz,1\n"}, two)

		require.ErrorIs(t, err, ErrSource)
	})
}

// TestFromReader_LargeInputReportsFirstBadRow checks that the row index of a
// bad cell survives buffering of a long input.
func TestFromReader_LargeInputReportsFirstBadRow(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("n\n")
	for i := 0; i < 5000; i++ {
		if i == 10 {
			b.WriteString("oops\n")
			continue
		}
		b.WriteString("1\n")
	}
	schema := dataset.NewSchema(dataset.NewField("n", dataset.Int))
	_, err := load(t, b.String(), schema)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 10, pe.Row)
}
