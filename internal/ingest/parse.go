package ingest

import (
	"errors"
	"strconv"
	"strings"

	"verdict/internal/dataset"
)

// parseColumn parses the buffered cells of one schema field into a column of
// the field's type. The empty string is null. The first cell that does not
// parse is reported as a *ParseError with its data-row index.
func parseColumn(f dataset.Field, cells []string) (dataset.Column, error) {
	switch f.Type {
	case dataset.Int:
		v, ok, err := parseCells(f, cells, parseInt)
		if err != nil {
			return nil, err
		}
		return dataset.IntColumnFrom(v, ok), nil
	case dataset.Float:
		v, ok, err := parseCells(f, cells, parseFloat)
		if err != nil {
			return nil, err
		}
		return dataset.FloatColumnFrom(v, ok), nil
	case dataset.Bool:
		v, ok, err := parseCells(f, cells, ParseBool)
		if err != nil {
			return nil, err
		}
		return dataset.BoolColumnFrom(v, ok), nil
	default:
		valid := make([]bool, len(cells))
		for i, c := range cells {
			valid[i] = c != ""
		}
		return dataset.StrColumnFrom(cells, valid), nil
	}
}

func parseCells[T any](f dataset.Field, cells []string, parse func(string) (T, bool)) ([]T, []bool, error) {
	values := make([]T, len(cells))
	valid := make([]bool, len(cells))
	for row, cell := range cells {
		if cell == "" {
			continue
		}
		v, ok := parse(cell)
		if !ok {
			return nil, nil, &ParseError{Column: f.Name, Row: row, Value: cell, Expected: f.Type.String()}
		}
		values[row], valid[row] = v, true
	}
	return values, valid, nil
}

func parseInt(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err == nil
}

// parseFloat accepts anything strconv.ParseFloat does, including "NaN" and
// "inf". Out-of-range magnitudes saturate to ±Inf or 0 instead of failing.
func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return v, true
}

// ParseBool matches true/1/yes and false/0/no, ignoring case.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}
