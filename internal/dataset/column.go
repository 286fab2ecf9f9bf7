package dataset

import (
	"regexp"
	"strconv"
	"strings"

	"verdict/internal/bitmap"
)

// Column is a single homogeneous, nullable array. The set of implementations
// is closed: *IntColumn, *FloatColumn, *StrColumn and *BoolColumn.
//
// Operations that only make sense for some element types are still defined on
// every variant. On an inapplicable variant they report absence (a false ok,
// or a slice of None) instead of failing, so callers can apply any operation
// to any column and treat "not applicable" as "did not hold".
type Column interface {
	Type() DataType
	Len() int
	IsEmpty() bool
	IsNull() []bool
	NullCount() int
	NotNullCount() int

	// UniqueCount counts distinct stored values; all null rows together count
	// as one value. Floats are compared by bit pattern.
	UniqueCount() int
	DuplicatesCount() int

	// Numeric aggregates over non-null values. Absent on Str and Bool columns.
	Sum() (float64, bool)
	Mean() (float64, bool)
	Min() (float64, bool)
	Max() (float64, bool)
	Std() (float64, bool)
	Median() (float64, bool)

	// Numeric comparisons against a float threshold. Null rows yield None.
	Gt(v float64) []Opt[bool]
	Ge(v float64) []Opt[bool]
	Lt(v float64) []Opt[bool]
	Le(v float64) []Opt[bool]
	Equal(v float64) []Opt[bool]
	Between(lo, hi float64) []Opt[bool]

	// String predicates. Only Str columns produce present results.
	EqualStr(s string) []Opt[bool]
	Contains(pat string) []Opt[bool]
	StartsWith(pat string) []Opt[bool]
	EndsWith(pat string) []Opt[bool]
	MatchesRegex(pattern string) []Opt[bool]
	MatchesRegexp(re *regexp.Regexp) []Opt[bool]
	StrLength() []Opt[int]

	// IsIn tests membership in a typed value set. The set type must match the
	// column type; any other pairing yields None for every row.
	IsIn(set InSetValues) []Opt[bool]

	// Clone returns a deep copy that shares no storage with the receiver.
	Clone() Column
	String() string

	sealed()
}

var (
	_ Column = (*IntColumn)(nil)
	_ Column = (*FloatColumn)(nil)
	_ Column = (*StrColumn)(nil)
	_ Column = (*BoolColumn)(nil)
)

// vec is the storage shared by every variant: a dense value slice plus a
// validity bitmap. Null slots hold the zero value and are never observed.
type vec[T any] struct {
	values []T
	valid  *bitmap.Bitmap
}

func newVec[T any](values []*T) vec[T] {
	v := vec[T]{values: make([]T, len(values)), valid: bitmap.New(len(values))}
	for i, p := range values {
		if p != nil {
			v.values[i] = *p
			v.valid.Add(i)
		}
	}
	return v
}

// vecFrom copies values; valid may be nil (every row present) or must have
// the same length as values.
func vecFrom[T any](values []T, valid []bool) vec[T] {
	if valid != nil && len(valid) != len(values) {
		panic("dataset: validity mask length does not match values length")
	}
	v := vec[T]{values: append([]T(nil), values...), valid: bitmap.New(len(values))}
	var zero T
	for i := range values {
		if valid == nil || valid[i] {
			v.valid.Add(i)
		} else {
			v.values[i] = zero
		}
	}
	return v
}

func (v vec[T]) clone() vec[T] {
	return vec[T]{values: append([]T(nil), v.values...), valid: v.valid.Clone()}
}

// Len returns the row count.
func (v vec[T]) Len() int { return len(v.values) }

// IsEmpty reports whether the column has no rows.
func (v vec[T]) IsEmpty() bool { return len(v.values) == 0 }

// IsNull returns a per-row mask that is true where the row is null.
func (v vec[T]) IsNull() []bool {
	out := make([]bool, len(v.values))
	for i := range out {
		out[i] = !v.valid.Has(i)
	}
	return out
}

// NotNullCount returns the number of rows holding a value.
func (v vec[T]) NotNullCount() int { return v.valid.Count() }

// NullCount returns the number of null rows.
func (v vec[T]) NullCount() int { return len(v.values) - v.NotNullCount() }

// Value returns row i and whether it holds a value.
func (v vec[T]) Value(i int) (T, bool) {
	if !v.valid.Has(i) {
		var zero T
		return zero, false
	}
	return v.values[i], true
}

// Values returns a nullable copy of the column contents.
func (v vec[T]) Values() []*T {
	out := make([]*T, len(v.values))
	for i := range v.values {
		if v.valid.Has(i) {
			x := v.values[i]
			out[i] = &x
		}
	}
	return out
}

func (v vec[T]) nonNull() []T {
	out := make([]T, 0, v.valid.Count())
	for i, x := range v.values {
		if v.valid.Has(i) {
			out = append(out, x)
		}
	}
	return out
}

// test applies pred to every present row; null rows yield None.
func (v vec[T]) test(pred func(T) bool) []Opt[bool] {
	out := make([]Opt[bool], len(v.values))
	for i, x := range v.values {
		if v.valid.Has(i) {
			out[i] = Some(pred(x))
		}
	}
	return out
}

func uniqueBy[T any, K comparable](v vec[T], key func(T) K) int {
	seen := make(map[K]struct{}, len(v.values))
	nulls := 0
	for i, x := range v.values {
		if !v.valid.Has(i) {
			nulls = 1
			continue
		}
		seen[key(x)] = struct{}{}
	}
	return len(seen) + nulls
}

func identity[T comparable](x T) T { return x }

const maxDisplay = 10

// format renders at most maxDisplay values as "[tag]: [a, b, ... (N total)]".
func format[T any](tag string, v vec[T], render func(T) string) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(tag)
	b.WriteString("]: [")
	for i := 0; i < len(v.values) && i < maxDisplay; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		if x, ok := v.Value(i); ok {
			b.WriteString(render(x))
		} else {
			b.WriteString("null")
		}
	}
	if n := len(v.values); n > maxDisplay {
		b.WriteString(", ... (")
		b.WriteString(strconv.Itoa(n))
		b.WriteString(" total)")
	}
	b.WriteString("]")
	return b.String()
}
