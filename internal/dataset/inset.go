package dataset

import (
	"math"
	"strconv"
	"strings"
)

// InSetValues is a typed value set for membership tests. Implementations:
// IntSet, FloatSet and StrSet.
type InSetValues interface {
	Type() DataType
	Len() int
	String() string
	inSet()
}

// IntSet is a set of integers matched against Int columns.
type IntSet []int64

// FloatSet is a set of floats matched against Float columns. Membership uses
// bit-pattern identity, the same notion of equality as UniqueCount.
type FloatSet []float64

// StrSet is a set of strings matched against Str columns.
type StrSet []string

func (IntSet) Type() DataType   { return Int }
func (FloatSet) Type() DataType { return Float }
func (StrSet) Type() DataType   { return Str }

func (s IntSet) Len() int   { return len(s) }
func (s FloatSet) Len() int { return len(s) }
func (s StrSet) Len() int   { return len(s) }

func (IntSet) inSet()   {}
func (FloatSet) inSet() {}
func (StrSet) inSet()   {}

func (s IntSet) String() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (s FloatSet) String() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = formatFloat(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (s StrSet) String() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.Quote(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (s IntSet) lookup() map[int64]struct{} {
	m := make(map[int64]struct{}, len(s))
	for _, v := range s {
		m[v] = struct{}{}
	}
	return m
}

func (s FloatSet) lookup() map[uint64]struct{} {
	m := make(map[uint64]struct{}, len(s))
	for _, v := range s {
		m[math.Float64bits(v)] = struct{}{}
	}
	return m
}

func (s StrSet) lookup() map[string]struct{} {
	m := make(map[string]struct{}, len(s))
	for _, v := range s {
		m[v] = struct{}{}
	}
	return m
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
