package dataset

import (
	"regexp"
	"strconv"
)

// IntColumn is a nullable column of 64-bit signed integers.
type IntColumn struct{ vec[int64] }

// NewIntColumn builds an IntColumn; nil entries are nulls.
func NewIntColumn(values []*int64) *IntColumn { return &IntColumn{newVec(values)} }

// IntColumnFrom copies values, marking row i null where valid[i] is false.
// A nil valid slice marks every row present.
func IntColumnFrom(values []int64, valid []bool) *IntColumn {
	return &IntColumn{vecFrom(values, valid)}
}

func (c *IntColumn) Type() DataType { return Int }

func (c *IntColumn) UniqueCount() int { return uniqueBy(c.vec, identity[int64]) }

func (c *IntColumn) DuplicatesCount() int { return c.Len() - c.UniqueCount() }

// IntSum is the integral sum of non-null values (0 when there are none).
// It reports false if the sum overflows int64.
func (c *IntColumn) IntSum() (int64, bool) {
	var s int64
	for _, v := range c.nonNull() {
		t := s + v
		if (v > 0 && t < s) || (v < 0 && t > s) {
			return 0, false
		}
		s = t
	}
	return s, true
}

// floatSum accumulates in float64, used once the integral sum overflows.
func (c *IntColumn) floatSum() float64 {
	var s float64
	for _, v := range c.nonNull() {
		s += float64(v)
	}
	return s
}

// IntMin is the smallest non-null value.
func (c *IntColumn) IntMin() (int64, bool) {
	xs := c.nonNull()
	if len(xs) == 0 {
		return 0, false
	}
	m := xs[0]
	for _, v := range xs[1:] {
		m = min(m, v)
	}
	return m, true
}

// IntMax is the largest non-null value.
func (c *IntColumn) IntMax() (int64, bool) {
	xs := c.nonNull()
	if len(xs) == 0 {
		return 0, false
	}
	m := xs[0]
	for _, v := range xs[1:] {
		m = max(m, v)
	}
	return m, true
}

func (c *IntColumn) Sum() (float64, bool) {
	if s, ok := c.IntSum(); ok {
		return float64(s), true
	}
	return c.floatSum(), true
}

func (c *IntColumn) Mean() (float64, bool) {
	s, _ := c.Sum()
	return meanOf(s, c.NotNullCount())
}

func (c *IntColumn) Min() (float64, bool) {
	m, ok := c.IntMin()
	return float64(m), ok
}

func (c *IntColumn) Max() (float64, bool) {
	m, ok := c.IntMax()
	return float64(m), ok
}

func (c *IntColumn) Std() (float64, bool) { return sampleStd(toFloats(c.nonNull())) }

func (c *IntColumn) Median() (float64, bool) { return medianOf(toFloats(c.nonNull())) }

func (c *IntColumn) Gt(v float64) []Opt[bool] {
	return c.test(func(x int64) bool { return float64(x) > v })
}

func (c *IntColumn) Ge(v float64) []Opt[bool] {
	return c.test(func(x int64) bool { return float64(x) >= v })
}

func (c *IntColumn) Lt(v float64) []Opt[bool] {
	return c.test(func(x int64) bool { return float64(x) < v })
}

func (c *IntColumn) Le(v float64) []Opt[bool] {
	return c.test(func(x int64) bool { return float64(x) <= v })
}

func (c *IntColumn) Equal(v float64) []Opt[bool] {
	return c.test(func(x int64) bool { return float64(x) == v })
}

func (c *IntColumn) Between(lo, hi float64) []Opt[bool] {
	return c.test(func(x int64) bool { f := float64(x); return f >= lo && f <= hi })
}

func (c *IntColumn) EqualStr(string) []Opt[bool]              { return allNone[bool](c.Len()) }
func (c *IntColumn) Contains(string) []Opt[bool]              { return allNone[bool](c.Len()) }
func (c *IntColumn) StartsWith(string) []Opt[bool]            { return allNone[bool](c.Len()) }
func (c *IntColumn) EndsWith(string) []Opt[bool]              { return allNone[bool](c.Len()) }
func (c *IntColumn) MatchesRegex(string) []Opt[bool]          { return allNone[bool](c.Len()) }
func (c *IntColumn) MatchesRegexp(*regexp.Regexp) []Opt[bool] { return allNone[bool](c.Len()) }
func (c *IntColumn) StrLength() []Opt[int]                    { return allNone[int](c.Len()) }

func (c *IntColumn) IsIn(set InSetValues) []Opt[bool] {
	s, ok := set.(IntSet)
	if !ok {
		return allNone[bool](c.Len())
	}
	m := s.lookup()
	return c.test(func(x int64) bool { _, hit := m[x]; return hit })
}

func (c *IntColumn) Clone() Column { return &IntColumn{c.clone()} }

func (c *IntColumn) String() string {
	return format("i64", c.vec, func(v int64) string { return strconv.FormatInt(v, 10) })
}

func (*IntColumn) sealed() {}
