package dataset

import (
	"math"
	"regexp"
)

// FloatColumn is a nullable column of 64-bit floats.
type FloatColumn struct{ vec[float64] }

// NewFloatColumn builds a FloatColumn; nil entries are nulls.
func NewFloatColumn(values []*float64) *FloatColumn { return &FloatColumn{newVec(values)} }

// FloatColumnFrom copies values, marking row i null where valid[i] is false.
// A nil valid slice marks every row present.
func FloatColumnFrom(values []float64, valid []bool) *FloatColumn {
	return &FloatColumn{vecFrom(values, valid)}
}

func (c *FloatColumn) Type() DataType { return Float }

// UniqueCount distinguishes bit patterns: NaNs with different payloads are
// different values, and so are -0.0 and +0.0.
func (c *FloatColumn) UniqueCount() int { return uniqueBy(c.vec, math.Float64bits) }

func (c *FloatColumn) DuplicatesCount() int { return c.Len() - c.UniqueCount() }

func (c *FloatColumn) Sum() (float64, bool) {
	var s float64
	for _, v := range c.nonNull() {
		s += v
	}
	return s, true
}

func (c *FloatColumn) Mean() (float64, bool) {
	s, _ := c.Sum()
	return meanOf(s, c.NotNullCount())
}

func (c *FloatColumn) Min() (float64, bool)    { return nanMin(c.nonNull()) }
func (c *FloatColumn) Max() (float64, bool)    { return nanMax(c.nonNull()) }
func (c *FloatColumn) Std() (float64, bool)    { return sampleStd(c.nonNull()) }
func (c *FloatColumn) Median() (float64, bool) { return medianOf(c.nonNull()) }

func (c *FloatColumn) Gt(v float64) []Opt[bool] {
	return c.test(func(x float64) bool { return x > v })
}

func (c *FloatColumn) Ge(v float64) []Opt[bool] {
	return c.test(func(x float64) bool { return x >= v })
}

func (c *FloatColumn) Lt(v float64) []Opt[bool] {
	return c.test(func(x float64) bool { return x < v })
}

func (c *FloatColumn) Le(v float64) []Opt[bool] {
	return c.test(func(x float64) bool { return x <= v })
}

func (c *FloatColumn) Equal(v float64) []Opt[bool] {
	return c.test(func(x float64) bool { return x == v })
}

func (c *FloatColumn) Between(lo, hi float64) []Opt[bool] {
	return c.test(func(x float64) bool { return x >= lo && x <= hi })
}

func (c *FloatColumn) EqualStr(string) []Opt[bool]              { return allNone[bool](c.Len()) }
func (c *FloatColumn) Contains(string) []Opt[bool]              { return allNone[bool](c.Len()) }
func (c *FloatColumn) StartsWith(string) []Opt[bool]            { return allNone[bool](c.Len()) }
func (c *FloatColumn) EndsWith(string) []Opt[bool]              { return allNone[bool](c.Len()) }
func (c *FloatColumn) MatchesRegex(string) []Opt[bool]          { return allNone[bool](c.Len()) }
func (c *FloatColumn) MatchesRegexp(*regexp.Regexp) []Opt[bool] { return allNone[bool](c.Len()) }
func (c *FloatColumn) StrLength() []Opt[int]                    { return allNone[int](c.Len()) }

func (c *FloatColumn) IsIn(set InSetValues) []Opt[bool] {
	s, ok := set.(FloatSet)
	if !ok {
		return allNone[bool](c.Len())
	}
	m := s.lookup()
	return c.test(func(x float64) bool { _, hit := m[math.Float64bits(x)]; return hit })
}

func (c *FloatColumn) Clone() Column { return &FloatColumn{c.clone()} }

func (c *FloatColumn) String() string { return format("f64", c.vec, formatFloat) }

func (*FloatColumn) sealed() {}
