package dataset

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// StrColumn is a nullable column of text values.
type StrColumn struct{ vec[string] }

// NewStrColumn builds a StrColumn; nil entries are nulls.
func NewStrColumn(values []*string) *StrColumn { return &StrColumn{newVec(values)} }

// StrColumnFrom copies values, marking row i null where valid[i] is false.
// A nil valid slice marks every row present.
func StrColumnFrom(values []string, valid []bool) *StrColumn {
	return &StrColumn{vecFrom(values, valid)}
}

func (c *StrColumn) Type() DataType { return Str }

func (c *StrColumn) UniqueCount() int { return uniqueBy(c.vec, identity[string]) }

func (c *StrColumn) DuplicatesCount() int { return c.Len() - c.UniqueCount() }

func (c *StrColumn) Sum() (float64, bool)    { return 0, false }
func (c *StrColumn) Mean() (float64, bool)   { return 0, false }
func (c *StrColumn) Min() (float64, bool)    { return 0, false }
func (c *StrColumn) Max() (float64, bool)    { return 0, false }
func (c *StrColumn) Std() (float64, bool)    { return 0, false }
func (c *StrColumn) Median() (float64, bool) { return 0, false }

func (c *StrColumn) Gt(float64) []Opt[bool]           { return allNone[bool](c.Len()) }
func (c *StrColumn) Ge(float64) []Opt[bool]           { return allNone[bool](c.Len()) }
func (c *StrColumn) Lt(float64) []Opt[bool]           { return allNone[bool](c.Len()) }
func (c *StrColumn) Le(float64) []Opt[bool]           { return allNone[bool](c.Len()) }
func (c *StrColumn) Equal(float64) []Opt[bool]        { return allNone[bool](c.Len()) }
func (c *StrColumn) Between(_, _ float64) []Opt[bool] { return allNone[bool](c.Len()) }

func (c *StrColumn) EqualStr(s string) []Opt[bool] {
	return c.test(func(x string) bool { return x == s })
}

func (c *StrColumn) Contains(pat string) []Opt[bool] {
	return c.test(func(x string) bool { return strings.Contains(x, pat) })
}

func (c *StrColumn) StartsWith(pat string) []Opt[bool] {
	return c.test(func(x string) bool { return strings.HasPrefix(x, pat) })
}

func (c *StrColumn) EndsWith(pat string) []Opt[bool] {
	return c.test(func(x string) bool { return strings.HasSuffix(x, pat) })
}

// MatchesRegex compiles pattern and tests every row. An invalid pattern yields
// None for every row; use MatchesRegexp to observe the compile error.
func (c *StrColumn) MatchesRegex(pattern string) []Opt[bool] {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return allNone[bool](c.Len())
	}
	return c.MatchesRegexp(re)
}

// MatchesRegexp reports, per row, whether re matches anywhere in the value.
func (c *StrColumn) MatchesRegexp(re *regexp.Regexp) []Opt[bool] {
	if re == nil {
		return allNone[bool](c.Len())
	}
	return c.test(re.MatchString)
}

// StrLength returns the length of each value in characters, counting code
// points of the NFC-normalized form so composed and decomposed spellings agree.
func (c *StrColumn) StrLength() []Opt[int] {
	out := make([]Opt[int], c.Len())
	for i := range out {
		if s, ok := c.Value(i); ok {
			out[i] = Some(utf8.RuneCountInString(norm.NFC.String(s)))
		}
	}
	return out
}

func (c *StrColumn) IsIn(set InSetValues) []Opt[bool] {
	s, ok := set.(StrSet)
	if !ok {
		return allNone[bool](c.Len())
	}
	m := s.lookup()
	return c.test(func(x string) bool { _, hit := m[x]; return hit })
}

func (c *StrColumn) Clone() Column { return &StrColumn{c.clone()} }

func (c *StrColumn) String() string { return format("str", c.vec, strconv.Quote) }

func (*StrColumn) sealed() {}
