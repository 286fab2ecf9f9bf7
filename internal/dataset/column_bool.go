package dataset

import (
	"regexp"
	"strconv"
)

// BoolColumn is a nullable column of booleans. It supports null and
// uniqueness accounting only; every numeric, string and membership operation
// reports absence.
type BoolColumn struct{ vec[bool] }

// NewBoolColumn builds a BoolColumn; nil entries are nulls.
func NewBoolColumn(values []*bool) *BoolColumn { return &BoolColumn{newVec(values)} }

// BoolColumnFrom copies values, marking row i null where valid[i] is false.
// A nil valid slice marks every row present.
func BoolColumnFrom(values []bool, valid []bool) *BoolColumn {
	return &BoolColumn{vecFrom(values, valid)}
}

func (c *BoolColumn) Type() DataType { return Bool }

func (c *BoolColumn) UniqueCount() int { return uniqueBy(c.vec, identity[bool]) }

func (c *BoolColumn) DuplicatesCount() int { return c.Len() - c.UniqueCount() }

func (c *BoolColumn) Sum() (float64, bool)    { return 0, false }
func (c *BoolColumn) Mean() (float64, bool)   { return 0, false }
func (c *BoolColumn) Min() (float64, bool)    { return 0, false }
func (c *BoolColumn) Max() (float64, bool)    { return 0, false }
func (c *BoolColumn) Std() (float64, bool)    { return 0, false }
func (c *BoolColumn) Median() (float64, bool) { return 0, false }

func (c *BoolColumn) Gt(float64) []Opt[bool]           { return allNone[bool](c.Len()) }
func (c *BoolColumn) Ge(float64) []Opt[bool]           { return allNone[bool](c.Len()) }
func (c *BoolColumn) Lt(float64) []Opt[bool]           { return allNone[bool](c.Len()) }
func (c *BoolColumn) Le(float64) []Opt[bool]           { return allNone[bool](c.Len()) }
func (c *BoolColumn) Equal(float64) []Opt[bool]        { return allNone[bool](c.Len()) }
func (c *BoolColumn) Between(_, _ float64) []Opt[bool] { return allNone[bool](c.Len()) }

func (c *BoolColumn) EqualStr(string) []Opt[bool]              { return allNone[bool](c.Len()) }
func (c *BoolColumn) Contains(string) []Opt[bool]              { return allNone[bool](c.Len()) }
func (c *BoolColumn) StartsWith(string) []Opt[bool]            { return allNone[bool](c.Len()) }
func (c *BoolColumn) EndsWith(string) []Opt[bool]              { return allNone[bool](c.Len()) }
func (c *BoolColumn) MatchesRegex(string) []Opt[bool]          { return allNone[bool](c.Len()) }
func (c *BoolColumn) MatchesRegexp(*regexp.Regexp) []Opt[bool] { return allNone[bool](c.Len()) }
func (c *BoolColumn) StrLength() []Opt[int]                    { return allNone[int](c.Len()) }
func (c *BoolColumn) IsIn(InSetValues) []Opt[bool]             { return allNone[bool](c.Len()) }

func (c *BoolColumn) Clone() Column { return &BoolColumn{c.clone()} }

func (c *BoolColumn) String() string { return format("bool", c.vec, strconv.FormatBool) }

func (*BoolColumn) sealed() {}
