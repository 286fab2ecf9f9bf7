package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"verdict/internal/dataset"
)

// Kind names a constraint in suite files and metric labels.
type Kind string

const (
	KindNotNull            Kind = "not_null"
	KindUnique             Kind = "unique"
	KindGreaterThan        Kind = "gt"
	KindGreaterThanOrEqual Kind = "ge"
	KindLessThan           Kind = "lt"
	KindLessThanOrEqual    Kind = "le"
	KindEqual              Kind = "eq"
	KindBetween            Kind = "between"
	KindInSet              Kind = "in_set"
	KindMatchesRegex       Kind = "matches_regex"
	KindContains           Kind = "contains"
	KindStartsWith         Kind = "starts_with"
	KindEndsWith           Kind = "ends_with"
	KindLengthBetween      Kind = "length_between"
)

// Kinds lists every constraint kind in declaration order.
var Kinds = []Kind{
	KindNotNull, KindUnique,
	KindGreaterThan, KindGreaterThanOrEqual, KindLessThan, KindLessThanOrEqual, KindEqual, KindBetween,
	KindInSet,
	KindMatchesRegex, KindContains, KindStartsWith, KindEndsWith, KindLengthBetween,
}

var (
	ErrNotApplicable     = errors.New("constraint not applicable")
	ErrInvalidPattern    = errors.New("invalid pattern")
	ErrUnknownConstraint = errors.New("unknown constraint")
)

// Constraint is a single check applied to one column. The set of
// implementations is closed; every kind is a struct in this file.
type Constraint interface {
	Kind() Kind

	// String is the human-readable descriptor stored in results, e.g.
	// `Between { min: 90, max: 100 }`.
	String() string

	// evaluate returns the number of failing rows. A non-nil error means the
	// constraint could not be evaluated as asked; failed is still meaningful.
	evaluate(col dataset.Column) (failed int, err error)
}

type (
	NotNull            struct{}
	Unique             struct{}
	GreaterThan        struct{ Value float64 }
	GreaterThanOrEqual struct{ Value float64 }
	LessThan           struct{ Value float64 }
	LessThanOrEqual    struct{ Value float64 }
	Equal              struct{ Value float64 }
	Between            struct{ Min, Max float64 }

	// InSet requires every row to be a member of Values. The set type must
	// match the column type.
	InSet struct{ Values dataset.InSetValues }

	// MatchesRegex uses RE2 syntax (package regexp); the pattern may match
	// anywhere in the value unless anchored.
	MatchesRegex struct{ Pattern string }
	Contains     struct{ Pattern string }
	StartsWith   struct{ Pattern string }
	EndsWith     struct{ Pattern string }

	// LengthBetween bounds the character length of string values, inclusive.
	LengthBetween struct{ Min, Max int }
)

func (NotNull) Kind() Kind            { return KindNotNull }
func (Unique) Kind() Kind             { return KindUnique }
func (GreaterThan) Kind() Kind        { return KindGreaterThan }
func (GreaterThanOrEqual) Kind() Kind { return KindGreaterThanOrEqual }
func (LessThan) Kind() Kind           { return KindLessThan }
func (LessThanOrEqual) Kind() Kind    { return KindLessThanOrEqual }
func (Equal) Kind() Kind              { return KindEqual }
func (Between) Kind() Kind            { return KindBetween }
func (InSet) Kind() Kind              { return KindInSet }
func (MatchesRegex) Kind() Kind       { return KindMatchesRegex }
func (Contains) Kind() Kind           { return KindContains }
func (StartsWith) Kind() Kind         { return KindStartsWith }
func (EndsWith) Kind() Kind           { return KindEndsWith }
func (LengthBetween) Kind() Kind      { return KindLengthBetween }

func (NotNull) String() string              { return "NotNull" }
func (Unique) String() string               { return "Unique" }
func (c GreaterThan) String() string        { return "GreaterThan(" + num(c.Value) + ")" }
func (c GreaterThanOrEqual) String() string { return "GreaterThanOrEqual(" + num(c.Value) + ")" }
func (c LessThan) String() string           { return "LessThan(" + num(c.Value) + ")" }
func (c LessThanOrEqual) String() string    { return "LessThanOrEqual(" + num(c.Value) + ")" }
func (c Equal) String() string              { return "Equal(" + num(c.Value) + ")" }
func (c MatchesRegex) String() string       { return "MatchesRegex(" + strconv.Quote(c.Pattern) + ")" }
func (c Contains) String() string           { return "Contains(" + strconv.Quote(c.Pattern) + ")" }
func (c StartsWith) String() string         { return "StartsWith(" + strconv.Quote(c.Pattern) + ")" }
func (c EndsWith) String() string           { return "EndsWith(" + strconv.Quote(c.Pattern) + ")" }

func (c Between) String() string {
	return "Between { min: " + num(c.Min) + ", max: " + num(c.Max) + " }"
}

func (c LengthBetween) String() string {
	return "LengthBetween { min: " + strconv.Itoa(c.Min) + ", max: " + strconv.Itoa(c.Max) + " }"
}

func (c InSet) String() string {
	if c.Values == nil {
		return "InSet([])"
	}
	return "InSet(" + c.Values.String() + ")"
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func (NotNull) evaluate(col dataset.Column) (int, error) { return col.NullCount(), nil }
func (Unique) evaluate(col dataset.Column) (int, error)  { return col.DuplicatesCount(), nil }

func (c GreaterThan) evaluate(col dataset.Column) (int, error) {
	return numeric(col, col.Gt(c.Value))
}

func (c GreaterThanOrEqual) evaluate(col dataset.Column) (int, error) {
	return numeric(col, col.Ge(c.Value))
}

func (c LessThan) evaluate(col dataset.Column) (int, error) {
	return numeric(col, col.Lt(c.Value))
}

func (c LessThanOrEqual) evaluate(col dataset.Column) (int, error) {
	return numeric(col, col.Le(c.Value))
}

func (c Equal) evaluate(col dataset.Column) (int, error) {
	return numeric(col, col.Equal(c.Value))
}

func (c Between) evaluate(col dataset.Column) (int, error) {
	return numeric(col, col.Between(c.Min, c.Max))
}

func (c InSet) evaluate(col dataset.Column) (int, error) {
	if c.Values == nil || c.Values.Type() != col.Type() {
		return col.Len(), ErrNotApplicable
	}
	return countNotTrue(col.IsIn(c.Values)), nil
}

func (c MatchesRegex) evaluate(col dataset.Column) (int, error) {
	if col.Type() != dataset.Str {
		return col.Len(), ErrNotApplicable
	}
	re, err := regexp.Compile(c.Pattern)
	if err != nil {
		return col.Len(), fmt.Errorf("%w %q: %w", ErrInvalidPattern, c.Pattern, err)
	}
	return countNotTrue(col.MatchesRegexp(re)), nil
}

func (c Contains) evaluate(col dataset.Column) (int, error) {
	return textual(col, col.Contains(c.Pattern))
}

func (c StartsWith) evaluate(col dataset.Column) (int, error) {
	return textual(col, col.StartsWith(c.Pattern))
}

func (c EndsWith) evaluate(col dataset.Column) (int, error) {
	return textual(col, col.EndsWith(c.Pattern))
}

func (c LengthBetween) evaluate(col dataset.Column) (int, error) {
	if col.Type() != dataset.Str {
		return col.Len(), ErrNotApplicable
	}
	failed := 0
	for _, n := range col.StrLength() {
		if l, ok := n.Get(); !ok || l < c.Min || l > c.Max {
			failed++
		}
	}
	return failed, nil
}

func numeric(col dataset.Column, res []dataset.Opt[bool]) (int, error) {
	if t := col.Type(); t != dataset.Int && t != dataset.Float {
		return col.Len(), ErrNotApplicable
	}
	return countNotTrue(res), nil
}

func textual(col dataset.Column, res []dataset.Opt[bool]) (int, error) {
	if col.Type() != dataset.Str {
		return col.Len(), ErrNotApplicable
	}
	return countNotTrue(res), nil
}

// countNotTrue counts rows that are not an explicit true: false and absent
// both fail.
func countNotTrue(res []dataset.Opt[bool]) int {
	n := 0
	for _, r := range res {
		if !dataset.IsTrue(r) {
			n++
		}
	}
	return n
}
