package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"verdict/internal/dataset"
	"verdict/internal/rules"
)

// ErrInvalidRule reports a rule spec that cannot be turned into a rule.
var ErrInvalidRule = errors.New("invalid rule")

// BuildSchema converts the suite's field list into a dataset.Schema.
func (s Suite) BuildSchema() (dataset.Schema, error) {
	fields := make([]dataset.Field, 0, len(s.Schema))
	for i, f := range s.Schema {
		t, err := dataset.ParseDataType(f.Type)
		if err != nil {
			return dataset.Schema{}, fmt.Errorf("config: schema[%d] %q: %w", i, f.Name, err)
		}
		fields = append(fields, dataset.NewField(f.Name, t))
	}
	return dataset.NewSchema(fields...), nil
}

// BuildRules converts the suite's rule specs into rules. The schema decides
// the element type of in_set values; a rule naming a column that is not in
// the schema is still built so that validation can report it.
func (s Suite) BuildRules(schema dataset.Schema) ([]rules.Rule, error) {
	out := make([]rules.Rule, 0, len(s.Rules))
	for i, rs := range s.Rules {
		c, err := rs.constraint(schema)
		if err != nil {
			return nil, fmt.Errorf("config: rules[%d] (%s %s): %w", i, rs.Column, rs.Constraint, err)
		}
		out = append(out, rules.NewRule(rs.Column, c))
	}
	return out, nil
}

func (rs RuleSpec) constraint(schema dataset.Schema) (rules.Constraint, error) {
	switch rules.Kind(strings.ToLower(strings.TrimSpace(rs.Constraint))) {
	case rules.KindNotNull:
		return rules.NotNull{}, nil
	case rules.KindUnique:
		return rules.Unique{}, nil
	case rules.KindGreaterThan:
		v, err := rs.value()
		return rules.GreaterThan{Value: v}, err
	case rules.KindGreaterThanOrEqual:
		v, err := rs.value()
		return rules.GreaterThanOrEqual{Value: v}, err
	case rules.KindLessThan:
		v, err := rs.value()
		return rules.LessThan{Value: v}, err
	case rules.KindLessThanOrEqual:
		v, err := rs.value()
		return rules.LessThanOrEqual{Value: v}, err
	case rules.KindEqual:
		v, err := rs.value()
		return rules.Equal{Value: v}, err
	case rules.KindBetween:
		lo, hi, err := rs.bounds()
		return rules.Between{Min: lo, Max: hi}, err
	case rules.KindLengthBetween:
		lo, hi, err := rs.bounds()
		if err != nil {
			return nil, err
		}
		if lo < 0 || lo != math.Trunc(lo) || hi != math.Trunc(hi) {
			return nil, fmt.Errorf("%w: length bounds must be non-negative integers", ErrInvalidRule)
		}
		return rules.LengthBetween{Min: int(lo), Max: int(hi)}, nil
	case rules.KindInSet:
		set, err := inSetValues(schema, rs.Column, rs.Values)
		if err != nil {
			return nil, err
		}
		return rules.InSet{Values: set}, nil
	case rules.KindMatchesRegex:
		return rules.MatchesRegex{Pattern: rs.Pattern}, nil
	case rules.KindContains:
		return rules.Contains{Pattern: rs.Pattern}, nil
	case rules.KindStartsWith:
		return rules.StartsWith{Pattern: rs.Pattern}, nil
	case rules.KindEndsWith:
		return rules.EndsWith{Pattern: rs.Pattern}, nil
	}
	return nil, fmt.Errorf("%w %q", rules.ErrUnknownConstraint, rs.Constraint)
}

func (rs RuleSpec) value() (float64, error) {
	if rs.Value == nil {
		return 0, fmt.Errorf("%w: value is required", ErrInvalidRule)
	}
	return *rs.Value, nil
}

func (rs RuleSpec) bounds() (float64, float64, error) {
	if rs.Min == nil || rs.Max == nil {
		return 0, 0, fmt.Errorf("%w: min and max are required", ErrInvalidRule)
	}
	return *rs.Min, *rs.Max, nil
}

// inSetValues types raw decoded values after the column they are matched
// against. Columns missing from the schema get a set typed from the values.
// Bool columns and untyped literals get a StrSet of the literals' text; the
// rule then fails at validation time as not applicable.
func inSetValues(schema dataset.Schema, column string, raw []any) (dataset.InSetValues, error) {
	t, ok := columnType(schema, column, raw)
	if !ok || t == dataset.Bool {
		return literalSet(raw), nil
	}
	switch t {
	case dataset.Int:
		set := make(dataset.IntSet, 0, len(raw))
		for _, v := range raw {
			f, ok := number(v)
			if !ok || f != math.Trunc(f) || math.Abs(f) >= 1<<63 {
				return nil, fmt.Errorf("%w: %v is not an integer", ErrInvalidRule, v)
			}
			set = append(set, int64(f))
		}
		return set, nil
	case dataset.Float:
		set := make(dataset.FloatSet, 0, len(raw))
		for _, v := range raw {
			f, ok := number(v)
			if !ok {
				return nil, fmt.Errorf("%w: %v is not a number", ErrInvalidRule, v)
			}
			set = append(set, f)
		}
		return set, nil
	case dataset.Str:
		set := make(dataset.StrSet, 0, len(raw))
		for _, v := range raw {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %v is not a string", ErrInvalidRule, v)
			}
			set = append(set, s)
		}
		return set, nil
	}
	return nil, fmt.Errorf("%w: in_set is not supported for %s columns", ErrInvalidRule, t)
}

func literalSet(raw []any) dataset.StrSet {
	set := make(dataset.StrSet, 0, len(raw))
	for _, v := range raw {
		set = append(set, fmt.Sprint(v))
	}
	return set
}

func columnType(schema dataset.Schema, column string, raw []any) (dataset.DataType, bool) {
	if f, ok := schema.Lookup(column); ok {
		return f.Type, true
	}
	if len(raw) == 0 {
		return dataset.Str, true
	}
	if _, ok := raw[0].(string); ok {
		return dataset.Str, true
	}
	if _, ok := number(raw[0]); ok {
		return dataset.Float, true
	}
	return 0, false
}

// number accepts the numeric shapes produced by encoding/json and yaml.v3.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
