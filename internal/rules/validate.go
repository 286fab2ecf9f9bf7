package rules

import (
	"errors"
	"fmt"

	"verdict/internal/dataset"
)

// Validate evaluates every rule against ds and returns the results in rule
// order. It never fails; len(result) == len(rs).
func Validate(ds *dataset.Dataset, rs []Rule) []ValidationResult {
	out := make([]ValidationResult, len(rs))
	for i, r := range rs {
		out[i] = Evaluate(ds, r)
	}
	return out
}

// Evaluate checks a single rule.
func Evaluate(ds *dataset.Dataset, r Rule) ValidationResult {
	res := ValidationResult{Column: r.Column, Constraint: r.Descriptor()}

	var col dataset.Column
	found := false
	if ds != nil {
		col, found = ds.ColumnByName(r.Column)
	}
	if !found {
		res.Error = fmt.Sprintf("column '%s' not found", r.Column)
		return res
	}
	if r.Constraint == nil {
		res.FailedCount = col.Len()
		res.Error = ErrUnknownConstraint.Error()
		return res
	}

	failed, err := r.Constraint.evaluate(col)
	res.FailedCount = failed
	switch {
	case errors.Is(err, ErrNotApplicable):
		res.Error = fmt.Sprintf("constraint %s is not applicable to %s column '%s'",
			r.Constraint.Kind(), col.Type(), r.Column)
	case err != nil:
		res.Error = err.Error()
	case failed > 0:
		res.Error = fmt.Sprintf("%d of %d rows failed %s", failed, col.Len(), res.Constraint)
	default:
		res.Passed = true
	}
	return res
}
