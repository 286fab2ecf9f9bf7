// Package rules evaluates per-column constraints against a dataset.Dataset.
//
// Validation is total: Validate returns exactly one ValidationResult per Rule,
// in input order. A missing column, a constraint that does not apply to the
// column's type, or an invalid pattern all become failing results with an
// explanatory Error; nothing aborts the batch.
package rules

import (
	"fmt"
	"strconv"
)

// Rule pairs a column name with the constraint it must satisfy.
type Rule struct {
	Column     string
	Constraint Constraint
}

// NewRule is a small convenience constructor.
func NewRule(column string, c Constraint) Rule { return Rule{Column: column, Constraint: c} }

// Descriptor returns the constraint descriptor, or "Unknown" for a nil
// constraint.
func (r Rule) Descriptor() string {
	if r.Constraint == nil {
		return "Unknown"
	}
	return r.Constraint.String()
}

// Kind returns the constraint kind, or "unknown" for a nil constraint.
func (r Rule) Kind() Kind {
	if r.Constraint == nil {
		return "unknown"
	}
	return r.Constraint.Kind()
}

func (r Rule) String() string { return r.Column + ": " + r.Descriptor() }

// ValidationResult is the verdict for one Rule. Error is empty when the rule
// passed.
type ValidationResult struct {
	Column      string `json:"column"`
	Constraint  string `json:"constraint"`
	Passed      bool   `json:"passed"`
	FailedCount int    `json:"failed_count"`
	Error       string `json:"error,omitempty"`
}

// HasError reports whether the result carries a diagnostic.
func (r ValidationResult) HasError() bool { return r.Error != "" }

func (r ValidationResult) String() string {
	status := "PASS"
	if !r.Passed {
		status = "FAIL"
	}
	s := fmt.Sprintf("%s %s %s failed=%d", status, r.Column, r.Constraint, r.FailedCount)
	if r.HasError() {
		s += " error=" + strconv.Quote(r.Error)
	}
	return s
}
