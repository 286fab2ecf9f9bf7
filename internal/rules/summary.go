package rules

// Summary aggregates a batch of results.
type Summary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`

	// FailedRows sums FailedCount across all results.
	FailedRows int `json:"failed_rows"`
}

// AllPassed reports whether no rule failed.
func (s Summary) AllPassed() bool { return s.Failed == 0 }

// Summarize counts passing and failing results.
func Summarize(results []ValidationResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
		s.FailedRows += r.FailedCount
	}
	return s
}
