// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from validation runs.
//
// The package exposes a narrow Backend interface (counters and timings) and a
// global, pluggable backend that defaults to a no-op, so instrumentation is
// always safe to call. Concrete systems live in subpackages (prompush,
// datadog) and are installed with SetBackend.
package metrics

import (
	"sync"
	"time"
)

// Metric names emitted by this package.
const (
	StepTotal           = "verdict_step_total"
	StepDurationSeconds = "verdict_step_duration_seconds"
	RowsTotal           = "verdict_rows_total"
	RulesTotal          = "verdict_rules_total"
	RuleFailedRowsTotal = "verdict_rule_failed_rows_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

// RecordStep measures latency and success/failure of one run step
// (load, validate, store, report).
func RecordStep(suite, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"suite":  suite,
		"step":   step,
		"status": status,
	}

	b := current()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRows increments the row counter for kind, e.g. "loaded".
func RecordRows(suite, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RowsTotal, float64(delta), Labels{
		"suite": suite,
		"kind":  kind,
	})
}

// RecordRule counts one evaluated rule and the rows it rejected.
func RecordRule(suite, constraint string, passed bool, failedRows int) {
	status := "pass"
	if !passed {
		status = "fail"
	}
	b := current()
	b.IncCounter(RulesTotal, 1, Labels{
		"suite":      suite,
		"constraint": constraint,
		"status":     status,
	})
	if failedRows > 0 {
		b.IncCounter(RuleFailedRowsTotal, float64(failedRows), Labels{
			"suite":      suite,
			"constraint": constraint,
		})
	}
}
