// Package report renders the results of one validation run for humans (Text)
// and for machines (JSON).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"verdict/internal/rules"
	"verdict/internal/storage"
)

// Text writes a run header, one aligned row per result in rule order and a
// closing summary line.
func Text(w io.Writer, run storage.Run, results []rules.ValidationResult) error {
	sum := rules.Summarize(results)

	_, err := fmt.Fprintf(w, "suite %s  run %s  rows %d  fingerprint %s\n",
		run.Suite, run.ID, run.Rows, run.FingerprintHex())
	if err != nil {
		return fmt.Errorf("report: text: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCOLUMN\tCONSTRAINT\tSTATUS\tFAILED\tERROR")
	for i, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n", i, r.Column, r.Constraint, status, r.FailedCount, r.Error)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("report: text: %w", err)
	}

	_, err = fmt.Fprintf(w, "%d rules: %d passed, %d failed (%d failing rows)\n",
		sum.Total, sum.Passed, sum.Failed, sum.FailedRows)
	if err != nil {
		return fmt.Errorf("report: text: %w", err)
	}
	return nil
}

// Document is the JSON shape of a run.
type Document struct {
	RunID       string                   `json:"run_id"`
	Suite       string                   `json:"suite"`
	Fingerprint string                   `json:"dataset_fingerprint"`
	Rows        int                      `json:"rows"`
	StartedAt   time.Time                `json:"started_at"`
	Passed      int                      `json:"passed"`
	Failed      int                      `json:"failed"`
	FailedRows  int                      `json:"failed_rows"`
	Results     []rules.ValidationResult `json:"results"`
}

// NewDocument assembles the JSON document for a run. A nil results slice is
// rendered as an empty array.
func NewDocument(run storage.Run, results []rules.ValidationResult) Document {
	sum := rules.Summarize(results)
	if results == nil {
		results = []rules.ValidationResult{}
	}
	return Document{
		RunID:       run.ID.String(),
		Suite:       run.Suite,
		Fingerprint: run.FingerprintHex(),
		Rows:        run.Rows,
		StartedAt:   run.StartedAt,
		Passed:      sum.Passed,
		Failed:      sum.Failed,
		FailedRows:  sum.FailedRows,
		Results:     results,
	}
}

// JSON writes the run as an indented JSON document followed by a newline.
func JSON(w io.Writer, run storage.Run, results []rules.ValidationResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(run, results)); err != nil {
		return fmt.Errorf("report: json: %w", err)
	}
	return nil
}

// Format selects a renderer.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Write renders with the renderer selected by f.
func Write(w io.Writer, f Format, run storage.Run, results []rules.ValidationResult) error {
	switch f {
	case FormatText, "":
		return Text(w, run, results)
	case FormatJSON:
		return JSON(w, run, results)
	default:
		return fmt.Errorf("report: unknown format %q", f)
	}
}
