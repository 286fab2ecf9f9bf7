package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"verdict/internal/config"
	"verdict/internal/dataset"
	"verdict/internal/dataset/arrowconv"
	"verdict/internal/datasource"
	"verdict/internal/datasource/file"
	"verdict/internal/datasource/httpds"
	"verdict/internal/ingest"
	"verdict/internal/metrics"
	csvparse "verdict/internal/parser/csv"
	"verdict/internal/report"
	"verdict/internal/rules"
	"verdict/internal/storage"
)

// runOptions are the per-invocation knobs that do not live in the suite.
type runOptions struct {
	format   report.Format
	arrowOut string
	verbose  bool
}

// Function variables used as test seams.
var (
	newRepositoryFn = storage.New
	openSourceFn    = openSource
)

// execute runs one suite end to end: load, validate, persist, report.
//
// Ingestion and storage failures are returned. Rule failures are not errors;
// they are visible in the returned summary and the report.
func execute(ctx context.Context, s config.Suite, opt runOptions, out io.Writer) (rules.Summary, error) {
	schema, err := s.BuildSchema()
	if err != nil {
		return rules.Summary{}, err
	}
	rs, err := s.BuildRules(schema)
	if err != nil {
		return rules.Summary{}, err
	}

	src, err := openSourceFn(s)
	if err != nil {
		return rules.Summary{}, err
	}

	t0 := time.Now()
	ds, err := ingest.FromSource(ctx, src, schema,
		ingest.WithCSVOptions(csvparse.OptionsFrom(s.Parser.Options)))
	metrics.RecordStep(s.Name, "load", err, time.Since(t0))
	if err != nil {
		return rules.Summary{}, fmt.Errorf("load: %w", err)
	}
	nrows, ncols := ds.Shape()
	metrics.RecordRows(s.Name, "loaded", int64(nrows))
	if opt.verbose {
		log.Printf("load: rows=%d cols=%d elapsed=%s", nrows, ncols, time.Since(t0).Truncate(time.Millisecond))
	}

	if opt.arrowOut != "" {
		if err := writeArrow(opt.arrowOut, ds); err != nil {
			return rules.Summary{}, err
		}
	}

	run := storage.NewRun(s.Name, ds.Fingerprint(), nrows)

	t0 = time.Now()
	results, err := evaluate(ctx, ds, rs, s.Runtime.Workers)
	metrics.RecordStep(s.Name, "validate", err, time.Since(t0))
	if err != nil {
		return rules.Summary{}, fmt.Errorf("validate: %w", err)
	}
	for i, r := range results {
		metrics.RecordRule(s.Name, string(rs[i].Kind()), r.Passed, r.FailedCount)
	}
	sum := rules.Summarize(results)
	if opt.verbose {
		log.Printf("validate: rules=%d passed=%d failed=%d workers=%d",
			sum.Total, sum.Passed, sum.Failed, s.Runtime.Workers)
	}

	if s.Storage.Kind != "" {
		t0 = time.Now()
		err := persist(ctx, s, run, results)
		metrics.RecordStep(s.Name, "store", err, time.Since(t0))
		if err != nil {
			return sum, err
		}
	}

	t0 = time.Now()
	err = report.Write(out, opt.format, run, results)
	metrics.RecordStep(s.Name, "report", err, time.Since(t0))
	if err != nil {
		return sum, err
	}
	return sum, nil
}

func evaluate(ctx context.Context, ds *dataset.Dataset, rs []rules.Rule, workers int) ([]rules.ValidationResult, error) {
	if workers > 1 {
		return rules.ValidateParallel(ctx, ds, rs, workers)
	}
	return rules.Validate(ds, rs), nil
}

// persist writes one row per result into the suite's results table.
func persist(ctx context.Context, s config.Suite, run storage.Run, results []rules.ValidationResult) error {
	cfg := storage.Config{Kind: s.Storage.Kind, DSN: s.Storage.DB.DSN, Table: s.Storage.DB.Table}
	repo, err := newRepositoryFn(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	if s.Storage.DB.AutoCreateTable {
		if err := storage.EnsureResultsTable(ctx, cfg.Kind, repo, cfg.Table); err != nil {
			return err
		}
	}

	n, err := storage.SaveResults(ctx, repo, run, results, s.Runtime.BatchSize)
	if err != nil {
		return err
	}
	log.Printf("store: kind=%s table=%s run=%s rows=%d", cfg.Kind, cfg.Table, run.ID, n)
	return nil
}

// openSource builds the datasource named by the suite.
func openSource(s config.Suite) (datasource.Source, error) {
	switch s.Source.Kind {
	case "file":
		return file.NewLocal(s.Source.File.Path), nil
	case "http":
		h := s.Source.HTTP
		var timeout time.Duration
		if h.Timeout != "" {
			d, err := time.ParseDuration(h.Timeout)
			if err != nil {
				return nil, fmt.Errorf("source: http timeout %q: %w", h.Timeout, err)
			}
			timeout = d
		}
		headers := make(http.Header, len(h.Headers))
		for k, v := range h.Headers {
			headers.Set(k, v)
		}
		client := httpds.NewClient(httpds.Config{
			Timeout:            timeout,
			MaxRetries:         h.MaxRetries,
			Headers:            headers,
			InsecureSkipVerify: h.InsecureSkipVerify,
		})
		return httpds.NewSource(client, h.URL), nil
	default:
		return nil, fmt.Errorf("source: unsupported kind %q", s.Source.Kind)
	}
}

func writeArrow(path string, ds *dataset.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("arrow: %w", err)
	}
	if err := arrowconv.WriteIPC(f, ds, nil); err != nil {
		f.Close()
		return fmt.Errorf("arrow: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("arrow: close %s: %w", path, err)
	}
	return nil
}
