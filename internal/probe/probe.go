// Package probe drafts a starter suite from the first bytes of a CSV source.
//
// The sample is parsed best-effort: malformed lines and rows whose width
// differs from the header are skipped. Each column gets the narrowest type
// every non-empty sample value parses as (Int, Bool, Float, then Str), and
// the draft carries not_null for columns with no empty sample cells and
// unique for integer columns whose sample values are all distinct. The result
// is meant to be reviewed and edited before use.
package probe

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"verdict/internal/config"
	"verdict/internal/dataset"
	"verdict/internal/datasource"
	"verdict/internal/datasource/file"
	"verdict/internal/datasource/httpds"
)

// Options control sampling and the generated suite.
type Options struct {
	// URL is an http(s) URL, a file:// URL or a plain local path.
	URL string

	// MaxBytes to sample from the start of the input. Default 64 KiB.
	MaxBytes int

	// Delimiter (single rune). Zero means ','.
	Delimiter rune

	// Name of the suite. Defaults to a normalized file name from URL.
	Name string

	// Storage selects the results backend written into the draft:
	// "postgres", "mysql", "mssql", "sqlite" or "" for none.
	Storage string

	// SavePath, when set, receives the sampled bytes.
	SavePath string

	// AllowInsecureTLS skips certificate checks for https URLs.
	AllowInsecureTLS bool
}

// DefaultMaxBytes is the sample size used when Options.MaxBytes is unset.
const DefaultMaxBytes = 64 << 10

// maxRows caps how many sample rows take part in inference.
const maxRows = 100000

// ErrEmptySample is returned when the sample holds no header row.
var ErrEmptySample = errors.New("probe: sample has no header row")

// Probe samples opt.URL and drafts a suite that reads the same input.
func Probe(ctx context.Context, opt Options) (config.Suite, error) {
	if opt.URL == "" {
		return config.Suite{}, fmt.Errorf("probe: URL is required")
	}
	if opt.MaxBytes <= 0 {
		opt.MaxBytes = DefaultMaxBytes
	}
	if opt.Delimiter == 0 {
		opt.Delimiter = ','
	}

	src, srcCfg := sourceFor(opt)
	data, err := Sample(ctx, src, opt.MaxBytes)
	if err != nil {
		return config.Suite{}, err
	}
	if opt.SavePath != "" {
		if err := os.WriteFile(opt.SavePath, data, 0o644); err != nil {
			return config.Suite{}, fmt.Errorf("probe: save sample: %w", err)
		}
	}

	headers, rows := readSample(data, opt.Delimiter)
	if len(headers) == 0 {
		return config.Suite{}, ErrEmptySample
	}

	name := opt.Name
	if name == "" {
		name = nameFromURL(opt.URL)
	}
	s := Suggest(NormalizeName(name), headers, rows)
	s.Source = srcCfg
	s.Parser.Options = config.Options{"comma": string(opt.Delimiter)}
	s.Storage = storageFor(opt.Storage)
	return s, nil
}

// Sample reads up to n bytes from src and cuts the result at the last newline
// so a partially read record is not inferred from.
func Sample(ctx context.Context, src datasource.Source, n int) ([]byte, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("probe: open: %w", err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(io.LimitReader(rc, int64(n))); err != nil {
		return nil, fmt.Errorf("probe: read: %w", err)
	}
	data := buf.Bytes()
	if len(data) == n {
		if i := bytes.LastIndexByte(data, '\n'); i > 0 {
			data = data[:i+1]
		}
	}
	return data, nil
}

// readSample parses data best-effort and returns the header plus every data
// row as wide as the header.
func readSample(data []byte, delim rune) ([]string, [][]string) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	var headers []string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil || len(rec) == 0 {
			continue
		}
		headers = rec
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
		break
	}

	var rows [][]string
	for len(rows) < maxRows {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(rec) != len(headers) {
			continue
		}
		rows = append(rows, rec)
	}
	return headers, rows
}

// Suggest builds a suite (schema and starter rules) from sampled rows.
func Suggest(name string, headers []string, rows [][]string) config.Suite {
	s := config.Suite{
		Name:   name,
		Parser: config.Parser{Kind: "csv"},
	}
	for i, h := range headers {
		col := make([]string, len(rows))
		for j, row := range rows {
			col[j] = strings.TrimSpace(row[i])
		}
		typ := InferType(col)
		s.Schema = append(s.Schema, config.FieldSpec{Name: h, Type: typ.String()})

		if len(col) == 0 {
			continue
		}
		if !hasEmpty(col) {
			s.Rules = append(s.Rules, config.RuleSpec{Column: h, Constraint: "not_null"})
			if typ == dataset.Int && allDistinct(col) {
				s.Rules = append(s.Rules, config.RuleSpec{Column: h, Constraint: "unique"})
			}
		}
	}
	return s
}

func hasEmpty(vals []string) bool {
	for _, v := range vals {
		if v == "" {
			return true
		}
	}
	return false
}

func allDistinct(vals []string) bool {
	seen := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		if _, dup := seen[v]; dup {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}

// sourceFor maps a URL onto a datasource and the matching suite source block.
func sourceFor(opt Options) (datasource.Source, config.Source) {
	if strings.HasPrefix(opt.URL, "http://") || strings.HasPrefix(opt.URL, "https://") {
		client := httpds.NewClient(httpds.Config{InsecureSkipVerify: opt.AllowInsecureTLS})
		return httpds.NewSource(client, opt.URL), config.Source{
			Kind: "http",
			HTTP: config.SourceHTTP{URL: opt.URL, InsecureSkipVerify: opt.AllowInsecureTLS},
		}
	}
	path := strings.TrimPrefix(opt.URL, "file://")
	return file.NewLocal(path), config.Source{Kind: "file", File: config.SourceFile{Path: path}}
}

func storageFor(kind string) config.Storage {
	if kind == "" || kind == "none" {
		return config.Storage{}
	}
	db := config.DBConfig{Table: "validation_results", AutoCreateTable: true}
	if kind == "sqlite" {
		db.DSN = "verdict.db"
	}
	return config.Storage{Kind: kind, DB: db}
}

// nameFromURL returns the last path element without its extension.
func nameFromURL(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimRight(u, "/")
	if i := strings.LastIndexByte(u, '/'); i >= 0 {
		u = u[i+1:]
	}
	if i := strings.LastIndexByte(u, '.'); i > 0 {
		u = u[:i]
	}
	return u
}

// NormalizeName converts arbitrary text into a lowercase ASCII identifier:
// accents are stripped, space, dash and dot become underscores, anything else
// outside [a-z0-9_] is dropped. The empty result becomes "suite".
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// Decompose, remove nonspacing marks, recompose.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "suite"
	}
	return name
}
