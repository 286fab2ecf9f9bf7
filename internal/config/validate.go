package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"verdict/internal/dataset"
	"verdict/internal/rules"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single lint finding for a Suite.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "rules[1].pattern"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidateSuite performs static validation of a Suite. It does not mutate the
// suite; callers decide whether warnings are fatal.
//
//	issues := config.ValidateSuite(s)
//	for _, iss := range issues {
//	    fmt.Println(iss)
//	}
func ValidateSuite(s Suite) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Name) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "name",
			Message:  "name must not be empty; it labels stored runs and metrics",
		})
	}
	issues = append(issues, validateSource(s.Source)...)
	issues = append(issues, validateParser(s.Parser)...)
	schemaIssues, schema := validateSchema(s.Schema)
	issues = append(issues, schemaIssues...)
	issues = append(issues, validateRules(s.Rules, schema)...)
	issues = append(issues, validateStorage(s.Storage)...)
	issues = append(issues, validateRuntime(s.Runtime)...)

	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue

	switch strings.TrimSpace(s.Kind) {
	case "":
		issues = append(issues, Issue{SeverityError, "source.kind", "source.kind must not be empty"})
	case "file":
		if strings.TrimSpace(s.File.Path) == "" {
			issues = append(issues, Issue{SeverityError, "source.file.path", "file source requires a non-empty path"})
		}
	case "http":
		u := strings.TrimSpace(s.HTTP.URL)
		if u == "" {
			issues = append(issues, Issue{SeverityError, "source.http.url", "http source requires a url"})
		} else if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			issues = append(issues, Issue{SeverityError, "source.http.url", fmt.Sprintf("url %q must use http or https", u)})
		}
		if s.HTTP.Timeout != "" {
			if d, err := time.ParseDuration(s.HTTP.Timeout); err != nil || d <= 0 {
				issues = append(issues, Issue{SeverityError, "source.http.timeout",
					fmt.Sprintf("timeout %q must be a positive duration", s.HTTP.Timeout)})
			}
		}
		if s.HTTP.MaxRetries < 0 {
			issues = append(issues, Issue{SeverityError, "source.http.max_retries", "max_retries must be >= 0"})
		}
		if s.HTTP.InsecureSkipVerify {
			issues = append(issues, Issue{SeverityWarning, "source.http.insecure_skip_verify", "TLS verification is disabled"})
		}
	default:
		issues = append(issues, Issue{SeverityError, "source.kind", fmt.Sprintf("unknown source kind %q", s.Kind)})
	}
	return issues
}

func validateParser(p Parser) []Issue {
	var issues []Issue

	switch strings.TrimSpace(p.Kind) {
	case "", "csv":
	default:
		return append(issues, Issue{SeverityError, "parser.kind", fmt.Sprintf("unknown parser kind %q", p.Kind)})
	}

	if c, ok := p.Options["comma"]; ok {
		s, isString := c.(string)
		if !isString || len([]rune(s)) != 1 {
			issues = append(issues, Issue{SeverityError, "parser.options.comma", "comma must be a single character"})
		} else if s == "\"" || s == "\n" || s == "\r" {
			issues = append(issues, Issue{SeverityError, "parser.options.comma", fmt.Sprintf("%q cannot be used as a delimiter", s)})
		}
	}
	return issues
}

// validateSchema also returns the schema built from the valid fields so rule
// checks can see column types.
func validateSchema(fields []FieldSpec) ([]Issue, dataset.Schema) {
	var issues []Issue

	if len(fields) == 0 {
		issues = append(issues, Issue{SeverityError, "schema", "schema must declare at least one field"})
	}
	seen := map[string]bool{}
	valid := make([]dataset.Field, 0, len(fields))
	for i, f := range fields {
		path := fmt.Sprintf("schema[%d]", i)
		if strings.TrimSpace(f.Name) == "" {
			issues = append(issues, Issue{SeverityError, path + ".name", "field name must not be empty"})
		}
		if seen[f.Name] {
			issues = append(issues, Issue{SeverityWarning, path + ".name",
				fmt.Sprintf("duplicate field %q; rules resolve to the first occurrence", f.Name)})
		}
		seen[f.Name] = true

		t, err := dataset.ParseDataType(f.Type)
		if err != nil {
			issues = append(issues, Issue{SeverityError, path + ".type", err.Error()})
			continue
		}
		valid = append(valid, dataset.NewField(f.Name, t))
	}
	return issues, dataset.NewSchema(valid...)
}

func validateRules(rs []RuleSpec, schema dataset.Schema) []Issue {
	var issues []Issue

	if len(rs) == 0 {
		issues = append(issues, Issue{SeverityWarning, "rules", "no rules; every run will pass"})
	}
	for i, r := range rs {
		path := fmt.Sprintf("rules[%d]", i)

		field, found := schema.Lookup(r.Column)
		if !found {
			issues = append(issues, Issue{SeverityWarning, path + ".column",
				fmt.Sprintf("column %q is not in the schema; the rule will fail", r.Column)})
		}

		c, err := r.constraint(schema)
		if err != nil {
			issues = append(issues, Issue{SeverityError, path + ".constraint", err.Error()})
			continue
		}

		switch c := c.(type) {
		case rules.Between:
			if c.Min > c.Max {
				issues = append(issues, Issue{SeverityError, path, "min > max; every row would fail"})
			}
		case rules.LengthBetween:
			if c.Min > c.Max {
				issues = append(issues, Issue{SeverityError, path, "min > max; every row would fail"})
			}
		case rules.MatchesRegex:
			if _, err := regexp.Compile(c.Pattern); err != nil {
				issues = append(issues, Issue{SeverityError, path + ".pattern", err.Error()})
			}
		}

		if found && !applicable(c.Kind(), field.Type) {
			issues = append(issues, Issue{SeverityWarning, path + ".constraint",
				fmt.Sprintf("%s is not applicable to %s column %q; the rule will fail", c.Kind(), field.Type, r.Column)})
		}
	}
	return issues
}

func applicable(k rules.Kind, t dataset.DataType) bool {
	switch k {
	case rules.KindGreaterThan, rules.KindGreaterThanOrEqual, rules.KindLessThan,
		rules.KindLessThanOrEqual, rules.KindEqual, rules.KindBetween:
		return t == dataset.Int || t == dataset.Float
	case rules.KindMatchesRegex, rules.KindContains, rules.KindStartsWith,
		rules.KindEndsWith, rules.KindLengthBetween:
		return t == dataset.Str
	case rules.KindInSet:
		return t != dataset.Bool
	}
	return true
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	switch strings.TrimSpace(s.Kind) {
	case "":
		return nil
	case "postgres", "mysql", "mssql", "sqlite":
	default:
		return append(issues, Issue{SeverityError, "storage.kind", fmt.Sprintf("unknown storage kind %q", s.Kind)})
	}

	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{SeverityWarning, "storage.db.dsn",
			"dsn is empty; it must be supplied through VERDICT_STORAGE_DSN"})
	}
	if strings.TrimSpace(s.DB.Table) == "" {
		issues = append(issues, Issue{SeverityError, "storage.db.table", "table must not be empty"})
	}
	return issues
}

func validateRuntime(r RuntimeConfig) []Issue {
	var issues []Issue

	if r.Workers < 0 {
		issues = append(issues, Issue{SeverityError, "runtime.workers", "workers must be >= 0"})
	}
	if r.BatchSize < 0 {
		issues = append(issues, Issue{SeverityError, "runtime.batch_size", "batch_size must be >= 0"})
	}
	return issues
}
