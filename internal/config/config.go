// Package config defines the validation suite file: where the data comes
// from, how to tokenize it, the schema to load it under, the rules to check
// and, optionally, where to persist results.
//
// Suites are JSON, or YAML when the file ends in .yaml or .yml:
//
//	{
//	  "name":    "users",
//	  "source":  { "kind": "file", "file": { "path": "data/users.csv" } },
//	  "parser":  { "kind": "csv", "options": { "comma": "," } },
//	  "schema":  [ { "name": "id", "type": "Int" } ],
//	  "rules":   [ { "column": "id", "constraint": "not_null" } ],
//	  "storage": { "kind": "sqlite", "db": { "dsn": "verdict.db", "table": "validation_results" } }
//	}
package config

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Suite is the top-level object decoded from a suite file.
type Suite struct {
	// Name labels stored runs and metrics.
	Name string `json:"name" yaml:"name"`

	Source Source      `json:"source" yaml:"source"`
	Parser Parser      `json:"parser" yaml:"parser"`
	Schema []FieldSpec `json:"schema" yaml:"schema"`
	Rules  []RuleSpec  `json:"rules" yaml:"rules"`

	// Storage is optional; an empty Kind disables persistence.
	Storage Storage       `json:"storage" yaml:"storage"`
	Runtime RuntimeConfig `json:"runtime" yaml:"runtime"`
}

// RuntimeConfig tunes execution.
type RuntimeConfig struct {
	// Workers > 1 evaluates rules concurrently.
	Workers int `json:"workers" yaml:"workers"`

	// BatchSize is the number of result rows per storage write.
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// Source identifies the input. Kinds: "file" and "http".
type Source struct {
	Kind string     `json:"kind" yaml:"kind"`
	File SourceFile `json:"file" yaml:"file"`
	HTTP SourceHTTP `json:"http" yaml:"http"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	// Path is a local filesystem path, or "-" for standard input.
	Path string `json:"path" yaml:"path"`
}

// SourceHTTP holds configuration for the "http" source kind.
type SourceHTTP struct {
	URL string `json:"url" yaml:"url"`

	// Timeout is a Go duration string such as "30s".
	Timeout            string            `json:"timeout" yaml:"timeout"`
	MaxRetries         int               `json:"max_retries" yaml:"max_retries"`
	Headers            map[string]string `json:"headers" yaml:"headers"`
	InsecureSkipVerify bool              `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

// Parser selects the tokenizer. The only kind is "csv"; its options are
// comma (string), trim_space (bool), lazy_quotes (bool) and
// fields_per_record (int).
type Parser struct {
	Kind    string  `json:"kind" yaml:"kind"`
	Options Options `json:"options" yaml:"options"`
}

// FieldSpec declares one schema field. Type is any name accepted by
// dataset.ParseDataType.
type FieldSpec struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// RuleSpec declares one rule. Which of the operand fields are read depends
// on Constraint:
//
//	gt, ge, lt, le, eq          value
//	between, length_between     min, max
//	in_set                      values
//	matches_regex, contains,
//	starts_with, ends_with      pattern
type RuleSpec struct {
	Column     string   `json:"column" yaml:"column"`
	Constraint string   `json:"constraint" yaml:"constraint"`
	Value      *float64 `json:"value,omitempty" yaml:"value,omitempty"`
	Min        *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max        *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Values     []any    `json:"values,omitempty" yaml:"values,omitempty"`
	Pattern    string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// Storage selects where validation results are written. Kinds: "postgres",
// "mysql", "mssql" and "sqlite".
type Storage struct {
	Kind string   `json:"kind" yaml:"kind"`
	DB   DBConfig `json:"db" yaml:"db"`
}

// DBConfig configures the results sink.
type DBConfig struct {
	// DSN is the driver-specific connection string.
	DSN string `json:"dsn" yaml:"dsn"`

	// Table receives one row per rule per run.
	Table string `json:"table" yaml:"table"`

	// AutoCreateTable issues the backend's CREATE TABLE IF NOT EXISTS first.
	AutoCreateTable bool `json:"auto_create_table" yaml:"auto_create_table"`
}

// Options fetches typed values from a free-form map. It performs only
// minimal coercion and returns the default when a key is absent or of an
// unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if s, ok := o[key].(string); ok {
		return s
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if b, ok := o[key].(bool); ok {
		return b
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64
// and YAML integers as int; both are accepted.
func (o Options) Int(key string, def int) int {
	switch n := o[key].(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return def
}

// Rune returns the first rune of a string value for key, or def when the key
// is missing or empty. Used for single-character settings such as a delimiter.
func (o Options) Rune(key string, def rune) rune {
	if s, ok := o[key].(string); ok && len(s) > 0 {
		return []rune(s)[0]
	}
	return def
}

// UnmarshalJSON decodes null as an empty, non-nil map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	if tmp == nil {
		tmp = map[string]any{}
	}
	*o = tmp
	return nil
}

// UnmarshalYAML decodes null as an empty, non-nil map.
func (o *Options) UnmarshalYAML(n *yaml.Node) error {
	var tmp map[string]any
	if err := n.Decode(&tmp); err != nil {
		return err
	}
	if tmp == nil {
		tmp = map[string]any{}
	}
	*o = tmp
	return nil
}
