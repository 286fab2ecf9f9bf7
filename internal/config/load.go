package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and decodes the suite at path. Files ending in .yaml or .yml
// are YAML; everything else is JSON. Unknown fields are rejected in both.
func Load(path string) (Suite, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	s, err := Decode(b, formatOf(path))
	if err != nil {
		return Suite{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return s, nil
}

// Format is a suite file encoding.
type Format int

const (
	JSON Format = iota
	YAML
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Decode parses a suite document.
func Decode(b []byte, f Format) (Suite, error) {
	var s Suite
	switch f {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return Suite{}, err
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return Suite{}, err
		}
	}
	return s, nil
}
