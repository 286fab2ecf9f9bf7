// Command verdict-probe samples the start of a CSV file or URL, infers a
// schema and prints a starter suite for cmd/verdict.
//
// The draft is meant to be reviewed: rules are limited to not_null and
// unique, inferred from the sample only.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"verdict/internal/config"
	"verdict/internal/probe"
)

func main() {
	var (
		flagURL = flag.String(
			"url",
			"",
			"CSV source: http(s) URL, file:// URL or local path",
		)
		flagBytes = flag.Int(
			"bytes",
			probe.DefaultMaxBytes,
			"Number of bytes to sample from the start of the input",
		)
		flagName = flag.String(
			"name",
			"",
			"Suite name; defaults to the normalized file name",
		)
		flagDelimiter = flag.String(
			"delimiter",
			",",
			"Field delimiter (single character)",
		)
		flagStorage = flag.String(
			"storage",
			"sqlite",
			"Results backend in the generated suite: postgres|mysql|mssql|sqlite|none",
		)
		flagFormat = flag.String(
			"format",
			"json",
			"Output format: json or yaml",
		)
		flagSave = flag.String(
			"save",
			"",
			"Write the sampled bytes to this path",
		)
		flagAllowInsecure = flag.Bool(
			"allow-insecure",
			false,
			"Skip TLS certificate verification",
		)
	)
	flag.Parse()

	if *flagURL == "" {
		fmt.Fprintln(os.Stderr, "missing -url")
		flag.Usage()
		os.Exit(2)
	}
	delim, n := utf8.DecodeRuneInString(*flagDelimiter)
	if n == 0 || n != len(*flagDelimiter) {
		log.Fatalf("probe: -delimiter must be a single character, got %q", *flagDelimiter)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	s, err := probe.Probe(ctx, probe.Options{
		URL:              *flagURL,
		MaxBytes:         *flagBytes,
		Delimiter:        delim,
		Name:             *flagName,
		Storage:          *flagStorage,
		SavePath:         *flagSave,
		AllowInsecureTLS: *flagAllowInsecure,
	})
	if err != nil {
		log.Fatalf("probe: %v", err)
	}

	for _, iss := range config.ValidateSuite(s) {
		fmt.Fprintf(os.Stderr, "%s\n", iss.Error())
	}
	if err := encode(os.Stdout, s, *flagFormat); err != nil {
		log.Fatalf("encode suite: %v", err)
	}
}

// encode writes s in the requested format.
func encode(w io.Writer, s config.Suite, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
