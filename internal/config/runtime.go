package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Runtime carries process settings that come from the environment rather
// than the suite file. A .env file in the working directory is loaded first
// when present; real environment variables win.
type Runtime struct {
	// MetricsBackend is one of none, pushgateway or datadog.
	MetricsBackend string `env:"VERDICT_METRICS_BACKEND" envDefault:"none"`
	PushgatewayURL string `env:"VERDICT_PUSHGATEWAY_URL"`
	DogStatsdAddr  string `env:"VERDICT_DOGSTATSD_ADDR" envDefault:"127.0.0.1:8125"`

	// StorageDSN overrides storage.db.dsn so credentials stay out of suites.
	StorageDSN string `env:"VERDICT_STORAGE_DSN"`

	// Workers overrides runtime.workers when > 0.
	Workers int `env:"VERDICT_WORKERS" envDefault:"0"`
}

// LoadRuntime reads Runtime from .env and the process environment.
func LoadRuntime() (Runtime, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Runtime{}, fmt.Errorf("config: load .env: %w", err)
	}
	var rt Runtime
	if err := env.Parse(&rt); err != nil {
		return Runtime{}, fmt.Errorf("config: parse environment: %w", err)
	}
	return rt, nil
}

// RuntimeFrom reads Runtime from an explicit variable set, ignoring the
// process environment.
func RuntimeFrom(vars map[string]string) (Runtime, error) {
	var rt Runtime
	if err := env.ParseWithOptions(&rt, env.Options{Environment: vars}); err != nil {
		return Runtime{}, fmt.Errorf("config: parse environment: %w", err)
	}
	return rt, nil
}

// Apply folds environment overrides into the suite.
func (rt Runtime) Apply(s *Suite) {
	if rt.StorageDSN != "" {
		s.Storage.DB.DSN = rt.StorageDSN
	}
	if rt.Workers > 0 {
		s.Runtime.Workers = rt.Workers
	}
}
