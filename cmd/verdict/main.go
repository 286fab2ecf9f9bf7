// Command verdict loads a CSV dataset under a declared schema, evaluates the
// suite's column rules against it and reports which rules passed.
//
// Exit status is 0 when every rule passed, 1 when the suite, the input or the
// results store could not be processed, and 2 when at least one rule failed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"verdict/internal/config"
	"verdict/internal/metrics"
	"verdict/internal/metrics/datadog"
	"verdict/internal/metrics/prompush"
	"verdict/internal/report"

	// register all backends with the storage factory.
	// the suite picks one, so support for all of them is built in.
	_ "verdict/internal/storage/all"
)

const (
	exitOK      = 0
	exitError   = 1
	exitFailing = 2
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

// realMain is main without os.Exit so the flag handling and exit codes can
// be tested.
func realMain(args []string) int {
	fs := flag.NewFlagSet("verdict", flag.ContinueOnError)
	var (
		cfgPath        string
		format         string
		metricsBackend string
		pushGatewayURL string
		arrowOut       string
		workers        int
		validateOnly   bool
		verbose        bool
	)
	fs.StringVar(&cfgPath, "config", "configs/suites/people.json", "suite file (JSON, or YAML by extension)")
	fs.StringVar(&format, "format", "text", "report format: text or json")
	fs.StringVar(&metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway or datadog (overrides VERDICT_METRICS_BACKEND)")
	fs.StringVar(&pushGatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides VERDICT_PUSHGATEWAY_URL)")
	fs.StringVar(&arrowOut, "arrow-out", "", "also write the loaded dataset as an Arrow IPC stream to this path")
	fs.IntVar(&workers, "workers", 0, "evaluate rules on N goroutines (overrides VERDICT_WORKERS and the suite)")
	fs.BoolVar(&validateOnly, "validate", false, "lint the suite and exit")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	rt, err := config.LoadRuntime()
	if err != nil {
		log.Printf("%v", err)
		return exitError
	}
	// Flags win over the environment.
	if metricsBackend != "" {
		rt.MetricsBackend = metricsBackend
	}
	if pushGatewayURL != "" {
		rt.PushgatewayURL = pushGatewayURL
	}
	if workers > 0 {
		rt.Workers = workers
	}

	suite, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("%v", err)
		return exitError
	}
	rt.Apply(&suite)

	issues := config.ValidateSuite(suite)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s\n", iss.Error())
	}
	if config.HasErrors(issues) {
		log.Printf("suite is invalid: %v", cfgPath)
		return exitError
	}
	if validateOnly {
		log.Printf("suite is valid: %v", cfgPath)
		return exitOK
	}

	flush := setupMetrics(rt, suite.Name, verbose)
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	sum, err := execute(ctx, suite, runOptions{
		format:   report.Format(format),
		arrowOut: arrowOut,
		verbose:  verbose,
	}, os.Stdout)
	if err != nil {
		log.Printf("%v", err)
		return exitError
	}
	if verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
	if !sum.AllPassed() {
		return exitFailing
	}
	return exitOK
}

// setupMetrics installs the backend named by rt and returns the function
// that flushes it. An unusable backend leaves metrics disabled.
func setupMetrics(rt config.Runtime, job string, verbose bool) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch rt.MetricsBackend {
	case "pushgateway":
		gwURL := rt.PushgatewayURL
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err = prompush.NewBackend(job, gwURL)
		if err == nil {
			log.Printf("metrics: url=%v, backend=%v, job_name=%v", gwURL, rt.MetricsBackend, job)
		}
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       rt.DogStatsdAddr,
			Namespace:  "verdict.",
			GlobalTags: []string{"suite:" + job},
		})
		if err == nil {
			log.Printf("metrics: addr=%v, backend=%v", rt.DogStatsdAddr, rt.MetricsBackend)
		}
	case "", "none":
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", rt.MetricsBackend)
		}
		return func() {}
	default:
		err = errors.New("unknown backend")
	}
	if err != nil {
		log.Printf("metrics: backend %q unavailable: %v; metrics disabled", rt.MetricsBackend, err)
		return func() {}
	}

	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}
