package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/torosent/searchbench/internal/baseline"
	"github.com/torosent/searchbench/internal/config"
	"github.com/torosent/searchbench/internal/dashboard"
	"github.com/torosent/searchbench/internal/generator"
	"github.com/torosent/searchbench/internal/metrics"
	"github.com/torosent/searchbench/internal/output"
	"github.com/torosent/searchbench/internal/runner"
	"github.com/torosent/searchbench/internal/search"
	"github.com/torosent/searchbench/internal/threshold"
	"github.com/torosent/searchbench/internal/tracing"
)

const (
	progressInterval = time.Second
	shutdownTimeout  = 5 * time.Second
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.Log, stderr)
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	thresholds, err := threshold.ParseMultiple(cfg.Thresholds)
	if err != nil {
		return err
	}

	gen, err := generator.Lookup(cfg.Generator)
	if err != nil {
		return err
	}
	algorithms, err := search.Select(cfg.Algorithms)
	if err != nil {
		return err
	}

	// Read the baseline up front so a bad path fails before the sweep.
	var previous []byte
	if cfg.Baseline != "" {
		previous, err = baseline.Load(cfg.Baseline)
		if err != nil {
			return err
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	provider, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()
	if provider.Enabled() {
		logger.Info("exporting traces", "endpoint", provider.Endpoint())
	}

	collector := metrics.NewCollector()
	r := runner.New(runner.Options{
		Generator:     gen,
		Algorithms:    algorithms,
		Columns:       cfg.Columns,
		MinExponent:   cfg.MinExponent,
		MaxExponent:   cfg.MaxExponent,
		Repetitions:   cfg.Repetitions,
		RatePerSecond: cfg.Rate,
		Verify:        cfg.Verify,
		Collector:     collector,
		Logger:        logger,
		Tracer:        provider.Tracer(),
	})

	var dash *dashboard.Dashboard
	if cfg.Dashboard {
		dash, err = dashboard.New(collector, sweepConfig(cfg), cancel)
		if err != nil {
			return err
		}
		dash.Start()
	}

	var progress *output.ProgressReporter
	if !cfg.JSONOutput && !cfg.YAMLOutput && !cfg.Dashboard {
		progress = output.NewProgressReporter(collector, progressInterval, stdout)
		progress.Start()
	}

	collector.Start()
	result, runErr := r.Run(ctx)

	// The terminal must be restored before anything is printed.
	if dash != nil {
		dash.Stop()
	}
	if progress != nil {
		progress.Stop()
		fmt.Fprintln(stdout)
	}

	interrupted := runErr != nil && errors.Is(runErr, context.Canceled)
	if runErr != nil && !interrupted {
		return runErr
	}
	if interrupted {
		logger.Warn("sweep interrupted; reporting completed widths")
	}

	stats := collector.Stats(result.Duration)
	report := output.Report{
		RunID:       output.NewRunID(time.Now()),
		GeneratedAt: time.Now().UTC(),
		Generator:   cfg.Generator,
		Columns:     cfg.Columns,
		Repetitions: cfg.Repetitions,
		Stats:       stats,
		Mismatches:  mismatchStrings(result.Mismatches),
		Thresholds:  threshold.NewEvaluator(thresholds).Evaluate(stats),
	}
	if previous != nil {
		report.Baseline, err = baseline.Compare(stats, previous)
		if err != nil {
			return err
		}
	}

	switch {
	case cfg.JSONOutput:
		if err := output.PrintJSONReport(stdout, report); err != nil {
			return err
		}
	case cfg.YAMLOutput:
		if err := output.PrintYAMLReport(stdout, report); err != nil {
			return err
		}
	default:
		output.PrintReport(stdout, report)
		output.PrintThresholds(stdout, report.Thresholds)
		if previous != nil {
			output.PrintBaseline(stdout, report.Baseline)
		}
	}

	if cfg.HTMLOutput != "" {
		if err := writeHTMLReport(cfg.HTMLOutput, report); err != nil {
			return err
		}
		logger.Info("wrote HTML report", "path", cfg.HTMLOutput)
	}

	if interrupted {
		return fmt.Errorf("sweep interrupted: %w", runErr)
	}
	if n := len(result.Mismatches); n > 0 {
		return fmt.Errorf("%d verification mismatches", n)
	}
	if !threshold.Passed(report.Thresholds) {
		failed := 0
		for _, res := range report.Thresholds {
			if !res.Pass {
				failed++
			}
		}
		return fmt.Errorf("%d of %d thresholds failed", failed, len(report.Thresholds))
	}
	return nil
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if cfg.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func sweepConfig(cfg *config.Config) dashboard.SweepConfig {
	return dashboard.SweepConfig{
		Generator:   cfg.Generator,
		Columns:     cfg.Columns,
		MinExponent: cfg.MinExponent,
		MaxExponent: cfg.MaxExponent,
		Repetitions: cfg.Repetitions,
		Rate:        cfg.Rate,
		ConfigFile:  cfg.ConfigFile,
	}
}

func mismatchStrings(mismatches []runner.Mismatch) []string {
	if len(mismatches) == 0 {
		return nil
	}
	out := make([]string, len(mismatches))
	for i, m := range mismatches {
		out[i] = m.Error()
	}
	return out
}

func writeHTMLReport(path string, report output.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create HTML report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return output.GenerateHTMLReport(f, report)
}
