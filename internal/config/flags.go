package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RegisterFlags registers all CLI flags to a cobra command.
func RegisterFlags(cmd *cobra.Command) {
	configureFlags(cmd.Flags())
}

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "searchbench",
		Short:         "Benchmark binary, staircase and staircase-exponential matrix search",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Workload flags
	flags.StringP("generator", "g", "linear", "Matrix generator: 'linear' or 'product'")
	flags.IntP("columns", "n", DefaultColumns, "Fixed column count of every generated matrix")
	flags.Int("min-exponent", DefaultMinExponent, "Smallest swept width is 2^min-exponent rows")
	flags.Int("max-exponent", DefaultMaxExponent, "Largest swept width is 2^max-exponent rows")
	flags.IntP("repetitions", "r", DefaultRepetitions, "Timed calls per algorithm per width")
	flags.StringSliceP("algorithm", "a", nil, "Algorithm to benchmark (repeatable: binary, staircase, staircase-exp; default all)")
	flags.Int("rate", 0, "Timed calls per second (0 means unlimited)")
	flags.Bool("verify", false, "Check that all algorithms agree before timing each width")

	// Output flags
	flags.Bool("json-output", false, "Emit JSON formatted output")
	flags.Bool("yaml-output", false, "Emit YAML formatted output")
	flags.Bool("dashboard", false, "Show live terminal dashboard with the time series")
	flags.String("html-output", "", "Generate HTML report with a chart to the specified file path")
	flags.String("baseline", "", "Path to a previous JSON report to compare against")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	// Threshold flags
	flags.StringSlice("threshold", nil, "Performance thresholds (repeatable, e.g., 'staircase:mean < 20000')")

	// Logging flags
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", string(LogFormatText), "Log format: 'text' or 'json'")

	// Tracing flags
	flags.String("tracing-endpoint", "", "OTLP collector endpoint (host:port); tracing is off when empty")
	flags.String("tracing-protocol", "grpc", "OTLP protocol: 'grpc' or 'http'")
	flags.Bool("tracing-insecure", false, "Use a plaintext connection to the OTLP collector")
	flags.Float64("tracing-sample-rate", 1.0, "Fraction of sweeps to sample (0.0 - 1.0)")
	flags.String("tracing-service-name", "", "Service name reported to the collector")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\nUsage: %s\n\nFlags:\n", cmd.Short, cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config, overriding
// values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("generator") {
		val, err := fs.GetString("generator")
		if err != nil {
			return err
		}
		cfg.Generator = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("columns") {
		val, err := fs.GetInt("columns")
		if err != nil {
			return err
		}
		cfg.Columns = val
	}
	if fs.Changed("min-exponent") {
		val, err := fs.GetInt("min-exponent")
		if err != nil {
			return err
		}
		cfg.MinExponent = val
	}
	if fs.Changed("max-exponent") {
		val, err := fs.GetInt("max-exponent")
		if err != nil {
			return err
		}
		cfg.MaxExponent = val
	}
	if fs.Changed("repetitions") {
		val, err := fs.GetInt("repetitions")
		if err != nil {
			return err
		}
		cfg.Repetitions = val
	}
	if fs.Changed("algorithm") {
		val, err := fs.GetStringSlice("algorithm")
		if err != nil {
			return err
		}
		cfg.Algorithms = trimAll(val)
	}
	if fs.Changed("rate") {
		val, err := fs.GetInt("rate")
		if err != nil {
			return err
		}
		cfg.Rate = val
	}
	if fs.Changed("verify") {
		val, err := fs.GetBool("verify")
		if err != nil {
			return err
		}
		cfg.Verify = val
	}
	if fs.Changed("json-output") {
		val, err := fs.GetBool("json-output")
		if err != nil {
			return err
		}
		cfg.JSONOutput = val
	}
	if fs.Changed("yaml-output") {
		val, err := fs.GetBool("yaml-output")
		if err != nil {
			return err
		}
		cfg.YAMLOutput = val
	}
	if fs.Changed("dashboard") {
		val, err := fs.GetBool("dashboard")
		if err != nil {
			return err
		}
		cfg.Dashboard = val
	}
	if fs.Changed("html-output") {
		val, err := fs.GetString("html-output")
		if err != nil {
			return err
		}
		cfg.HTMLOutput = strings.TrimSpace(val)
	}
	if fs.Changed("baseline") {
		val, err := fs.GetString("baseline")
		if err != nil {
			return err
		}
		cfg.Baseline = strings.TrimSpace(val)
	}
	if fs.Changed("threshold") {
		val, err := fs.GetStringSlice("threshold")
		if err != nil {
			return err
		}
		cfg.Thresholds = val
	}

	if fs.Changed("log-level") {
		val, err := fs.GetString("log-level")
		if err != nil {
			return err
		}
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("log-format") {
		val, err := fs.GetString("log-format")
		if err != nil {
			return err
		}
		cfg.Log.Format = LogFormat(strings.ToLower(strings.TrimSpace(val)))
	}

	if fs.Changed("tracing-endpoint") {
		val, err := fs.GetString("tracing-endpoint")
		if err != nil {
			return err
		}
		cfg.Tracing.Endpoint = strings.TrimSpace(val)
	}
	if fs.Changed("tracing-protocol") {
		val, err := fs.GetString("tracing-protocol")
		if err != nil {
			return err
		}
		cfg.Tracing.Protocol = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("tracing-insecure") {
		val, err := fs.GetBool("tracing-insecure")
		if err != nil {
			return err
		}
		cfg.Tracing.Insecure = val
	}
	if fs.Changed("tracing-sample-rate") {
		val, err := fs.GetFloat64("tracing-sample-rate")
		if err != nil {
			return err
		}
		cfg.Tracing.SampleRate = val
	}
	if fs.Changed("tracing-service-name") {
		val, err := fs.GetString("tracing-service-name")
		if err != nil {
			return err
		}
		cfg.Tracing.ServiceName = strings.TrimSpace(val)
	}

	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
