package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/torosent/searchbench/internal/generator"
	"github.com/torosent/searchbench/internal/search"
)

const (
	DefaultColumns     = 1 << 13
	DefaultMinExponent = 0
	DefaultMaxExponent = 13
	DefaultRepetitions = 50

	// largeMatrixCells triggers a memory warning in Warnings.
	largeMatrixCells = 1 << 28
)

type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

type Config struct {
	Generator   string        `mapstructure:"generator"`
	Columns     int           `mapstructure:"columns"`
	MinExponent int           `mapstructure:"min_exponent"`
	MaxExponent int           `mapstructure:"max_exponent"`
	Repetitions int           `mapstructure:"repetitions"`
	Algorithms  []string      `mapstructure:"algorithms"`
	Rate        int           `mapstructure:"rate"`
	Verify      bool          `mapstructure:"verify"`
	JSONOutput  bool          `mapstructure:"json_output"`
	YAMLOutput  bool          `mapstructure:"yaml_output"`
	Dashboard   bool          `mapstructure:"dashboard"`
	HTMLOutput  string        `mapstructure:"html_output"`
	Thresholds  []string      `mapstructure:"thresholds"`
	Baseline    string        `mapstructure:"baseline"`
	ConfigFile  string        `mapstructure:"-"`
	Log         LogConfig     `mapstructure:"log"`
	Tracing     TracingConfig `mapstructure:"tracing"`
}

type LogConfig struct {
	Level  string    `mapstructure:"level"`  // debug, info, warn, error
	Format LogFormat `mapstructure:"format"` // text or json
}

type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`     // OTLP collector host:port
	Protocol    string  `mapstructure:"protocol"`     // "grpc" (default) or "http"
	Insecure    bool    `mapstructure:"insecure"`     // plaintext connection to the collector
	SampleRate  float64 `mapstructure:"sample_rate"`  // 0.0 - 1.0
	ServiceName string  `mapstructure:"service_name"` // defaults to OTEL_SERVICE_NAME or "searchbench"
}

// Enabled reports whether an OTLP endpoint is configured directly or through
// the standard environment variable.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != "" || os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != ""
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Generator:   generator.NameLinear,
		Columns:     DefaultColumns,
		MinExponent: DefaultMinExponent,
		MaxExponent: DefaultMaxExponent,
		Repetitions: DefaultRepetitions,
		Log:         LogConfig{Level: "info", Format: LogFormatText},
		Tracing:     TracingConfig{Protocol: "grpc", SampleRate: 1.0},
	}
}

// Widths returns the number of swept widths.
func (c Config) Widths() int {
	if c.MaxExponent < c.MinExponent {
		return 0
	}
	return c.MaxExponent - c.MinExponent + 1
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	if _, err := generator.Lookup(c.Generator); err != nil {
		issues = append(issues, fmt.Sprintf("generator: %v", err))
	}
	if c.Columns < 1 {
		issues = append(issues, "columns must be >= 1")
	}
	if c.Repetitions < 1 {
		issues = append(issues, "repetitions must be >= 1")
	}
	if c.Rate < 0 {
		issues = append(issues, "rate must be >= 0")
	}
	if c.MinExponent < 0 {
		issues = append(issues, "min-exponent must be >= 0")
	}
	if c.MaxExponent < c.MinExponent {
		issues = append(issues, "max-exponent must be >= min-exponent")
	}
	if c.MaxExponent > 30 {
		issues = append(issues, "max-exponent must be <= 30")
	} else if c.Columns >= 1 && c.MaxExponent >= 0 && 1<<c.MaxExponent > c.Columns {
		issues = append(issues, fmt.Sprintf("largest width 2^%d exceeds columns (%d)", c.MaxExponent, c.Columns))
	}
	for idx, name := range c.Algorithms {
		if _, err := search.Lookup(name); err != nil {
			issues = append(issues, fmt.Sprintf("algorithms[%d]: %v", idx, err))
		}
	}

	if c.Dashboard && c.JSONOutput {
		issues = append(issues, "dashboard and json-output are mutually exclusive")
	}
	if c.Dashboard && c.YAMLOutput {
		issues = append(issues, "dashboard and yaml-output are mutually exclusive")
	}
	if c.JSONOutput && c.YAMLOutput {
		issues = append(issues, "json-output and yaml-output are mutually exclusive")
	}

	issues = append(issues, validateLogConfig(c.Log)...)
	issues = append(issues, validateTracingConfig(c.Tracing)...)

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

// Warnings lists settings that are valid but likely unintended.
func (c Config) Warnings() []string {
	var warnings []string
	if c.MaxExponent >= 0 && c.MaxExponent <= 30 && int64(1<<c.MaxExponent)*int64(c.Columns) > largeMatrixCells {
		warnings = append(warnings, fmt.Sprintf("largest matrix holds %d cells; generation may need several GiB of memory", int64(1<<c.MaxExponent)*int64(c.Columns)))
	}
	if c.Repetitions == 1 {
		warnings = append(warnings, "a single repetition per width gives no averaging; timings will be noisy")
	}
	if c.Rate > 0 && c.Repetitions*c.Widths()*algorithmCount(c.Algorithms)/c.Rate > 600 {
		warnings = append(warnings, fmt.Sprintf("rate %d/s makes the sweep take more than 10 minutes", c.Rate))
	}
	return warnings
}

func algorithmCount(names []string) int {
	if len(names) == 0 {
		return len(search.Names())
	}
	return len(names)
}

func validateLogConfig(l LogConfig) []string {
	var issues []string
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		issues = append(issues, fmt.Sprintf("log: level must be 'debug', 'info', 'warn' or 'error', got %q", l.Level))
	}
	switch l.Format {
	case "", LogFormatText, LogFormatJSON:
	default:
		issues = append(issues, fmt.Sprintf("log: format must be 'text' or 'json', got %q", l.Format))
	}
	return issues
}

func validateTracingConfig(t TracingConfig) []string {
	var issues []string
	switch strings.ToLower(strings.TrimSpace(t.Protocol)) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing: protocol must be 'grpc' or 'http', got %q", t.Protocol))
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		issues = append(issues, fmt.Sprintf("tracing: sample_rate must be between 0.0 and 1.0, got %g", t.SampleRate))
	}
	return issues
}
