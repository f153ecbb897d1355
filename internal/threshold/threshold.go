package threshold

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/torosent/searchbench/internal/metrics"
	"github.com/torosent/searchbench/internal/search"
)

// Threshold represents a timing assertion that can pass or fail.
type Threshold struct {
	Algorithm string  // e.g., "binary", "staircase", "staircase-exp"
	Aggregate string  // e.g., "mean", "p99", "last"
	Operator  string  // e.g., "<", "<=", ">", ">=", "=="
	Value     float64 // nanoseconds
	Raw       string  // Original threshold string for display
}

// Result represents the outcome of evaluating a threshold.
type Result struct {
	Threshold Threshold `json:"-" yaml:"-"`
	Raw       string    `json:"threshold" yaml:"threshold"`
	Actual    float64   `json:"actual_ns" yaml:"actual_ns"`
	Pass      bool      `json:"pass" yaml:"pass"`
	Message   string    `json:"message" yaml:"message"`
}

// Evaluator evaluates thresholds against collected statistics.
type Evaluator struct {
	thresholds []Threshold
}

// NewEvaluator creates a new threshold evaluator.
func NewEvaluator(thresholds []Threshold) *Evaluator {
	return &Evaluator{
		thresholds: thresholds,
	}
}

// Evaluate checks all thresholds against the provided stats.
func (e *Evaluator) Evaluate(stats metrics.Stats) []Result {
	if len(e.thresholds) == 0 {
		return nil
	}

	results := make([]Result, 0, len(e.thresholds))
	for _, t := range e.thresholds {
		results = append(results, e.evaluateOne(t, stats))
	}
	return results
}

// Passed reports whether every result passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Pass {
			return false
		}
	}
	return true
}

func (e *Evaluator) evaluateOne(t Threshold, stats metrics.Stats) Result {
	actual, err := extractValue(t, stats)
	if err != nil {
		return Result{
			Threshold: t,
			Raw:       t.Raw,
			Pass:      false,
			Message:   fmt.Sprintf("error: %v", err),
		}
	}

	pass := compareValues(actual, t.Operator, t.Value)
	status := "✓"
	if !pass {
		status = "✗"
	}

	return Result{
		Threshold: t,
		Raw:       t.Raw,
		Actual:    actual,
		Pass:      pass,
		Message:   fmt.Sprintf("%s %s: %.0f %s %.0f", status, t.Raw, actual, t.Operator, t.Value),
	}
}

var pattern = regexp.MustCompile(`^([a-z][a-z-]*):([a-z0-9]+)\s*([<>=!]+)\s*([0-9.]+)$`)

// Parse parses a threshold string into a Threshold struct.
// Supported formats (values in nanoseconds):
// - "staircase:mean < 20000"      (mean over every call of the sweep)
// - "binary:p99 <= 150000"        (percentile over every call)
// - "staircase-exp:last < 5000"   (mean at the largest width)
func Parse(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Threshold{}, fmt.Errorf("empty threshold string")
	}

	matches := pattern.FindStringSubmatch(strings.ToLower(s))
	if matches == nil {
		return Threshold{}, fmt.Errorf("invalid threshold format: %q (expected format: algorithm:aggregate operator value, e.g., 'staircase:mean < 20000')", s)
	}

	name := matches[1]
	aggregate := matches[2]
	operator := matches[3]
	valueStr := matches[4]

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return Threshold{}, fmt.Errorf("invalid threshold value %q: %v", valueStr, err)
	}

	alg, err := search.Lookup(name)
	if err != nil {
		return Threshold{}, fmt.Errorf("unsupported algorithm: %q (supported: %s)", name, strings.Join(search.Names(), ", "))
	}

	if !isValidAggregate(aggregate) {
		return Threshold{}, fmt.Errorf("unsupported aggregate: %q (supported: %s)", aggregate, strings.Join(aggregates, ", "))
	}

	if !isValidOperator(operator) {
		return Threshold{}, fmt.Errorf("unsupported operator: %q (supported: <, <=, >, >=, ==)", operator)
	}

	return Threshold{
		Algorithm: alg.Name,
		Aggregate: aggregate,
		Operator:  operator,
		Value:     value,
		Raw:       s,
	}, nil
}

// ParseMultiple parses multiple threshold strings.
func ParseMultiple(thresholds []string) ([]Threshold, error) {
	if len(thresholds) == 0 {
		return nil, nil
	}

	result := make([]Threshold, 0, len(thresholds))
	var errors []string

	for i, s := range thresholds {
		t, err := Parse(s)
		if err != nil {
			errors = append(errors, fmt.Sprintf("threshold[%d]: %v", i, err))
			continue
		}
		result = append(result, t)
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("threshold parsing errors: %s", strings.Join(errors, "; "))
	}

	return result, nil
}

var aggregates = []string{"mean", "min", "max", "p50", "p90", "p99", "last"}

func isValidAggregate(aggregate string) bool {
	for _, v := range aggregates {
		if aggregate == v {
			return true
		}
	}
	return false
}

func isValidOperator(operator string) bool {
	valid := []string{"<", "<=", ">", ">=", "=="}
	for _, v := range valid {
		if operator == v {
			return true
		}
	}
	return false
}

func extractValue(t Threshold, stats metrics.Stats) (float64, error) {
	alg, ok := stats.Algorithm(t.Algorithm)
	if !ok {
		return 0, fmt.Errorf("algorithm %q was not benchmarked", t.Algorithm)
	}
	if alg.Overall.Count == 0 {
		return 0, fmt.Errorf("algorithm %q has no samples", t.Algorithm)
	}

	switch t.Aggregate {
	case "mean":
		return float64(alg.Overall.MeanNs), nil
	case "min":
		return float64(alg.Overall.MinNs), nil
	case "max":
		return float64(alg.Overall.MaxNs), nil
	case "p50":
		return float64(alg.Overall.P50Ns), nil
	case "p90":
		return float64(alg.Overall.P90Ns), nil
	case "p99":
		return float64(alg.Overall.P99Ns), nil
	case "last":
		last, ok := alg.Last()
		if !ok {
			return 0, fmt.Errorf("algorithm %q has no sample points", t.Algorithm)
		}
		return float64(last.MeanNs), nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q", t.Aggregate)
	}
}

func compareValues(actual float64, operator string, expected float64) bool {
	// Handle floating point comparison with small epsilon
	epsilon := 1e-9

	switch operator {
	case "<":
		return actual < expected
	case "<=":
		return actual <= expected || math.Abs(actual-expected) < epsilon
	case ">":
		return actual > expected
	case ">=":
		return actual >= expected || math.Abs(actual-expected) < epsilon
	case "==":
		return math.Abs(actual-expected) < epsilon
	default:
		return false
	}
}
