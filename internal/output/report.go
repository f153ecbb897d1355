package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/torosent/searchbench/internal/baseline"
	"github.com/torosent/searchbench/internal/metrics"
	"github.com/torosent/searchbench/internal/threshold"
)

// Report is everything a sweep produced, as written by the JSON and YAML
// encoders and read back by baseline comparison.
type Report struct {
	RunID       string             `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time          `json:"generated_at" yaml:"generated_at"`
	Generator   string             `json:"generator" yaml:"generator"`
	Columns     int                `json:"columns" yaml:"columns"`
	Repetitions int                `json:"repetitions" yaml:"repetitions"`
	Stats       metrics.Stats      `json:"stats" yaml:"stats"`
	Mismatches  []string           `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`
	Thresholds  []threshold.Result `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
	Baseline    []baseline.Delta   `json:"baseline,omitempty" yaml:"baseline,omitempty"`
}

// NewRunID returns a lexicographically sortable identifier for a run
// started at t.
func NewRunID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), ulid.DefaultEntropy()).String()
}

// PrintReport outputs a human-readable summary report.
func PrintReport(w io.Writer, report Report) {
	stats := report.Stats
	fmt.Fprintln(w, "\n--- Search Benchmark Results ---")
	if report.RunID != "" {
		fmt.Fprintf(w, "Run ID:            %s\n", report.RunID)
	}
	fmt.Fprintf(w, "Generator:         %s (%d columns)\n", report.Generator, report.Columns)
	fmt.Fprintf(w, "Repetitions:       %d per width\n", report.Repetitions)
	fmt.Fprintf(w, "Timed Calls:       %d\n", stats.Samples)
	fmt.Fprintf(w, "Duration:          %s\n", stats.Duration)

	widths := collectWidths(stats)
	if len(widths) > 0 {
		fmt.Fprintln(w, "\nMean time per call (ns):")
		writeMeanTable(w, stats, widths)
	}

	if len(stats.Algorithms) > 0 {
		fmt.Fprintln(w, "\nOverall:")
		for _, alg := range stats.Algorithms {
			o := alg.Overall
			fmt.Fprintf(w, "  - %s: calls=%d, mean=%s, min=%s, max=%s, p50=%s, p90=%s, p99=%s\n",
				displayName(alg.Series),
				o.Count,
				formatNs(o.MeanNs),
				formatNs(o.MinNs),
				formatNs(o.MaxNs),
				formatNs(o.P50Ns),
				formatNs(o.P90Ns),
				formatNs(o.P99Ns),
			)
		}
	}

	if len(report.Mismatches) > 0 {
		fmt.Fprintf(w, "\nVerification Mismatches (%d):\n", len(report.Mismatches))
		for _, m := range report.Mismatches {
			fmt.Fprintf(w, "  - %s\n", m)
		}
	}
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}

// PrintYAMLReport outputs a YAML-formatted report.
func PrintYAMLReport(w io.Writer, report Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}

// PrintThresholds outputs one line per threshold followed by a tally.
func PrintThresholds(w io.Writer, results []threshold.Result) {
	if len(results) == 0 {
		return
	}
	passed := 0
	fmt.Fprintln(w, "\nThresholds:")
	for _, r := range results {
		if r.Pass {
			passed++
		}
		fmt.Fprintf(w, "  %s\n", r.Message)
	}
	fmt.Fprintf(w, "  %d/%d passed\n", passed, len(results))
}

// PrintBaseline outputs the comparison against a previous report.
func PrintBaseline(w io.Writer, deltas []baseline.Delta) {
	fmt.Fprintln(w, "\nBaseline Comparison:")
	if len(deltas) == 0 {
		fmt.Fprintln(w, "  No algorithm and width in common with the baseline")
		return
	}
	for _, d := range deltas {
		ratio := "n/a"
		if d.Ratio > 0 {
			ratio = fmt.Sprintf("%.2fx", d.Ratio)
		}
		fmt.Fprintf(w, "  %-14s width=%-6d current=%-10s baseline=%-10s %s\n",
			d.Algorithm, d.Width, formatNs(d.Current), formatNs(d.Baseline), ratio)
	}
}

func writeMeanTable(w io.Writer, stats metrics.Stats, widths []int) {
	colWidths := make([]int, len(stats.Algorithms))
	fmt.Fprintf(w, "  %8s", "width")
	for i, alg := range stats.Algorithms {
		colWidths[i] = max(len(alg.Name), 12)
		fmt.Fprintf(w, "  %*s", colWidths[i], alg.Name)
	}
	fmt.Fprintln(w)

	for _, width := range widths {
		fmt.Fprintf(w, "  %8d", width)
		for i, alg := range stats.Algorithms {
			cell := "-"
			if p, ok := pointAt(alg.Series, width); ok {
				cell = fmt.Sprintf("%d", p.MeanNs)
			}
			fmt.Fprintf(w, "  %*s", colWidths[i], cell)
		}
		fmt.Fprintln(w)
	}
}

// collectWidths returns every width any algorithm has a point for, ascending.
func collectWidths(stats metrics.Stats) []int {
	seen := make(map[int]struct{})
	var widths []int
	for _, alg := range stats.Algorithms {
		for _, p := range alg.Points {
			if _, ok := seen[p.Width]; ok {
				continue
			}
			seen[p.Width] = struct{}{}
			widths = append(widths, p.Width)
		}
	}
	sort.Ints(widths)
	return widths
}

func pointAt(series metrics.Series, width int) (metrics.SamplePoint, bool) {
	for _, p := range series.Points {
		if p.Width == width {
			return p, true
		}
	}
	return metrics.SamplePoint{}, false
}

func displayName(s metrics.Series) string {
	if s.Label != "" {
		return s.Label
	}
	return s.Name
}

func formatNs(ns int64) string {
	return time.Duration(ns).String()
}
