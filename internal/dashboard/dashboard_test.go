package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/torosent/searchbench/internal/metrics"
)

func series(name string, means ...int64) metrics.Series {
	s := metrics.Series{Name: name}
	for i, m := range means {
		s.Points = append(s.Points, metrics.SamplePoint{Width: 1 << i, Summary: metrics.Summary{Count: 1, MeanNs: m}})
	}
	return s
}

func TestPlotData(t *testing.T) {
	tests := []struct {
		name     string
		series   []metrics.Series
		expected [][]float64
	}{
		{"no series", nil, [][]float64{{0, 0}}},
		{"empty series padded", []metrics.Series{series("binary")}, [][]float64{{0, 0}}},
		{"single point padded", []metrics.Series{series("binary", 7)}, [][]float64{{7, 0}}},
		{
			"two series",
			[]metrics.Series{series("binary", 10, 20, 40), series("staircase", 5, 6, 7)},
			[][]float64{{10, 20, 40}, {5, 6, 7}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := plotData(tt.series)
			if len(got) != len(tt.expected) {
				t.Fatalf("plotData() returned %d lines, expected %d", len(got), len(tt.expected))
			}
			for i := range got {
				if len(got[i]) != len(tt.expected[i]) {
					t.Fatalf("line %d = %v, expected %v", i, got[i], tt.expected[i])
				}
				for j := range got[i] {
					if got[i][j] != tt.expected[i][j] {
						t.Errorf("line %d = %v, expected %v", i, got[i], tt.expected[i])
						break
					}
				}
			}
		})
	}
}

func TestMeanTableRows(t *testing.T) {
	rows := meanTableRows([]metrics.Series{series("binary", 10, 20, 40), series("staircase", 5, 6)})

	expected := [][]string{
		{"width", "binary", "staircase"},
		{"1", "10", "5"},
		{"2", "20", "6"},
		{"4", "40", "-"},
	}
	if len(rows) != len(expected) {
		t.Fatalf("meanTableRows() returned %d rows, expected %d", len(rows), len(expected))
	}
	for i := range expected {
		if strings.Join(rows[i], ",") != strings.Join(expected[i], ",") {
			t.Errorf("row %d = %v, expected %v", i, rows[i], expected[i])
		}
	}

	if empty := meanTableRows(nil); len(empty) != 1 || empty[0][0] != "width" {
		t.Errorf("meanTableRows(nil) = %v, expected header only", empty)
	}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		progress metrics.Progress
		expected int
	}{
		{metrics.Progress{}, 0},
		{metrics.Progress{CompletedWidths: 7, TotalWidths: 14}, 50},
		{metrics.Progress{CompletedWidths: 14, TotalWidths: 14}, 100},
		{metrics.Progress{CompletedWidths: 20, TotalWidths: 14}, 100},
	}

	for _, tt := range tests {
		if got := progressPercent(tt.progress); got != tt.expected {
			t.Errorf("progressPercent(%+v) = %d, expected %d", tt.progress, got, tt.expected)
		}
	}
}

func TestFormatSweepParams(t *testing.T) {
	got := formatSweepParams(SweepConfig{
		Generator:   "linear",
		Columns:     8192,
		MinExponent: 0,
		MaxExponent: 13,
		Repetitions: 50,
		ConfigFile:  "bench.yaml",
	})

	for _, want := range []string{"Generator: linear", "Columns: 8192", "Widths: 2^0..2^13", "Repetitions: 50", "Rate: unlimited", "Config: bench.yaml"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatSweepParams() = %q, missing %q", got, want)
		}
	}

	if got := formatSweepParams(SweepConfig{Rate: 200}); !strings.Contains(got, "Rate: 200/s") {
		t.Errorf("formatSweepParams() = %q, missing rate", got)
	}
}

func TestFormatSummary(t *testing.T) {
	running := formatSummary(SweepConfig{}, metrics.Progress{Width: 64, Algorithm: "binary", CompletedWidths: 6, TotalWidths: 14, Samples: 900}, 2*time.Second)
	if !strings.Contains(running, "Current: width 64 / binary") || !strings.Contains(running, "Calls: 900") {
		t.Errorf("formatSummary() = %q", running)
	}

	done := formatSummary(SweepConfig{}, metrics.Progress{Width: 64, CompletedWidths: 14, TotalWidths: 14}, time.Second)
	if !strings.Contains(done, "Current: idle") {
		t.Errorf("formatSummary() = %q, expected idle", done)
	}
}

func TestFormatOverallRows(t *testing.T) {
	if rows := formatOverallRows(metrics.Stats{}); len(rows) != 1 || !strings.Contains(rows[0], "Awaiting data") {
		t.Errorf("formatOverallRows(empty) = %v", rows)
	}

	collector := metrics.NewCollector()
	collector.Register("staircase", "Staircase search")
	collector.Record("staircase", 1, 1500*time.Nanosecond)
	collector.Record("staircase", 2, 2500*time.Nanosecond)

	rows := formatOverallRows(collector.Stats(time.Second))
	if len(rows) != 1 {
		t.Fatalf("formatOverallRows() returned %d rows, expected 1", len(rows))
	}
	for _, want := range []string{"Staircase search", "calls 2", "mean 2µs"} {
		if !strings.Contains(rows[0], want) {
			t.Errorf("row %q missing %q", rows[0], want)
		}
	}
}

func TestPlotTitleNamesColors(t *testing.T) {
	title := plotTitle([]metrics.Series{series("binary"), series("staircase")})
	if !strings.Contains(title, "binary=green") || !strings.Contains(title, "staircase=yellow") {
		t.Errorf("plotTitle() = %q", title)
	}
}
