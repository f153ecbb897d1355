package output_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/torosent/searchbench/internal/baseline"
	"github.com/torosent/searchbench/internal/metrics"
	"github.com/torosent/searchbench/internal/output"
	"github.com/torosent/searchbench/internal/threshold"
)

func htmlReport() output.Report {
	point := func(width int, mean int64) metrics.SamplePoint {
		return metrics.SamplePoint{Width: width, Summary: metrics.Summary{Count: 2, MeanNs: mean}}
	}
	return output.Report{
		RunID:       "01J00000000000000000000HTML",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Generator:   "product",
		Columns:     16,
		Repetitions: 2,
		Stats: metrics.Stats{
			Algorithms: []metrics.AlgorithmStats{
				{
					Series:  metrics.Series{Name: "binary", Label: "Binary search", Points: []metrics.SamplePoint{point(1, 100), point(2, 150)}},
					Overall: metrics.Summary{Count: 4, MeanNs: 125, MinNs: 90, MaxNs: 160, P50Ns: 120, P90Ns: 150, P99Ns: 160},
				},
				{
					Series:  metrics.Series{Name: "staircase", Label: "Staircase search", Points: []metrics.SamplePoint{point(1, 40)}},
					Overall: metrics.Summary{Count: 2, MeanNs: 40, MinNs: 40, MaxNs: 40},
				},
			},
			Samples:  6,
			Duration: 2 * time.Millisecond,
		},
	}
}

func TestGenerateHTMLReport(t *testing.T) {
	report := htmlReport()
	report.Thresholds = []threshold.Result{
		{
			Threshold: threshold.Threshold{Algorithm: "binary", Aggregate: "mean", Operator: "<", Value: 200},
			Raw:       "binary:mean < 200",
			Actual:    125,
			Pass:      true,
		},
		{
			Threshold: threshold.Threshold{Algorithm: "staircase", Aggregate: "max", Operator: "<", Value: 10},
			Raw:       "staircase:max < 10",
			Actual:    40,
			Pass:      false,
		},
	}

	var buf bytes.Buffer
	if err := output.GenerateHTMLReport(&buf, report); err != nil {
		t.Fatalf("GenerateHTMLReport() error = %v", err)
	}

	html := buf.String()

	requiredElements := []string{
		"<!DOCTYPE html>",
		"<html",
		"<head>",
		"<body>",
		"Search Benchmark Report",
		"01J00000000000000000000HTML",
		"2026-03-01T12:00:00Z",
		"product",
		"Mean Time per Call vs Width",
		"mean-chart",
		"uPlot",
		"Binary search",
		"Staircase search",
		"Overall Statistics",
		"Thresholds (1/2 Passed)",
		"✓ PASS",
		"✗ FAIL",
		"staircase (max)",
	}

	for _, elem := range requiredElements {
		if !strings.Contains(html, elem) {
			t.Errorf("HTML report missing required element: %s", elem)
		}
	}

	if strings.Contains(html, "Baseline Comparison") {
		t.Errorf("baseline section should be omitted without deltas")
	}
}

func TestGenerateHTMLReportChartData(t *testing.T) {
	var buf bytes.Buffer
	if err := output.GenerateHTMLReport(&buf, htmlReport()); err != nil {
		t.Fatalf("GenerateHTMLReport() error = %v", err)
	}

	html := buf.String()
	// The chart JSON is embedded as an escaped JavaScript string.
	for _, fragment := range []string{`widths`, `[1,2]`, `[100,150]`, `[40,null]`} {
		if !strings.Contains(html, fragment) {
			t.Errorf("chart data missing %s", fragment)
		}
	}
}

func TestGenerateHTMLReportBaseline(t *testing.T) {
	report := htmlReport()
	report.Baseline = []baseline.Delta{{Algorithm: "binary", Width: 2, Current: 150, Baseline: 100, Ratio: 1.5}}

	var buf bytes.Buffer
	if err := output.GenerateHTMLReport(&buf, report); err != nil {
		t.Fatalf("GenerateHTMLReport() error = %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "Baseline Comparison") || !strings.Contains(html, "1.50x") {
		t.Errorf("HTML report missing baseline section")
	}
}

func TestGenerateHTMLReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := output.GenerateHTMLReport(&buf, output.Report{}); err != nil {
		t.Fatalf("GenerateHTMLReport() error = %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "No samples recorded") {
		t.Errorf("empty report should say no samples were recorded")
	}
	if strings.Contains(html, "new uPlot") {
		t.Errorf("empty report should not render a chart")
	}
}
