package output

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/torosent/searchbench/internal/metrics"
	"github.com/torosent/searchbench/internal/threshold"
)

// HTMLReportData contains all data needed for the HTML report template.
type HTMLReportData struct {
	GeneratedAt      string
	Report           Report
	Widths           []int
	Rows             []MeanRow
	ThresholdSummary *ThresholdSummary
	ChartJSON        string
}

// MeanRow is one width of the mean table. Means holds one cell per
// algorithm in report order; "-" marks a missing point.
type MeanRow struct {
	Width int
	Means []string
}

// ThresholdSummary is the threshold section of the HTML report.
type ThresholdSummary struct {
	Total   int                   `json:"total"`
	Passed  int                   `json:"passed"`
	Failed  int                   `json:"failed"`
	Results []ThresholdResultJSON `json:"results"`
}

// ThresholdResultJSON is a flattened threshold.Result for templates.
type ThresholdResultJSON struct {
	Threshold string  `json:"threshold"`
	Algorithm string  `json:"algorithm"`
	Aggregate string  `json:"aggregate"`
	Operator  string  `json:"operator"`
	Expected  float64 `json:"expected"`
	Actual    float64 `json:"actual"`
	Pass      bool    `json:"pass"`
	Message   string  `json:"message"`
}

// chartData is laid out for uPlot: a shared x axis plus one y array per
// series, with null where a series has no point at that width.
type chartData struct {
	Widths []int         `json:"widths"`
	Series []chartSeries `json:"series"`
}

type chartSeries struct {
	Label string   `json:"label"`
	Means []*int64 `json:"means"`
}

// GenerateHTMLReport generates a standalone HTML report with an embedded
// chart of mean time per call against matrix width.
func GenerateHTMLReport(w io.Writer, report Report) error {
	stats := report.Stats
	widths := collectWidths(stats)

	data := HTMLReportData{
		GeneratedAt:      report.GeneratedAt.Format(time.RFC3339),
		Report:           report,
		Widths:           widths,
		Rows:             meanRows(stats, widths),
		ThresholdSummary: summarizeThresholds(report.Thresholds),
	}
	if report.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now().Format(time.RFC3339)
	}

	chartJSON, err := json.Marshal(buildChartData(stats, widths))
	if err != nil {
		return fmt.Errorf("failed to marshal chart data: %w", err)
	}
	data.ChartJSON = string(chartJSON)

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"formatNs": formatNs,
		"formatFloat": func(f float64) string {
			return fmt.Sprintf("%.0f", f)
		},
		"label": displayName,
	}).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}

func summarizeThresholds(results []threshold.Result) *ThresholdSummary {
	if len(results) == 0 {
		return nil
	}
	summary := &ThresholdSummary{
		Total:   len(results),
		Results: make([]ThresholdResultJSON, len(results)),
	}
	for i, tr := range results {
		summary.Results[i] = ThresholdResultJSON{
			Threshold: tr.Raw,
			Algorithm: tr.Threshold.Algorithm,
			Aggregate: tr.Threshold.Aggregate,
			Operator:  tr.Threshold.Operator,
			Expected:  tr.Threshold.Value,
			Actual:    tr.Actual,
			Pass:      tr.Pass,
			Message:   tr.Message,
		}
		if tr.Pass {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}
	return summary
}

func meanRows(stats metrics.Stats, widths []int) []MeanRow {
	rows := make([]MeanRow, 0, len(widths))
	for _, width := range widths {
		row := MeanRow{Width: width, Means: make([]string, len(stats.Algorithms))}
		for i, alg := range stats.Algorithms {
			row.Means[i] = "-"
			if p, ok := pointAt(alg.Series, width); ok {
				row.Means[i] = fmt.Sprintf("%d", p.MeanNs)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func buildChartData(stats metrics.Stats, widths []int) chartData {
	data := chartData{
		Widths: widths,
		Series: make([]chartSeries, 0, len(stats.Algorithms)),
	}
	if data.Widths == nil {
		data.Widths = []int{}
	}
	for _, alg := range stats.Algorithms {
		s := chartSeries{Label: displayName(alg.Series), Means: make([]*int64, len(widths))}
		for i, width := range widths {
			if p, ok := pointAt(alg.Series, width); ok {
				mean := p.MeanNs
				s.Means[i] = &mean
			}
		}
		data.Series = append(data.Series, s)
	}
	return data
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Search Benchmark Report</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f4f6f8;
            color: #1f2937;
            line-height: 1.6;
            padding: 20px;
        }
        .container {
            max-width: 1200px;
            margin: 0 auto;
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 8px rgba(0,0,0,0.1);
            overflow: hidden;
        }
        header {
            background: linear-gradient(135deg, #0f766e 0%, #1e3a8a 100%);
            color: white;
            padding: 30px 40px;
        }
        header h1 {
            font-size: 2rem;
            margin-bottom: 10px;
        }
        header .meta {
            opacity: 0.9;
            font-size: 0.9rem;
        }
        .content {
            padding: 40px;
        }
        .grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(220px, 1fr));
            gap: 20px;
            margin-bottom: 40px;
        }
        .card {
            background: #f8f9fa;
            border-radius: 8px;
            padding: 20px;
            border-left: 4px solid #0f766e;
        }
        .card h3 {
            font-size: 0.9rem;
            color: #6c757d;
            text-transform: uppercase;
            letter-spacing: 0.5px;
            margin-bottom: 10px;
        }
        .card .value {
            font-size: 1.6rem;
            font-weight: bold;
        }
        .card.error {
            border-left-color: #ef4444;
        }
        .section {
            margin-bottom: 40px;
        }
        .section h2 {
            font-size: 1.5rem;
            margin-bottom: 20px;
            padding-bottom: 10px;
            border-bottom: 2px solid #e5e7eb;
        }
        .chart-container {
            border-radius: 8px;
            padding: 20px;
            border: 1px solid #e5e7eb;
        }
        .chart {
            width: 100%;
            height: 360px;
        }
        table {
            width: 100%;
            border-collapse: collapse;
        }
        th, td {
            text-align: right;
            padding: 10px 12px;
            border-bottom: 1px solid #e5e7eb;
            font-variant-numeric: tabular-nums;
        }
        th:first-child, td:first-child {
            text-align: left;
        }
        th {
            background: #f8f9fa;
            font-weight: 600;
            color: #4b5563;
            font-size: 0.85rem;
            text-transform: uppercase;
            letter-spacing: 0.5px;
        }
        .badge {
            display: inline-block;
            padding: 4px 12px;
            border-radius: 12px;
            font-size: 0.85rem;
            font-weight: 600;
        }
        .badge-success {
            background: #d1fae5;
            color: #065f46;
        }
        .badge-error {
            background: #fee2e2;
            color: #991b1b;
        }
        .no-data {
            text-align: center;
            padding: 40px;
            color: #6c757d;
            font-style: italic;
        }
    </style>
    <script src="https://cdn.jsdelivr.net/npm/uplot@1.6.24/dist/uPlot.iife.min.js"></script>
    <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/uplot@1.6.24/dist/uPlot.min.css">
</head>
<body>
    <div class="container">
        <header>
            <h1>Search Benchmark Report</h1>
            {{if .Report.RunID}}<div class="meta">Run: {{.Report.RunID}}</div>{{end}}
            <div class="meta">Generated: {{.GeneratedAt}} | Duration: {{.Report.Stats.Duration}}</div>
        </header>

        <div class="content">
            <div class="grid">
                <div class="card">
                    <h3>Generator</h3>
                    <div class="value">{{.Report.Generator}}</div>
                </div>
                <div class="card">
                    <h3>Columns</h3>
                    <div class="value">{{.Report.Columns}}</div>
                </div>
                <div class="card">
                    <h3>Repetitions</h3>
                    <div class="value">{{.Report.Repetitions}}</div>
                </div>
                <div class="card">
                    <h3>Timed Calls</h3>
                    <div class="value">{{.Report.Stats.Samples}}</div>
                </div>
                {{if .Report.Mismatches}}
                <div class="card error">
                    <h3>Mismatches</h3>
                    <div class="value">{{len .Report.Mismatches}}</div>
                </div>
                {{end}}
            </div>

            <div class="section">
                <h2>Mean Time per Call vs Width</h2>
                {{if .Widths}}
                <div class="chart-container">
                    <div id="mean-chart" class="chart"></div>
                </div>
                {{else}}
                <div class="no-data">No samples recorded</div>
                {{end}}
            </div>

            {{if .Widths}}
            <div class="section">
                <h2>Mean Time per Call (ns)</h2>
                <table>
                    <thead>
                        <tr>
                            <th>Width</th>
                            {{range .Report.Stats.Algorithms}}<th>{{.Name}}</th>{{end}}
                        </tr>
                    </thead>
                    <tbody>
                        {{range .Rows}}
                        <tr>
                            <td>{{.Width}}</td>
                            {{range .Means}}<td>{{.}}</td>{{end}}
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}

            <div class="section">
                <h2>Overall Statistics</h2>
                <table>
                    <thead>
                        <tr>
                            <th>Algorithm</th>
                            <th>Calls</th>
                            <th>Mean</th>
                            <th>Min</th>
                            <th>Max</th>
                            <th>P50</th>
                            <th>P90</th>
                            <th>P99</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .Report.Stats.Algorithms}}
                        <tr>
                            <td><strong>{{label .Series}}</strong></td>
                            <td>{{.Overall.Count}}</td>
                            <td>{{formatNs .Overall.MeanNs}}</td>
                            <td>{{formatNs .Overall.MinNs}}</td>
                            <td>{{formatNs .Overall.MaxNs}}</td>
                            <td>{{formatNs .Overall.P50Ns}}</td>
                            <td>{{formatNs .Overall.P90Ns}}</td>
                            <td>{{formatNs .Overall.P99Ns}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>

            {{if .ThresholdSummary}}
            <div class="section">
                <h2>Thresholds ({{.ThresholdSummary.Passed}}/{{.ThresholdSummary.Total}} Passed)</h2>
                <table>
                    <thead>
                        <tr>
                            <th>Threshold</th>
                            <th>Algorithm</th>
                            <th>Expected (ns)</th>
                            <th>Actual (ns)</th>
                            <th>Status</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .ThresholdSummary.Results}}
                        <tr>
                            <td>{{.Threshold}}</td>
                            <td>{{.Algorithm}} ({{.Aggregate}})</td>
                            <td>{{.Operator}} {{formatFloat .Expected}}</td>
                            <td>{{formatFloat .Actual}}</td>
                            <td>
                                {{if .Pass}}
                                <span class="badge badge-success">✓ PASS</span>
                                {{else}}
                                <span class="badge badge-error">✗ FAIL</span>
                                {{end}}
                            </td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}

            {{if .Report.Baseline}}
            <div class="section">
                <h2>Baseline Comparison</h2>
                <table>
                    <thead>
                        <tr>
                            <th>Algorithm</th>
                            <th>Width</th>
                            <th>Current</th>
                            <th>Baseline</th>
                            <th>Ratio</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .Report.Baseline}}
                        <tr>
                            <td>{{.Algorithm}}</td>
                            <td>{{.Width}}</td>
                            <td>{{formatNs .Current}}</td>
                            <td>{{formatNs .Baseline}}</td>
                            <td>{{printf "%.2fx" .Ratio}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}
        </div>
    </div>

    {{if .Widths}}
    <script>
        const chart = JSON.parse({{.ChartJSON}});
        const palette = ["#2563eb", "#dc2626", "#059669", "#d97706", "#7c3aed"];
        const el = document.getElementById('mean-chart');

        new uPlot({
            width: el.offsetWidth,
            height: 360,
            scales: { x: { time: false, distr: 3, log: 2 } },
            series: [{ label: "Width (rows)" }].concat(chart.series.map((s, i) => ({
                label: s.label,
                stroke: palette[i % palette.length],
                width: 2,
                points: { show: true }
            }))),
            axes: [
                { label: "Matrix width (rows)" },
                { label: "Mean time per call (ns)" }
            ]
        }, [chart.widths].concat(chart.series.map(s => s.means)), el);
    </script>
    {{end}}
</body>
</html>
`
