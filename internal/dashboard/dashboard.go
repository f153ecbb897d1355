package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/torosent/searchbench/internal/metrics"
)

// SweepConfig holds the sweep parameters shown in the header.
type SweepConfig struct {
	Generator   string // Matrix generator name
	Columns     int    // Fixed column count
	MinExponent int    // Smallest width is 2^MinExponent
	MaxExponent int    // Largest width is 2^MaxExponent
	Repetitions int    // Timed calls per algorithm per width
	Rate        int    // Calls per second (0 = unlimited)
	ConfigFile  string // Path to config file if used
}

// Dashboard renders a live terminal UI of the per-algorithm time series.
type Dashboard struct {
	collector    *metrics.Collector
	ctx          context.Context
	cancel       context.CancelFunc
	shutdownFunc func()
	wg           sync.WaitGroup
	mu           sync.Mutex

	// Widgets
	grid        *ui.Grid
	plot        *widgets.Plot
	progress    *widgets.Gauge
	summaryPara *widgets.Paragraph
	meanTable   *widgets.Table
	overallList *widgets.List

	startTime time.Time
	config    SweepConfig
}

var lineColors = []ui.Color{ui.ColorGreen, ui.ColorYellow, ui.ColorMagenta, ui.ColorCyan, ui.ColorRed}

// New creates a new Dashboard.
func New(collector *metrics.Collector, cfg SweepConfig, shutdownFunc func()) (*Dashboard, error) {
	if err := ui.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize termui: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	d := &Dashboard{
		collector:    collector,
		ctx:          ctx,
		cancel:       cancel,
		shutdownFunc: shutdownFunc,
		startTime:    time.Now(),
		config:       cfg,
	}

	d.initWidgets()
	d.setupGrid()

	return d, nil
}

func (d *Dashboard) initWidgets() {
	d.summaryPara = widgets.NewParagraph()
	d.summaryPara.Title = "Sweep"
	d.summaryPara.Text = "Initializing..."
	d.summaryPara.BorderStyle.Fg = ui.ColorCyan

	d.progress = widgets.NewGauge()
	d.progress.Title = "Widths Completed"
	d.progress.BarColor = ui.ColorBlue
	d.progress.BorderStyle.Fg = ui.ColorCyan
	d.progress.LabelStyle = ui.NewStyle(ui.ColorWhite)

	d.plot = widgets.NewPlot()
	d.plot.Title = "Mean time per call (ns) by width index"
	d.plot.Data = [][]float64{{0, 0}}
	d.plot.AxesColor = ui.ColorWhite
	d.plot.LineColors = lineColors
	d.plot.Marker = widgets.MarkerBraille
	d.plot.BorderStyle.Fg = ui.ColorCyan

	d.meanTable = widgets.NewTable()
	d.meanTable.Title = "Mean (ns)"
	d.meanTable.Rows = [][]string{{"width"}}
	d.meanTable.TextStyle = ui.NewStyle(ui.ColorWhite)
	d.meanTable.RowSeparator = false
	d.meanTable.BorderStyle.Fg = ui.ColorCyan

	d.overallList = widgets.NewList()
	d.overallList.Title = "Algorithms"
	d.overallList.Rows = []string{"Awaiting data"}
	d.overallList.TextStyle = ui.NewStyle(ui.ColorCyan)
	d.overallList.BorderStyle.Fg = ui.ColorCyan
}

func (d *Dashboard) setupGrid() {
	termWidth, termHeight := ui.TerminalDimensions()

	d.grid = ui.NewGrid()
	d.grid.SetRect(0, 0, termWidth, termHeight)

	d.grid.Set(
		ui.NewRow(0.14,
			ui.NewCol(0.65, d.summaryPara),
			ui.NewCol(0.35, d.progress),
		),
		ui.NewRow(0.56,
			ui.NewCol(0.65, d.plot),
			ui.NewCol(0.35, d.meanTable),
		),
		ui.NewRow(0.30,
			ui.NewCol(1.0, d.overallList),
		),
	)
}

// Start begins the dashboard update loop.
func (d *Dashboard) Start() {
	d.wg.Add(1)
	go d.run()
}

// Stop stops the dashboard and cleans up.
func (d *Dashboard) Stop() {
	d.cancel()
	d.wg.Wait()
	ui.Close()
	// Give terminal time to restore
	time.Sleep(100 * time.Millisecond)
}

func (d *Dashboard) run() {
	defer d.wg.Done()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	uiEvents := ui.PollEvents()

	d.render()

	for {
		select {
		case <-d.ctx.Done():
			for len(uiEvents) > 0 {
				<-uiEvents
			}
			return
		case e := <-uiEvents:
			select {
			case <-d.ctx.Done():
				return
			default:
			}

			switch e.ID {
			case "q", "<C-c>":
				if d.shutdownFunc != nil {
					d.shutdownFunc()
				}
				// Stop cancels the context once the sweep has unwound.
			case "<Resize>":
				payload := e.Payload.(ui.Resize)
				d.mu.Lock()
				d.grid.SetRect(0, 0, payload.Width, payload.Height)
				d.mu.Unlock()
				ui.Clear()
				d.render()
			}
		case <-ticker.C:
			d.update()
			d.render()
		}
	}
}

// update refreshes all widget data from the collector.
func (d *Dashboard) update() {
	d.mu.Lock()
	defer d.mu.Unlock()

	progress := d.collector.Progress()
	series := d.collector.Series()
	stats := d.collector.Stats(time.Since(d.startTime))

	d.summaryPara.Text = formatSummary(d.config, progress, time.Since(d.startTime))
	d.progress.Percent = progressPercent(progress)
	d.progress.Label = fmt.Sprintf("%d/%d", progress.CompletedWidths, progress.TotalWidths)

	d.plot.Data = plotData(series)
	d.plot.DataLabels = seriesNames(series)
	d.plot.Title = plotTitle(series)

	d.meanTable.Rows = meanTableRows(series)
	d.overallList.Rows = formatOverallRows(stats)
}

func (d *Dashboard) render() {
	d.mu.Lock()
	defer d.mu.Unlock()

	ui.Render(d.grid)
}

// plotData turns series into plot lines. termui needs at least two points
// per line, so short series are padded with zeros.
func plotData(series []metrics.Series) [][]float64 {
	if len(series) == 0 {
		return [][]float64{{0, 0}}
	}
	data := make([][]float64, 0, len(series))
	for _, s := range series {
		line := make([]float64, 0, max(len(s.Points), 2))
		for _, p := range s.Points {
			line = append(line, float64(p.MeanNs))
		}
		for len(line) < 2 {
			line = append(line, 0)
		}
		data = append(data, line)
	}
	return data
}

func seriesNames(series []metrics.Series) []string {
	names := make([]string, 0, len(series))
	for _, s := range series {
		names = append(names, s.Name)
	}
	return names
}

func plotTitle(series []metrics.Series) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		parts = append(parts, fmt.Sprintf("%s=%s", s.Name, colorName(lineColors[i%len(lineColors)])))
	}
	title := "Mean time per call (ns) by width index"
	if len(parts) > 0 {
		title += " | " + strings.Join(parts, " ")
	}
	return title
}

func colorName(c ui.Color) string {
	switch c {
	case ui.ColorGreen:
		return "green"
	case ui.ColorYellow:
		return "yellow"
	case ui.ColorMagenta:
		return "magenta"
	case ui.ColorCyan:
		return "cyan"
	case ui.ColorRed:
		return "red"
	default:
		return "white"
	}
}

// meanTableRows builds a header row of algorithm names followed by one row
// per width. Widths are taken from the first series since every algorithm
// is timed at every width.
func meanTableRows(series []metrics.Series) [][]string {
	header := []string{"width"}
	for _, s := range series {
		header = append(header, s.Name)
	}
	rows := [][]string{header}
	if len(series) == 0 {
		return rows
	}
	for i, p := range series[0].Points {
		row := []string{fmt.Sprintf("%d", p.Width)}
		for _, s := range series {
			cell := "-"
			if i < len(s.Points) && s.Points[i].Width == p.Width {
				cell = fmt.Sprintf("%d", s.Points[i].MeanNs)
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	return rows
}

func formatOverallRows(stats metrics.Stats) []string {
	if len(stats.Algorithms) == 0 {
		return []string{"[Awaiting data](fg:green)"}
	}
	rows := make([]string, 0, len(stats.Algorithms))
	for _, alg := range stats.Algorithms {
		label := alg.Label
		if label == "" {
			label = alg.Name
		}
		o := alg.Overall
		rows = append(rows, fmt.Sprintf("[%s](fg:cyan) | calls %d | mean %s | p50 %s | p99 %s | max %s",
			label,
			o.Count,
			time.Duration(o.MeanNs),
			time.Duration(o.P50Ns),
			time.Duration(o.P99Ns),
			time.Duration(o.MaxNs),
		))
	}
	return rows
}

func progressPercent(p metrics.Progress) int {
	if p.TotalWidths <= 0 {
		return 0
	}
	percent := p.CompletedWidths * 100 / p.TotalWidths
	if percent > 100 {
		percent = 100
	}
	return percent
}

func formatSummary(cfg SweepConfig, p metrics.Progress, elapsed time.Duration) string {
	current := "idle"
	if p.Width > 0 && p.CompletedWidths < p.TotalWidths {
		current = fmt.Sprintf("width %d", p.Width)
		if p.Algorithm != "" {
			current += " / " + p.Algorithm
		}
	}
	return fmt.Sprintf("%s\nElapsed: %s | Calls: %d | Current: %s | press q to stop",
		formatSweepParams(cfg),
		elapsed.Round(time.Second),
		p.Samples,
		current,
	)
}

// formatSweepParams formats the sweep configuration for display.
func formatSweepParams(cfg SweepConfig) string {
	var parts []string

	if cfg.Generator != "" {
		parts = append(parts, fmt.Sprintf("Generator: %s", cfg.Generator))
	}
	if cfg.Columns > 0 {
		parts = append(parts, fmt.Sprintf("Columns: %d", cfg.Columns))
	}
	parts = append(parts, fmt.Sprintf("Widths: 2^%d..2^%d", cfg.MinExponent, cfg.MaxExponent))
	if cfg.Repetitions > 0 {
		parts = append(parts, fmt.Sprintf("Repetitions: %d", cfg.Repetitions))
	}
	if cfg.Rate > 0 {
		parts = append(parts, fmt.Sprintf("Rate: %d/s", cfg.Rate))
	} else {
		parts = append(parts, "Rate: unlimited")
	}
	if cfg.ConfigFile != "" {
		parts = append(parts, fmt.Sprintf("Config: %s", cfg.ConfigFile))
	}

	return strings.Join(parts, " | ")
}
