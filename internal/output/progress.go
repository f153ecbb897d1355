package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/torosent/searchbench/internal/metrics"
)

// ProgressReporter displays real-time progress updates.
type ProgressReporter struct {
	collector *metrics.Collector
	ticker    *time.Ticker
	done      chan struct{}
	finished  chan struct{}
	writer    io.Writer
	active    int32
	start     time.Time
}

// NewProgressReporter creates a progress reporter that updates at the given interval.
func NewProgressReporter(collector *metrics.Collector, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		collector: collector,
		ticker:    time.NewTicker(interval),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
		writer:    writer,
		start:     time.Now(),
	}
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run()
}

// Stop halts progress updates.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
		return
	}
	p.ticker.Stop()
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			fmt.Fprint(p.writer, "\r"+progressLine(p.collector.Progress(), time.Since(p.start)))
		case <-p.done:
			return
		}
	}
}

func progressLine(progress metrics.Progress, elapsed time.Duration) string {
	line := fmt.Sprintf("Widths: %d/%d | Calls: %d | Elapsed: %s",
		progress.CompletedWidths, progress.TotalWidths, progress.Samples, elapsed.Truncate(time.Second))
	if progress.Width > 0 && progress.CompletedWidths < progress.TotalWidths {
		line += fmt.Sprintf(" | Width: %d", progress.Width)
		if progress.Algorithm != "" {
			line += fmt.Sprintf(" (%s)", progress.Algorithm)
		}
	}
	return line
}
