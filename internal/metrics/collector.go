package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	lowestTrackableNs  = 1
	highestTrackableNs = int64(10 * time.Second)
	significantFigures = 3
)

// Collector records per-call search durations grouped by algorithm and
// matrix width. It is safe for concurrent use so that reporters can read it
// while the harness records.
type Collector struct {
	mu         sync.Mutex
	order      []string
	algorithms map[string]*algorithmState
	progress   Progress
	start      time.Time
}

type algorithmState struct {
	label   string
	overall *bucket
	widths  []int
	byWidth map[int]*bucket
}

type bucket struct {
	hist  *hdrhistogram.Histogram
	count int64
	sum   time.Duration
	min   time.Duration
	max   time.Duration
}

// Summary aggregates a set of timed calls. Durations are in nanoseconds.
type Summary struct {
	Count  int64 `json:"count" yaml:"count"`
	MeanNs int64 `json:"mean_ns" yaml:"mean_ns"`
	MinNs  int64 `json:"min_ns" yaml:"min_ns"`
	MaxNs  int64 `json:"max_ns" yaml:"max_ns"`
	P50Ns  int64 `json:"p50_ns" yaml:"p50_ns"`
	P90Ns  int64 `json:"p90_ns" yaml:"p90_ns"`
	P99Ns  int64 `json:"p99_ns" yaml:"p99_ns"`
}

// SamplePoint is one algorithm's aggregate at one matrix width.
type SamplePoint struct {
	Width   int `json:"width" yaml:"width"`
	Summary `yaml:",inline"`
}

// Series is the width-ordered time series of one algorithm.
type Series struct {
	Name   string        `json:"name" yaml:"name"`
	Label  string        `json:"label" yaml:"label"`
	Points []SamplePoint `json:"points" yaml:"points"`
}

// AlgorithmStats is a series plus the summary over every recorded call.
type AlgorithmStats struct {
	Series  `yaml:",inline"`
	Overall Summary `json:"overall" yaml:"overall"`
}

// Stats is the aggregated view of a run.
type Stats struct {
	Algorithms []AlgorithmStats `json:"algorithms" yaml:"algorithms"`
	Samples    int64            `json:"samples" yaml:"samples"`
	Duration   time.Duration    `json:"-" yaml:"-"`
	DurationMs float64          `json:"duration_ms" yaml:"duration_ms"`
}

// Progress describes where the harness currently is in its sweep.
type Progress struct {
	Width           int    `json:"width"`
	Algorithm       string `json:"algorithm"`
	CompletedWidths int    `json:"completed_widths"`
	TotalWidths     int    `json:"total_widths"`
	Samples         int64  `json:"samples"`
}

func NewCollector() *Collector {
	return &Collector{
		algorithms: make(map[string]*algorithmState),
		start:      time.Now(),
	}
}

// Start marks the beginning of the run for elapsed-time reporting.
func (c *Collector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start = time.Now()
}

// Elapsed returns the time since Start.
func (c *Collector) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Since(c.start)
}

// Register declares an algorithm so that it appears in results in
// registration order even before it has samples.
func (c *Collector) Register(name, label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state(name).label = label
}

// Record stores one timed call of algorithm at the given matrix width.
func (c *Collector) Record(algorithm string, width int, elapsed time.Duration) {
	if elapsed < 0 {
		elapsed = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state(algorithm)
	b, ok := s.byWidth[width]
	if !ok {
		b = newBucket()
		s.byWidth[width] = b
		s.widths = append(s.widths, width)
		sort.Ints(s.widths)
	}
	b.record(elapsed)
	s.overall.record(elapsed)
	c.progress.Samples++
}

// BeginWidth records that the harness has started timing width.
func (c *Collector) BeginWidth(width, completed, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress.Width = width
	c.progress.CompletedWidths = completed
	c.progress.TotalWidths = total
	c.progress.Algorithm = ""
}

// BeginAlgorithm records the algorithm currently being timed.
func (c *Collector) BeginAlgorithm(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress.Algorithm = name
}

// FinishWidth marks the current width as complete.
func (c *Collector) FinishWidth() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress.CompletedWidths++
	c.progress.Algorithm = ""
}

// Progress returns a snapshot of the sweep position.
func (c *Collector) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

// Series returns the current per-algorithm series in registration order.
func (c *Collector) Series() []Series {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Series, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.seriesLocked(name))
	}
	return out
}

// Stats computes the aggregated statistics of everything recorded so far.
func (c *Collector) Stats(elapsed time.Duration) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		Algorithms: make([]AlgorithmStats, 0, len(c.order)),
		Samples:    c.progress.Samples,
		Duration:   elapsed,
		DurationMs: float64(elapsed) / float64(time.Millisecond),
	}
	for _, name := range c.order {
		stats.Algorithms = append(stats.Algorithms, AlgorithmStats{
			Series:  c.seriesLocked(name),
			Overall: c.algorithms[name].overall.summary(),
		})
	}
	return stats
}

// Algorithm returns the stats of a single algorithm.
func (s Stats) Algorithm(name string) (AlgorithmStats, bool) {
	for _, a := range s.Algorithms {
		if a.Name == name {
			return a, true
		}
	}
	return AlgorithmStats{}, false
}

// Last returns the point at the largest width, if any.
func (s Series) Last() (SamplePoint, bool) {
	if len(s.Points) == 0 {
		return SamplePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

func (c *Collector) state(name string) *algorithmState {
	s, ok := c.algorithms[name]
	if !ok {
		s = &algorithmState{
			label:   name,
			overall: newBucket(),
			byWidth: make(map[int]*bucket),
		}
		c.algorithms[name] = s
		c.order = append(c.order, name)
	}
	return s
}

func (c *Collector) seriesLocked(name string) Series {
	s := c.algorithms[name]
	series := Series{
		Name:   name,
		Label:  s.label,
		Points: make([]SamplePoint, 0, len(s.widths)),
	}
	for _, w := range s.widths {
		series.Points = append(series.Points, SamplePoint{
			Width:   w,
			Summary: s.byWidth[w].summary(),
		})
	}
	return series
}

func newBucket() *bucket {
	// Track call durations from 1ns up to 10s with 3 significant figures.
	return &bucket{hist: hdrhistogram.New(lowestTrackableNs, highestTrackableNs, significantFigures)}
}

func (b *bucket) record(elapsed time.Duration) {
	ns := elapsed.Nanoseconds()
	if ns < b.hist.LowestTrackableValue() {
		ns = b.hist.LowestTrackableValue()
	}
	if ns > b.hist.HighestTrackableValue() {
		ns = b.hist.HighestTrackableValue()
	}
	_ = b.hist.RecordValue(ns)

	if b.count == 0 || elapsed < b.min {
		b.min = elapsed
	}
	if elapsed > b.max {
		b.max = elapsed
	}
	b.sum += elapsed
	b.count++
}

// summary computes the aggregate. The mean is the truncated integer
// division of the nanosecond sum by the call count.
func (b *bucket) summary() Summary {
	if b.count == 0 {
		return Summary{}
	}
	return Summary{
		Count:  b.count,
		MeanNs: int64(b.sum) / b.count,
		MinNs:  int64(b.min),
		MaxNs:  int64(b.max),
		P50Ns:  b.hist.ValueAtQuantile(50),
		P90Ns:  b.hist.ValueAtQuantile(90),
		P99Ns:  b.hist.ValueAtQuantile(99),
	}
}
