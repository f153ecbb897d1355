package metrics_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/torosent/searchbench/internal/metrics"
)

func TestCollectorWidthStats(t *testing.T) {
	c := metrics.NewCollector()
	c.Register("staircase", "Staircase search")

	// Record deterministic durations.
	for _, d := range []time.Duration{100, 200, 300, 400, 501} {
		c.Record("staircase", 8, d*time.Nanosecond)
	}

	stats := c.Stats(0)
	if len(stats.Algorithms) != 1 {
		t.Fatalf("expected 1 algorithm, got %d", len(stats.Algorithms))
	}
	alg := stats.Algorithms[0]
	if alg.Name != "staircase" || alg.Label != "Staircase search" {
		t.Errorf("unexpected name/label %q/%q", alg.Name, alg.Label)
	}
	if len(alg.Points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(alg.Points))
	}
	p := alg.Points[0]
	if p.Width != 8 {
		t.Errorf("expected width 8, got %d", p.Width)
	}
	if p.Count != 5 {
		t.Errorf("expected count 5, got %d", p.Count)
	}
	// 1501 / 5 truncates to 300.
	if p.MeanNs != 300 {
		t.Errorf("expected mean 300ns, got %d", p.MeanNs)
	}
	if p.MinNs != 100 {
		t.Errorf("expected min 100ns, got %d", p.MinNs)
	}
	if p.MaxNs != 501 {
		t.Errorf("expected max 501ns, got %d", p.MaxNs)
	}
	if alg.Overall != p.Summary {
		t.Errorf("overall %+v should equal the only width %+v", alg.Overall, p.Summary)
	}
	if stats.Samples != 5 {
		t.Errorf("expected 5 samples, got %d", stats.Samples)
	}
}

func TestPercentilesCalculations(t *testing.T) {
	c := metrics.NewCollector()

	// 100 samples: 1µs, 2µs, ..., 100µs.
	for i := 1; i <= 100; i++ {
		c.Record("binary", 1, time.Duration(i)*time.Microsecond)
	}

	p := c.Stats(0).Algorithms[0].Points[0]

	within := func(got int64, want time.Duration) bool {
		lo := int64(want - time.Microsecond)
		hi := int64(want + time.Microsecond)
		return got >= lo && got <= hi
	}
	if !within(p.P50Ns, 50*time.Microsecond) {
		t.Errorf("expected P50 ~50µs, got %dns", p.P50Ns)
	}
	if !within(p.P90Ns, 90*time.Microsecond) {
		t.Errorf("expected P90 ~90µs, got %dns", p.P90Ns)
	}
	if !within(p.P99Ns, 99*time.Microsecond) {
		t.Errorf("expected P99 ~99µs, got %dns", p.P99Ns)
	}
}

func TestSeriesOrdering(t *testing.T) {
	c := metrics.NewCollector()
	c.Register("binary", "Binary search")
	c.Register("staircase", "Staircase search")

	// Widths arrive out of order; series must be sorted by width.
	for _, w := range []int{4, 1, 2} {
		c.Record("staircase", w, time.Duration(w)*time.Microsecond)
		c.Record("binary", w, time.Duration(w)*time.Microsecond)
	}

	series := c.Series()
	if len(series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(series))
	}
	if series[0].Name != "binary" || series[1].Name != "staircase" {
		t.Fatalf("series not in registration order: %q, %q", series[0].Name, series[1].Name)
	}
	for _, s := range series {
		want := []int{1, 2, 4}
		if len(s.Points) != len(want) {
			t.Fatalf("%s: expected %d points, got %d", s.Name, len(want), len(s.Points))
		}
		for i, p := range s.Points {
			if p.Width != want[i] {
				t.Errorf("%s: point %d width %d, want %d", s.Name, i, p.Width, want[i])
			}
		}
		last, ok := s.Last()
		if !ok || last.Width != 4 {
			t.Errorf("%s: Last() = %+v, %v", s.Name, last, ok)
		}
	}
}

func TestRegisteredAlgorithmWithoutSamples(t *testing.T) {
	c := metrics.NewCollector()
	c.Register("staircase-exp", "Staircase exponential search")

	stats := c.Stats(time.Second)
	alg, ok := stats.Algorithm("staircase-exp")
	if !ok {
		t.Fatal("expected registered algorithm in stats")
	}
	if len(alg.Points) != 0 || alg.Overall.Count != 0 {
		t.Errorf("expected empty stats, got %+v", alg)
	}
	if _, ok := alg.Last(); ok {
		t.Error("Last() on empty series should report false")
	}
	if _, ok := stats.Algorithm("missing"); ok {
		t.Error("unexpected stats for unregistered algorithm")
	}
}

func TestZeroAndNegativeDurations(t *testing.T) {
	c := metrics.NewCollector()
	c.Record("binary", 1, 0)
	c.Record("binary", 1, -5)

	p := c.Stats(0).Algorithms[0].Points[0]
	if p.MeanNs != 0 || p.MinNs != 0 {
		t.Errorf("expected zero mean/min, got %+v", p.Summary)
	}
	if p.Count != 2 {
		t.Errorf("expected count 2, got %d", p.Count)
	}
}

func TestProgressTracking(t *testing.T) {
	c := metrics.NewCollector()
	c.BeginWidth(16, 4, 14)
	c.BeginAlgorithm("binary")
	c.Record("binary", 16, time.Microsecond)

	p := c.Progress()
	if p.Width != 16 || p.Algorithm != "binary" || p.CompletedWidths != 4 || p.TotalWidths != 14 || p.Samples != 1 {
		t.Errorf("unexpected progress %+v", p)
	}

	c.FinishWidth()
	p = c.Progress()
	if p.CompletedWidths != 5 || p.Algorithm != "" {
		t.Errorf("unexpected progress after finish %+v", p)
	}
}

func TestJSONReportSchema(t *testing.T) {
	c := metrics.NewCollector()
	c.Record("binary", 2, 1500*time.Nanosecond)
	c.Record("binary", 2, 2500*time.Nanosecond)

	data, err := json.Marshal(c.Stats(100 * time.Millisecond))
	if err != nil {
		t.Fatalf("failed to marshal stats: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal stats: %v", err)
	}
	if decoded["duration_ms"].(float64) != 100 {
		t.Errorf("expected duration_ms 100, got %v", decoded["duration_ms"])
	}
	algs := decoded["algorithms"].([]interface{})
	alg := algs[0].(map[string]interface{})
	if alg["name"] != "binary" {
		t.Errorf("expected name binary, got %v", alg["name"])
	}
	point := alg["points"].([]interface{})[0].(map[string]interface{})
	for _, key := range []string{"width", "count", "mean_ns", "min_ns", "max_ns", "p50_ns", "p90_ns", "p99_ns"} {
		if _, ok := point[key]; !ok {
			t.Errorf("point missing %q: %v", key, point)
		}
	}
	if point["mean_ns"].(float64) != 2000 {
		t.Errorf("expected mean_ns 2000, got %v", point["mean_ns"])
	}
	if _, ok := alg["overall"]; !ok {
		t.Error("algorithm missing overall summary")
	}
}

func TestCollectorConcurrentReads(t *testing.T) {
	c := metrics.NewCollector()
	c.Register("binary", "Binary search")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			c.Record("binary", 1<<(i%8), time.Duration(i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = c.Stats(c.Elapsed())
			_ = c.Progress()
		}
	}()
	wg.Wait()

	if got := c.Stats(0).Samples; got != 1000 {
		t.Fatalf("expected 1000 samples, got %d", got)
	}
}
