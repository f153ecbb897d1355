// Package metrics collects search call durations and aggregates them into
// per-algorithm time series.
//
// # Collector
//
// The central [Collector] type groups timings by algorithm and matrix width:
//
//	collector := metrics.NewCollector()
//	collector.Register("staircase", "Staircase search")
//	collector.Start()
//
//	collector.Record("staircase", 64, elapsed)
//
//	stats := collector.Stats(collector.Elapsed())
//
// # Statistics
//
// Each [SamplePoint] carries the call count, the mean (integer nanoseconds,
// truncated), min, max and P50/P90/P99 from an HDR histogram. [Stats] holds
// one [AlgorithmStats] per registered algorithm: its width-ordered [Series]
// and an overall [Summary] across every width.
//
// # Progress
//
// The harness reports its sweep position with [Collector.BeginWidth],
// [Collector.BeginAlgorithm] and [Collector.FinishWidth]; reporters read it
// back with [Collector.Progress].
//
// # Thread Safety
//
// All methods lock a single mutex. Progress reporters and the dashboard poll
// the collector from their own goroutines while the harness records.
package metrics
