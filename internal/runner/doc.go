// Package runner provides the benchmark harness for searchbench.
//
// The runner sweeps matrix widths over powers of two and, for each width:
//   - asks the generator for one matrix and target, shared by every algorithm
//   - optionally verifies that all algorithms agree, outside the timed path
//   - times each algorithm Repetitions times with the monotonic clock
//   - records every call into a [metrics.Collector]
//
// # Basic Usage
//
//	opts := runner.Options{
//		Generator:   generator.Linear,
//		Columns:     8192,
//		MinExponent: 0,
//		MaxExponent: 13,
//		Repetitions: 50,
//	}
//	r := runner.New(opts)
//	result, err := r.Run(ctx)
//
// The result holds one [metrics.Series] per algorithm with exactly one point
// per swept width, widths strictly increasing. Each point's mean is the
// truncated integer nanosecond mean of its calls.
//
// # Pacing
//
// RatePerSecond paces timed calls with a token bucket. The wait happens
// before the clock is read, so pacing never shows up in the measurements.
//
// # Tracing
//
// Each width runs inside a "searchbench.width" span with one
// "searchbench.algorithm" child per algorithm. Spans start and end outside
// the timed calls.
//
// # Errors
//
// Invalid options fail [Runner.Run] with an error wrapping
// [ErrInvalidOptions] before any matrix is built. Disagreements found by
// verification are returned as [Mismatch] values, not errors.
package runner
