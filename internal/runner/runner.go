package runner

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/torosent/searchbench/internal/generator"
	"github.com/torosent/searchbench/internal/metrics"
	"github.com/torosent/searchbench/internal/search"
	"github.com/torosent/searchbench/internal/tracing"
)

// Result captures the outcome of a sweep.
type Result struct {
	Series     []metrics.Series
	Mismatches []Mismatch
	Duration   time.Duration
}

// Mismatch records an algorithm disagreeing with the reference answer (the
// first configured algorithm) during verification.
type Mismatch struct {
	Width     int             `json:"width"`
	Target    int             `json:"target"`
	Algorithm string          `json:"algorithm"`
	Reference string          `json:"reference"`
	Want      search.Position `json:"want"`
	Got       search.Position `json:"got"`
}

func (m Mismatch) Error() string {
	return fmt.Sprintf("width %d target %d: %s returned %s, %s returned %s",
		m.Width, m.Target, m.Algorithm, m.Got, m.Reference, m.Want)
}

// Runner sweeps matrix widths and times every algorithm against the same
// generated matrix. It runs on the calling goroutine.
type Runner struct {
	opt Options
}

// sink keeps search results observable so calls are never elided.
var sink search.Position

func New(opt Options) *Runner {
	opt.normalize()
	return &Runner{opt: opt}
}

// Collector returns the collector timings are recorded into.
func (r *Runner) Collector() *metrics.Collector {
	return r.opt.Collector
}

// Run validates the options and performs the sweep. Cancellation is checked
// between widths and between algorithms; a cancelled run returns the partial
// result together with the context error.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if err := r.opt.Validate(); err != nil {
		return Result{}, err
	}

	start := r.opt.Now()
	widths := r.opt.Widths()
	collector := r.opt.Collector
	for _, alg := range r.opt.Algorithms {
		collector.Register(alg.Name, alg.Label)
	}
	limiter := r.opt.LimiterFactory(r.opt.RatePerSecond)

	var result Result
	finish := func(err error) (Result, error) {
		result.Series = collector.Series()
		result.Duration = r.opt.Now().Sub(start)
		return result, err
	}

	for i, width := range widths {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		collector.BeginWidth(width, i, len(widths))
		mismatches, err := r.runWidth(ctx, limiter, width)
		result.Mismatches = append(result.Mismatches, mismatches...)
		if err != nil {
			return finish(err)
		}
		collector.FinishWidth()
	}

	return finish(nil)
}

func (r *Runner) runWidth(ctx context.Context, limiter *rate.Limiter, width int) (mismatches []Mismatch, err error) {
	ctx, span := tracing.StartWidthSpan(ctx, r.opt.Tracer, width, r.opt.Columns, r.opt.Repetitions)
	var attrs []attribute.KeyValue
	defer func() {
		tracing.EndSpan(span, err, attrs...)
	}()

	table := r.opt.Generator(width, r.opt.Columns)

	if r.opt.Verify {
		mismatches = verify(r.opt.Algorithms, table, width)
		for _, m := range mismatches {
			r.opt.Logger.Warn("search results disagree",
				"width", width,
				"algorithm", m.Algorithm,
				"reference", m.Reference,
				"want", m.Want.String(),
				"got", m.Got.String(),
			)
		}
		attrs = append(attrs, tracing.AttrMismatches.Int(len(mismatches)))
	}

	for _, alg := range r.opt.Algorithms {
		if err := ctx.Err(); err != nil {
			return mismatches, err
		}
		r.opt.Collector.BeginAlgorithm(alg.Name)
		mean, err := r.timeAlgorithm(ctx, limiter, alg, width, table)
		if err != nil {
			return mismatches, err
		}
		r.opt.Logger.Debug("algorithm timed",
			"width", width,
			"algorithm", alg.Name,
			"repetitions", r.opt.Repetitions,
			"mean", mean,
		)
	}
	return mismatches, nil
}

// timeAlgorithm times Repetitions calls of alg and returns their mean. Only
// the search call itself sits between the two clock readings.
func (r *Runner) timeAlgorithm(ctx context.Context, limiter *rate.Limiter, alg search.Algorithm, width int, table generator.Table) (mean time.Duration, err error) {
	ctx, span := tracing.StartAlgorithmSpan(ctx, r.opt.Tracer, alg.Name)
	defer func() {
		tracing.EndSpan(span, err, tracing.AttrMeanNs.Int64(int64(mean)))
	}()

	var total time.Duration
	for i := 0; i < r.opt.Repetitions; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return 0, err
			}
		}
		begin := r.opt.Now()
		sink = alg.Run(table.Matrix, table.Target)
		elapsed := r.opt.Now().Sub(begin)

		r.opt.Collector.Record(alg.Name, width, elapsed)
		total += elapsed
	}

	return total / time.Duration(r.opt.Repetitions), nil
}

// verify runs every algorithm once and compares it with the first one. Two
// answers agree when both miss, or when both name a cell holding the target.
func verify(algs []search.Algorithm, table generator.Table, width int) []Mismatch {
	if len(algs) < 2 {
		return nil
	}
	reference := algs[0]
	want := reference.Run(table.Matrix, table.Target)
	wantHit := holdsTarget(table, want)

	var mismatches []Mismatch
	for _, alg := range algs[1:] {
		got := alg.Run(table.Matrix, table.Target)
		agree := got == want || (wantHit && holdsTarget(table, got))
		if !want.Found() {
			agree = !got.Found()
		}
		if !agree {
			mismatches = append(mismatches, Mismatch{
				Width:     width,
				Target:    table.Target,
				Algorithm: alg.Name,
				Reference: reference.Name,
				Want:      want,
				Got:       got,
			})
		}
	}
	return mismatches
}

func holdsTarget(table generator.Table, p search.Position) bool {
	if !p.Found() || p.Row < 0 || p.Row >= len(table.Matrix) {
		return false
	}
	row := table.Matrix[p.Row]
	return p.Col >= 0 && p.Col < len(row) && row[p.Col] == table.Target
}
