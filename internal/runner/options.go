package runner

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"

	"github.com/torosent/searchbench/internal/generator"
	"github.com/torosent/searchbench/internal/metrics"
	"github.com/torosent/searchbench/internal/search"
)

// maxExponent keeps 1<<MaxExponent rows allocatable.
const maxExponent = 24

// ErrInvalidOptions wraps every Options validation failure.
var ErrInvalidOptions = errors.New("invalid benchmark options")

// Options configure the Runner.
type Options struct {
	Generator      generator.Func              // builds the matrix for each width (required)
	Algorithms     []search.Algorithm          // algorithms to time, in report order (default: all)
	Columns        int                         // fixed column count n
	MinExponent    int                         // first width is 1<<MinExponent
	MaxExponent    int                         // last width is 1<<MaxExponent
	Repetitions    int                         // timed calls per algorithm per width
	RatePerSecond  int                         // timed calls per second (0 means unlimited)
	Verify         bool                        // cross-check answers before timing each width
	Collector      *metrics.Collector          // receives every timing (default: new collector)
	Logger         *slog.Logger                // default: discard
	Tracer         trace.Tracer                // default: no-op
	Now            func() time.Time            // clock; injected by tests
	LimiterFactory func(rps int) *rate.Limiter // optional injection for tests
}

// Validate reports every invalid field at once.
func (o Options) Validate() error {
	var issues []string
	if o.Generator == nil {
		issues = append(issues, "generator is required")
	}
	if o.Columns < 1 {
		issues = append(issues, "columns must be >= 1")
	}
	if o.Repetitions < 1 {
		issues = append(issues, "repetitions must be >= 1")
	}
	if o.RatePerSecond < 0 {
		issues = append(issues, "rate must be >= 0")
	}
	if o.MinExponent < 0 {
		issues = append(issues, "min exponent must be >= 0")
	}
	if o.MaxExponent < o.MinExponent {
		issues = append(issues, "max exponent must be >= min exponent")
	}
	if o.MaxExponent > maxExponent {
		issues = append(issues, fmt.Sprintf("max exponent must be <= %d", maxExponent))
	} else if o.Columns >= 1 && o.MaxExponent >= 0 && 1<<o.MaxExponent > o.Columns {
		issues = append(issues, fmt.Sprintf("largest width %d exceeds column count %d", 1<<o.MaxExponent, o.Columns))
	}
	for i, a := range o.Algorithms {
		if a.Run == nil {
			issues = append(issues, fmt.Sprintf("algorithms[%d]: %q has no search function", i, a.Name))
		}
	}
	if len(issues) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(issues, "; "))
	}
	return nil
}

// Widths returns the swept row counts in increasing order.
func (o Options) Widths() []int {
	if o.MaxExponent < o.MinExponent || o.MinExponent < 0 {
		return nil
	}
	widths := make([]int, 0, o.MaxExponent-o.MinExponent+1)
	for k := o.MinExponent; k <= o.MaxExponent; k++ {
		widths = append(widths, 1<<k)
	}
	return widths
}

func (o *Options) normalize() {
	if len(o.Algorithms) == 0 {
		o.Algorithms = search.All()
	}
	if o.Collector == nil {
		o.Collector = metrics.NewCollector()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Tracer == nil {
		o.Tracer = noop.NewTracerProvider().Tracer("searchbench")
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.LimiterFactory == nil {
		o.LimiterFactory = func(rps int) *rate.Limiter {
			if rps <= 0 {
				return rate.NewLimiter(rate.Inf, 0)
			}
			// Burst of one releases a single timed call at a time.
			return rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}
