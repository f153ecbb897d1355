package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span and attribute names recorded by the benchmark harness.
const (
	SpanWidth     = "searchbench.width"
	SpanAlgorithm = "searchbench.algorithm"

	AttrWidth       = attribute.Key("searchbench.width")
	AttrColumns     = attribute.Key("searchbench.columns")
	AttrRepetitions = attribute.Key("searchbench.repetitions")
	AttrAlgorithm   = attribute.Key("searchbench.algorithm")
	AttrMismatches  = attribute.Key("searchbench.mismatches")
	AttrMeanNs      = attribute.Key("searchbench.mean_ns")
)

// StartWidthSpan starts the span covering generation, verification and
// timing of one matrix width.
func StartWidthSpan(ctx context.Context, tracer trace.Tracer, width, columns, repetitions int) (context.Context, trace.Span) {
	return tracer.Start(ctx, SpanWidth,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			AttrWidth.Int(width),
			AttrColumns.Int(columns),
			AttrRepetitions.Int(repetitions),
		),
	)
}

// StartAlgorithmSpan starts a child span for the timed calls of one
// algorithm at one width.
func StartAlgorithmSpan(ctx context.Context, tracer trace.Tracer, algorithm string) (context.Context, trace.Span) {
	return tracer.Start(ctx, SpanAlgorithm,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(AttrAlgorithm.String(algorithm)),
	)
}

// EndSpan finishes a span, recording error status if applicable.
func EndSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
