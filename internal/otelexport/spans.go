package otelexport

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sd37/myetrace/internal/timesync"
)

// SpanEmitter mirrors resolved HTTP correlations as client spans with
// explicit start and end timestamps taken from the event pair.
type SpanEmitter struct {
	tracer trace.Tracer
	conv   *timesync.Converter
}

// NewSpanEmitter creates a span emitter over the given tracer.
func NewSpanEmitter(tracer trace.Tracer, conv *timesync.Converter) *SpanEmitter {
	return &SpanEmitter{tracer: tracer, conv: conv}
}

// ObserveResolved emits one span for a resolved begin/end pair.
func (e *SpanEmitter) ObserveResolved(operationKey string, correlationID uint64, pid uint32, startNanos, endNanos uint64) {
	startTime := e.conv.ToWallClock(startNanos)
	endTime := e.conv.ToWallClock(endNanos)

	_, span := e.tracer.Start(context.Background(), "http.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithTimestamp(startTime),
	)

	var elapsedNanos uint64
	if endNanos > startNanos {
		elapsedNanos = endNanos - startNanos
	}

	//nolint:gosec // uint64 to int64 conversion for duration is safe
	span.SetAttributes(
		attribute.String("url.full", operationKey),
		attribute.Int64("http.activity_id", int64(correlationID)),
		attribute.Int("process.pid", int(pid)),
		attribute.Int64("http.request.duration_ns", int64(elapsedNanos)),
	)
	span.SetStatus(codes.Ok, "request completed")
	span.End(trace.WithTimestamp(endTime))
}
