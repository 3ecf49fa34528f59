// Package tracing wraps the otel tracer the service registers at startup so
// callers don't need a nil check at every span boundary.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var tracer trace.Tracer

// SetTracer installs the tracer used by StartSpan. Called once at startup;
// if never called, StartSpan is a no-op.
func SetTracer(t trace.Tracer) {
	tracer = t
}

// StartSpan starts a span named spanName if a tracer has been installed,
// otherwise returns ctx unchanged with a no-op span.
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	if tracer == nil {
		return trace.NewNoopTracerProvider().Tracer("noop").Start(ctx, spanName)
	}
	return tracer.Start(ctx, spanName)
}

// GetActiveSpan reports whether ctx carries a span with a valid context.
func GetActiveSpan(ctx context.Context) (trace.Span, bool) {
	span := trace.SpanFromContext(ctx)
	return span, span.SpanContext().IsValid()
}

// GetTraceID returns the active trace id, or "" if none.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().TraceID().String()
}

// GetSpanID returns the active span id, or "" if none.
func GetSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().SpanID().String()
}

// GetTraceParent formats the W3C traceparent header for outbound
// propagation (e.g. onto a Kafka event envelope).
func GetTraceParent(ctx context.Context) string {
	carrier := propagation.MapCarrier{}
	propagation.TraceContext{}.Inject(ctx, carrier)
	return carrier.Get("traceparent")
}
