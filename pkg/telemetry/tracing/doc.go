// Package tracing provides OpenTelemetry distributed tracing for the rule
// engine.
//
// When telemetry.tracing.enabled is false, New returns a noop tracer. When
// enabled, spans are batched to an OTLP/gRPC collector and sampled with
// "always", "never" or "ratio" (TraceIDRatioBased), each wrapped in
// ParentBased so incoming W3C traceparent decisions are honoured.
package tracing
