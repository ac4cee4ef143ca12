// Package telemetry wires the rule engine's observability stack.
//
// Setup builds the structured logger, the Prometheus collector and the
// OpenTelemetry tracer from one telemetry configuration section. The
// subpackages can also be used on their own:
//
//   - logging: slog loggers with request-scoped attributes
//   - metrics: Prometheus metrics and the scrape handler
//   - tracing: OpenTelemetry spans exported over OTLP/gRPC
//   - health: liveness, readiness and version endpoints
package telemetry
