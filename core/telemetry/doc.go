// Package telemetry exposes Prometheus metrics and OpenTelemetry tracing for
// the reconciliation engine.
//
// Metrics are registered once via Init. Every recording helper is a no-op
// until Init has run, so packages may call them unconditionally (tests
// included).
//
// Tracing is enabled by setting telemetry.otlp_endpoint. Without it the global
// no-op tracer is used and StartSpan costs next to nothing.
package telemetry
