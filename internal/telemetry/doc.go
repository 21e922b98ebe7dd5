// Package telemetry provides OpenTelemetry initialization and helpers
// for tracing the chefvoice server.
//
// Traces, metrics and logs are exported over OTLP/HTTP when an endpoint is
// configured; otherwise the global no-op providers stay in place.
package telemetry
