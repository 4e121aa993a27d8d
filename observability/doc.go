// Package observability sets up OpenTelemetry tracing and metrics export and
// exposes the span helpers and instruments the ingestion path records into.
//
// When export is disabled the global no-op providers stay in place, so
// StartSpan and Metrics are always safe to call.
package observability
