// Package telemetry groups the observability subpackages for Trustdesk.
//
//   - logging: structured logging with sensitive-value redaction
//   - metrics: Prometheus metrics collection
//
// Both are injected into the components that need them rather than
// accessed through package-level state.
package telemetry
