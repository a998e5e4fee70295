// Package metrics provides Prometheus instrumentation for HTTP traffic,
// retry activity, the audit trail, and the trust center artifact index.
package metrics
