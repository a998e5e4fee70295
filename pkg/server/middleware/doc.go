// Package middleware provides HTTP middleware for the Trustdesk server:
// panic recovery, request IDs, request logging, Prometheus metrics, the
// CORS origin guard, and the trust center Content-Security-Policy.
package middleware
