// Package server assembles the Trustdesk HTTP server.
//
// It ties together the registry API, the audit trail, the public trust
// center portal, health probes, and the metrics endpoint, wraps them in
// the middleware chain (recovery, request ID, logging, metrics, the CORS
// origin guard, and the trust center Content-Security-Policy), and
// manages server lifecycle: start, signal handling, and graceful
// shutdown.
package server
