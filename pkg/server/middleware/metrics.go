package middleware

import (
	"net/http"
	"time"

	"paythru/trustdesk/pkg/telemetry/metrics"
)

// MetricsMiddleware records request counts and latency per method and
// route. The route label uses the matched mux pattern when available so
// per-entity IDs do not explode the label cardinality.
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(r.Method, route, rw.statusCode, time.Since(start))
		})
	}
}
