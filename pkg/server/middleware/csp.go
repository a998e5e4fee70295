package middleware

import (
	"net/http"
	"strings"
)

// trustCenterCSP is the Content-Security-Policy applied to the public
// trust center portal. Inline styles are allowed for the rendered
// document pages; scripts are restricted to same-origin.
const trustCenterCSP = "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline';"

// CSPMiddleware sets the trust center Content-Security-Policy header on
// responses under the given route prefix. Other routes are left alone so
// the internal API stays header-neutral for non-browser clients.
func CSPMiddleware(routePrefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if underPrefix(r.URL.Path, routePrefix) {
				w.Header().Set("Content-Security-Policy", trustCenterCSP)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// underPrefix reports whether path falls under the route prefix on a path
// segment boundary. "/trustx" is not under "/trust".
func underPrefix(path, prefix string) bool {
	if prefix == "" || prefix == "/" {
		return true
	}
	prefix = strings.TrimSuffix(prefix, "/")
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
