package middleware

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// CORSConfig contains configuration for the origin guard.
type CORSConfig struct {
	// Enabled controls whether CORS handling is enabled.
	Enabled bool

	// AllowedOrigins is the list of allowed origin patterns. An entry is
	// either a literal origin or contains a single "*" standing in for
	// exactly one DNS label ("https://trust.*.paythru.com").
	AllowedOrigins []string

	// AllowedMethods is the list of allowed HTTP methods.
	AllowedMethods []string

	// AllowedHeaders is the list of allowed HTTP request headers.
	AllowedHeaders []string

	// ExposedHeaders is the explicit list of response headers readable by
	// browser clients. Never a wildcard.
	ExposedHeaders []string

	// MaxAge is the maximum age (in seconds) for preflight cache.
	MaxAge int

	// AllowCredentials controls whether credentials are allowed.
	AllowCredentials bool
}

// originMatcher matches one configured origin pattern.
type originMatcher struct {
	literal string
	pattern *regexp.Regexp
}

func (m originMatcher) matches(origin string) bool {
	if m.pattern != nil {
		return m.pattern.MatchString(origin)
	}
	return m.literal == origin
}

// compileOriginMatchers turns configured patterns into matchers. A "*" in
// a pattern matches exactly one DNS label: it never crosses a dot, so
// "https://trust.*.paythru.com" admits "https://trust.eu.paythru.com" but
// not "https://trust.a.b.paythru.com" or a registrable-domain lookalike.
func compileOriginMatchers(patterns []string) []originMatcher {
	matchers := make([]originMatcher, 0, len(patterns))
	for _, p := range patterns {
		if !strings.Contains(p, "*") {
			matchers = append(matchers, originMatcher{literal: p})
			continue
		}
		quoted := regexp.QuoteMeta(p)
		expr := "^" + strings.Replace(quoted, `\*`, `[^.]+`, 1) + "$"
		re, err := regexp.Compile(expr)
		if err != nil {
			// QuoteMeta output always compiles; skip just in case.
			continue
		}
		matchers = append(matchers, originMatcher{pattern: re})
	}
	return matchers
}

// CORSMiddleware enforces the origin guard. Requests without an Origin
// header are same-origin or non-browser traffic and pass through without
// CORS headers. Requests from an allowed origin get the standard CORS
// response headers; preflight OPTIONS requests are answered with 204.
// Disallowed origins pass through without CORS headers, which makes the
// browser block the response.
func CORSMiddleware(config *CORSConfig) func(http.Handler) http.Handler {
	matchers := compileOriginMatchers(config.AllowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Responses differ by requesting origin.
			w.Header().Add("Vary", "Origin")

			if originAllowed(origin, matchers) {
				w.Header().Set("Access-Control-Allow-Origin", origin)

				if config.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}

				if len(config.ExposedHeaders) > 0 {
					w.Header().Set("Access-Control-Expose-Headers", strings.Join(config.ExposedHeaders, ", "))
				}

				if r.Method == http.MethodOptions {
					if len(config.AllowedMethods) > 0 {
						w.Header().Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
					}
					if len(config.AllowedHeaders) > 0 {
						w.Header().Set("Access-Control-Allow-Headers", strings.Join(config.AllowedHeaders, ", "))
					}
					if config.MaxAge > 0 {
						w.Header().Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
					}
					w.WriteHeader(http.StatusNoContent)
					return
				}
			} else if r.Method == http.MethodOptions {
				// Preflight from a disallowed origin gets no CORS grants.
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed checks an origin against the compiled matchers.
func originAllowed(origin string, matchers []originMatcher) bool {
	for _, m := range matchers {
		if m.matches(origin) {
			return true
		}
	}
	return false
}
