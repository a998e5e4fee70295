package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func testCORSConfig() *CORSConfig {
	return &CORSConfig{
		Enabled:          true,
		AllowedOrigins:   []string{"https://trust.paythru.com", "https://trust.*.paythru.com"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		MaxAge:           3600,
		AllowCredentials: true,
	}
}

func corsHandler(config *CORSConfig) http.Handler {
	return CORSMiddleware(config)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORS_LiteralOrigin(t *testing.T) {
	handler := corsHandler(testCORSConfig())

	req := httptest.NewRequest("GET", "/api/documents", nil)
	req.Header.Set("Origin", "https://trust.paythru.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://trust.paythru.com" {
		t.Errorf("Allow-Origin = %q, want the requesting origin", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials = %q, want true", got)
	}
	if got := rec.Header().Get("Access-Control-Expose-Headers"); got != "X-Request-ID" {
		t.Errorf("Expose-Headers = %q, want X-Request-ID", got)
	}
	if got := rec.Header().Get("Vary"); got != "Origin" {
		t.Errorf("Vary = %q, want Origin", got)
	}
}

func TestCORS_WildcardMatchesSingleLabel(t *testing.T) {
	handler := corsHandler(testCORSConfig())

	tests := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"staging label", "https://trust.staging.paythru.com", true},
		{"eu label", "https://trust.eu.paythru.com", true},
		{"two labels", "https://trust.a.b.paythru.com", false},
		{"empty label", "https://trust..paythru.com", false},
		{"dot not escaped", "https://trustXstagingXpaythruXcom", false},
		{"lookalike domain", "https://trust.staging.paythru.com.evil.example", false},
		{"prefix lookalike", "https://evil.example/?https://trust.staging.paythru.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/documents", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			got := rec.Header().Get("Access-Control-Allow-Origin")
			if tt.allowed && got != tt.origin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.origin)
			}
			if !tt.allowed && got != "" {
				t.Errorf("Allow-Origin = %q, want no CORS grant", got)
			}
		})
	}
}

func TestCORS_NoOriginHeader(t *testing.T) {
	handler := corsHandler(testCORSConfig())

	req := httptest.NewRequest("GET", "/api/documents", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (same-origin traffic passes through)", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want none without an Origin header", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	handler := corsHandler(testCORSConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/documents", nil)
	req.Header.Set("Origin", "https://trust.staging.paythru.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
		t.Errorf("Allow-Methods = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Authorization, Content-Type" {
		t.Errorf("Allow-Headers = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Max-Age"); got != "3600" {
		t.Errorf("Max-Age = %q, want 3600", got)
	}
}

func TestCORS_PreflightDisallowedOrigin(t *testing.T) {
	handler := corsHandler(testCORSConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/documents", nil)
	req.Header.Set("Origin", "https://attacker.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want no grant for disallowed origin", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "" {
		t.Errorf("Allow-Methods = %q, want no grant for disallowed origin", got)
	}
}

func TestCORS_Disabled(t *testing.T) {
	config := testCORSConfig()
	config.Enabled = false
	handler := corsHandler(config)

	req := httptest.NewRequest("GET", "/api/documents", nil)
	req.Header.Set("Origin", "https://trust.paythru.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want none when disabled", got)
	}
}

func TestCORS_NeverEmitsWildcardExposeHeaders(t *testing.T) {
	config := testCORSConfig()
	handler := corsHandler(config)

	req := httptest.NewRequest("GET", "/api/documents", nil)
	req.Header.Set("Origin", "https://trust.paythru.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Expose-Headers"); got == "*" {
		t.Error("Expose-Headers is a wildcard, want an explicit list")
	}
}
