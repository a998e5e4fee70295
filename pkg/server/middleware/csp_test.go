package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCSP_AppliedUnderPrefix(t *testing.T) {
	handler := CSPMiddleware("/trust")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name    string
		path    string
		wantCSP bool
	}{
		{"prefix root", "/trust", true},
		{"nested path", "/trust/documents", true},
		{"deeply nested", "/trust/artifacts/soc2.pdf", true},
		{"api route", "/api/documents", false},
		{"segment lookalike", "/trustdesk", false},
		{"root", "/", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			got := rec.Header().Get("Content-Security-Policy")
			if tt.wantCSP && got != trustCenterCSP {
				t.Errorf("CSP = %q, want the trust center policy", got)
			}
			if !tt.wantCSP && got != "" {
				t.Errorf("CSP = %q, want none outside the prefix", got)
			}
		})
	}
}

func TestCSP_PolicyDirectives(t *testing.T) {
	want := "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline';"
	if trustCenterCSP != want {
		t.Errorf("policy = %q, want %q", trustCenterCSP, want)
	}
}
