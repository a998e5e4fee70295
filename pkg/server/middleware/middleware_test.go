package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"paythru/trustdesk/pkg/telemetry/logging"
	"paythru/trustdesk/pkg/telemetry/metrics"
)

func testLogger(buf *bytes.Buffer) *logging.Logger {
	sink, _ := logging.NewSlogSink(logging.Config{Level: "debug", Writer: buf})
	return logging.New(sink)
}

func TestRequestIDMiddleware_Generates(t *testing.T) {
	var captured string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if captured == "" {
		t.Fatal("no request ID in context")
	}
	if got := rec.Header().Get(RequestIDHeader); got != captured {
		t.Errorf("response header = %q, context = %q, want same ID", got, captured)
	}
}

func TestRequestIDMiddleware_PreservesClientID(t *testing.T) {
	var captured string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "client-id-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if captured != "client-id-42" {
		t.Errorf("request ID = %q, want client-id-42", captured)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	var buf bytes.Buffer
	handler := RecoveryMiddleware(testLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/panic", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if strings.Contains(body["error"], "boom") {
		t.Error("panic detail leaked to client")
	}
	if !strings.Contains(buf.String(), "panic in handler") {
		t.Error("panic not logged")
	}
}

func TestLoggingMiddleware_Severity(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"success", 200, `"level":"INFO"`},
		{"client error", 404, `"level":"WARN"`},
		{"server error", 503, `"level":"ERROR"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := LoggingMiddleware(testLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/x", nil))

			out := buf.String()
			if !strings.Contains(out, "request completed") {
				t.Fatalf("no completion log: %s", out)
			}
			if !strings.Contains(out, tt.wantLevel) {
				t.Errorf("log = %s, want %s", out, tt.wantLevel)
			}
		})
	}
}

func TestLoggingMiddleware_Fields(t *testing.T) {
	var buf bytes.Buffer
	chain := RequestIDMiddleware(LoggingMiddleware(testLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest("GET", "/api/risks", nil)
	req.Header.Set(RequestIDHeader, "req-77")
	chain.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{`"method":"GET"`, `"path":"/api/risks"`, `"status":200`, `"request_id":"req-77"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s: %s", want, out)
		}
	}
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New("")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/documents", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := MetricsMiddleware(m)(mux)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/documents", nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `route="GET /api/documents"`) {
		t.Errorf("metrics output missing route label: %s", firstLines(rec.Body.String(), 5))
	}
}

func TestGetStartTime(t *testing.T) {
	var captured time.Time
	handler := LoggingMiddleware(testLogger(&bytes.Buffer{}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetStartTime(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if captured.IsZero() {
		t.Error("start time not set in context")
	}
}

func firstLines(s string, n int) string {
	lines := strings.SplitN(s, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
