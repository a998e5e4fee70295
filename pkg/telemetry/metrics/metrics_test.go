package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	m := New("")

	m.ObserveRequest("GET", "/api/documents", 200, 25*time.Millisecond)
	m.ObserveRequest("GET", "/api/documents", 200, 30*time.Millisecond)
	m.ObserveRequest("POST", "/api/documents", 500, 10*time.Millisecond)

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/documents", "200")); got != 2 {
		t.Errorf("requests_total{GET,200} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("POST", "/api/documents", "500")); got != 1 {
		t.Errorf("requests_total{POST,500} = %v, want 1", got)
	}
}

func TestRetryObserver(t *testing.T) {
	m := New("")

	m.RetryAttempted()
	m.RetryAttempted()
	m.RetriesExhausted()

	if got := testutil.ToFloat64(m.retryAttempts); got != 2 {
		t.Errorf("retry attempts = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.retryExhausted); got != 1 {
		t.Errorf("retry exhausted = %v, want 1", got)
	}
}

func TestAuditAndArtifactGauge(t *testing.T) {
	m := New("")

	m.AuditRecorded()
	m.SetTrustCenterArtifacts(7)

	if got := testutil.ToFloat64(m.auditRecords); got != 1 {
		t.Errorf("audit records = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.trustCenterArtifacts); got != 7 {
		t.Errorf("artifact gauge = %v, want 7", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New("")
	m.ObserveRequest("GET", "/healthz", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("metrics endpoint status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "trustdesk_http_requests_total") {
		t.Error("metrics output missing trustdesk_http_requests_total")
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Error("metrics output missing standard Go collector series")
	}
}
