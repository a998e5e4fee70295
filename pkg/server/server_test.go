package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"paythru/trustdesk/pkg/audit"
	"paythru/trustdesk/pkg/config"
	"paythru/trustdesk/pkg/registry"
	"paythru/trustdesk/pkg/registry/storage"
	"paythru/trustdesk/pkg/retry"
	"paythru/trustdesk/pkg/telemetry/logging"
	"paythru/trustdesk/pkg/telemetry/metrics"
	"paythru/trustdesk/pkg/trustcenter"
)

type testEnv struct {
	server     *Server
	handler    http.Handler
	auditStore *audit.MemoryStore
	contentDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Server.CORS.AllowedOrigins = []string{"https://trust.paythru.com", "https://trust.*.paythru.com"}
	cfg.TrustCenter.ContentDir = t.TempDir()

	sink, err := logging.NewSlogSink(logging.Config{Level: "error", Writer: io.Discard})
	if err != nil {
		t.Fatalf("NewSlogSink() error = %v", err)
	}
	logger := logging.New(sink)

	m := metrics.New("")

	auditStore := audit.NewMemoryStore()
	recorder := audit.NewRecorder(auditStore, logger).WithCounter(m.AuditRecorded)

	opts := retry.DefaultOptions()
	opts.InitialDelay = time.Millisecond
	retrier := retry.New(logger, opts).WithObserver(m)

	service := registry.NewService(storage.NewMemoryStore(), retrier, recorder, logger)
	index := trustcenter.NewIndex(cfg.TrustCenter.ContentDir, logger).WithReloadHook(m.SetTrustCenterArtifacts)

	srv := New(cfg, logger, m, service, auditStore, index)
	return &testEnv{
		server:     srv,
		handler:    srv.Handler(),
		auditStore: auditStore,
		contentDir: cfg.TrustCenter.ContentDir,
	}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func TestDocumentCRUDOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/documents", map[string]any{
		"title": "Information Security Policy",
		"owner": "ciso@paythru.example",
	}, map[string]string{"X-User-ID": "alice@paythru.example"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var doc registry.Document
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode created document: %v", err)
	}
	if doc.ID == "" || doc.Status != registry.DocumentDraft {
		t.Errorf("created = %+v, want assigned ID and draft status", doc)
	}

	rec = env.do(t, "GET", "/api/documents/"+doc.ID, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	doc.Status = registry.DocumentPublished
	rec = env.do(t, "PUT", "/api/documents/"+doc.ID, doc, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, "GET", "/api/documents", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var docs []registry.Document
	if err := json.NewDecoder(rec.Body).Decode(&docs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("list = %d documents, want 1", len(docs))
	}

	rec = env.do(t, "DELETE", "/api/documents/"+doc.ID, nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = env.do(t, "GET", "/api/documents/"+doc.ID, nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestCreateDocument_ValidationError(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/documents", map[string]any{"owner": "x@paythru.example"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "title") {
		t.Errorf("error body = %s, want mention of title", rec.Body.String())
	}
}

func TestCreateDocument_MalformedJSON(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("POST", "/api/documents", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAuditTrailOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "POST", "/api/risks", map[string]any{
		"title": "Key person dependency", "likelihood": 2, "impact": 3,
	}, map[string]string{"X-User-ID": "bob@paythru.example"})

	rec := env.do(t, "GET", "/api/audit", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("audit status = %d", rec.Code)
	}
	var records []audit.Record
	if err := json.NewDecoder(rec.Body).Decode(&records); err != nil {
		t.Fatalf("decode audit: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("audit records = %d, want 1", len(records))
	}
	if records[0].Actor != "bob@paythru.example" {
		t.Errorf("actor = %q, want bob@paythru.example", records[0].Actor)
	}
	if records[0].EntityKind != "risk" {
		t.Errorf("entity kind = %q, want risk", records[0].EntityKind)
	}
}

func TestAudit_LimitValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/audit?limit=abc", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	rec = env.do(t, "GET", "/api/audit?limit=-1", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for negative limit", rec.Code)
	}
}

func TestTrustCenter_PublishedDocumentsOnly(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/documents", map[string]any{
		"title": "Security Overview", "owner": "ciso@paythru.example", "status": "published",
	}, nil)
	var published registry.Document
	if err := json.NewDecoder(rec.Body).Decode(&published); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = env.do(t, "POST", "/api/documents", map[string]any{
		"title": "Internal Runbook", "owner": "secops@paythru.example",
	}, nil)
	var draft registry.Document
	if err := json.NewDecoder(rec.Body).Decode(&draft); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = env.do(t, "GET", "/trust/documents", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("trust list status = %d", rec.Code)
	}
	var docs []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&docs); err != nil {
		t.Fatalf("decode trust list: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("trust list = %d docs, want only the published one", len(docs))
	}
	if _, leaked := docs[0]["owner"]; leaked {
		t.Error("trust center response leaks the owner field")
	}

	rec = env.do(t, "GET", "/trust/documents/"+draft.ID, nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unpublished document status = %d, want 404", rec.Code)
	}
}

func TestTrustCenter_CSPHeader(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/trust/documents", nil, nil)
	want := "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline';"
	if got := rec.Header().Get("Content-Security-Policy"); got != want {
		t.Errorf("trust route CSP = %q, want %q", got, want)
	}

	rec = env.do(t, "GET", "/api/documents", nil, nil)
	if got := rec.Header().Get("Content-Security-Policy"); got != "" {
		t.Errorf("api route CSP = %q, want none", got)
	}
}

func TestTrustCenter_Artifacts(t *testing.T) {
	env := newTestEnv(t)

	path := filepath.Join(env.contentDir, "soc2-type2.pdf")
	if err := os.WriteFile(path, []byte("report contents"), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	if err := env.server.index.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	rec := env.do(t, "GET", "/trust/artifacts", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("artifact list status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "soc2-type2.pdf") {
		t.Errorf("artifact list = %s, want soc2-type2.pdf", rec.Body.String())
	}

	rec = env.do(t, "GET", "/trust/artifacts/soc2-type2.pdf", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("artifact fetch status = %d", rec.Code)
	}
	if rec.Body.String() != "report contents" {
		t.Errorf("artifact body = %q", rec.Body.String())
	}

	rec = env.do(t, "GET", "/trust/artifacts/absent.pdf", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("absent artifact status = %d, want 404", rec.Code)
	}
}

func TestCORSOnAPIRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/documents", nil, map[string]string{
		"Origin": "https://trust.eu.paythru.com",
	})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://trust.eu.paythru.com" {
		t.Errorf("Allow-Origin = %q, want the wildcard-matched origin", got)
	}

	rec = env.do(t, "GET", "/api/documents", nil, map[string]string{
		"Origin": "https://attacker.example",
	})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want no grant", got)
	}
}

func TestHealthProbes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/healthz", nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}

	rec = env.do(t, "GET", "/readyz", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode readyz: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("readyz status field = %v, want ok", body["status"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "GET", "/api/documents", nil, nil)

	rec := env.do(t, "GET", "/metrics", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "trustdesk_http_requests_total") {
		t.Error("metrics output missing request counter")
	}
}

func TestRequestIDHeaderOnResponses(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/healthz", nil, nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/nope", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSupplierRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/suppliers", map[string]any{
		"name": "Acme Hosting", "contact_email": "security@acme.example", "risk_tier": "high",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create supplier status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var supplier registry.Supplier
	if err := json.NewDecoder(rec.Body).Decode(&supplier); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = env.do(t, "PUT", fmt.Sprintf("/api/suppliers/%s", supplier.ID), map[string]any{
		"name": "Acme Hosting", "contact_email": "security@acme.example",
		"risk_tier": "high", "status": "active", "dpa_signed": true,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("update supplier status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, "GET", "/api/suppliers/"+supplier.ID, nil, nil)
	var got registry.Supplier
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != registry.SupplierActive || !got.DPASigned {
		t.Errorf("supplier = %+v, want active with signed DPA", got)
	}
}
