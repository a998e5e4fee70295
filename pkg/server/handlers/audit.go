package handlers

import (
	"net/http"
	"strconv"

	"paythru/trustdesk/pkg/audit"
)

// AuditHandler serves the audit trail read API.
type AuditHandler struct {
	store audit.Store
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(store audit.Store) *AuditHandler {
	return &AuditHandler{store: store}
}

// Register attaches the audit routes to the mux.
func (h *AuditHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/audit", h.recent)
}

// recent returns the newest audit records. The limit query parameter caps
// the result (default 100, max 1000).
func (h *AuditHandler) recent(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if limit > 1000 {
		limit = 1000
	}

	records, err := h.store.Recent(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	if records == nil {
		records = []*audit.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}
