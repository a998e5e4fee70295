package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"paythru/trustdesk/pkg/registry"
	"paythru/trustdesk/pkg/trustcenter"
)

// publicDocument is the trust center view of a published document. It
// omits internal fields like owner and review state.
type publicDocument struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Version   string    `json:"version"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TrustCenterHandler serves the public trust center portal: published
// documents and downloadable artifacts.
type TrustCenterHandler struct {
	service *registry.Service
	index   *trustcenter.Index
	prefix  string
}

// NewTrustCenterHandler creates a TrustCenterHandler serving under the
// given route prefix.
func NewTrustCenterHandler(service *registry.Service, index *trustcenter.Index, prefix string) *TrustCenterHandler {
	return &TrustCenterHandler{
		service: service,
		index:   index,
		prefix:  strings.TrimSuffix(prefix, "/"),
	}
}

// Register attaches the trust center routes to the mux.
func (h *TrustCenterHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+h.prefix+"/documents", h.listDocuments)
	mux.HandleFunc("GET "+h.prefix+"/documents/{id}", h.getDocument)
	mux.HandleFunc("GET "+h.prefix+"/artifacts", h.listArtifacts)
	mux.HandleFunc("GET "+h.prefix+"/artifacts/{name}", h.getArtifact)
}

func (h *TrustCenterHandler) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.ListPublishedDocuments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]publicDocument, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toPublicDocument(doc))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *TrustCenterHandler) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.GetDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	// Unpublished documents do not exist as far as the portal knows.
	if doc.Status != registry.DocumentPublished {
		writeError(w, registry.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toPublicDocument(doc))
}

func (h *TrustCenterHandler) listArtifacts(w http.ResponseWriter, r *http.Request) {
	artifacts := h.index.Artifacts()
	if artifacts == nil {
		artifacts = []trustcenter.Artifact{}
	}
	writeJSON(w, http.StatusOK, artifacts)
}

func (h *TrustCenterHandler) getArtifact(w http.ResponseWriter, r *http.Request) {
	path, contentType, err := h.index.Open(r.PathValue("name"))
	if err != nil {
		if errors.Is(err, trustcenter.ErrArtifactNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	w.Header().Set("Content-Type", contentType)
	http.ServeFile(w, r, path)
}

func toPublicDocument(doc *registry.Document) publicDocument {
	return publicDocument{
		ID:        doc.ID,
		Title:     doc.Title,
		Category:  doc.Category,
		Version:   doc.Version,
		Content:   doc.Content,
		UpdatedAt: doc.UpdatedAt,
	}
}
