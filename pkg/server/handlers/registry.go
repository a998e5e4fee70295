package handlers

import (
	"net/http"

	"paythru/trustdesk/pkg/registry"
)

// RegistryHandler serves the internal CRUD API for documents, risks,
// controls, assets, and suppliers.
type RegistryHandler struct {
	service *registry.Service
}

// NewRegistryHandler creates a RegistryHandler.
func NewRegistryHandler(service *registry.Service) *RegistryHandler {
	return &RegistryHandler{service: service}
}

// Register attaches all registry routes to the mux.
func (h *RegistryHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/documents", h.listDocuments)
	mux.HandleFunc("POST /api/documents", h.createDocument)
	mux.HandleFunc("GET /api/documents/{id}", h.getDocument)
	mux.HandleFunc("PUT /api/documents/{id}", h.updateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", h.deleteDocument)

	mux.HandleFunc("GET /api/risks", h.listRisks)
	mux.HandleFunc("POST /api/risks", h.createRisk)
	mux.HandleFunc("GET /api/risks/{id}", h.getRisk)
	mux.HandleFunc("PUT /api/risks/{id}", h.updateRisk)
	mux.HandleFunc("DELETE /api/risks/{id}", h.deleteRisk)

	mux.HandleFunc("GET /api/controls", h.listControls)
	mux.HandleFunc("POST /api/controls", h.createControl)
	mux.HandleFunc("GET /api/controls/{id}", h.getControl)
	mux.HandleFunc("PUT /api/controls/{id}", h.updateControl)
	mux.HandleFunc("DELETE /api/controls/{id}", h.deleteControl)

	mux.HandleFunc("GET /api/assets", h.listAssets)
	mux.HandleFunc("POST /api/assets", h.createAsset)
	mux.HandleFunc("GET /api/assets/{id}", h.getAsset)
	mux.HandleFunc("PUT /api/assets/{id}", h.updateAsset)
	mux.HandleFunc("DELETE /api/assets/{id}", h.deleteAsset)

	mux.HandleFunc("GET /api/suppliers", h.listSuppliers)
	mux.HandleFunc("POST /api/suppliers", h.createSupplier)
	mux.HandleFunc("GET /api/suppliers/{id}", h.getSupplier)
	mux.HandleFunc("PUT /api/suppliers/{id}", h.updateSupplier)
	mux.HandleFunc("DELETE /api/suppliers/{id}", h.deleteSupplier)
}

// Documents

func (h *RegistryHandler) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.ListDocuments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if docs == nil {
		docs = []*registry.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *RegistryHandler) createDocument(w http.ResponseWriter, r *http.Request) {
	var doc registry.Document
	if err := decodeJSON(r, &doc); err != nil {
		writeBadRequest(w, err)
		return
	}
	created, err := h.service.CreateDocument(r.Context(), &doc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *RegistryHandler) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.GetDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *RegistryHandler) updateDocument(w http.ResponseWriter, r *http.Request) {
	var doc registry.Document
	if err := decodeJSON(r, &doc); err != nil {
		writeBadRequest(w, err)
		return
	}
	doc.ID = r.PathValue("id")
	updated, err := h.service.UpdateDocument(r.Context(), &doc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *RegistryHandler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteDocument(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Risks

func (h *RegistryHandler) listRisks(w http.ResponseWriter, r *http.Request) {
	risks, err := h.service.ListRisks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if risks == nil {
		risks = []*registry.Risk{}
	}
	writeJSON(w, http.StatusOK, risks)
}

func (h *RegistryHandler) createRisk(w http.ResponseWriter, r *http.Request) {
	var risk registry.Risk
	if err := decodeJSON(r, &risk); err != nil {
		writeBadRequest(w, err)
		return
	}
	created, err := h.service.CreateRisk(r.Context(), &risk)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *RegistryHandler) getRisk(w http.ResponseWriter, r *http.Request) {
	risk, err := h.service.GetRisk(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, risk)
}

func (h *RegistryHandler) updateRisk(w http.ResponseWriter, r *http.Request) {
	var risk registry.Risk
	if err := decodeJSON(r, &risk); err != nil {
		writeBadRequest(w, err)
		return
	}
	risk.ID = r.PathValue("id")
	updated, err := h.service.UpdateRisk(r.Context(), &risk)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *RegistryHandler) deleteRisk(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteRisk(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Controls

func (h *RegistryHandler) listControls(w http.ResponseWriter, r *http.Request) {
	controls, err := h.service.ListControls(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if controls == nil {
		controls = []*registry.Control{}
	}
	writeJSON(w, http.StatusOK, controls)
}

func (h *RegistryHandler) createControl(w http.ResponseWriter, r *http.Request) {
	var control registry.Control
	if err := decodeJSON(r, &control); err != nil {
		writeBadRequest(w, err)
		return
	}
	created, err := h.service.CreateControl(r.Context(), &control)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *RegistryHandler) getControl(w http.ResponseWriter, r *http.Request) {
	control, err := h.service.GetControl(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, control)
}

func (h *RegistryHandler) updateControl(w http.ResponseWriter, r *http.Request) {
	var control registry.Control
	if err := decodeJSON(r, &control); err != nil {
		writeBadRequest(w, err)
		return
	}
	control.ID = r.PathValue("id")
	updated, err := h.service.UpdateControl(r.Context(), &control)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *RegistryHandler) deleteControl(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteControl(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Assets

func (h *RegistryHandler) listAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.service.ListAssets(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if assets == nil {
		assets = []*registry.Asset{}
	}
	writeJSON(w, http.StatusOK, assets)
}

func (h *RegistryHandler) createAsset(w http.ResponseWriter, r *http.Request) {
	var asset registry.Asset
	if err := decodeJSON(r, &asset); err != nil {
		writeBadRequest(w, err)
		return
	}
	created, err := h.service.CreateAsset(r.Context(), &asset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *RegistryHandler) getAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := h.service.GetAsset(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (h *RegistryHandler) updateAsset(w http.ResponseWriter, r *http.Request) {
	var asset registry.Asset
	if err := decodeJSON(r, &asset); err != nil {
		writeBadRequest(w, err)
		return
	}
	asset.ID = r.PathValue("id")
	updated, err := h.service.UpdateAsset(r.Context(), &asset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *RegistryHandler) deleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAsset(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Suppliers

func (h *RegistryHandler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.service.ListSuppliers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if suppliers == nil {
		suppliers = []*registry.Supplier{}
	}
	writeJSON(w, http.StatusOK, suppliers)
}

func (h *RegistryHandler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var supplier registry.Supplier
	if err := decodeJSON(r, &supplier); err != nil {
		writeBadRequest(w, err)
		return
	}
	created, err := h.service.CreateSupplier(r.Context(), &supplier)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *RegistryHandler) getSupplier(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.service.GetSupplier(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, supplier)
}

func (h *RegistryHandler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	var supplier registry.Supplier
	if err := decodeJSON(r, &supplier); err != nil {
		writeBadRequest(w, err)
		return
	}
	supplier.ID = r.PathValue("id")
	updated, err := h.service.UpdateSupplier(r.Context(), &supplier)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *RegistryHandler) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSupplier(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
