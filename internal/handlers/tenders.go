package handlers

import (
	"net/http"

	"tenders/internal/service"
	"tenders/models"

	"github.com/go-chi/chi/v5"
)

func tenderResponses(list []models.TenderSnapshot) []models.TenderResponse {
	out := make([]models.TenderResponse, 0, len(list))
	for _, s := range list {
		out = append(out, s.Response())
	}
	return out
}

// CreateTenderHandler обрабатывает POST /api/tenders/new
func (h *Handler) CreateTenderHandler(w http.ResponseWriter, r *http.Request) {
	var in service.CreateTenderInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	snap, err := h.Core.CreateTender(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Response())
}

// GetTendersHandler возвращает опубликованные тендеры, фильтр по service_type
// может повторяться.
func (h *Handler) GetTendersHandler(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var serviceTypes []models.ServiceType
	for _, v := range r.URL.Query()["service_type"] {
		serviceTypes = append(serviceTypes, models.ServiceType(v))
	}

	list, err := h.Core.ListTenders(r.Context(), serviceTypes, page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tenderResponses(list))
}

// GetUserTendersHandler возвращает тендеры, созданные пользователем username
func (h *Handler) GetUserTendersHandler(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	list, err := h.Core.ListMyTenders(r.Context(), r.URL.Query().Get("username"), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tenderResponses(list))
}

// GetTenderStatusHandler обрабатывает GET /api/tenders/{tenderId}/status
func (h *Handler) GetTenderStatusHandler(w http.ResponseWriter, r *http.Request) {
	status, err := h.Core.TenderStatus(r.Context(), chi.URLParam(r, "tenderId"), r.URL.Query().Get("username"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// ChangeTenderStatusHandler обрабатывает PUT /api/tenders/{tenderId}/status?status=...
func (h *Handler) ChangeTenderStatusHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	snap, err := h.Core.SetTenderStatus(r.Context(), chi.URLParam(r, "tenderId"), q.Get("username"), models.TenderStatus(q.Get("status")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Response())
}

// EditTenderHandler обрабатывает PATCH /api/tenders/{tenderId}/edit
func (h *Handler) EditTenderHandler(w http.ResponseWriter, r *http.Request) {
	var patch models.TenderPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}

	snap, err := h.Core.EditTender(r.Context(), chi.URLParam(r, "tenderId"), r.URL.Query().Get("username"), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Response())
}

// RollbackTenderHandler обрабатывает PUT /api/tenders/{tenderId}/rollback/{version}
func (h *Handler) RollbackTenderHandler(w http.ResponseWriter, r *http.Request) {
	version, err := parseVersion(chi.URLParam(r, "version"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	snap, err := h.Core.RollbackTender(r.Context(), chi.URLParam(r, "tenderId"), r.URL.Query().Get("username"), version)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Response())
}
