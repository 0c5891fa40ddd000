package handlers

import (
	"net/http"

	"tenders/internal/service"
	"tenders/models"

	"github.com/go-chi/chi/v5"
)

func bidResponses(list []models.BidSnapshot) []models.BidResponse {
	out := make([]models.BidResponse, 0, len(list))
	for _, s := range list {
		out = append(out, s.Response())
	}
	return out
}

// CreateBidHandler обрабатывает POST /api/bids/new
func (h *Handler) CreateBidHandler(w http.ResponseWriter, r *http.Request) {
	var in service.CreateBidInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	snap, err := h.Core.CreateBid(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Response())
}

// GetUserBidsHandler возвращает предложения пользователя username
func (h *Handler) GetUserBidsHandler(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	list, err := h.Core.ListMyBids(r.Context(), r.URL.Query().Get("username"), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bidResponses(list))
}

// GetBidsForTenderHandler обрабатывает GET /api/bids/{tenderId}/list
func (h *Handler) GetBidsForTenderHandler(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	list, err := h.Core.ListTenderBids(r.Context(), chi.URLParam(r, "tenderId"), r.URL.Query().Get("username"), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bidResponses(list))
}

// GetBidStatusHandler обрабатывает GET /api/bids/{bidId}/status
func (h *Handler) GetBidStatusHandler(w http.ResponseWriter, r *http.Request) {
	status, err := h.Core.BidStatus(r.Context(), chi.URLParam(r, "bidId"), r.URL.Query().Get("username"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// UpdateBidStatusHandler обрабатывает PUT /api/bids/{bidId}/status?status=...
func (h *Handler) UpdateBidStatusHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	snap, err := h.Core.SetBidStatus(r.Context(), chi.URLParam(r, "bidId"), q.Get("username"), models.BidStatus(q.Get("status")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Response())
}

// EditBidHandler обрабатывает PATCH /api/bids/{bidId}/edit
func (h *Handler) EditBidHandler(w http.ResponseWriter, r *http.Request) {
	var patch models.BidPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}

	snap, err := h.Core.EditBid(r.Context(), chi.URLParam(r, "bidId"), r.URL.Query().Get("username"), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Response())
}

// RollbackBidHandler обрабатывает PUT /api/bids/{bidId}/rollback/{version}
func (h *Handler) RollbackBidHandler(w http.ResponseWriter, r *http.Request) {
	version, err := parseVersion(chi.URLParam(r, "version"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	snap, err := h.Core.RollbackBid(r.Context(), chi.URLParam(r, "bidId"), r.URL.Query().Get("username"), version)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Response())
}

// CreateBidFeedbackHandler обрабатывает PUT /api/bids/{bidId}/feedback?bidFeedback=...
func (h *Handler) CreateBidFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	snap, err := h.Core.SubmitFeedback(r.Context(), chi.URLParam(r, "bidId"), q.Get("username"), q.Get("bidFeedback"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Response())
}

// SubmitBidDecisionHandler обрабатывает PUT /api/bids/{bidId}/submit_decision?decision=...
func (h *Handler) SubmitBidDecisionHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	snap, err := h.Core.SubmitDecision(r.Context(), chi.URLParam(r, "bidId"), q.Get("username"), models.DecisionType(q.Get("decision")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Response())
}

// GetBidReviewsHandler обрабатывает GET /api/bids/{tenderId}/reviews
func (h *Handler) GetBidReviewsHandler(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	reviews, err := h.Core.BidReviews(r.Context(), chi.URLParam(r, "tenderId"), q.Get("authorUsername"), q.Get("requesterUsername"), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]models.BidReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, models.NewBidReviewResponse(&reviews[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
