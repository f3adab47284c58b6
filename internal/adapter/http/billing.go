package httpadapter

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// handleCreateBilling creates the campaign's billing estimate. Campaigns of
// hubs without a billing configuration are not billed and yield 404.
func (h *Handler) handleCreateBilling(w http.ResponseWriter, r *http.Request) {
	rec, err := h.billing.CreateEstimate(r.Context(), chi.URLParam(r, "campaignID"))
	if err != nil {
		h.fail(w, r, "create billing", err)
		return
	}
	respond(h, w, rec)
}

func (h *Handler) handleRefreshBilling(w http.ResponseWriter, r *http.Request) {
	rec, err := h.billing.RecomputeActual(r.Context(), chi.URLParam(r, "campaignID"))
	if err != nil {
		h.fail(w, r, "refresh billing", err)
		return
	}
	respond(h, w, rec)
}

func (h *Handler) handleFinalizeBilling(w http.ResponseWriter, r *http.Request) {
	rec, err := h.billing.Finalize(r.Context(), chi.URLParam(r, "campaignID"))
	if err != nil {
		h.fail(w, r, "finalize billing", err)
		return
	}
	respond(h, w, rec)
}

func (h *Handler) handleHubBilling(w http.ResponseWriter, r *http.Request) {
	s, err := h.billing.HubSummary(r.Context(), chi.URLParam(r, "hubID"))
	if err != nil {
		h.fail(w, r, "hub billing", err)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}

func (h *Handler) handlePlatformBilling(w http.ResponseWriter, r *http.Request) {
	s, err := h.billing.PlatformSummary(r.Context())
	if err != nil {
		h.fail(w, r, "platform billing", err)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}

type finalizeEndedResponse struct {
	Before    time.Time `json:"before"`
	Finalized int       `json:"finalized"`
}

// handleFinalizeEnded finalizes every campaign that ended before the
// optional `before` query parameter (RFC3339), defaulting to now. It is
// meant to be called by an external scheduler.
func (h *Handler) handleFinalizeEnded(w http.ResponseWriter, r *http.Request) {
	before := time.Now().UTC()
	if s := r.URL.Query().Get("before"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid 'before' timestamp"})
			return
		}
		before = t.UTC()
	}
	n, err := h.earnings.FinalizeEnded(r.Context(), before)
	if err != nil {
		h.fail(w, r, "finalize ended", err)
		return
	}
	h.writeJSON(w, http.StatusOK, finalizeEndedResponse{Before: before, Finalized: n})
}
