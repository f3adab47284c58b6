package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleCreateEarnings creates the order's earnings estimate. Repeated calls
// return the stored record. Unknown orders yield 404, orders that are not
// confirmed or completed yield 409.
func (h *Handler) handleCreateEarnings(w http.ResponseWriter, r *http.Request) {
	rec, err := h.earnings.CreateEstimate(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.fail(w, r, "create earnings", err)
		return
	}
	respond(h, w, rec)
}

// handleOrderEarnings returns the earnings summary of an order. It never
// returns 404; orders without earnings report zeros.
func (h *Handler) handleOrderEarnings(w http.ResponseWriter, r *http.Request) {
	s, err := h.earnings.OrderSummary(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.fail(w, r, "order earnings", err)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}

func (h *Handler) handleRefreshEarnings(w http.ResponseWriter, r *http.Request) {
	rec, err := h.earnings.RecomputeActual(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.fail(w, r, "refresh earnings", err)
		return
	}
	respond(h, w, rec)
}

func (h *Handler) handleFinalizeEarnings(w http.ResponseWriter, r *http.Request) {
	rec, err := h.earnings.Finalize(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.fail(w, r, "finalize earnings", err)
		return
	}
	respond(h, w, rec)
}

func (h *Handler) handlePublicationEarnings(w http.ResponseWriter, r *http.Request) {
	s, err := h.earnings.PublicationSummary(r.Context(), chi.URLParam(r, "publicationID"))
	if err != nil {
		h.fail(w, r, "publication earnings", err)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}
