package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"mesa-earnings/internal/core/port"
)

// Handler is the inbound HTTP adapter. It exposes the reporting endpoints
// and the admin surface of the earnings and billing ledgers on a
// chi.Router.
type Handler struct {
	earnings port.EarningsUseCase
	billing  port.BillingUseCase
	logger   *slog.Logger
	validate *validator.Validate
	router   chi.Router
}

// NewHandler creates a handler with all routes configured.
func NewHandler(earnings port.EarningsUseCase, billing port.BillingUseCase, logger *slog.Logger) *Handler {
	h := &Handler{
		earnings: earnings,
		billing:  billing,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/orders/{orderID}/earnings", func(r chi.Router) {
			r.Post("/", h.handleCreateEarnings)
			r.Get("/", h.handleOrderEarnings)
			r.Post("/refresh", h.handleRefreshEarnings)
			r.Post("/finalize", h.handleFinalizeEarnings)
		})
		r.Post("/earnings/{earningsID}/payments", h.handleEarningsPayment)
		r.Get("/publications/{publicationID}/earnings", h.handlePublicationEarnings)

		r.Route("/campaigns/{campaignID}/billing", func(r chi.Router) {
			r.Post("/", h.handleCreateBilling)
			r.Post("/refresh", h.handleRefreshBilling)
			r.Post("/finalize", h.handleFinalizeBilling)
		})
		r.Post("/billing/{billingID}/payments", h.handleBillingPayment)
		r.Get("/billing/summary", h.handlePlatformBilling)
		r.Get("/hubs/{hubID}/billing", h.handleHubBilling)

		r.Post("/admin/finalize-ended", h.handleFinalizeEnded)
	})
	h.router = r
	return h
}

// MountMetrics serves m at path, outside the API prefix.
func (h *Handler) MountMetrics(path string, m http.Handler) {
	h.router.Handle(path, m)
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// respond writes a mutation result. A nil record means the target does not
// exist.
func respond[T any](h *Handler, w http.ResponseWriter, rec *T) {
	if rec == nil {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

// fail maps use case errors to status codes. Anything unexpected is logged
// and reported as 500 without details.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, port.ErrOrderNotEligible):
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, port.ErrInvalidPayment):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		h.logger.Error(op+" error",
			slog.String("path", r.URL.Path),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Any("error", err))
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
