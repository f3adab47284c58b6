package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"mesa-earnings/internal/core/port"
)

// paymentRequest is the body of both payment endpoints. Amount accepts a
// JSON number or a numeric string.
type paymentRequest struct {
	Amount     json.Number `json:"amount" validate:"required"`
	PaidAt     *time.Time  `json:"paidAt"`
	Reference  string      `json:"reference" validate:"max=128"`
	Method     string      `json:"method" validate:"omitempty,oneof=ach wire check card cash bank_transfer other"`
	Notes      string      `json:"notes" validate:"max=2000"`
	RecordedBy string      `json:"recordedBy" validate:"required,max=128"`
}

// decodePayment reads and validates a payment body. It writes the 400
// response itself and reports false on failure.
func (h *Handler) decodePayment(w http.ResponseWriter, r *http.Request) (port.PaymentInput, bool) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return port.PaymentInput{}, false
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payment", Fields: validationFields(err)})
		return port.PaymentInput{}, false
	}
	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "invalid payment",
			Fields: map[string]string{"Amount": "decimal"},
		})
		return port.PaymentInput{}, false
	}
	in := port.PaymentInput{
		Amount:     amount,
		Reference:  req.Reference,
		Method:     req.Method,
		Notes:      req.Notes,
		RecordedBy: req.RecordedBy,
	}
	if req.PaidAt != nil {
		in.PaidAt = *req.PaidAt
	}
	return in, true
}

func validationFields(err error) map[string]string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}

func (h *Handler) handleEarningsPayment(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodePayment(w, r)
	if !ok {
		return
	}
	rec, err := h.earnings.RecordPayment(r.Context(), chi.URLParam(r, "earningsID"), in)
	if err != nil {
		h.fail(w, r, "earnings payment", err)
		return
	}
	respond(h, w, rec)
}

func (h *Handler) handleBillingPayment(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodePayment(w, r)
	if !ok {
		return
	}
	rec, err := h.billing.RecordPayment(r.Context(), chi.URLParam(r, "billingID"), in)
	if err != nil {
		h.fail(w, r, "billing payment", err)
		return
	}
	respond(h, w, rec)
}
