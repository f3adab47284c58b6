package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mesa-earnings/internal/core/domain"
	"mesa-earnings/internal/core/port"
)

// newPayment validates a payment input. The amount is deliberately not
// checked against what is owed so overpayment corrections can be booked.
func newPayment(in port.PaymentInput, now time.Time) (domain.Payment, error) {
	if !in.Amount.IsPositive() {
		return domain.Payment{}, fmt.Errorf("%w: amount must be positive", port.ErrInvalidPayment)
	}
	recordedBy := strings.TrimSpace(in.RecordedBy)
	if recordedBy == "" {
		return domain.Payment{}, fmt.Errorf("%w: recorded by is required", port.ErrInvalidPayment)
	}
	paidAt := in.PaidAt
	if paidAt.IsZero() {
		paidAt = now
	}
	return domain.Payment{
		ID:         uuid.New(),
		Amount:     in.Amount,
		PaidAt:     paidAt.UTC(),
		Reference:  strings.TrimSpace(in.Reference),
		Method:     strings.TrimSpace(in.Method),
		Notes:      in.Notes,
		RecordedBy: recordedBy,
		CreatedAt:  now,
	}, nil
}
