package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus is derived from the amount paid against a ledger's target.
// It is never stored.
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "pending"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentPaid          PaymentStatus = "paid"
)

// Payment is one entry in a ledger's append-only history.
type Payment struct {
	ID         uuid.UUID       `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAt     time.Time       `json:"paidAt"`
	Reference  string          `json:"reference,omitempty"`
	Method     string          `json:"method,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	RecordedBy string          `json:"recordedBy"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Ledger is the payment sub-ledger shared by earnings and billing records.
// AmountPaid is maintained by the store as a running sum of Payments.
type Ledger struct {
	AmountPaid decimal.Decimal `json:"amountPaid"`
	Payments   []Payment       `json:"payments"`
}

// PaymentSummary is the derived view of a ledger against its target.
type PaymentSummary struct {
	Target     decimal.Decimal `json:"target"`
	AmountPaid decimal.Decimal `json:"amountPaid"`
	AmountOwed decimal.Decimal `json:"amountOwed"`
	Status     PaymentStatus   `json:"status"`
}

// DerivePaymentStatus maps the amount paid against a target to a status:
// pending until something is paid, paid once a positive target is met, and
// partially paid otherwise. Money received against a zero target, e.g. an
// advance booked before any delivery, therefore reads as partially paid
// rather than pending.
func DerivePaymentStatus(paid, target decimal.Decimal) PaymentStatus {
	switch {
	case !paid.IsPositive():
		return PaymentPending
	case target.IsPositive() && paid.GreaterThanOrEqual(target):
		return PaymentPaid
	default:
		return PaymentPartiallyPaid
	}
}

// Append adds a payment and bumps the running total.
func (l *Ledger) Append(p Payment) {
	l.Payments = append(l.Payments, p)
	l.AmountPaid = l.AmountPaid.Add(p.Amount)
}

// Summary derives owed amount and status. Overpayment clamps owed to zero.
func (l *Ledger) Summary(target decimal.Decimal) PaymentSummary {
	owed := target.Sub(l.AmountPaid)
	if owed.IsNegative() {
		owed = decimal.Zero
	}
	return PaymentSummary{
		Target:     target,
		AmountPaid: l.AmountPaid,
		AmountOwed: owed,
		Status:     DerivePaymentStatus(l.AmountPaid, target),
	}
}
