package port

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"mesa-earnings/internal/core/domain"
)

var (
	// ErrOrderNotEligible is returned when earnings are requested for an
	// order that is neither confirmed nor completed.
	ErrOrderNotEligible = errors.New("order not eligible for earnings")
	// ErrInvalidPayment is returned for non-positive payment amounts or
	// missing payment fields.
	ErrInvalidPayment = errors.New("invalid payment")
)

// EarningsUseCase computes and books what publications are owed. Methods
// taking string ids treat malformed ids as not found and return nil results
// without error.
type EarningsUseCase interface {
	// CreateEstimate creates the order's earnings record from its delivery
	// goals, computing and storing the goals first when the order has none.
	// An existing record is returned unchanged.
	CreateEstimate(ctx context.Context, orderID string) (*domain.EarningsRecord, error)
	// RecomputeActual re-attributes the order's evidence and stores the
	// capped actual earnings. Finalized records are returned unchanged.
	RecomputeActual(ctx context.Context, orderID string) (*domain.EarningsRecord, error)
	// Finalize performs a last recompute and settles the record.
	Finalize(ctx context.Context, orderID string) (*domain.EarningsRecord, error)
	// RecordPayment appends a payment to an earnings record.
	RecordPayment(ctx context.Context, earningsID string, in PaymentInput) (*domain.EarningsRecord, error)
	// OrderSummary returns the earnings summary of an order. Without a
	// stored record the summary is derived on the fly, or zeroed when the
	// order cannot earn.
	OrderSummary(ctx context.Context, orderID string) (*EarningsSummary, error)
	// PublicationSummary aggregates a publication's earnings records.
	PublicationSummary(ctx context.Context, publicationID string) (*PublicationSummary, error)
	// FinalizeEnded finalizes the earnings and billing of every campaign
	// that ended before now. It returns the number of finalized earnings
	// records.
	FinalizeEnded(ctx context.Context, now time.Time) (int, error)
}

// BillingUseCase computes and books what hubs owe the platform.
type BillingUseCase interface {
	// CreateEstimate creates the billing record of a campaign. It returns
	// nil when the campaign's hub has no billing configuration.
	CreateEstimate(ctx context.Context, campaignID string) (*domain.BillingRecord, error)
	// RecomputeActual re-derives the billing totals from the campaign's
	// earnings records.
	RecomputeActual(ctx context.Context, campaignID string) (*domain.BillingRecord, error)
	Finalize(ctx context.Context, campaignID string) (*domain.BillingRecord, error)
	RecordPayment(ctx context.Context, billingID string, in PaymentInput) (*domain.BillingRecord, error)
	HubSummary(ctx context.Context, hubID string) (*HubBillingSummary, error)
	PlatformSummary(ctx context.Context) (*PlatformBillingSummary, error)
}

// PaymentInput carries a payment to record. PaidAt defaults to now.
type PaymentInput struct {
	Amount     decimal.Decimal
	PaidAt     time.Time
	Reference  string
	Method     string
	Notes      string
	RecordedBy string
}

// EarningsSummary is the reporting view of one order's earnings. Stored is
// false when the values were derived without a persisted record.
type EarningsSummary struct {
	OrderID    string                             `json:"orderId"`
	EarningsID string                             `json:"earningsId,omitempty"`
	Stored     bool                               `json:"stored"`
	Estimated  decimal.Decimal                    `json:"estimated"`
	Actual     decimal.Decimal                    `json:"actual"`
	Variance   domain.Variance                    `json:"variance"`
	Payment    domain.PaymentSummary              `json:"payment"`
	Finalized  bool                               `json:"finalized"`
	ByChannel  map[domain.Channel]decimal.Decimal `json:"byChannel,omitempty"`
}

// PublicationSummary aggregates earnings across a publication's orders.
type PublicationSummary struct {
	PublicationID string                       `json:"publicationId"`
	Orders        int                          `json:"orders"`
	Estimated     decimal.Decimal              `json:"estimated"`
	Actual        decimal.Decimal              `json:"actual"`
	AmountPaid    decimal.Decimal              `json:"amountPaid"`
	AmountOwed    decimal.Decimal              `json:"amountOwed"`
	ByStatus      map[domain.PaymentStatus]int `json:"byStatus"`
}

// HubBillingSummary aggregates billing across a hub's campaigns.
type HubBillingSummary struct {
	HubID      string                       `json:"hubId"`
	Campaigns  int                          `json:"campaigns"`
	Payouts    domain.Amounts               `json:"publisherPayouts"`
	TotalFees  domain.Amounts               `json:"totalFees"`
	AmountPaid decimal.Decimal              `json:"amountPaid"`
	AmountOwed decimal.Decimal              `json:"amountOwed"`
	ByStatus   map[domain.PaymentStatus]int `json:"byStatus"`
}

// PlatformBillingSummary aggregates billing across all billed hubs.
type PlatformBillingSummary struct {
	Hubs       []HubBillingSummary `json:"hubs"`
	TotalFees  domain.Amounts      `json:"totalFees"`
	AmountPaid decimal.Decimal     `json:"amountPaid"`
	AmountOwed decimal.Decimal     `json:"amountOwed"`
}
