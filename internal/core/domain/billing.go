package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Amounts pairs an estimated and an actual money value.
type Amounts struct {
	Estimated decimal.Decimal `json:"estimated"`
	Actual    decimal.Decimal `json:"actual"`
}

// BillingTotals are the fees a hub owes the platform for one campaign. All
// fields derive from the campaign's earnings records and the billing rates.
type BillingTotals struct {
	PublisherPayouts   Amounts            `json:"publisherPayouts"`
	RevenueShareFee    Amounts            `json:"revenueShareFee"`
	PlatformCPMFee     Amounts            `json:"platformCpmFee"`
	TotalFees          Amounts            `json:"totalFees"`
	TrackedImpressions TrackedImpressions `json:"trackedDigitalImpressions"`
	Orders             int                `json:"orders"`
}

// ComputeBillingTotals sums the earnings of a campaign and applies the
// revenue share and platform CPM rates. Actual values come from the already
// capped earnings records only.
func ComputeBillingTotals(cfg BillingConfig, earnings []EarningsRecord) BillingTotals {
	var t BillingTotals
	t.PublisherPayouts = Amounts{Estimated: decimal.Zero, Actual: decimal.Zero}
	for _, e := range earnings {
		t.PublisherPayouts.Estimated = t.PublisherPayouts.Estimated.Add(e.Estimated.Total)
		t.PublisherPayouts.Actual = t.PublisherPayouts.Actual.Add(e.Actual.Total)
		t.TrackedImpressions.Estimated += e.TrackedImpressions.Estimated
		t.TrackedImpressions.Actual += e.TrackedImpressions.Actual
		t.Orders++
	}
	t.RevenueShareFee = Amounts{
		Estimated: revenueShare(t.PublisherPayouts.Estimated, cfg.RevenueSharePercent),
		Actual:    revenueShare(t.PublisherPayouts.Actual, cfg.RevenueSharePercent),
	}
	t.PlatformCPMFee = Amounts{
		Estimated: cpmFee(t.TrackedImpressions.Estimated, cfg.PlatformCPMRate),
		Actual:    cpmFee(t.TrackedImpressions.Actual, cfg.PlatformCPMRate),
	}
	t.TotalFees = Amounts{
		Estimated: t.RevenueShareFee.Estimated.Add(t.PlatformCPMFee.Estimated),
		Actual:    t.RevenueShareFee.Actual.Add(t.PlatformCPMFee.Actual),
	}
	return t
}

func revenueShare(payouts, percent decimal.Decimal) decimal.Decimal {
	if !percent.IsPositive() || !payouts.IsPositive() {
		return decimal.Zero
	}
	return payouts.Mul(percent).Div(hundred).Round(MoneyPlaces)
}

func cpmFee(impressions int64, rate decimal.Decimal) decimal.Decimal {
	return Price(PricingCPM, rate, decimal.NewFromInt(impressions)).Round(MoneyPlaces)
}

// BillingRecord is what a hub owes the platform for one campaign. Config is
// the hub's rates as of record creation.
type BillingRecord struct {
	ID             uuid.UUID     `json:"id"`
	HubID          uuid.UUID     `json:"hubId"`
	CampaignID     uuid.UUID     `json:"campaignId"`
	Config         BillingConfig `json:"config"`
	Totals         BillingTotals `json:"totals"`
	Ledger         Ledger        `json:"ledger"`
	Finalized      bool          `json:"finalized"`
	FinalizedAt    *time.Time    `json:"finalizedAt,omitempty"`
	LastComputedAt *time.Time    `json:"lastComputedAt,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// Payment derives the payment summary against the actual total fees.
func (r *BillingRecord) Payment() PaymentSummary {
	return r.Ledger.Summary(r.Totals.TotalFees.Actual)
}

// NewBillingRecord creates a billing record for a campaign's earnings.
func NewBillingRecord(hubID, campaignID uuid.UUID, cfg BillingConfig, earnings []EarningsRecord, now time.Time) *BillingRecord {
	return &BillingRecord{
		ID:             uuid.New(),
		HubID:          hubID,
		CampaignID:     campaignID,
		Config:         cfg,
		Totals:         ComputeBillingTotals(cfg, earnings),
		Ledger:         Ledger{AmountPaid: decimal.Zero},
		LastComputedAt: &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
