package usecase

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"mesa-earnings/internal/adapter/memory"
	"mesa-earnings/internal/core/domain"
)

// fixture is a billed hub with one two-month campaign and a confirmed order
// estimated at $1,900:
//
//	web/homepage     cpm $10, 50% of 100k monthly impressions  $1,000
//	print/full-page  flat $500, 2 insertions                   $500
//	radio/drive      $40 per spot, 10 spots                    $400
type fixture struct {
	store    *memory.Store
	earnings *EarningsUseCase
	billing  *BillingUseCase
	hub      domain.Hub
	campaign domain.Campaign
	order    domain.Order
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	f := &fixture{store: memory.NewStore(), now: time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)}
	f.hub = domain.Hub{
		ID:   uuid.New(),
		Name: "Lakeshore Hub",
		Billing: &domain.BillingConfig{
			RevenueSharePercent: decimal.NewFromInt(15),
			PlatformCPMRate:     decimal.RequireFromString("0.50"),
		},
	}
	f.campaign = domain.Campaign{ID: uuid.New(), HubID: f.hub.ID, Name: "Spring", StartDate: &start, EndDate: &end}
	f.order = domain.Order{
		ID:            uuid.New(),
		CampaignID:    f.campaign.ID,
		PublicationID: uuid.New(),
		HubID:         f.hub.ID,
		Status:        domain.OrderConfirmed,
		Placements: []domain.Placement{
			{ItemPath: "web/homepage", Channel: domain.ChannelWeb, PricingModel: domain.PricingCPM,
				Rate: decimal.NewFromInt(10), Frequency: 50, MonthlyImpressions: 100000},
			{ItemPath: "print/full-page", Channel: domain.ChannelPrint, PricingModel: domain.PricingFlat,
				Rate: decimal.NewFromInt(500), Frequency: 2},
			{ItemPath: "radio/drive", Channel: domain.ChannelRadio, PricingModel: domain.PricingPerSpot,
				Rate: decimal.NewFromInt(40), Frequency: 10},
		},
	}
	f.store.PutHub(f.hub)
	f.store.PutCampaign(f.campaign)
	f.store.PutOrder(f.order)

	clock := WithClock(func() time.Time { return f.now })
	f.billing = NewBillingUseCase(f.store, f.store, f.store, f.store.Billing(), clock)
	f.earnings = NewEarningsUseCase(f.store, f.store, f.store, f.store, clock, WithBillingSync(f.billing))
	return f
}

func (f *fixture) orderID() string {
	return f.order.ID.String()
}

func (f *fixture) impressions(n int64) uuid.UUID {
	return f.store.AddPerformanceEntry(domain.PerformanceEntry{
		OrderID: f.order.ID, ItemPath: "web/homepage", Channel: domain.ChannelWeb,
		Metrics: domain.Metrics{Impressions: n},
	})
}

func (f *fixture) proofs(path string, n int) {
	for i := 0; i < n; i++ {
		f.store.AddProof(domain.Proof{OrderID: f.order.ID, ItemPath: path, Status: domain.ProofVerified})
	}
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

// assertSameBreakdown compares breakdowns by value.
func assertSameBreakdown(t *testing.T, want, got domain.Breakdown) {
	t.Helper()
	assertMoney(t, want.Total.String(), got.Total, "total")
	assert.Equal(t, want.Capped, got.Capped)
	assert.Len(t, got.ByPlacement, len(want.ByPlacement))
	for path, line := range want.ByPlacement {
		assertMoney(t, line.Amount.String(), got.ByPlacement[path].Amount, path)
		assert.Equal(t, line.Source, got.ByPlacement[path].Source, path)
	}
}
