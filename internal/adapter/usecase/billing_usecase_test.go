package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mesa-earnings/internal/core/domain"
	"mesa-earnings/internal/core/port"
	"mesa-earnings/internal/core/port/mocks"
)

func TestBillingCreateEstimate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.earnings.CreateEstimate(ctx, f.orderID())
	require.NoError(t, err)

	rec, err := f.billing.CreateEstimate(ctx, f.campaign.ID.String())
	require.NoError(t, err)
	require.NotNil(t, rec)

	tot := rec.Totals
	assert.Equal(t, 1, tot.Orders)
	assertMoney(t, "1900", tot.PublisherPayouts.Estimated)
	assertMoney(t, "285", tot.RevenueShareFee.Estimated)
	assertMoney(t, "50", tot.PlatformCPMFee.Estimated)
	assertMoney(t, "335", tot.TotalFees.Estimated)
	assertMoney(t, "0", tot.TotalFees.Actual)
	assertMoney(t, "15", rec.Config.RevenueSharePercent)

	again, err := f.billing.CreateEstimate(ctx, f.campaign.ID.String())
	require.NoError(t, err)
	assert.Equal(t, rec.ID, again.ID)
}

func TestBillingFollowsEarnings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.earnings.CreateEstimate(ctx, f.orderID())
	require.NoError(t, err)
	_, err = f.billing.CreateEstimate(ctx, f.campaign.ID.String())
	require.NoError(t, err)

	f.impressions(40000)
	f.proofs("print/full-page", 3)
	earned, err := f.earnings.RecomputeActual(ctx, f.orderID())
	require.NoError(t, err)

	rec, err := f.store.Billing().GetBillingByCampaign(ctx, f.hub.ID, f.campaign.ID)
	require.NoError(t, err)
	tot := rec.Totals
	assertMoney(t, earned.Actual.Total.String(), tot.PublisherPayouts.Actual)
	assertMoney(t, "900", tot.PublisherPayouts.Actual)
	assertMoney(t, "135", tot.RevenueShareFee.Actual)
	assertMoney(t, "20", tot.PlatformCPMFee.Actual)
	assertMoney(t, "155", tot.TotalFees.Actual)
	assert.Equal(t, int64(40000), tot.TrackedImpressions.Actual)
}

func TestBillingRatesAreSnapshotAtCreation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.earnings.CreateEstimate(ctx, f.orderID())
	require.NoError(t, err)
	_, err = f.billing.CreateEstimate(ctx, f.campaign.ID.String())
	require.NoError(t, err)

	f.hub.Billing = &domain.BillingConfig{RevenueSharePercent: decimal.NewFromInt(50), PlatformCPMRate: decimal.Zero}
	f.store.PutHub(f.hub)

	rec, err := f.billing.RecomputeActual(ctx, f.campaign.ID.String())
	require.NoError(t, err)
	assertMoney(t, "335", rec.Totals.TotalFees.Estimated)
}

func TestBillingCreateEstimate_HubNotBilled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hubs := mocks.NewMockHubRepository(t)
	hubs.EXPECT().GetHub(mock.Anything, f.hub.ID).Return(&domain.Hub{ID: f.hub.ID, Name: "Unbilled"}, nil)

	uc := NewBillingUseCase(f.store, hubs, f.store, f.store.Billing())
	rec, err := uc.CreateEstimate(ctx, f.campaign.ID.String())
	require.NoError(t, err)
	assert.Nil(t, rec)

	recs, err := f.store.Billing().ListBillingByHub(ctx, f.hub.ID)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestBillingCreateEstimate_HubLookupFails(t *testing.T) {
	f := newFixture(t)
	hubs := mocks.NewMockHubRepository(t)
	boom := errors.New("hub store down")
	hubs.EXPECT().GetHub(mock.Anything, f.hub.ID).Return(nil, boom)

	uc := NewBillingUseCase(f.store, hubs, f.store, f.store.Billing())
	_, err := uc.CreateEstimate(context.Background(), f.campaign.ID.String())
	assert.ErrorIs(t, err, boom)
}

func TestBillingUnknownCampaign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range []string{"x", uuid.NewString()} {
		rec, err := f.billing.CreateEstimate(ctx, id)
		assert.NoError(t, err)
		assert.Nil(t, rec)
		rec, err = f.billing.RecomputeActual(ctx, id)
		assert.NoError(t, err)
		assert.Nil(t, rec)
	}
}

func TestBillingFinalize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.earnings.CreateEstimate(ctx, f.orderID())
	require.NoError(t, err)
	_, err = f.billing.CreateEstimate(ctx, f.campaign.ID.String())
	require.NoError(t, err)

	rec, err := f.billing.Finalize(ctx, f.campaign.ID.String())
	require.NoError(t, err)
	require.True(t, rec.Finalized)

	f.impressions(50000)
	_, err = f.earnings.RecomputeActual(ctx, f.orderID())
	require.NoError(t, err)

	after, err := f.billing.RecomputeActual(ctx, f.campaign.ID.String())
	require.NoError(t, err)
	assert.True(t, after.Finalized)
	assertMoney(t, "0", after.Totals.TotalFees.Actual)
}

func TestBillingRecordPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.earnings.CreateEstimate(ctx, f.orderID())
	require.NoError(t, err)
	bill, err := f.billing.CreateEstimate(ctx, f.campaign.ID.String())
	require.NoError(t, err)
	f.impressions(40000)
	f.proofs("print/full-page", 2)
	_, err = f.earnings.RecomputeActual(ctx, f.orderID())
	require.NoError(t, err)

	rec, err := f.billing.RecordPayment(ctx, bill.ID.String(), port.PaymentInput{
		Amount: decimal.NewFromInt(100), RecordedBy: "hub-finance", Method: "wire",
	})
	require.NoError(t, err)
	s := rec.Payment()
	assertMoney(t, "155", s.Target)
	assertMoney(t, "55", s.AmountOwed)
	assert.Equal(t, domain.PaymentPartiallyPaid, s.Status)

	rec, err = f.billing.RecordPayment(ctx, bill.ID.String(), port.PaymentInput{
		Amount: decimal.NewFromInt(55), RecordedBy: "hub-finance",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, rec.Payment().Status)

	_, err = f.billing.RecordPayment(ctx, bill.ID.String(), port.PaymentInput{Amount: decimal.NewFromInt(-1), RecordedBy: "x"})
	assert.ErrorIs(t, err, port.ErrInvalidPayment)

	missing, err := f.billing.RecordPayment(ctx, uuid.NewString(), port.PaymentInput{Amount: decimal.NewFromInt(1), RecordedBy: "x"})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBillingSummaries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.earnings.CreateEstimate(ctx, f.orderID())
	require.NoError(t, err)
	bill, err := f.billing.CreateEstimate(ctx, f.campaign.ID.String())
	require.NoError(t, err)
	f.impressions(40000)
	f.proofs("print/full-page", 3)
	_, err = f.earnings.RecomputeActual(ctx, f.orderID())
	require.NoError(t, err)
	_, err = f.billing.RecordPayment(ctx, bill.ID.String(), port.PaymentInput{Amount: decimal.NewFromInt(55), RecordedBy: "ops"})
	require.NoError(t, err)

	// A hub without billing and without records stays out of the platform view.
	f.store.PutHub(domain.Hub{ID: uuid.New(), Name: "Unbilled"})

	hs, err := f.billing.HubSummary(ctx, f.hub.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, hs.Campaigns)
	assertMoney(t, "1900", hs.Payouts.Estimated)
	assertMoney(t, "900", hs.Payouts.Actual)
	assertMoney(t, "155", hs.TotalFees.Actual)
	assertMoney(t, "55", hs.AmountPaid)
	assertMoney(t, "100", hs.AmountOwed)
	assert.Equal(t, 1, hs.ByStatus[domain.PaymentPartiallyPaid])

	empty, err := f.billing.HubSummary(ctx, "nope")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Campaigns)
	assertMoney(t, "0", empty.TotalFees.Actual)

	ps, err := f.billing.PlatformSummary(ctx)
	require.NoError(t, err)
	require.Len(t, ps.Hubs, 1)
	assert.Equal(t, f.hub.ID.String(), ps.Hubs[0].HubID)
	assertMoney(t, "335", ps.TotalFees.Estimated)
	assertMoney(t, "155", ps.TotalFees.Actual)
	assertMoney(t, "100", ps.AmountOwed)
}
