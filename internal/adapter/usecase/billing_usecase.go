package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mesa-earnings/internal/core/domain"
	"mesa-earnings/internal/core/port"
	"mesa-earnings/internal/metrics"
)

var (
	_ port.BillingUseCase = (*BillingUseCase)(nil)
	_ BillingSync         = (*BillingUseCase)(nil)
)

// BillingUseCase rolls a campaign's earnings up into the fees its hub owes
// the platform. It implements port.BillingUseCase. Totals are always derived
// from the stored, already capped earnings records and never from raw
// evidence.
type BillingUseCase struct {
	campaigns port.CampaignRepository
	hubs      port.HubRepository
	earnings  port.EarningsRepository
	billing   port.BillingRepository
	options
}

// NewBillingUseCase wires the use case to its repositories.
func NewBillingUseCase(
	campaigns port.CampaignRepository,
	hubs port.HubRepository,
	earnings port.EarningsRepository,
	billing port.BillingRepository,
	opts ...Option,
) *BillingUseCase {
	return &BillingUseCase{
		campaigns: campaigns,
		hubs:      hubs,
		earnings:  earnings,
		billing:   billing,
		options:   newOptions(opts),
	}
}

// CreateEstimate creates the campaign's billing record. Hubs without a
// billing configuration are not billed and nil is returned.
func (u *BillingUseCase) CreateEstimate(ctx context.Context, campaignID string) (*domain.BillingRecord, error) {
	campaign, rec, err := u.load(ctx, campaignID)
	if err != nil || campaign == nil {
		return nil, err
	}
	if rec != nil {
		return rec, nil
	}
	hub, err := u.hubs.GetHub(ctx, campaign.HubID)
	if err != nil {
		return nil, fmt.Errorf("get hub: %w", err)
	}
	if hub == nil || hub.Billing == nil {
		u.metrics.ObserveNoop("hub_not_billed")
		u.logger.Debug("hub has no billing configuration",
			slog.String("hub_id", campaign.HubID.String()),
			slog.String("campaign_id", campaign.ID.String()))
		return nil, nil
	}
	recs, err := u.earnings.ListEarningsByCampaign(ctx, campaign.ID)
	if err != nil {
		return nil, fmt.Errorf("list earnings: %w", err)
	}

	stored, created, err := u.billing.CreateBilling(ctx,
		domain.NewBillingRecord(hub.ID, campaign.ID, *hub.Billing, recs, u.now()))
	if err != nil {
		return nil, fmt.Errorf("create billing: %w", err)
	}
	if created {
		u.logger.Info("billing estimate created",
			slog.String("hub_id", hub.ID.String()),
			slog.String("campaign_id", campaign.ID.String()),
			slog.String("total_fees", stored.Totals.TotalFees.Estimated.String()))
	}
	return stored, nil
}

// RecomputeActual re-derives the billing totals from the campaign's current
// earnings records.
func (u *BillingUseCase) RecomputeActual(ctx context.Context, campaignID string) (*domain.BillingRecord, error) {
	return u.settle(ctx, campaignID, false)
}

// Finalize recomputes the totals one last time and marks the record settled.
func (u *BillingUseCase) Finalize(ctx context.Context, campaignID string) (*domain.BillingRecord, error) {
	return u.settle(ctx, campaignID, true)
}

func (u *BillingUseCase) settle(ctx context.Context, campaignID string, finalize bool) (*domain.BillingRecord, error) {
	campaign, rec, err := u.load(ctx, campaignID)
	if err != nil || campaign == nil || rec == nil || rec.Finalized {
		return rec, err
	}
	recs, err := u.earnings.ListEarningsByCampaign(ctx, campaign.ID)
	if err != nil {
		return nil, fmt.Errorf("list earnings: %w", err)
	}
	totals := domain.ComputeBillingTotals(rec.Config, recs)

	saved, err := u.billing.SaveTotals(ctx, rec.ID, totals, u.now(), finalize)
	if err != nil {
		return nil, fmt.Errorf("save billing totals: %w", err)
	}
	if saved == nil {
		return u.billing.GetBilling(ctx, rec.ID)
	}
	u.metrics.ObserveRecompute(metrics.LedgerBilling)
	if finalize {
		u.metrics.ObserveFinalized(metrics.LedgerBilling)
		u.logger.Info("billing finalized",
			slog.String("campaign_id", campaign.ID.String()),
			slog.String("total_fees", saved.Totals.TotalFees.Actual.String()))
	}
	return saved, nil
}

// load resolves the campaign and its billing record. Both are nil for
// malformed or unknown ids.
func (u *BillingUseCase) load(ctx context.Context, campaignID string) (*domain.Campaign, *domain.BillingRecord, error) {
	id, ok := parseID(campaignID)
	if !ok {
		return nil, nil, nil
	}
	campaign, err := u.campaigns.GetCampaign(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get campaign: %w", err)
	}
	if campaign == nil {
		return nil, nil, nil
	}
	rec, err := u.billing.GetBillingByCampaign(ctx, campaign.HubID, campaign.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("get billing: %w", err)
	}
	return campaign, rec, nil
}

// RecordPayment appends a hub payment to a billing record.
func (u *BillingUseCase) RecordPayment(ctx context.Context, billingID string, in port.PaymentInput) (*domain.BillingRecord, error) {
	id, ok := parseID(billingID)
	if !ok {
		return nil, nil
	}
	p, err := newPayment(in, u.now())
	if err != nil {
		return nil, err
	}
	rec, err := u.billing.AppendPayment(ctx, id, p)
	if err != nil {
		return nil, fmt.Errorf("append payment: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	u.metrics.ObservePayment(metrics.LedgerBilling, p.Amount)
	u.logger.Info("billing payment recorded",
		slog.String("billing_id", rec.ID.String()),
		slog.String("amount", p.Amount.String()),
		slog.String("status", string(rec.Payment().Status)))
	return rec, nil
}

// HubSummary sums the billing records of a hub.
func (u *BillingUseCase) HubSummary(ctx context.Context, hubID string) (*port.HubBillingSummary, error) {
	id, ok := parseID(hubID)
	if !ok {
		return newHubSummary(hubID), nil
	}
	return u.hubSummary(ctx, id)
}

func (u *BillingUseCase) hubSummary(ctx context.Context, hubID uuid.UUID) (*port.HubBillingSummary, error) {
	s := newHubSummary(hubID.String())
	recs, err := u.billing.ListBillingByHub(ctx, hubID)
	if err != nil {
		return nil, fmt.Errorf("list billing: %w", err)
	}
	for i := range recs {
		pay := recs[i].Payment()
		t := recs[i].Totals
		s.Campaigns++
		s.Payouts.Estimated = s.Payouts.Estimated.Add(t.PublisherPayouts.Estimated)
		s.Payouts.Actual = s.Payouts.Actual.Add(t.PublisherPayouts.Actual)
		s.TotalFees.Estimated = s.TotalFees.Estimated.Add(t.TotalFees.Estimated)
		s.TotalFees.Actual = s.TotalFees.Actual.Add(t.TotalFees.Actual)
		s.AmountPaid = s.AmountPaid.Add(pay.AmountPaid)
		s.AmountOwed = s.AmountOwed.Add(pay.AmountOwed)
		s.ByStatus[pay.Status]++
	}
	return s, nil
}

func newHubSummary(hubID string) *port.HubBillingSummary {
	return &port.HubBillingSummary{
		HubID:      hubID,
		Payouts:    domain.Amounts{Estimated: decimal.Zero, Actual: decimal.Zero},
		TotalFees:  domain.Amounts{Estimated: decimal.Zero, Actual: decimal.Zero},
		AmountPaid: decimal.Zero,
		AmountOwed: decimal.Zero,
		ByStatus:   map[domain.PaymentStatus]int{},
	}
}

// PlatformSummary sums billing across every hub that is billed or has
// billing records.
func (u *BillingUseCase) PlatformSummary(ctx context.Context) (*port.PlatformBillingSummary, error) {
	hubs, err := u.hubs.ListHubs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hubs: %w", err)
	}
	s := &port.PlatformBillingSummary{
		Hubs:       []port.HubBillingSummary{},
		TotalFees:  domain.Amounts{Estimated: decimal.Zero, Actual: decimal.Zero},
		AmountPaid: decimal.Zero,
		AmountOwed: decimal.Zero,
	}
	for _, hub := range hubs {
		hs, err := u.hubSummary(ctx, hub.ID)
		if err != nil {
			return nil, err
		}
		if hub.Billing == nil && hs.Campaigns == 0 {
			continue
		}
		s.Hubs = append(s.Hubs, *hs)
		s.TotalFees.Estimated = s.TotalFees.Estimated.Add(hs.TotalFees.Estimated)
		s.TotalFees.Actual = s.TotalFees.Actual.Add(hs.TotalFees.Actual)
		s.AmountPaid = s.AmountPaid.Add(hs.AmountPaid)
		s.AmountOwed = s.AmountOwed.Add(hs.AmountOwed)
	}
	return s, nil
}
