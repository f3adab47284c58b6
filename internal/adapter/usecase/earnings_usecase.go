package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"mesa-earnings/internal/core/domain"
	"mesa-earnings/internal/core/port"
	"mesa-earnings/internal/metrics"
)

var _ port.EarningsUseCase = (*EarningsUseCase)(nil)

// EarningsUseCase turns delivery evidence into what publications are owed.
// It implements port.EarningsUseCase and holds no state between calls.
type EarningsUseCase struct {
	orders    port.OrderRepository
	campaigns port.CampaignRepository
	evidence  port.EvidenceRepository
	earnings  port.EarningsRepository
	options
}

// NewEarningsUseCase wires the use case to its repositories.
func NewEarningsUseCase(
	orders port.OrderRepository,
	campaigns port.CampaignRepository,
	evidence port.EvidenceRepository,
	earnings port.EarningsRepository,
	opts ...Option,
) *EarningsUseCase {
	return &EarningsUseCase{
		orders:    orders,
		campaigns: campaigns,
		evidence:  evidence,
		earnings:  earnings,
		options:   newOptions(opts),
	}
}

// CreateEstimate creates the earnings record of an order. A concurrent or
// repeated call returns the record that was stored first.
func (u *EarningsUseCase) CreateEstimate(ctx context.Context, orderID string) (*domain.EarningsRecord, error) {
	id, ok := parseID(orderID)
	if !ok {
		return nil, nil
	}
	existing, err := u.earnings.GetEarningsByOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get earnings: %w", err)
	}
	if existing != nil {
		return existing, nil
	}
	order, err := u.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, nil
	}
	if !order.EligibleForEarnings() {
		u.metrics.ObserveNoop("order_not_eligible")
		return nil, port.ErrOrderNotEligible
	}
	if err = u.ensureGoals(ctx, order); err != nil {
		return nil, err
	}

	rec, created, err := u.earnings.CreateEarnings(ctx, domain.NewEarningsRecord(order, u.now()))
	if err != nil {
		return nil, fmt.Errorf("create earnings: %w", err)
	}
	if created {
		u.logger.Info("earnings estimate created",
			slog.String("order_id", order.ID.String()),
			slog.String("estimated", rec.Estimated.Total.String()))
	}
	return rec, nil
}

// ensureGoals stores delivery goals on an order that has none. When another
// caller stored goals first, the stored mapping is used.
func (u *EarningsUseCase) ensureGoals(ctx context.Context, order *domain.Order) error {
	if order.DeliveryGoals != nil {
		return nil
	}
	goals, err := u.deriveGoals(ctx, order)
	if err != nil {
		return err
	}
	saved, err := u.orders.SaveDeliveryGoals(ctx, order.ID, goals, u.now())
	if err != nil {
		return fmt.Errorf("save delivery goals: %w", err)
	}
	if saved {
		order.DeliveryGoals = goals
		return nil
	}
	stored, err := u.orders.GetOrder(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("reload order: %w", err)
	}
	if stored == nil || stored.DeliveryGoals == nil {
		return fmt.Errorf("delivery goals of order %s vanished", order.ID)
	}
	order.DeliveryGoals = stored.DeliveryGoals
	return nil
}

func (u *EarningsUseCase) deriveGoals(ctx context.Context, order *domain.Order) (domain.DeliveryGoals, error) {
	campaign, err := u.campaigns.GetCampaign(ctx, order.CampaignID)
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	var start, end *time.Time
	if campaign != nil {
		start, end = campaign.StartDate, campaign.EndDate
	}
	return domain.ComputeDeliveryGoals(order.Placements, start, end), nil
}

// RecomputeActual recomputes and stores the order's actual earnings.
func (u *EarningsUseCase) RecomputeActual(ctx context.Context, orderID string) (*domain.EarningsRecord, error) {
	return u.settleOrder(ctx, orderID, false)
}

// Finalize recomputes the order's earnings one last time and marks them
// settled. Later evidence no longer changes the record.
func (u *EarningsUseCase) Finalize(ctx context.Context, orderID string) (*domain.EarningsRecord, error) {
	return u.settleOrder(ctx, orderID, true)
}

func (u *EarningsUseCase) settleOrder(ctx context.Context, orderID string, finalize bool) (*domain.EarningsRecord, error) {
	id, ok := parseID(orderID)
	if !ok {
		return nil, nil
	}
	rec, err := u.earnings.GetEarningsByOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get earnings: %w", err)
	}
	if rec == nil || rec.Finalized {
		return rec, nil
	}
	saved, err := u.settle(ctx, rec, finalize)
	if err != nil {
		return nil, err
	}
	u.syncBilling(ctx, saved.CampaignID.String())
	return saved, nil
}

// settle recomputes one record and stores the result.
func (u *EarningsUseCase) settle(ctx context.Context, rec *domain.EarningsRecord, finalize bool) (*domain.EarningsRecord, error) {
	order, err := u.orders.GetOrder(ctx, rec.OrderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	var actual domain.EarningsActual
	if order == nil {
		// The order is gone; keep what was recognised so far.
		actual = domain.EarningsActual{
			Actual:        rec.Actual,
			Variance:      rec.Variance,
			TrackedActual: rec.TrackedImpressions.Actual,
			ComputedAt:    u.now(),
		}
	} else {
		actual, err = u.computeActual(ctx, order, rec.Estimated)
		if err != nil {
			return nil, err
		}
	}

	saved, err := u.earnings.SaveActual(ctx, rec.ID, actual, finalize)
	if err != nil {
		return nil, fmt.Errorf("save actual: %w", err)
	}
	if saved == nil {
		// Finalized by a concurrent caller.
		return u.earnings.GetEarnings(ctx, rec.ID)
	}
	u.metrics.ObserveRecompute(metrics.LedgerEarnings)
	if finalize {
		u.metrics.ObserveFinalized(metrics.LedgerEarnings)
		u.logger.Info("earnings finalized",
			slog.String("order_id", saved.OrderID.String()),
			slog.String("actual", saved.Actual.Total.String()))
	}
	return saved, nil
}

// computeActual reads the current evidence snapshot and prices it.
func (u *EarningsUseCase) computeActual(ctx context.Context, order *domain.Order, estimated domain.Breakdown) (domain.EarningsActual, error) {
	entries, err := u.evidence.ListPerformanceEntries(ctx, order.ID)
	if err != nil {
		return domain.EarningsActual{}, fmt.Errorf("list performance entries: %w", err)
	}
	proofs, err := u.evidence.ListVerifiedProofs(ctx, order.ID)
	if err != nil {
		return domain.EarningsActual{}, fmt.Errorf("list proofs: %w", err)
	}

	attribution := domain.Attribute(order.Placements, order.DeliveryGoals, entries, proofs)
	actual := domain.ComputeActual(order, estimated, attribution, u.now())

	for _, line := range actual.Actual.ByPlacement {
		if line.Capped {
			u.metrics.ObserveCap(metrics.CapPlacement)
			u.logger.Debug("placement earnings capped",
				slog.String("order_id", order.ID.String()),
				slog.String("item_path", line.ItemPath))
		}
	}
	if actual.Actual.Capped {
		u.metrics.ObserveCap(metrics.CapOrder)
		u.logger.Warn("order earnings capped at estimate",
			slog.String("order_id", order.ID.String()))
	}
	return actual, nil
}

// syncBilling refreshes the campaign's billing record. Failures are logged
// only; billing can be recomputed independently.
func (u *EarningsUseCase) syncBilling(ctx context.Context, campaignID string) {
	if u.billing == nil {
		return
	}
	if _, err := u.billing.RecomputeActual(ctx, campaignID); err != nil {
		u.logger.Warn("billing sync failed",
			slog.String("campaign_id", campaignID),
			slog.Any("error", err))
	}
}

// RecordPayment appends a payment to an earnings record.
func (u *EarningsUseCase) RecordPayment(ctx context.Context, earningsID string, in port.PaymentInput) (*domain.EarningsRecord, error) {
	id, ok := parseID(earningsID)
	if !ok {
		return nil, nil
	}
	p, err := newPayment(in, u.now())
	if err != nil {
		return nil, err
	}
	rec, err := u.earnings.AppendPayment(ctx, id, p)
	if err != nil {
		return nil, fmt.Errorf("append payment: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	u.metrics.ObservePayment(metrics.LedgerEarnings, p.Amount)
	u.logger.Info("earnings payment recorded",
		slog.String("earnings_id", rec.ID.String()),
		slog.String("amount", p.Amount.String()),
		slog.String("status", string(rec.Payment().Status)))
	return rec, nil
}

// OrderSummary reports an order's earnings. Orders without a stored record
// are derived on the fly and nothing is persisted.
func (u *EarningsUseCase) OrderSummary(ctx context.Context, orderID string) (*port.EarningsSummary, error) {
	id, ok := parseID(orderID)
	if !ok {
		return zeroSummary(orderID), nil
	}
	rec, err := u.earnings.GetEarningsByOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get earnings: %w", err)
	}
	if rec != nil {
		return summarize(orderID, rec, true), nil
	}

	order, err := u.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil || !order.EligibleForEarnings() {
		return zeroSummary(orderID), nil
	}
	if order.DeliveryGoals == nil {
		if order.DeliveryGoals, err = u.deriveGoals(ctx, order); err != nil {
			return nil, err
		}
	}
	derived := domain.NewEarningsRecord(order, u.now())
	actual, err := u.computeActual(ctx, order, derived.Estimated)
	if err != nil {
		return nil, err
	}
	derived.Apply(actual)
	return summarize(orderID, derived, false), nil
}

func zeroSummary(orderID string) *port.EarningsSummary {
	return &port.EarningsSummary{
		OrderID:   orderID,
		Estimated: decimal.Zero,
		Actual:    decimal.Zero,
		Variance:  domain.Variance{Amount: decimal.Zero, Percentage: decimal.Zero},
		Payment: domain.PaymentSummary{
			Target:     decimal.Zero,
			AmountPaid: decimal.Zero,
			AmountOwed: decimal.Zero,
			Status:     domain.PaymentPending,
		},
	}
}

func summarize(orderID string, rec *domain.EarningsRecord, stored bool) *port.EarningsSummary {
	s := &port.EarningsSummary{
		OrderID:   orderID,
		Stored:    stored,
		Estimated: rec.Estimated.Total,
		Actual:    rec.Actual.Total,
		Variance:  rec.Variance,
		Payment:   rec.Payment(),
		Finalized: rec.Finalized,
		ByChannel: rec.Actual.ByChannel,
	}
	if stored {
		s.EarningsID = rec.ID.String()
	}
	return s
}

// PublicationSummary sums the earnings records of a publication.
func (u *EarningsUseCase) PublicationSummary(ctx context.Context, publicationID string) (*port.PublicationSummary, error) {
	s := &port.PublicationSummary{
		PublicationID: publicationID,
		Estimated:     decimal.Zero,
		Actual:        decimal.Zero,
		AmountPaid:    decimal.Zero,
		AmountOwed:    decimal.Zero,
		ByStatus:      map[domain.PaymentStatus]int{},
	}
	id, ok := parseID(publicationID)
	if !ok {
		return s, nil
	}
	recs, err := u.earnings.ListEarningsByPublication(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list earnings: %w", err)
	}
	for i := range recs {
		pay := recs[i].Payment()
		s.Orders++
		s.Estimated = s.Estimated.Add(recs[i].Estimated.Total)
		s.Actual = s.Actual.Add(recs[i].Actual.Total)
		s.AmountPaid = s.AmountPaid.Add(pay.AmountPaid)
		s.AmountOwed = s.AmountOwed.Add(pay.AmountOwed)
		s.ByStatus[pay.Status]++
	}
	return s, nil
}

// FinalizeEnded settles every open earnings record of campaigns that ended
// before now, then finalizes each campaign's billing record.
func (u *EarningsUseCase) FinalizeEnded(ctx context.Context, now time.Time) (int, error) {
	campaigns, err := u.campaigns.ListEndedCampaigns(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list ended campaigns: %w", err)
	}
	finalized := 0
	for _, c := range campaigns {
		recs, err := u.earnings.ListEarningsByCampaign(ctx, c.ID)
		if err != nil {
			return finalized, fmt.Errorf("list earnings of campaign %s: %w", c.ID, err)
		}
		for i := range recs {
			if recs[i].Finalized {
				continue
			}
			saved, err := u.settle(ctx, &recs[i], true)
			if err != nil {
				return finalized, err
			}
			if saved != nil && saved.Finalized {
				finalized++
			}
		}
		if u.billing != nil {
			if _, err = u.billing.Finalize(ctx, c.ID.String()); err != nil {
				return finalized, fmt.Errorf("finalize billing of campaign %s: %w", c.ID, err)
			}
		}
	}
	u.logger.Info("ended campaigns finalized",
		slog.Int("campaigns", len(campaigns)),
		slog.Int("earnings", finalized))
	return finalized, nil
}
