package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mesa-earnings/internal/core/domain"
)

// BillingRepository implements port.BillingRepository, one row per hub and
// campaign.
type BillingRepository struct {
	pool *pgxpool.Pool
}

// NewBillingRepository returns a new repository instance.
func NewBillingRepository(pool *pgxpool.Pool) *BillingRepository {
	return &BillingRepository{pool: pool}
}

const billingColumns = `id, hub_id, campaign_id, revenue_share_percent::text, platform_cpm_rate::text, totals,
    amount_paid::text, finalized, finalized_at, last_computed_at, created_at, updated_at`

func scanBilling(row pgx.Row) (*domain.BillingRecord, error) {
	var (
		rec              domain.BillingRecord
		share, cpm, paid string
		totals           []byte
	)
	err := row.Scan(&rec.ID, &rec.HubID, &rec.CampaignID, &share, &cpm, &totals,
		&paid, &rec.Finalized, &rec.FinalizedAt, &rec.LastComputedAt, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if rec.Config.RevenueSharePercent, err = parseDecimal(share); err != nil {
		return nil, err
	}
	if rec.Config.PlatformCPMRate, err = parseDecimal(cpm); err != nil {
		return nil, err
	}
	if rec.Ledger.AmountPaid, err = parseDecimal(paid); err != nil {
		return nil, err
	}
	if err = unmarshalJSON(totals, &rec.Totals); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *BillingRepository) one(ctx context.Context, q querier, sql string, args ...any) (*domain.BillingRecord, error) {
	rec, err := scanBilling(q.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err = r.attachPayments(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *BillingRepository) attachPayments(ctx context.Context, recs ...*domain.BillingRecord) error {
	ids := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}
	payments, err := billingLedger.load(ctx, r.pool, ids)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		rec.Ledger.Payments = payments[rec.ID]
	}
	return nil
}

// CreateBilling inserts the record unless the hub and campaign already have
// one, in which case the existing record is returned.
func (r *BillingRepository) CreateBilling(ctx context.Context, rec *domain.BillingRecord) (*domain.BillingRecord, bool, error) {
	totals, err := json.Marshal(rec.Totals)
	if err != nil {
		return nil, false, err
	}
	created, err := r.one(ctx, r.pool, `INSERT INTO billing
    (id, hub_id, campaign_id, revenue_share_percent, platform_cpm_rate, totals, amount_paid,
     last_computed_at, created_at, updated_at)
VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6, 0, $7, $8, $9)
ON CONFLICT (hub_id, campaign_id) DO NOTHING
RETURNING `+billingColumns,
		rec.ID, rec.HubID, rec.CampaignID, rec.Config.RevenueSharePercent.String(), rec.Config.PlatformCPMRate.String(),
		totals, rec.LastComputedAt, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return nil, false, err
	}
	if created != nil {
		return created, true, nil
	}
	existing, err := r.GetBillingByCampaign(ctx, rec.HubID, rec.CampaignID)
	return existing, false, err
}

// GetBilling returns a record by id.
func (r *BillingRepository) GetBilling(ctx context.Context, id uuid.UUID) (*domain.BillingRecord, error) {
	return r.one(ctx, r.pool, `SELECT `+billingColumns+` FROM billing WHERE id = $1`, id)
}

// GetBillingByCampaign returns the record of a hub's campaign.
func (r *BillingRepository) GetBillingByCampaign(ctx context.Context, hubID, campaignID uuid.UUID) (*domain.BillingRecord, error) {
	return r.one(ctx, r.pool, `SELECT `+billingColumns+` FROM billing WHERE hub_id = $1 AND campaign_id = $2`, hubID, campaignID)
}

// ListBillingByHub returns every billing record of a hub.
func (r *BillingRepository) ListBillingByHub(ctx context.Context, hubID uuid.UUID) ([]domain.BillingRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+billingColumns+` FROM billing WHERE hub_id = $1 ORDER BY created_at, id`, hubID)
	if err != nil {
		return nil, err
	}
	recs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.BillingRecord, error) {
		return scanBilling(row)
	})
	if err != nil {
		return nil, err
	}
	if err = r.attachPayments(ctx, recs...); err != nil {
		return nil, err
	}
	out := make([]domain.BillingRecord, 0, len(recs))
	for _, rec := range recs {
		out = append(out, *rec)
	}
	return out, nil
}

// SaveTotals overwrites the totals of a record that is not finalized.
func (r *BillingRepository) SaveTotals(ctx context.Context, id uuid.UUID, totals domain.BillingTotals, at time.Time, finalize bool) (*domain.BillingRecord, error) {
	raw, err := json.Marshal(totals)
	if err != nil {
		return nil, err
	}
	return r.one(ctx, r.pool, `UPDATE billing SET
    totals = $2,
    last_computed_at = $3,
    updated_at = $3,
    finalized = $4,
    finalized_at = CASE WHEN $4 THEN $3 ELSE finalized_at END
WHERE id = $1 AND NOT finalized
RETURNING `+billingColumns, id, raw, at, finalize)
}

// AppendPayment increments amount_paid and inserts the payment in one
// transaction.
func (r *BillingRepository) AppendPayment(ctx context.Context, id uuid.UUID, p domain.Payment) (*domain.BillingRecord, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rec, err := scanBilling(tx.QueryRow(ctx, `UPDATE billing
SET amount_paid = amount_paid + $2::numeric, updated_at = $3
WHERE id = $1
RETURNING `+billingColumns, id, p.Amount.String(), p.CreatedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err = billingLedger.insert(ctx, tx, rec.ID, p); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	if err = r.attachPayments(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
