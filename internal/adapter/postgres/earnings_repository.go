package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mesa-earnings/internal/core/domain"
)

// EarningsRepository implements port.EarningsRepository. Breakdowns are
// stored as jsonb; amount_paid is a running sum kept next to the
// earnings_payments history.
type EarningsRepository struct {
	pool *pgxpool.Pool
}

// NewEarningsRepository returns a new repository instance.
func NewEarningsRepository(pool *pgxpool.Pool) *EarningsRepository {
	return &EarningsRepository{pool: pool}
}

const earningsColumns = `id, order_id, campaign_id, publication_id, hub_id, estimated, actual, variance,
    tracked_impressions_estimated, tracked_impressions_actual, amount_paid::text,
    finalized, finalized_at, last_computed_at, created_at, updated_at`

func scanEarnings(row pgx.Row) (*domain.EarningsRecord, error) {
	var (
		rec                         domain.EarningsRecord
		estimated, actual, variance []byte
		paid                        string
	)
	err := row.Scan(&rec.ID, &rec.OrderID, &rec.CampaignID, &rec.PublicationID, &rec.HubID,
		&estimated, &actual, &variance,
		&rec.TrackedImpressions.Estimated, &rec.TrackedImpressions.Actual, &paid,
		&rec.Finalized, &rec.FinalizedAt, &rec.LastComputedAt, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.Estimated, rec.Actual = domain.NewBreakdown(), domain.NewBreakdown()
	if err = unmarshalJSON(estimated, &rec.Estimated); err != nil {
		return nil, err
	}
	if err = unmarshalJSON(actual, &rec.Actual); err != nil {
		return nil, err
	}
	if err = unmarshalJSON(variance, &rec.Variance); err != nil {
		return nil, err
	}
	if rec.Ledger.AmountPaid, err = parseDecimal(paid); err != nil {
		return nil, err
	}
	return &rec, nil
}

// one runs a single-row query and attaches the payment history. A missing
// row yields nil.
func (r *EarningsRepository) one(ctx context.Context, q querier, sql string, args ...any) (*domain.EarningsRecord, error) {
	rec, err := scanEarnings(q.QueryRow(ctx, sql, args...))
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

func (r *EarningsRepository) many(ctx context.Context, sql string, args ...any) ([]domain.EarningsRecord, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	recs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.EarningsRecord, error) {
		return scanEarnings(row)
	})
	if err != nil {
		return nil, err
	}
	if err = r.attachPayments(ctx, recs...); err != nil {
		return nil, err
	}
	out := make([]domain.EarningsRecord, 0, len(recs))
	for _, rec := range recs {
		out = append(out, *rec)
	}
	return out, nil
}

func (r *EarningsRepository) attachPayments(ctx context.Context, recs ...*domain.EarningsRecord) error {
	ids := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}
	payments, err := earningsLedger.load(ctx, r.pool, ids)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		rec.Ledger.Payments = payments[rec.ID]
	}
	return nil
}

// CreateEarnings inserts the record unless the order already has one, in
// which case the existing record is returned.
func (r *EarningsRepository) CreateEarnings(ctx context.Context, rec *domain.EarningsRecord) (*domain.EarningsRecord, bool, error) {
	estimated, err := json.Marshal(rec.Estimated)
	if err != nil {
		return nil, false, err
	}
	actual, err := json.Marshal(rec.Actual)
	if err != nil {
		return nil, false, err
	}
	variance, err := json.Marshal(rec.Variance)
	if err != nil {
		return nil, false, err
	}
	created, err := r.one(ctx, r.pool, `INSERT INTO earnings
    (id, order_id, campaign_id, publication_id, hub_id, estimated, actual, variance,
     tracked_impressions_estimated, tracked_impressions_actual, amount_paid, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,0,$11,$12)
ON CONFLICT (order_id) DO NOTHING
RETURNING `+earningsColumns,
		rec.ID, rec.OrderID, rec.CampaignID, rec.PublicationID, rec.HubID, estimated, actual, variance,
		rec.TrackedImpressions.Estimated, rec.TrackedImpressions.Actual, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return nil, false, err
	}
	if created != nil {
		return created, true, nil
	}
	existing, err := r.GetEarningsByOrder(ctx, rec.OrderID)
	return existing, false, err
}

// GetEarnings returns a record by id.
func (r *EarningsRepository) GetEarnings(ctx context.Context, id uuid.UUID) (*domain.EarningsRecord, error) {
	return r.one(ctx, r.pool, `SELECT `+earningsColumns+` FROM earnings WHERE id = $1`, id)
}

// GetEarningsByOrder returns the record of an order.
func (r *EarningsRepository) GetEarningsByOrder(ctx context.Context, orderID uuid.UUID) (*domain.EarningsRecord, error) {
	return r.one(ctx, r.pool, `SELECT `+earningsColumns+` FROM earnings WHERE order_id = $1`, orderID)
}

// ListEarningsByCampaign returns the records of a campaign's orders.
func (r *EarningsRepository) ListEarningsByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.EarningsRecord, error) {
	return r.many(ctx, `SELECT `+earningsColumns+` FROM earnings WHERE campaign_id = $1 ORDER BY created_at, id`, campaignID)
}

// ListEarningsByPublication returns the records of a publication.
func (r *EarningsRepository) ListEarningsByPublication(ctx context.Context, publicationID uuid.UUID) ([]domain.EarningsRecord, error) {
	return r.many(ctx, `SELECT `+earningsColumns+` FROM earnings WHERE publication_id = $1 ORDER BY created_at, id`, publicationID)
}

// SaveActual overwrites the actual snapshot of a record that is not
// finalized, optionally finalizing it in the same statement.
func (r *EarningsRepository) SaveActual(ctx context.Context, id uuid.UUID, a domain.EarningsActual, finalize bool) (*domain.EarningsRecord, error) {
	actual, err := json.Marshal(a.Actual)
	if err != nil {
		return nil, err
	}
	variance, err := json.Marshal(a.Variance)
	if err != nil {
		return nil, err
	}
	return r.one(ctx, r.pool, `UPDATE earnings SET
    actual = $2,
    variance = $3,
    tracked_impressions_actual = $4,
    last_computed_at = $5,
    updated_at = $5,
    finalized = $6,
    finalized_at = CASE WHEN $6 THEN $5 ELSE finalized_at END
WHERE id = $1 AND NOT finalized
RETURNING `+earningsColumns, id, actual, variance, a.TrackedActual, a.ComputedAt, finalize)
}

// AppendPayment increments amount_paid and inserts the payment in one
// transaction. The row lock taken by the UPDATE serialises concurrent
// payments on the same record.
func (r *EarningsRepository) AppendPayment(ctx context.Context, id uuid.UUID, p domain.Payment) (*domain.EarningsRecord, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rec, err := scanEarnings(tx.QueryRow(ctx, `UPDATE earnings
SET amount_paid = amount_paid + $2::numeric, updated_at = $3
WHERE id = $1
RETURNING `+earningsColumns, id, p.Amount.String(), p.CreatedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err = earningsLedger.insert(ctx, tx, rec.ID, p); err != nil {
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
