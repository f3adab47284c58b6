package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"mesa-earnings/internal/core/domain"
	"mesa-earnings/internal/core/port"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Numeric columns are read as ::text and written as strings cast to
// ::numeric so amounts never pass through float64.

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse numeric %q: %w", s, err)
	}
	return d, nil
}

func unmarshalJSON(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// ledger describes the payments table of one ledger.
type ledger struct {
	payments string
	owner    string
}

var (
	earningsLedger = ledger{payments: "earnings_payments", owner: "earnings_id"}
	billingLedger  = ledger{payments: "billing_payments", owner: "billing_id"}
)

func (l ledger) insert(ctx context.Context, q querier, ownerID uuid.UUID, p domain.Payment) error {
	_, err := q.Exec(ctx, fmt.Sprintf(`INSERT INTO %s
    (id, %s, amount, paid_at, reference, method, notes, recorded_by, created_at)
VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8, $9)`, l.payments, l.owner),
		p.ID, ownerID, p.Amount.String(), p.PaidAt, p.Reference, p.Method, p.Notes, p.RecordedBy, p.CreatedAt)
	return err
}

// load returns the payment histories of the given owners in insertion
// order.
func (l ledger) load(ctx context.Context, q querier, ownerIDs []uuid.UUID) (map[uuid.UUID][]domain.Payment, error) {
	out := make(map[uuid.UUID][]domain.Payment, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx, fmt.Sprintf(`SELECT %s, id, amount::text, paid_at, reference, method, notes, recorded_by, created_at
FROM %s WHERE %s = ANY($1) ORDER BY created_at, id`, l.owner, l.payments, l.owner), ownerIDs)
	if err != nil {
		return nil, err
	}
	type ownedPayment struct {
		owner   uuid.UUID
		payment domain.Payment
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ownedPayment, error) {
		var (
			op     ownedPayment
			amount string
		)
		err := row.Scan(&op.owner, &op.payment.ID, &amount, &op.payment.PaidAt, &op.payment.Reference,
			&op.payment.Method, &op.payment.Notes, &op.payment.RecordedBy, &op.payment.CreatedAt)
		if err != nil {
			return op, err
		}
		op.payment.Amount, err = parseDecimal(amount)
		return op, err
	})
	if err != nil {
		return nil, err
	}
	for _, op := range list {
		out[op.owner] = append(out[op.owner], op.payment)
	}
	return out, nil
}

var (
	_ port.OrderRepository    = (*OrderRepository)(nil)
	_ port.CampaignRepository = (*CampaignRepository)(nil)
	_ port.HubRepository      = (*HubRepository)(nil)
	_ port.EvidenceRepository = (*EvidenceRepository)(nil)
	_ port.EarningsRepository = (*EarningsRepository)(nil)
	_ port.BillingRepository  = (*BillingRepository)(nil)
)
