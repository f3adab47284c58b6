package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mesa-earnings/internal/core/domain"
)

// EvidenceRepository implements port.EvidenceRepository over the
// performance_entries and proofs tables, which other services write.
type EvidenceRepository struct {
	pool *pgxpool.Pool
}

// NewEvidenceRepository returns a new repository instance.
func NewEvidenceRepository(pool *pgxpool.Pool) *EvidenceRepository {
	return &EvidenceRepository{pool: pool}
}

// ListPerformanceEntries returns the order's entries that are not
// soft-deleted.
func (r *EvidenceRepository) ListPerformanceEntries(ctx context.Context, orderID uuid.UUID) ([]domain.PerformanceEntry, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, order_id, item_path, channel, metrics, period_start, period_end
FROM performance_entries
WHERE order_id = $1 AND deleted_at IS NULL
ORDER BY created_at, id`, orderID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PerformanceEntry, error) {
		var (
			e          domain.PerformanceEntry
			channel    string
			metrics    []byte
			start, end *time.Time
		)
		if err := row.Scan(&e.ID, &e.OrderID, &e.ItemPath, &channel, &metrics, &start, &end); err != nil {
			return e, err
		}
		e.Channel = domain.Channel(channel)
		if start != nil {
			e.PeriodStart = *start
		}
		if end != nil {
			e.PeriodEnd = *end
		}
		return e, unmarshalJSON(metrics, &e.Metrics)
	})
}

// ListVerifiedProofs returns the order's verified proofs of performance.
func (r *EvidenceRepository) ListVerifiedProofs(ctx context.Context, orderID uuid.UUID) ([]domain.Proof, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, order_id, item_path, status, submitted_at
FROM proofs WHERE order_id = $1 AND status = $2 ORDER BY submitted_at, id`, orderID, string(domain.ProofVerified))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Proof, error) {
		var (
			p      domain.Proof
			status string
		)
		err := row.Scan(&p.ID, &p.OrderID, &p.ItemPath, &status, &p.SubmittedAt)
		p.Status = domain.ProofStatus(status)
		return p, err
	})
}
