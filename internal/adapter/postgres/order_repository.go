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

// OrderRepository implements port.OrderRepository. Placements and delivery
// goals are stored as jsonb on the order row.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns a new repository instance.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// GetOrder returns an order by id.
func (r *OrderRepository) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var (
		o          domain.Order
		status     string
		placements []byte
		goals      []byte
	)
	err := r.pool.QueryRow(ctx, `SELECT id, campaign_id, publication_id, hub_id, status, placements, delivery_goals, goals_computed_at
FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.CampaignID, &o.PublicationID, &o.HubID, &status, &placements, &goals, &o.GoalsComputedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	if err = unmarshalJSON(placements, &o.Placements); err != nil {
		return nil, err
	}
	if len(goals) > 0 {
		o.DeliveryGoals = domain.DeliveryGoals{}
		if err = unmarshalJSON(goals, &o.DeliveryGoals); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

// SaveDeliveryGoals stores goals only when the order has none, so the first
// writer wins under concurrent confirmation.
func (r *OrderRepository) SaveDeliveryGoals(ctx context.Context, orderID uuid.UUID, goals domain.DeliveryGoals, at time.Time) (bool, error) {
	raw, err := json.Marshal(goals)
	if err != nil {
		return false, err
	}
	tag, err := r.pool.Exec(ctx, `UPDATE orders SET delivery_goals = $2, goals_computed_at = $3, updated_at = $3
WHERE id = $1 AND delivery_goals IS NULL`, orderID, raw, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// CampaignRepository implements port.CampaignRepository.
type CampaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository returns a new repository instance.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

const campaignColumns = `id, hub_id, name, start_date, end_date`

func scanCampaign(row pgx.Row) (domain.Campaign, error) {
	var c domain.Campaign
	err := row.Scan(&c.ID, &c.HubID, &c.Name, &c.StartDate, &c.EndDate)
	return c, err
}

// GetCampaign returns a campaign by id.
func (r *CampaignRepository) GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	c, err := scanCampaign(r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListEndedCampaigns returns campaigns whose end date passed before the
// given time.
func (r *CampaignRepository) ListEndedCampaigns(ctx context.Context, before time.Time) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+campaignColumns+` FROM campaigns
WHERE end_date IS NOT NULL AND end_date < $1 ORDER BY end_date, id`, before)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Campaign, error) {
		return scanCampaign(row)
	})
}

// HubRepository implements port.HubRepository.
type HubRepository struct {
	pool *pgxpool.Pool
}

// NewHubRepository returns a new repository instance.
func NewHubRepository(pool *pgxpool.Pool) *HubRepository {
	return &HubRepository{pool: pool}
}

const hubColumns = `id, name, revenue_share_percent::text, platform_cpm_rate::text`

// scanHub reads a hub. The hub is billed when either rate is set; a
// missing rate counts as zero.
func scanHub(row pgx.Row) (domain.Hub, error) {
	var (
		h          domain.Hub
		share, cpm *string
	)
	if err := row.Scan(&h.ID, &h.Name, &share, &cpm); err != nil {
		return h, err
	}
	if share == nil && cpm == nil {
		return h, nil
	}
	var (
		cfg domain.BillingConfig
		err error
	)
	if share != nil {
		if cfg.RevenueSharePercent, err = parseDecimal(*share); err != nil {
			return h, err
		}
	}
	if cpm != nil {
		if cfg.PlatformCPMRate, err = parseDecimal(*cpm); err != nil {
			return h, err
		}
	}
	h.Billing = &cfg
	return h, nil
}

// GetHub returns a hub by id.
func (r *HubRepository) GetHub(ctx context.Context, id uuid.UUID) (*domain.Hub, error) {
	h, err := scanHub(r.pool.QueryRow(ctx, `SELECT `+hubColumns+` FROM hubs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// ListHubs returns every hub.
func (r *HubRepository) ListHubs(ctx context.Context) ([]domain.Hub, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+hubColumns+` FROM hubs ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Hub, error) {
		return scanHub(row)
	})
}
