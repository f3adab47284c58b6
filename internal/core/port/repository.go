package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mesa-earnings/internal/core/domain"
)

//go:generate mockery --name HubRepository --with-expecter --structname MockHubRepository --filename mock_hub_repository.go
//go:generate mockery --name EvidenceRepository --with-expecter --structname MockEvidenceRepository --filename mock_evidence_repository.go

// Repositories return (nil, nil) when a record does not exist. Errors are
// reserved for store failures.

// OrderRepository reads insertion orders and stores their delivery goals.
type OrderRepository interface {
	// GetOrder returns an order with its placements and stored goals.
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	// SaveDeliveryGoals stores goals on an order that has none yet. It
	// reports false when goals were already stored, in which case the
	// stored mapping wins.
	SaveDeliveryGoals(ctx context.Context, orderID uuid.UUID, goals domain.DeliveryGoals, at time.Time) (bool, error)
}

// CampaignRepository reads campaigns.
type CampaignRepository interface {
	GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
	// ListEndedCampaigns returns campaigns whose end date is before the
	// given time.
	ListEndedCampaigns(ctx context.Context, before time.Time) ([]domain.Campaign, error)
}

// HubRepository reads hubs and their optional billing configuration.
type HubRepository interface {
	GetHub(ctx context.Context, id uuid.UUID) (*domain.Hub, error)
	ListHubs(ctx context.Context) ([]domain.Hub, error)
}

// EvidenceRepository reads delivery evidence for an order. Implementations
// must exclude soft-deleted performance entries at read time.
type EvidenceRepository interface {
	ListPerformanceEntries(ctx context.Context, orderID uuid.UUID) ([]domain.PerformanceEntry, error)
	ListVerifiedProofs(ctx context.Context, orderID uuid.UUID) ([]domain.Proof, error)
}

// EarningsRepository persists earnings records. Implementations must be
// concurrency-safe: creation is insert-if-absent per order and payments are
// appended atomically with the running total.
type EarningsRepository interface {
	// CreateEarnings inserts rec unless the order already has a record. It
	// returns the stored record and whether this call created it.
	CreateEarnings(ctx context.Context, rec *domain.EarningsRecord) (*domain.EarningsRecord, bool, error)
	GetEarnings(ctx context.Context, id uuid.UUID) (*domain.EarningsRecord, error)
	GetEarningsByOrder(ctx context.Context, orderID uuid.UUID) (*domain.EarningsRecord, error)
	ListEarningsByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.EarningsRecord, error)
	ListEarningsByPublication(ctx context.Context, publicationID uuid.UUID) ([]domain.EarningsRecord, error)
	// SaveActual stores a recomputed actual snapshot, optionally marking the
	// record finalized. Finalized records are left untouched and nil is
	// returned.
	SaveActual(ctx context.Context, id uuid.UUID, actual domain.EarningsActual, finalize bool) (*domain.EarningsRecord, error)
	// AppendPayment adds a payment and increments the amount paid in one
	// atomic step. It returns nil when the record does not exist.
	AppendPayment(ctx context.Context, id uuid.UUID, p domain.Payment) (*domain.EarningsRecord, error)
}

// BillingRepository persists hub billing records, one per hub and campaign.
// The concurrency contract matches EarningsRepository.
type BillingRepository interface {
	CreateBilling(ctx context.Context, rec *domain.BillingRecord) (*domain.BillingRecord, bool, error)
	GetBilling(ctx context.Context, id uuid.UUID) (*domain.BillingRecord, error)
	GetBillingByCampaign(ctx context.Context, hubID, campaignID uuid.UUID) (*domain.BillingRecord, error)
	ListBillingByHub(ctx context.Context, hubID uuid.UUID) ([]domain.BillingRecord, error)
	SaveTotals(ctx context.Context, id uuid.UUID, totals domain.BillingTotals, at time.Time, finalize bool) (*domain.BillingRecord, error)
	AppendPayment(ctx context.Context, id uuid.UUID, p domain.Payment) (*domain.BillingRecord, error)
}
