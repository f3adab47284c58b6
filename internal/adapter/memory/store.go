// Package memory implements the repository ports in process memory. It backs
// the use case and HTTP tests and honours the same concurrency contract as
// the postgres adapter.
package memory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"mesa-earnings/internal/core/domain"
	"mesa-earnings/internal/core/port"
)

var (
	_ port.OrderRepository    = (*Store)(nil)
	_ port.CampaignRepository = (*Store)(nil)
	_ port.HubRepository      = (*Store)(nil)
	_ port.EvidenceRepository = (*Store)(nil)
	_ port.EarningsRepository = (*Store)(nil)
	_ port.BillingRepository  = (*BillingStore)(nil)
)

type campaignKey struct {
	hubID      uuid.UUID
	campaignID uuid.UUID
}

// Store holds every entity behind a single mutex. Values handed out are
// copies so callers cannot mutate stored state.
type Store struct {
	mu sync.RWMutex

	orders    map[uuid.UUID]domain.Order
	campaigns map[uuid.UUID]domain.Campaign
	hubs      map[uuid.UUID]domain.Hub
	entries   []domain.PerformanceEntry
	proofs    []domain.Proof

	earnings        map[uuid.UUID]*domain.EarningsRecord
	earningsByOrder map[uuid.UUID]uuid.UUID

	billing           map[uuid.UUID]*domain.BillingRecord
	billingByCampaign map[campaignKey]uuid.UUID
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		orders:            map[uuid.UUID]domain.Order{},
		campaigns:         map[uuid.UUID]domain.Campaign{},
		hubs:              map[uuid.UUID]domain.Hub{},
		earnings:          map[uuid.UUID]*domain.EarningsRecord{},
		earningsByOrder:   map[uuid.UUID]uuid.UUID{},
		billing:           map[uuid.UUID]*domain.BillingRecord{},
		billingByCampaign: map[campaignKey]uuid.UUID{},
	}
}

// PutOrder inserts or replaces an order.
func (s *Store) PutOrder(o domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = cloneOrder(o)
}

// PutCampaign inserts or replaces a campaign.
func (s *Store) PutCampaign(c domain.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[c.ID] = c
}

// PutHub inserts or replaces a hub.
func (s *Store) PutHub(h domain.Hub) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hubs[h.ID] = h
}

// AddPerformanceEntry appends an entry, assigning an id when missing.
func (s *Store) AddPerformanceEntry(e domain.PerformanceEntry) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	s.entries = append(s.entries, e)
	return e.ID
}

// DeletePerformanceEntry soft-deletes an entry. It reports whether the
// entry existed.
func (s *Store) DeletePerformanceEntry(id uuid.UUID, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].DeletedAt = &at
			return true
		}
	}
	return false
}

// AddProof appends a proof of performance, assigning an id when missing.
func (s *Store) AddProof(p domain.Proof) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.proofs = append(s.proofs, p)
	return p.ID
}

func (s *Store) GetOrder(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	o = cloneOrder(o)
	return &o, nil
}

func (s *Store) SaveDeliveryGoals(_ context.Context, orderID uuid.UUID, goals domain.DeliveryGoals, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.DeliveryGoals != nil {
		return false, nil
	}
	o.DeliveryGoals = maps.Clone(goals)
	o.GoalsComputedAt = &at
	s.orders[orderID] = o
	return true, nil
}

func (s *Store) GetCampaign(_ context.Context, id uuid.UUID) (*domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.campaigns[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *Store) ListEndedCampaigns(_ context.Context, before time.Time) ([]domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Campaign
	for _, c := range s.campaigns {
		if c.Ended(before) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s *Store) GetHub(_ context.Context, id uuid.UUID) (*domain.Hub, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hubs[id]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (s *Store) ListHubs(_ context.Context) ([]domain.Hub, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := slices.Collect(maps.Values(s.hubs))
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s *Store) ListPerformanceEntries(_ context.Context, orderID uuid.UUID) ([]domain.PerformanceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.PerformanceEntry
	for _, e := range s.entries {
		if e.OrderID == orderID && !e.Deleted() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) ListVerifiedProofs(_ context.Context, orderID uuid.UUID) ([]domain.Proof, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Proof
	for _, p := range s.proofs {
		if p.OrderID == orderID && p.Status == domain.ProofVerified {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) CreateEarnings(_ context.Context, rec *domain.EarningsRecord) (*domain.EarningsRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.earningsByOrder[rec.OrderID]; ok {
		return cloneEarnings(s.earnings[id]), false, nil
	}
	stored := cloneEarnings(rec)
	s.earnings[stored.ID] = stored
	s.earningsByOrder[stored.OrderID] = stored.ID
	return cloneEarnings(stored), true, nil
}

func (s *Store) GetEarnings(_ context.Context, id uuid.UUID) (*domain.EarningsRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEarnings(s.earnings[id]), nil
}

func (s *Store) GetEarningsByOrder(_ context.Context, orderID uuid.UUID) (*domain.EarningsRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.earningsByOrder[orderID]
	if !ok {
		return nil, nil
	}
	return cloneEarnings(s.earnings[id]), nil
}

func (s *Store) ListEarningsByCampaign(_ context.Context, campaignID uuid.UUID) ([]domain.EarningsRecord, error) {
	return s.listEarnings(func(r *domain.EarningsRecord) bool { return r.CampaignID == campaignID }), nil
}

func (s *Store) ListEarningsByPublication(_ context.Context, publicationID uuid.UUID) ([]domain.EarningsRecord, error) {
	return s.listEarnings(func(r *domain.EarningsRecord) bool { return r.PublicationID == publicationID }), nil
}

func (s *Store) listEarnings(match func(*domain.EarningsRecord) bool) []domain.EarningsRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.EarningsRecord
	for _, r := range s.earnings {
		if match(r) {
			out = append(out, *cloneEarnings(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

func (s *Store) SaveActual(_ context.Context, id uuid.UUID, actual domain.EarningsActual, finalize bool) (*domain.EarningsRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.earnings[id]
	if !ok || r.Finalized {
		return nil, nil
	}
	snapshot := actual
	snapshot.Actual = cloneBreakdown(actual.Actual)
	r.Apply(snapshot)
	if finalize {
		at := actual.ComputedAt
		r.Finalized = true
		r.FinalizedAt = &at
	}
	return cloneEarnings(r), nil
}

func (s *Store) AppendPayment(_ context.Context, id uuid.UUID, p domain.Payment) (*domain.EarningsRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.earnings[id]
	if !ok {
		return nil, nil
	}
	r.Ledger.Append(p)
	r.UpdatedAt = p.CreatedAt
	return cloneEarnings(r), nil
}

// Billing is the billing repository view of the store. Its method set
// overlaps with the earnings repository on AppendPayment, so it is exposed
// separately.
func (s *Store) Billing() *BillingStore {
	return &BillingStore{s: s}
}

// BillingStore implements port.BillingRepository over a Store.
type BillingStore struct {
	s *Store
}

func (b *BillingStore) CreateBilling(_ context.Context, rec *domain.BillingRecord) (*domain.BillingRecord, bool, error) {
	s := b.s
	s.mu.Lock()
	defer s.mu.Unlock()
	key := campaignKey{hubID: rec.HubID, campaignID: rec.CampaignID}
	if id, ok := s.billingByCampaign[key]; ok {
		return cloneBilling(s.billing[id]), false, nil
	}
	stored := cloneBilling(rec)
	s.billing[stored.ID] = stored
	s.billingByCampaign[key] = stored.ID
	return cloneBilling(stored), true, nil
}

func (b *BillingStore) GetBilling(_ context.Context, id uuid.UUID) (*domain.BillingRecord, error) {
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()
	return cloneBilling(b.s.billing[id]), nil
}

func (b *BillingStore) GetBillingByCampaign(_ context.Context, hubID, campaignID uuid.UUID) (*domain.BillingRecord, error) {
	s := b.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.billingByCampaign[campaignKey{hubID: hubID, campaignID: campaignID}]
	if !ok {
		return nil, nil
	}
	return cloneBilling(s.billing[id]), nil
}

func (b *BillingStore) ListBillingByHub(_ context.Context, hubID uuid.UUID) ([]domain.BillingRecord, error) {
	s := b.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.BillingRecord
	for _, r := range s.billing {
		if r.HubID == hubID {
			out = append(out, *cloneBilling(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (b *BillingStore) SaveTotals(_ context.Context, id uuid.UUID, totals domain.BillingTotals, at time.Time, finalize bool) (*domain.BillingRecord, error) {
	s := b.s
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.billing[id]
	if !ok || r.Finalized {
		return nil, nil
	}
	r.Totals = totals
	r.LastComputedAt = &at
	r.UpdatedAt = at
	if finalize {
		r.Finalized = true
		r.FinalizedAt = &at
	}
	return cloneBilling(r), nil
}

func (b *BillingStore) AppendPayment(_ context.Context, id uuid.UUID, p domain.Payment) (*domain.BillingRecord, error) {
	s := b.s
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.billing[id]
	if !ok {
		return nil, nil
	}
	r.Ledger.Append(p)
	r.UpdatedAt = p.CreatedAt
	return cloneBilling(r), nil
}

func cloneOrder(o domain.Order) domain.Order {
	o.Placements = slices.Clone(o.Placements)
	if o.DeliveryGoals != nil {
		o.DeliveryGoals = maps.Clone(o.DeliveryGoals)
	}
	return o
}

func cloneBreakdown(b domain.Breakdown) domain.Breakdown {
	b.ByChannel = maps.Clone(b.ByChannel)
	b.ByPlacement = maps.Clone(b.ByPlacement)
	return b
}

func cloneEarnings(r *domain.EarningsRecord) *domain.EarningsRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Estimated = cloneBreakdown(r.Estimated)
	c.Actual = cloneBreakdown(r.Actual)
	c.Ledger.Payments = slices.Clone(r.Ledger.Payments)
	return &c
}

func cloneBilling(r *domain.BillingRecord) *domain.BillingRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Ledger.Payments = slices.Clone(r.Ledger.Payments)
	return &c
}
