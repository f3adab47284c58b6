package domain

import (
	"time"

	"github.com/google/uuid"
)

// Metrics is the counter bag reported for a performance entry. Units holds
// the channel specific count (sends, spots, downloads).
type Metrics struct {
	Impressions int64 `json:"impressions,omitempty"`
	Clicks      int64 `json:"clicks,omitempty"`
	Reach       int64 `json:"reach,omitempty"`
	Views       int64 `json:"views,omitempty"`
	Units       int64 `json:"units,omitempty"`
}

// PerformanceEntry is an automated counter report for a placement. An empty
// ItemPath means the reporter only knew the channel.
type PerformanceEntry struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ItemPath    string
	Channel     Channel
	Metrics     Metrics
	PeriodStart time.Time
	PeriodEnd   time.Time
	DeletedAt   *time.Time
}

// Deleted reports whether the entry was soft-deleted.
func (e *PerformanceEntry) Deleted() bool {
	return e.DeletedAt != nil
}

type ProofStatus string

const (
	ProofPending  ProofStatus = "pending"
	ProofVerified ProofStatus = "verified"
	ProofRejected ProofStatus = "rejected"
)

// Proof is a manually reviewed proof-of-performance record, e.g. a tear
// sheet or an affidavit for a radio spot.
type Proof struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ItemPath    string
	Status      ProofStatus
	SubmittedAt time.Time
}
