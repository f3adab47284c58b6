package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an insertion order. Orders are owned
// by the surrounding CRUD layer; the engine only reads them.
type OrderStatus string

const (
	OrderDraft     OrderStatus = "draft"
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Placement is a contracted line item on an order. Frequency is a
// share-of-voice percentage for CPM family models and an occurrence count
// otherwise.
type Placement struct {
	ItemPath           string          `json:"itemPath"`
	Name               string          `json:"name,omitempty"`
	Channel            Channel         `json:"channel"`
	PricingModel       PricingModel    `json:"pricingModel"`
	Rate               decimal.Decimal `json:"rate"`
	Frequency          int64           `json:"frequency"`
	MonthlyImpressions int64           `json:"monthlyImpressions,omitempty"`
	Excluded           bool            `json:"excluded,omitempty"`
}

// Order is a publication's insertion order for a campaign.
type Order struct {
	ID            uuid.UUID
	CampaignID    uuid.UUID
	PublicationID uuid.UUID
	HubID         uuid.UUID
	Status        OrderStatus
	Placements    []Placement

	// DeliveryGoals is nil until goals were computed at confirmation.
	DeliveryGoals   DeliveryGoals
	GoalsComputedAt *time.Time
}

// EligibleForEarnings reports whether earnings may be calculated.
func (o *Order) EligibleForEarnings() bool {
	return o.Status == OrderConfirmed || o.Status == OrderCompleted
}

// Campaign is the advertiser campaign an order belongs to. Dates are
// optional.
type Campaign struct {
	ID        uuid.UUID
	HubID     uuid.UUID
	Name      string
	StartDate *time.Time
	EndDate   *time.Time
}

// Ended reports whether the campaign's end date is before now.
func (c *Campaign) Ended(now time.Time) bool {
	return c.EndDate != nil && c.EndDate.Before(now)
}

// BillingConfig holds the fees a hub pays the platform.
type BillingConfig struct {
	RevenueSharePercent decimal.Decimal `json:"revenueSharePercent"`
	PlatformCPMRate     decimal.Decimal `json:"platformCpmRate"`
}

// Hub brokers campaigns between advertisers and publications. A nil
// Billing means the hub is not billed.
type Hub struct {
	ID      uuid.UUID
	Name    string
	Billing *BillingConfig
}
