package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places amounts are rounded to.
const MoneyPlaces = 2

// Line is the amount recognised for a single placement.
type Line struct {
	ItemPath     string          `json:"itemPath"`
	Name         string          `json:"name,omitempty"`
	Channel      Channel         `json:"channel"`
	PricingModel PricingModel    `json:"pricingModel"`
	Rate         decimal.Decimal `json:"rate"`
	Quantity     decimal.Decimal `json:"quantity"`
	Amount       decimal.Decimal `json:"amount"`
	Source       EvidenceSource  `json:"source,omitempty"`
	Capped       bool            `json:"capped,omitempty"`
}

// Breakdown is a money total split by channel and by placement. Capped is
// set when the order-level cap reduced the total.
type Breakdown struct {
	Total       decimal.Decimal             `json:"total"`
	ByChannel   map[Channel]decimal.Decimal `json:"byChannel"`
	ByPlacement map[string]Line             `json:"byPlacement"`
	Capped      bool                        `json:"capped,omitempty"`
}

// NewBreakdown returns an empty breakdown with initialised maps.
func NewBreakdown() Breakdown {
	return Breakdown{
		Total:       decimal.Zero,
		ByChannel:   map[Channel]decimal.Decimal{},
		ByPlacement: map[string]Line{},
	}
}

func (b *Breakdown) add(l Line) {
	b.ByPlacement[l.ItemPath] = l
	b.ByChannel[l.Channel] = b.ByChannel[l.Channel].Add(l.Amount)
	b.Total = b.Total.Add(l.Amount)
}

// Variance is actual minus estimated, also as a percentage of estimated.
type Variance struct {
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// NewVariance computes the variance. The percentage is zero when nothing
// was estimated.
func NewVariance(estimated, actual decimal.Decimal) Variance {
	amount := actual.Sub(estimated)
	pct := decimal.Zero
	if !estimated.IsZero() {
		pct = amount.Div(estimated).Mul(hundred).Round(MoneyPlaces)
	}
	return Variance{Amount: amount, Percentage: pct}
}

// TrackedImpressions is the digital impression volume used for platform CPM
// fees.
type TrackedImpressions struct {
	Estimated int64 `json:"estimated"`
	Actual    int64 `json:"actual"`
}

// EarningsRecord is what a publication is owed for one order.
type EarningsRecord struct {
	ID                 uuid.UUID          `json:"id"`
	OrderID            uuid.UUID          `json:"orderId"`
	CampaignID         uuid.UUID          `json:"campaignId"`
	PublicationID      uuid.UUID          `json:"publicationId"`
	HubID              uuid.UUID          `json:"hubId"`
	Estimated          Breakdown          `json:"estimated"`
	Actual             Breakdown          `json:"actual"`
	Variance           Variance           `json:"variance"`
	TrackedImpressions TrackedImpressions `json:"trackedDigitalImpressions"`
	Ledger             Ledger             `json:"ledger"`
	Finalized          bool               `json:"finalized"`
	FinalizedAt        *time.Time         `json:"finalizedAt,omitempty"`
	LastComputedAt     *time.Time         `json:"lastComputedAt,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// Payment derives the payment summary against the actual total.
func (r *EarningsRecord) Payment() PaymentSummary {
	return r.Ledger.Summary(r.Actual.Total)
}

// EarningsActual is the recomputable part of an earnings record.
type EarningsActual struct {
	Actual        Breakdown
	Variance      Variance
	TrackedActual int64
	ComputedAt    time.Time
}

// Apply copies the snapshot into the record.
func (r *EarningsRecord) Apply(a EarningsActual) {
	r.Actual = a.Actual
	r.Variance = a.Variance
	r.TrackedImpressions.Actual = a.TrackedActual
	at := a.ComputedAt
	r.LastComputedAt = &at
	r.UpdatedAt = at
}

// NewEarningsRecord builds the estimate for an order from its stored goals.
// The actual side starts at zero.
func NewEarningsRecord(order *Order, now time.Time) *EarningsRecord {
	estimated, tracked := Estimate(order)
	return &EarningsRecord{
		ID:                 uuid.New(),
		OrderID:            order.ID,
		CampaignID:         order.CampaignID,
		PublicationID:      order.PublicationID,
		HubID:              order.HubID,
		Estimated:          estimated,
		Actual:             NewBreakdown(),
		Variance:           NewVariance(estimated.Total, decimal.Zero),
		TrackedImpressions: TrackedImpressions{Estimated: tracked},
		Ledger:             Ledger{AmountPaid: decimal.Zero},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// Estimate prices every placement with a stored goal at full delivery. It
// also returns the impression goals of digital placements.
func Estimate(order *Order) (Breakdown, int64) {
	b := NewBreakdown()
	var tracked int64
	for _, p := range order.Placements {
		goal, ok := order.DeliveryGoals[p.ItemPath]
		if p.Excluded || !ok {
			continue
		}
		qty := FullDelivery(p.PricingModel, goal)
		b.add(Line{
			ItemPath:     p.ItemPath,
			Name:         p.Name,
			Channel:      p.Channel,
			PricingModel: p.PricingModel,
			Rate:         p.Rate,
			Quantity:     qty,
			Amount:       Price(p.PricingModel, p.Rate, qty).Round(MoneyPlaces),
		})
		if p.Channel.IsDigital() && goal.Type == GoalImpressions {
			tracked += goal.Value
		}
	}
	return b, tracked
}

// CapPlacement limits a placement's amount to its estimated amount.
func CapPlacement(l Line, ceiling decimal.Decimal) Line {
	if l.Amount.GreaterThan(ceiling) {
		l.Amount = ceiling
		l.Capped = true
	}
	return l
}

// CapOrderTotal limits the breakdown total to the order's estimated total.
// ByChannel and ByPlacement keep their pre-cap figures, so a capped
// breakdown's lines may sum to more than Total; Capped marks that case.
func CapOrderTotal(b Breakdown, ceiling decimal.Decimal) Breakdown {
	if b.Total.GreaterThan(ceiling) {
		b.Total = ceiling
		b.Capped = true
	}
	return b
}

// ComputeActual prices attributed delivery for every estimated placement.
// Each placement is capped at its estimate before summing, and the sum is
// capped at the estimated total.
func ComputeActual(order *Order, estimated Breakdown, attribution Attribution, now time.Time) EarningsActual {
	b := NewBreakdown()
	var tracked int64
	for _, p := range order.Placements {
		est, ok := estimated.ByPlacement[p.ItemPath]
		if !ok {
			continue
		}
		d, ok := attribution[p.ItemPath]
		if !ok {
			d = Delivery{Quantity: decimal.Zero, Source: SourceNone}
		}
		line := Line{
			ItemPath:     p.ItemPath,
			Name:         p.Name,
			Channel:      p.Channel,
			PricingModel: p.PricingModel,
			Rate:         p.Rate,
			Quantity:     d.Quantity,
			Amount:       Price(p.PricingModel, p.Rate, d.Quantity).Round(MoneyPlaces),
			Source:       d.Source,
		}
		b.add(CapPlacement(line, est.Amount))
		tracked += d.Impressions
	}
	b = CapOrderTotal(b, estimated.Total)
	return EarningsActual{
		Actual:        b,
		Variance:      NewVariance(estimated.Total, b.Total),
		TrackedActual: tracked,
		ComputedAt:    now,
	}
}
