package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PricingModel is the rate structure a placement was sold under.
type PricingModel string

const (
	PricingCPM PricingModel = "cpm"
	PricingCPV PricingModel = "cpv"
	PricingCPC PricingModel = "cpc"

	PricingPerSend    PricingModel = "per_send"
	PricingPerSpot    PricingModel = "per_spot"
	PricingPerPost    PricingModel = "per_post"
	PricingPerAd      PricingModel = "per_ad"
	PricingPerEpisode PricingModel = "per_episode"
	PricingPerStory   PricingModel = "per_story"

	PricingFlat    PricingModel = "flat"
	PricingMonthly PricingModel = "monthly"
	PricingPerWeek PricingModel = "per_week"
	PricingPerDay  PricingModel = "per_day"
)

// Family groups pricing models sharing one money conversion rule.
type Family int

const (
	FamilyUnknown Family = iota
	// FamilyImpression is priced per thousand impressions.
	FamilyImpression
	// FamilyView is priced per hundred views.
	FamilyView
	// FamilyClick is priced per click.
	FamilyClick
	// FamilyOccurrence is priced per send, spot, post, episode and so on.
	FamilyOccurrence
	// FamilyTime is priced for a period; delivery is a 0-100 completion
	// percentage rather than a volume.
	FamilyTime
)

var families = map[PricingModel]Family{
	PricingCPM: FamilyImpression,
	PricingCPV: FamilyView,
	PricingCPC: FamilyClick,

	PricingPerSend:    FamilyOccurrence,
	PricingPerSpot:    FamilyOccurrence,
	PricingPerPost:    FamilyOccurrence,
	PricingPerAd:      FamilyOccurrence,
	PricingPerEpisode: FamilyOccurrence,
	PricingPerStory:   FamilyOccurrence,
	"per_insertion":   FamilyOccurrence,
	"per_issue":       FamilyOccurrence,
	"per_event":       FamilyOccurrence,
	"per_mention":     FamilyOccurrence,
	"per_video":       FamilyOccurrence,
	"per_unit":        FamilyOccurrence,

	PricingFlat:    FamilyTime,
	PricingMonthly: FamilyTime,
	PricingPerWeek: FamilyTime,
	PricingPerDay:  FamilyTime,
	"per_month":    FamilyTime,
	"weekly":       FamilyTime,
	"daily":        FamilyTime,
}

// Normalize lower-cases and trims the model name.
func (m PricingModel) Normalize() PricingModel {
	return PricingModel(strings.ToLower(strings.TrimSpace(string(m))))
}

// Family returns the conversion family of the model. Unrecognised models
// report FamilyUnknown.
func (m PricingModel) Family() Family {
	return families[m.Normalize()]
}

// IsCPMFamily reports whether the model is volume priced through an ad
// server (cpm, cpv, cpc). For these models a placement's frequency is a
// share-of-voice percentage.
func (m PricingModel) IsCPMFamily() bool {
	switch m.Family() {
	case FamilyImpression, FamilyView, FamilyClick:
		return true
	default:
		return false
	}
}

var (
	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1000)
)

// Price converts a delivered quantity into money under the given model.
// It is total: zero or negative rates and quantities yield zero, unknown
// models fall back to delivered × rate.
func Price(model PricingModel, rate, delivered decimal.Decimal) decimal.Decimal {
	if !rate.IsPositive() || !delivered.IsPositive() {
		return decimal.Zero
	}
	switch model.Family() {
	case FamilyImpression:
		return delivered.Div(thousand).Mul(rate)
	case FamilyView, FamilyTime:
		return delivered.Div(hundred).Mul(rate)
	case FamilyClick, FamilyOccurrence:
		return delivered.Mul(rate)
	default:
		return delivered.Mul(rate)
	}
}

// FullDelivery is the delivered quantity that earns a placement its whole
// contracted value: 100 percent for time-based models, the goal volume
// otherwise.
func FullDelivery(model PricingModel, goal DeliveryGoal) decimal.Decimal {
	if model.Family() == FamilyTime {
		return hundred
	}
	return decimal.NewFromInt(goal.Value)
}
