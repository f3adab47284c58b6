package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// GoalType is the unit a delivery goal is measured in.
type GoalType string

const (
	GoalImpressions GoalType = "impressions"
	GoalUnits       GoalType = "units"
)

// DeliveryGoal is the target a placement must deliver to earn its full
// contracted value.
type DeliveryGoal struct {
	Type        GoalType `json:"goalType"`
	Value       int64    `json:"goalValue"`
	Description string   `json:"description"`
}

// DeliveryGoals maps placement item paths to their goals. Once stored on an
// order the mapping is immutable.
type DeliveryGoals map[string]DeliveryGoal

// DurationMonths is the campaign length in whole months, never less than
// one. A missing date yields one month.
func DurationMonths(start, end *time.Time) int64 {
	if start == nil || end == nil {
		return 1
	}
	days := end.Sub(*start).Hours() / 24
	months := int64(math.Round(days / 30))
	if months < 1 {
		return 1
	}
	return months
}

// ComputeDeliveryGoals derives the goal of every non-excluded placement. It
// must run once per order, at confirmation; callers persist the result and
// read it back instead of calling this again.
func ComputeDeliveryGoals(placements []Placement, start, end *time.Time) DeliveryGoals {
	months := DurationMonths(start, end)
	goals := make(DeliveryGoals, len(placements))
	for _, p := range placements {
		if p.Excluded || p.ItemPath == "" {
			continue
		}
		goals[p.ItemPath] = goalFor(p, months)
	}
	return goals
}

func goalFor(p Placement, months int64) DeliveryGoal {
	if !p.Channel.IsDigital() {
		freq := max(p.Frequency, 0)
		return DeliveryGoal{
			Type:        GoalUnits,
			Value:       freq,
			Description: fmt.Sprintf("%d %s", freq, plural(p.Channel.UnitNoun(), freq)),
		}
	}
	baseline := max(p.MonthlyImpressions, 0)
	if p.PricingModel.IsCPMFamily() {
		share := max(p.Frequency, 0)
		value := decimal.NewFromInt(baseline).
			Mul(decimal.NewFromInt(share)).
			Div(hundred).
			Mul(decimal.NewFromInt(months)).
			Round(0).
			IntPart()
		return DeliveryGoal{
			Type:  GoalImpressions,
			Value: value,
			Description: fmt.Sprintf("%d impressions (%d%% share of voice over %d %s)",
				value, share, months, plural("month", months)),
		}
	}
	value := baseline * months
	return DeliveryGoal{
		Type:        GoalImpressions,
		Value:       value,
		Description: fmt.Sprintf("%d impressions over %d %s", value, months, plural("month", months)),
	}
}

func plural(noun string, n int64) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
