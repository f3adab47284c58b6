package domain

import "github.com/shopspring/decimal"

// EvidenceSource names where a placement's delivery was taken from.
type EvidenceSource string

const (
	SourceNone        EvidenceSource = "none"
	SourcePerformance EvidenceSource = "performance"
	SourceProof       EvidenceSource = "proof"
)

// Delivery is the attributed delivery of one placement. Quantity is in the
// unit the placement's pricing model expects: impressions, views, clicks,
// occurrences, or a 0-100 completion percentage for time-based models.
type Delivery struct {
	Quantity    decimal.Decimal `json:"quantity"`
	Impressions int64           `json:"impressions"`
	Source      EvidenceSource  `json:"source"`
	Entries     int             `json:"entries"`
	Proofs      int             `json:"proofs"`
}

// Attribution maps item paths to attributed delivery.
type Attribution map[string]Delivery

type placementEvidence struct {
	entries []PerformanceEntry
	proofs  int
}

// Attribute assigns evidence to the placements that have goals and derives
// each placement's delivered quantity. Entries are matched by item path;
// entries without an item path fall back to the channel only when a single
// placement uses that channel. Deleted entries, unverified proofs and
// evidence for unknown item paths are ignored.
func Attribute(placements []Placement, goals DeliveryGoals, entries []PerformanceEntry, proofs []Proof) Attribution {
	active := make(map[string]Placement, len(placements))
	byChannel := make(map[Channel][]string)
	for _, p := range placements {
		if p.Excluded {
			continue
		}
		if _, ok := goals[p.ItemPath]; !ok {
			continue
		}
		active[p.ItemPath] = p
		byChannel[p.Channel] = append(byChannel[p.Channel], p.ItemPath)
	}

	evidence := make(map[string]*placementEvidence, len(active))
	for path := range active {
		evidence[path] = &placementEvidence{}
	}

	for _, e := range entries {
		if e.Deleted() {
			continue
		}
		path := e.ItemPath
		if path == "" {
			candidates := byChannel[e.Channel]
			if len(candidates) != 1 {
				continue
			}
			path = candidates[0]
		}
		if ev, ok := evidence[path]; ok {
			ev.entries = append(ev.entries, e)
		}
	}
	for _, pr := range proofs {
		if pr.Status != ProofVerified {
			continue
		}
		if ev, ok := evidence[pr.ItemPath]; ok {
			ev.proofs++
		}
	}

	out := make(Attribution, len(active))
	for path, p := range active {
		out[path] = deliver(p, goals[path], evidence[path])
	}
	return out
}

func deliver(p Placement, goal DeliveryGoal, ev *placementEvidence) Delivery {
	var m Metrics
	for _, e := range ev.entries {
		m.Impressions += max(e.Metrics.Impressions, 0)
		m.Clicks += max(e.Metrics.Clicks, 0)
		views := e.Metrics.Views
		if views <= 0 {
			views = e.Metrics.Impressions
		}
		m.Views += max(views, 0)
	}

	d := Delivery{Quantity: decimal.Zero, Source: SourceNone}
	if p.Channel.IsDigital() {
		d.Impressions = m.Impressions
		if goal.Type == GoalImpressions && goal.Value > 0 {
			d.Impressions = min(d.Impressions, goal.Value)
		}
	}

	switch p.PricingModel.Family() {
	case FamilyImpression:
		d.Quantity = decimal.NewFromInt(m.Impressions)
		d.markEntries(len(ev.entries))
	case FamilyView:
		d.Quantity = decimal.NewFromInt(m.Views)
		d.markEntries(len(ev.entries))
	case FamilyClick:
		d.Quantity = decimal.NewFromInt(m.Clicks)
		d.markEntries(len(ev.entries))
	case FamilyTime:
		d.Quantity = completion(p, goal, ev, m, &d)
	default:
		d.Quantity = decimal.NewFromInt(occurrences(p, ev, &d))
	}
	return d
}

func (d *Delivery) markEntries(n int) {
	if n > 0 {
		d.Source = SourcePerformance
		d.Entries = n
	}
}

// occurrences counts delivered units from exactly one evidence source, the
// one reporting more units, so new evidence never lowers delivery. On a tie
// channels with automated counters take performance entries and the others
// take verified proofs.
func occurrences(p Placement, ev *placementEvidence, d *Delivery) int64 {
	entries, proofs := len(ev.entries), ev.proofs
	if entries == 0 && proofs == 0 {
		return 0
	}
	if entries > proofs || (entries == proofs && p.Channel.HasCounters()) {
		d.Source = SourcePerformance
		d.Entries = entries
		return int64(entries)
	}
	d.Source = SourceProof
	d.Proofs = proofs
	return int64(proofs)
}

// completion returns the time-based progress as a percentage in [0, 100].
func completion(p Placement, goal DeliveryGoal, ev *placementEvidence, m Metrics, d *Delivery) decimal.Decimal {
	var done, planned decimal.Decimal
	if goal.Type == GoalImpressions && goal.Value > 0 && len(ev.entries) > 0 {
		d.markEntries(len(ev.entries))
		done = decimal.NewFromInt(m.Impressions)
		planned = decimal.NewFromInt(goal.Value)
	} else {
		done = decimal.NewFromInt(occurrences(p, ev, d))
		planned = decimal.NewFromInt(max(goal.Value, 1))
		if goal.Type == GoalImpressions {
			planned = decimal.NewFromInt(1)
		}
	}
	ratio := done.Div(planned)
	if ratio.GreaterThan(decimal.NewFromInt(1)) {
		ratio = decimal.NewFromInt(1)
	}
	return ratio.Mul(hundred)
}
