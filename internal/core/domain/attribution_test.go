package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func entry(path string, ch Channel, m Metrics) PerformanceEntry {
	return PerformanceEntry{ID: uuid.New(), ItemPath: path, Channel: ch, Metrics: m}
}

func proof(path string, status ProofStatus) Proof {
	return Proof{ID: uuid.New(), ItemPath: path, Status: status}
}

func TestAttribute_MatchesByItemPath(t *testing.T) {
	p := homepageCPM()
	goals := DeliveryGoals{p.ItemPath: {Type: GoalImpressions, Value: 100000}}

	got := Attribute([]Placement{p}, goals, []PerformanceEntry{
		entry(p.ItemPath, ChannelWeb, Metrics{Impressions: 25000}),
		entry(p.ItemPath, ChannelWeb, Metrics{Impressions: 15000}),
		entry("web/unknown", ChannelWeb, Metrics{Impressions: 99999}),
	}, nil)

	d := got[p.ItemPath]
	assertMoney(t, "40000", d.Quantity)
	assert.Equal(t, int64(40000), d.Impressions)
	assert.Equal(t, SourcePerformance, d.Source)
	assert.Equal(t, 2, d.Entries)
	assert.NotContains(t, got, "web/unknown")
}

func TestAttribute_ChannelFallback(t *testing.T) {
	single := Placement{ItemPath: "podcast/show", Channel: ChannelPodcast, PricingModel: PricingPerEpisode}
	radioA := Placement{ItemPath: "radio/morning", Channel: ChannelRadio, PricingModel: PricingPerSpot}
	radioB := Placement{ItemPath: "radio/evening", Channel: ChannelRadio, PricingModel: PricingPerSpot}
	goals := DeliveryGoals{
		single.ItemPath: {Type: GoalUnits, Value: 4},
		radioA.ItemPath: {Type: GoalUnits, Value: 10},
		radioB.ItemPath: {Type: GoalUnits, Value: 10},
	}

	got := Attribute([]Placement{single, radioA, radioB}, goals, []PerformanceEntry{
		entry("", ChannelPodcast, Metrics{Units: 1}),
		entry("", ChannelRadio, Metrics{Units: 1}),
	}, nil)

	assertMoney(t, "1", got[single.ItemPath].Quantity)
	// Two radio placements make the channel ambiguous.
	assertMoney(t, "0", got[radioA.ItemPath].Quantity)
	assertMoney(t, "0", got[radioB.ItemPath].Quantity)
	assert.Equal(t, SourceNone, got[radioA.ItemPath].Source)
}

func TestAttribute_IgnoresDeletedEntriesAndUnverifiedProofs(t *testing.T) {
	p := Placement{ItemPath: "radio/drive", Channel: ChannelRadio, PricingModel: PricingPerSpot}
	goals := DeliveryGoals{p.ItemPath: {Type: GoalUnits, Value: 10}}
	deleted := entry(p.ItemPath, ChannelRadio, Metrics{Units: 1})
	now := time.Now()
	deleted.DeletedAt = &now

	got := Attribute([]Placement{p}, goals, []PerformanceEntry{deleted}, []Proof{
		proof(p.ItemPath, ProofVerified),
		proof(p.ItemPath, ProofPending),
		proof(p.ItemPath, ProofRejected),
	})

	d := got[p.ItemPath]
	assertMoney(t, "1", d.Quantity)
	assert.Equal(t, SourceProof, d.Source)
	assert.Equal(t, 1, d.Proofs)
}

func TestAttribute_SingleEvidenceSource(t *testing.T) {
	ins := Placement{ItemPath: "print/a", Channel: ChannelPrint, PricingModel: "per_insertion"}
	news := Placement{ItemPath: "newsletter/a", Channel: ChannelNewsletter, PricingModel: PricingPerSend}
	goals := DeliveryGoals{
		ins.ItemPath: {Type: GoalUnits, Value: 5},
		news.ItemPath:  {Type: GoalUnits, Value: 5},
	}
	entries := []PerformanceEntry{
		entry(ins.ItemPath, ChannelPrint, Metrics{Units: 1}),
		entry(news.ItemPath, ChannelNewsletter, Metrics{Units: 1}),
		entry(news.ItemPath, ChannelNewsletter, Metrics{Units: 1}),
	}
	proofs := []Proof{
		proof(ins.ItemPath, ProofVerified),
		proof(ins.ItemPath, ProofVerified),
		proof(news.ItemPath, ProofVerified),
	}

	got := Attribute([]Placement{ins, news}, goals, entries, proofs)

	// Print has no counters: proofs win and the entry is not added on top.
	assertMoney(t, "2", got[ins.ItemPath].Quantity)
	assert.Equal(t, SourceProof, got[ins.ItemPath].Source)
	// Newsletters report counters: entries win.
	assertMoney(t, "2", got[news.ItemPath].Quantity)
	assert.Equal(t, SourcePerformance, got[news.ItemPath].Source)
}

func TestAttribute_NewProofNeverLowersDelivery(t *testing.T) {
	p := Placement{ItemPath: "radio/drive", Channel: ChannelRadio, PricingModel: PricingPerSpot, Rate: dec("50")}
	goals := DeliveryGoals{p.ItemPath: {Type: GoalUnits, Value: 10}}
	entries := make([]PerformanceEntry, 0, 4)
	for i := 0; i < 4; i++ {
		entries = append(entries, entry(p.ItemPath, ChannelRadio, Metrics{Units: 1}))
	}

	before := Attribute([]Placement{p}, goals, entries, nil)[p.ItemPath]
	after := Attribute([]Placement{p}, goals, entries, []Proof{proof(p.ItemPath, ProofVerified)})[p.ItemPath]

	assertMoney(t, "4", before.Quantity)
	assertMoney(t, "4", after.Quantity)
	assert.Equal(t, SourcePerformance, after.Source)
	assertMoney(t, "200", Price(p.PricingModel, p.Rate, after.Quantity))

	// Once proofs outnumber entries they take over, still without summing.
	var proofs []Proof
	for i := 0; i < 6; i++ {
		proofs = append(proofs, proof(p.ItemPath, ProofVerified))
	}
	more := Attribute([]Placement{p}, goals, entries, proofs)[p.ItemPath]
	assertMoney(t, "6", more.Quantity)
	assert.Equal(t, SourceProof, more.Source)
	assert.Equal(t, 0, more.Entries)
}

func TestAttribute_TimeBasedCompletionNeverLowered(t *testing.T) {
	p := Placement{ItemPath: "print/monthly", Channel: ChannelPrint, PricingModel: PricingMonthly, Rate: dec("400")}
	goals := DeliveryGoals{p.ItemPath: {Type: GoalUnits, Value: 4}}
	entries := []PerformanceEntry{
		entry(p.ItemPath, ChannelPrint, Metrics{Units: 1}),
		entry(p.ItemPath, ChannelPrint, Metrics{Units: 1}),
		entry(p.ItemPath, ChannelPrint, Metrics{Units: 1}),
	}

	before := Attribute([]Placement{p}, goals, entries, nil)[p.ItemPath]
	after := Attribute([]Placement{p}, goals, entries, []Proof{proof(p.ItemPath, ProofVerified)})[p.ItemPath]

	assertMoney(t, "75", before.Quantity)
	assertMoney(t, "75", after.Quantity)
}

func TestAttribute_ProofOnlyChannelFallsBackToEntries(t *testing.T) {
	p := Placement{ItemPath: "social/post", Channel: ChannelSocial, PricingModel: PricingPerPost}
	got := Attribute([]Placement{p}, DeliveryGoals{p.ItemPath: {Type: GoalUnits, Value: 3}},
		[]PerformanceEntry{entry(p.ItemPath, ChannelSocial, Metrics{Reach: 800})}, nil)

	assertMoney(t, "1", got[p.ItemPath].Quantity)
	assert.Equal(t, SourcePerformance, got[p.ItemPath].Source)
}

func TestAttribute_ClicksAndViews(t *testing.T) {
	cpc := Placement{ItemPath: "web/cpc", Channel: ChannelWeb, PricingModel: PricingCPC}
	cpv := Placement{ItemPath: "streaming/cpv", Channel: ChannelStreaming, PricingModel: PricingCPV}
	goals := DeliveryGoals{
		cpc.ItemPath: {Type: GoalImpressions, Value: 50000},
		cpv.ItemPath: {Type: GoalImpressions, Value: 50000},
	}

	got := Attribute([]Placement{cpc, cpv}, goals, []PerformanceEntry{
		entry(cpc.ItemPath, ChannelWeb, Metrics{Impressions: 9000, Clicks: 45}),
		entry(cpv.ItemPath, ChannelStreaming, Metrics{Impressions: 700, Views: 300}),
		entry(cpv.ItemPath, ChannelStreaming, Metrics{Impressions: 200}),
	}, nil)

	assertMoney(t, "45", got[cpc.ItemPath].Quantity)
	assert.Equal(t, int64(9000), got[cpc.ItemPath].Impressions)
	// Entries without views count their impressions as views.
	assertMoney(t, "500", got[cpv.ItemPath].Quantity)
}

func TestAttribute_TrackedImpressionsCappedAtGoal(t *testing.T) {
	p := homepageCPM()
	got := Attribute([]Placement{p}, DeliveryGoals{p.ItemPath: {Type: GoalImpressions, Value: 100000}},
		[]PerformanceEntry{entry(p.ItemPath, ChannelWeb, Metrics{Impressions: 130000})}, nil)

	assertMoney(t, "130000", got[p.ItemPath].Quantity)
	assert.Equal(t, int64(100000), got[p.ItemPath].Impressions)
}

func TestAttribute_TimeBasedCompletion(t *testing.T) {
	ins := Placement{ItemPath: "print/monthly", Channel: ChannelPrint, PricingModel: PricingMonthly, Rate: dec("500")}
	web := Placement{ItemPath: "web/takeover", Channel: ChannelWeb, PricingModel: PricingFlat, Rate: dec("800")}
	goals := DeliveryGoals{
		ins.ItemPath: {Type: GoalUnits, Value: 4},
		web.ItemPath:   {Type: GoalImpressions, Value: 20000},
	}

	got := Attribute([]Placement{ins, web}, goals,
		[]PerformanceEntry{entry(web.ItemPath, ChannelWeb, Metrics{Impressions: 5000})},
		[]Proof{proof(ins.ItemPath, ProofVerified)})

	assertMoney(t, "25", got[ins.ItemPath].Quantity)
	assert.Equal(t, SourceProof, got[ins.ItemPath].Source)
	assertMoney(t, "25", got[web.ItemPath].Quantity)
	assert.Equal(t, SourcePerformance, got[web.ItemPath].Source)
}

func TestAttribute_SkipsExcludedAndGoalLessPlacements(t *testing.T) {
	excluded := Placement{ItemPath: "radio/x", Channel: ChannelRadio, PricingModel: PricingPerSpot, Excluded: true}
	added := Placement{ItemPath: "radio/later", Channel: ChannelRadio, PricingModel: PricingPerSpot}
	goals := DeliveryGoals{excluded.ItemPath: {Type: GoalUnits, Value: 3}}

	got := Attribute([]Placement{excluded, added}, goals, nil, []Proof{
		proof(excluded.ItemPath, ProofVerified),
		proof(added.ItemPath, ProofVerified),
	})

	assert.Empty(t, got)
}
