package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"mesa-earnings/internal/core/domain"
)

// Demo is the data set inserted by Seed: one billed hub running a campaign
// with two confirmed orders and some delivery evidence.
type Demo struct {
	Hub      domain.Hub
	Campaign domain.Campaign
	Orders   []domain.Order
	Entries  []domain.PerformanceEntry
	Proofs   []domain.Proof
}

// demoID derives stable ids so seeding twice is a no-op.
func demoID(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mesa-earnings/demo/"+name))
}

// NewDemo builds the demo data set around now. The campaign started 45 days
// ago and ends in 15 days.
func NewDemo(now time.Time) Demo {
	start := now.AddDate(0, 0, -45).Truncate(24 * time.Hour)
	end := now.AddDate(0, 0, 15).Truncate(24 * time.Hour)

	hub := domain.Hub{
		ID:   demoID("hub"),
		Name: "Chicago Community Media Hub",
		Billing: &domain.BillingConfig{
			RevenueSharePercent: decimal.NewFromInt(15),
			PlatformCPMRate:     decimal.RequireFromString("0.50"),
		},
	}
	campaign := domain.Campaign{
		ID:        demoID("campaign"),
		HubID:     hub.ID,
		Name:      "Spring Transit Awareness",
		StartDate: &start,
		EndDate:   &end,
	}
	daily := domain.Order{
		ID:            demoID("order/daily"),
		CampaignID:    campaign.ID,
		PublicationID: demoID("publication/daily"),
		HubID:         hub.ID,
		Status:        domain.OrderConfirmed,
		Placements: []domain.Placement{
			{ItemPath: "web/homepage-banner", Name: "Homepage banner", Channel: domain.ChannelWeb,
				PricingModel: domain.PricingCPM, Rate: decimal.NewFromInt(10), Frequency: 50, MonthlyImpressions: 100000},
			{ItemPath: "newsletter/morning", Name: "Morning newsletter", Channel: domain.ChannelNewsletter,
				PricingModel: domain.PricingPerSend, Rate: decimal.NewFromInt(250), Frequency: 4},
			{ItemPath: "print/full-page", Name: "Full page", Channel: domain.ChannelPrint,
				PricingModel: "per_insertion", Rate: decimal.NewFromInt(500), Frequency: 2},
		},
	}
	radio := domain.Order{
		ID:            demoID("order/radio"),
		CampaignID:    campaign.ID,
		PublicationID: demoID("publication/radio"),
		HubID:         hub.ID,
		Status:        domain.OrderConfirmed,
		Placements: []domain.Placement{
			{ItemPath: "radio/drive-time", Name: "Drive time spot", Channel: domain.ChannelRadio,
				PricingModel: domain.PricingPerSpot, Rate: decimal.NewFromInt(40), Frequency: 20},
			{ItemPath: "podcast/weekly", Name: "Weekly episode read", Channel: domain.ChannelPodcast,
				PricingModel: domain.PricingPerEpisode, Rate: decimal.NewFromInt(150), Frequency: 3},
		},
	}

	period := func(days int) (time.Time, time.Time) {
		from := start.AddDate(0, 0, days)
		return from, from.AddDate(0, 0, 7)
	}
	entry := func(name string, order domain.Order, path string, ch domain.Channel, m domain.Metrics, week int) domain.PerformanceEntry {
		from, to := period(week * 7)
		return domain.PerformanceEntry{
			ID: demoID("entry/" + name), OrderID: order.ID, ItemPath: path, Channel: ch,
			Metrics: m, PeriodStart: from, PeriodEnd: to,
		}
	}
	proof := func(name string, order domain.Order, path string, status domain.ProofStatus, day int) domain.Proof {
		return domain.Proof{
			ID: demoID("proof/" + name), OrderID: order.ID, ItemPath: path, Status: status,
			SubmittedAt: start.AddDate(0, 0, day),
		}
	}

	return Demo{
		Hub:      hub,
		Campaign: campaign,
		Orders:   []domain.Order{daily, radio},
		Entries: []domain.PerformanceEntry{
			entry("web-1", daily, "web/homepage-banner", domain.ChannelWeb, domain.Metrics{Impressions: 41000, Clicks: 320}, 0),
			entry("web-2", daily, "web/homepage-banner", domain.ChannelWeb, domain.Metrics{Impressions: 38500, Clicks: 275}, 1),
			entry("newsletter-1", daily, "newsletter/morning", domain.ChannelNewsletter, domain.Metrics{Units: 1, Reach: 12000}, 0),
			entry("newsletter-2", daily, "newsletter/morning", domain.ChannelNewsletter, domain.Metrics{Units: 1, Reach: 11800}, 1),
			entry("newsletter-3", daily, "newsletter/morning", domain.ChannelNewsletter, domain.Metrics{Units: 1, Reach: 12150}, 2),
		},
		Proofs: []domain.Proof{
			proof("print-1", daily, "print/full-page", domain.ProofVerified, 10),
			proof("radio-1", radio, "radio/drive-time", domain.ProofVerified, 5),
			proof("radio-2", radio, "radio/drive-time", domain.ProofVerified, 12),
			proof("radio-3", radio, "radio/drive-time", domain.ProofPending, 19),
			proof("podcast-1", radio, "podcast/weekly", domain.ProofVerified, 7),
			proof("podcast-2", radio, "podcast/weekly", domain.ProofRejected, 14),
		},
	}
}

// Seed inserts the demo data set in a single transaction. Existing rows are
// left untouched.
func Seed(ctx context.Context, pool *pgxpool.Pool, demo Demo) error {
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if err := seedHub(ctx, tx, demo.Hub); err != nil {
			return err
		}
		c := demo.Campaign
		if _, err := tx.Exec(ctx, `INSERT INTO campaigns (id, hub_id, name, start_date, end_date)
VALUES ($1,$2,$3,$4,$5) ON CONFLICT DO NOTHING`, c.ID, c.HubID, c.Name, c.StartDate, c.EndDate); err != nil {
			return err
		}
		for _, o := range demo.Orders {
			placements, err := json.Marshal(o.Placements)
			if err != nil {
				return err
			}
			if _, err = tx.Exec(ctx, `INSERT INTO orders (id, campaign_id, publication_id, hub_id, status, placements)
VALUES ($1,$2,$3,$4,$5,$6) ON CONFLICT DO NOTHING`,
				o.ID, o.CampaignID, o.PublicationID, o.HubID, string(o.Status), placements); err != nil {
				return err
			}
		}
		for _, e := range demo.Entries {
			metrics, err := json.Marshal(e.Metrics)
			if err != nil {
				return err
			}
			if _, err = tx.Exec(ctx, `INSERT INTO performance_entries
    (id, order_id, item_path, channel, metrics, period_start, period_end)
VALUES ($1,$2,$3,$4,$5,$6,$7) ON CONFLICT DO NOTHING`,
				e.ID, e.OrderID, e.ItemPath, string(e.Channel), metrics, e.PeriodStart, e.PeriodEnd); err != nil {
				return err
			}
		}
		for _, p := range demo.Proofs {
			if _, err := tx.Exec(ctx, `INSERT INTO proofs (id, order_id, item_path, status, submitted_at)
VALUES ($1,$2,$3,$4,$5) ON CONFLICT DO NOTHING`,
				p.ID, p.OrderID, p.ItemPath, string(p.Status), p.SubmittedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

func seedHub(ctx context.Context, tx pgx.Tx, h domain.Hub) error {
	var share, cpm *string
	if h.Billing != nil {
		s, c := h.Billing.RevenueSharePercent.String(), h.Billing.PlatformCPMRate.String()
		share, cpm = &s, &c
	}
	_, err := tx.Exec(ctx, `INSERT INTO hubs (id, name, revenue_share_percent, platform_cpm_rate)
VALUES ($1,$2,$3::numeric,$4::numeric) ON CONFLICT DO NOTHING`, h.ID, h.Name, share, cpm)
	return err
}
