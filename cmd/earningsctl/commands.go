package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"mesa-earnings/internal/app"
	"mesa-earnings/internal/config"
	"mesa-earnings/internal/db"
)

// session is what every database-backed command needs.
type session struct {
	cfg    config.Config
	logger *slog.Logger
	pool   *pgxpool.Pool
}

func open(ctx context.Context, envFile string) (*session, error) {
	cfg, err := config.LoadFiles(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &session{cfg: cfg, logger: cfg.Log.New(os.Stderr), pool: pool}, nil
}

func (rt *session) services() app.Services {
	return app.NewServices(rt.pool, rt.logger, nil)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func migrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFiles(*envFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func seedCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert a demo hub, campaign, orders and evidence",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := open(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer rt.pool.Close()

			demo := db.NewDemo(time.Now().UTC())
			if err = db.Seed(cmd.Context(), rt.pool, demo); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "hub       %s\n", demo.Hub.ID)
			fmt.Fprintf(out, "campaign  %s\n", demo.Campaign.ID)
			for _, o := range demo.Orders {
				fmt.Fprintf(out, "order     %s\n", o.ID)
			}
			return nil
		},
	}
}

func recomputeCmd(envFile *string) *cobra.Command {
	var (
		orderID    string
		campaignID string
	)
	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Recompute the actual earnings of an order or the billing of a campaign",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (orderID == "") == (campaignID == "") {
				return fmt.Errorf("exactly one of --order or --campaign is required")
			}
			rt, err := open(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer rt.pool.Close()
			svc := rt.services()

			if orderID != "" {
				if _, err = svc.Earnings.CreateEstimate(cmd.Context(), orderID); err != nil {
					return err
				}
				rec, err := svc.Earnings.RecomputeActual(cmd.Context(), orderID)
				if err != nil {
					return err
				}
				if rec == nil {
					return fmt.Errorf("order %s not found", orderID)
				}
				return printJSON(cmd, rec)
			}
			if _, err = svc.Billing.CreateEstimate(cmd.Context(), campaignID); err != nil {
				return err
			}
			rec, err := svc.Billing.RecomputeActual(cmd.Context(), campaignID)
			if err != nil {
				return err
			}
			if rec == nil {
				return fmt.Errorf("campaign %s is not billed", campaignID)
			}
			return printJSON(cmd, rec)
		},
	}
	cmd.Flags().StringVar(&orderID, "order", "", "order id")
	cmd.Flags().StringVar(&campaignID, "campaign", "", "campaign id")
	return cmd
}

func finalizeEndedCmd(envFile *string) *cobra.Command {
	var before string
	cmd := &cobra.Command{
		Use:   "finalize-ended",
		Short: "Finalize earnings and billing of campaigns that have ended",
		Long: `Finalize every open earnings record of campaigns whose end date is
before --before (RFC3339, default now), then finalize each campaign's billing
record. Intended to be run by an external scheduler.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			at := time.Now().UTC()
			if before != "" {
				t, err := time.Parse(time.RFC3339, before)
				if err != nil {
					return fmt.Errorf("invalid --before: %w", err)
				}
				at = t.UTC()
			}
			rt, err := open(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer rt.pool.Close()

			n, err := rt.services().Earnings.FinalizeEnded(cmd.Context(), at)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "finalized %d earnings records\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "cutoff end date (RFC3339)")
	return cmd
}
