package app

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"mesa-earnings/internal/adapter/postgres"
	"mesa-earnings/internal/adapter/usecase"
	"mesa-earnings/internal/metrics"
)

// Services are the use cases shared by the HTTP server and earningsctl.
type Services struct {
	Earnings *usecase.EarningsUseCase
	Billing  *usecase.BillingUseCase
}

// NewServices wires the postgres repositories into both use cases. Earnings
// recomputes keep the campaign's billing record in step.
func NewServices(pool *pgxpool.Pool, logger *slog.Logger, rec *metrics.Recorder) Services {
	var (
		orders    = postgres.NewOrderRepository(pool)
		campaigns = postgres.NewCampaignRepository(pool)
		hubs      = postgres.NewHubRepository(pool)
		evidence  = postgres.NewEvidenceRepository(pool)
		earnings  = postgres.NewEarningsRepository(pool)
		billing   = postgres.NewBillingRepository(pool)
	)
	billingUC := usecase.NewBillingUseCase(campaigns, hubs, earnings, billing,
		usecase.WithLogger(logger.With(slog.String("ledger", metrics.LedgerBilling))),
		usecase.WithMetrics(rec))
	earningsUC := usecase.NewEarningsUseCase(orders, campaigns, evidence, earnings,
		usecase.WithLogger(logger.With(slog.String("ledger", metrics.LedgerEarnings))),
		usecase.WithMetrics(rec),
		usecase.WithBillingSync(billingUC))
	return Services{Earnings: earningsUC, Billing: billingUC}
}
