package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mesa-earnings/internal/core/domain"
	"mesa-earnings/internal/metrics"
)

// BillingSync is the part of hub billing that follows changes to earnings.
// port.BillingUseCase satisfies it.
type BillingSync interface {
	RecomputeActual(ctx context.Context, campaignID string) (*domain.BillingRecord, error)
	Finalize(ctx context.Context, campaignID string) (*domain.BillingRecord, error)
}

type options struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
	billing BillingSync
}

// Option configures a use case.
type Option func(*options)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(o *options) { o.metrics = m }
}

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithBillingSync makes earnings recomputes refresh the campaign's billing
// record. Only the earnings use case honours it.
func WithBillingSync(b BillingSync) Option {
	return func(o *options) { o.billing = b }
}

func newOptions(opts []Option) options {
	o := options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// parseID parses a record id. Malformed ids are reported as not found
// rather than as errors.
func parseID(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
