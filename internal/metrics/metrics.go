package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Ledger labels.
const (
	LedgerEarnings = "earnings"
	LedgerBilling  = "billing"
)

// Cap level labels.
const (
	CapPlacement = "placement"
	CapOrder     = "order"
)

// Recorder exposes Prometheus collectors for reconciliation events. A nil
// Recorder is valid and records nothing.
type Recorder struct {
	recomputes    *prometheus.CounterVec
	capsEngaged   *prometheus.CounterVec
	payments      *prometheus.CounterVec
	paymentAmount *prometheus.CounterVec
	finalized     *prometheus.CounterVec
	noops         *prometheus.CounterVec
}

// New creates the collectors and registers them with reg when it is not
// nil.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		recomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "earnings",
			Name:      "recomputes_total",
			Help:      "Actual value recomputations by ledger.",
		}, []string{"ledger"}),
		capsEngaged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "earnings",
			Name:      "caps_engaged_total",
			Help:      "Recomputations where delivery exceeded the contracted value, by cap level.",
		}, []string{"level"}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "earnings",
			Name:      "payments_recorded_total",
			Help:      "Payments appended by ledger.",
		}, []string{"ledger"}),
		paymentAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "earnings",
			Name:      "payments_amount_total",
			Help:      "Sum of recorded payment amounts by ledger.",
		}, []string{"ledger"}),
		finalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "earnings",
			Name:      "finalized_total",
			Help:      "Records finalized by ledger.",
		}, []string{"ledger"}),
		noops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "earnings",
			Name:      "noops_total",
			Help:      "Operations skipped without error, by reason.",
		}, []string{"reason"}),
	}
	if reg != nil {
		reg.MustRegister(r.recomputes, r.capsEngaged, r.payments, r.paymentAmount, r.finalized, r.noops)
	}
	return r
}

func (r *Recorder) ObserveRecompute(ledger string) {
	if r == nil {
		return
	}
	r.recomputes.WithLabelValues(ledger).Inc()
}

func (r *Recorder) ObserveCap(level string) {
	if r == nil {
		return
	}
	r.capsEngaged.WithLabelValues(level).Inc()
}

func (r *Recorder) ObservePayment(ledger string, amount decimal.Decimal) {
	if r == nil {
		return
	}
	r.payments.WithLabelValues(ledger).Inc()
	r.paymentAmount.WithLabelValues(ledger).Add(amount.InexactFloat64())
}

func (r *Recorder) ObserveFinalized(ledger string) {
	if r == nil {
		return
	}
	r.finalized.WithLabelValues(ledger).Inc()
}

// ObserveNoop counts a skipped operation, e.g. a hub without billing
// configuration.
func (r *Recorder) ObserveNoop(reason string) {
	if r == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	r.noops.WithLabelValues(reason).Inc()
}
