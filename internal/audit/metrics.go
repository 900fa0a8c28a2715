package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the audit counters. A nil *Metrics records nothing.
type Metrics struct {
	OrdersTotal       prometheus.Counter
	AuditRowsTotal    prometheus.Counter
	RushRowsTotal     prometheus.Counter
	RecordErrorsTotal *prometheus.CounterVec
	TierTotal         *prometheus.CounterVec
	ResolutionTotal   *prometheus.CounterVec
}

// NewMetrics registers the audit counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OrdersTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "feeaudit_orders_total",
			Help: "Orders read from the order table",
		}),
		AuditRowsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "feeaudit_audit_rows_total",
			Help: "Overcharged orders written to the audit report",
		}),
		RushRowsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "feeaudit_rush_rows_total",
			Help: "Rush orders written to the rush report",
		}),
		RecordErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "feeaudit_record_errors_total",
			Help: "Orders skipped because they could not be priced",
		}, []string{"kind"}),
		TierTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "feeaudit_tier_total",
			Help: "Priced orders by tier",
		}, []string{"tier"}),
		ResolutionTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "feeaudit_schedule_resolution_total",
			Help: "Fee schedule lookups by the level that matched",
		}, []string{"level"}),
	}
}

func (m *Metrics) order() {
	if m != nil {
		m.OrdersTotal.Inc()
	}
}

func (m *Metrics) assessed(a *Assessment) {
	if m != nil {
		m.TierTotal.WithLabelValues(a.Tier.String()).Inc()
		m.ResolutionTotal.WithLabelValues(a.Level).Inc()
	}
}

func (m *Metrics) auditRow() {
	if m != nil {
		m.AuditRowsTotal.Inc()
	}
}

func (m *Metrics) rushRow() {
	if m != nil {
		m.RushRowsTotal.Inc()
	}
}

func (m *Metrics) recordError(kind string) {
	if m != nil {
		m.RecordErrorsTotal.WithLabelValues(kind).Inc()
	}
}
