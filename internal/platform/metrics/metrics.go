package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds application-wide Prometheus metrics. Module-specific metrics
// (caseload, audit) live next to their modules.
type Metrics struct {
	RequestLatency  *prometheus.HistogramVec
	RecordsCreated  prometheus.Counter
	RecordsVerified *prometheus.CounterVec
}

// New creates and registers all application-level Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sprout_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "status"}),

		RecordsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sprout_achievement_records_created_total",
			Help: "Total achievement records created by caregivers",
		}),

		RecordsVerified: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sprout_achievement_records_verified_total",
			Help: "Total verification outcomes by result",
		}, []string{"outcome"}), // outcome: "approved", "flagged"
	}
}

// ObserveRequest records one HTTP request observation.
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route, status).Observe(d.Seconds())
	}
}

// IncRecordsCreated increments the created-records counter.
func (m *Metrics) IncRecordsCreated() {
	if m != nil {
		m.RecordsCreated.Inc()
	}
}

// IncRecordsVerified records a verification outcome.
func (m *Metrics) IncRecordsVerified(outcome string) {
	if m != nil {
		m.RecordsVerified.WithLabelValues(outcome).Inc()
	}
}
