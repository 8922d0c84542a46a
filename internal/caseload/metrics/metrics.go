// Package metrics provides observability for the caseload module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks rollup computation cost and cache effectiveness.
type Metrics struct {
	RollupDuration prometheus.Histogram
	RollupChildren prometheus.Histogram
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
}

// New creates a new Metrics instance with all caseload module metrics registered.
func New() *Metrics {
	return &Metrics{
		RollupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sprout_caseload_rollup_duration_seconds",
			Help:    "Duration of full caseload rollup computations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		RollupChildren: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sprout_caseload_rollup_children",
			Help:    "Number of children per caseload rollup",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sprout_caseload_cache_hits_total",
			Help: "Rollup cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sprout_caseload_cache_misses_total",
			Help: "Rollup cache misses",
		}),
	}
}

// ObserveRollup records one full rollup computation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRollup(start time.Time, children int) {
	if m == nil {
		return
	}
	m.RollupDuration.Observe(time.Since(start).Seconds())
	m.RollupChildren.Observe(float64(children))
}

// IncrementCacheHit records a rollup served from cache.
func (m *Metrics) IncrementCacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

// IncrementCacheMiss records a rollup that had to be recomputed.
func (m *Metrics) IncrementCacheMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}
