package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"sprout/internal/platform/metrics"
)

// Latency observes request duration per route pattern and status class.
// Uses the chi route pattern (not the raw path) to keep label cardinality
// bounded.
func Latency(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			statusClass := strconv.Itoa(rec.status/100) + "xx"
			m.ObserveRequest(route, statusClass, time.Since(start))
		})
	}
}
