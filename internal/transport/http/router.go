// Package httptransport is the thin HTTP layer. Handlers delegate to domain
// services; transport concerns (routing, auth gates, JSON envelopes) stay
// here.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sprout/internal/platform/metrics"
	"sprout/internal/platform/middleware"
)

// Deps carries everything the router needs. Health is probed by /healthz.
type Deps struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	JWTValidator middleware.JWTValidator

	Records  RecordService
	Caseload CaseloadService
	Catalog  CatalogService

	Health func() error
}

// NewRouter wires the middleware chain and all endpoints. Everything under
// the authenticated group carries actor identity, request time, and client
// metadata in the request context.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Latency(d.Metrics))

	r.Get("/healthz", handleHealth(d.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAuth(d.JWTValidator, d.Logger))

		NewCatalogHandler(d.Catalog, d.Logger).Register(r)
		NewRecordHandler(d.Records, d.Logger).Register(r)
		NewCaseloadHandler(d.Caseload, d.Logger).Register(r)
	})

	return r
}

func handleHealth(health func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			if err := health(); err != nil {
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
