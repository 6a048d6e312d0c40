package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/project-roulette/engine/internal/api/handlers"
	mw "github.com/project-roulette/engine/internal/api/middleware"
	"github.com/project-roulette/engine/internal/metrics"
	"github.com/project-roulette/engine/internal/repository"
)

type Dependencies struct {
	// AdminSecret signs admin bearer tokens. Empty leaves admin routes open.
	AdminSecret    []byte
	RateLimitRPS   float64
	RateLimitBurst int
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that sets those headers.
	TrustProxy     bool
	Metrics        *metrics.Metrics
	Store          repository.Pinger
	IdeasHandler   *handlers.IdeasHandler
	OptionsHandler *handlers.OptionsHandler
}

func NewRouter(dep Dependencies) http.Handler {
	if dep.RateLimitRPS <= 0 {
		dep.RateLimitRPS = 2
	}
	if dep.RateLimitBurst <= 0 {
		dep.RateLimitBurst = 5
	}

	r := chi.NewRouter()

	// Built-in middleware
	if dep.TrustProxy {
		r.Use(chimid.RealIP)
	}
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.Metrics(dep.Metrics))
	r.Use(mw.CORS)
	r.Use(chimid.Compress(5))

	// Health endpoints
	hh := handlers.NewHealthHandler(dep.Store)
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/options", dep.OptionsHandler.Get)

		api.Route("/ideas", func(ir chi.Router) {
			ir.Get("/", dep.IdeasHandler.List)
			// generation calls a paid upstream; only it is rate limited
			ir.With(mw.RateLimit(dep.RateLimitRPS, dep.RateLimitBurst)).Post("/", dep.IdeasHandler.Create)

			ir.Group(func(admin chi.Router) {
				admin.Use(mw.Auth(dep.AdminSecret))
				admin.Get("/export", dep.IdeasHandler.Export)
				admin.Delete("/", dep.IdeasHandler.Clear)
			})
		})
	})

	return r
}
