package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/NutriSort/internal/classifier"
	"github.com/MikeSquared-Agency/NutriSort/internal/electre"
	"github.com/MikeSquared-Agency/NutriSort/internal/hermes"
	"github.com/MikeSquared-Agency/NutriSort/internal/metrics"
	"github.com/MikeSquared-Agency/NutriSort/internal/nutriscore"
	"github.com/MikeSquared-Agency/NutriSort/internal/report"
)

// Service is the classification surface the handlers need.
type Service interface {
	Profiles() (*electre.Profiles, error)
	Classify(ctx context.Context, req classifier.ClassifyRequest) (*classifier.ClassifyResponse, error)
	NutriScore(p electre.Product) (nutriscore.Result, error)
	SuperNutri(ctx context.Context, p electre.Product) (*classifier.SuperNutriResponse, error)
	Batch(ctx context.Context, products []electre.Product, opts report.Options) (*report.Report, error)
	Reload(ctx context.Context, dataset string) (*hermes.PopulationReloadedEvent, error)
}

type RouterConfig struct {
	AdminToken         string
	RateLimitPerMinute int
}

func NewRouter(svc Service, rc RouterConfig, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger, m))
	r.Use(RateLimitMiddleware(rc.RateLimitPerMinute))

	h := NewHandler(svc, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/classify", h.Classify)
		r.Post("/nutriscore", h.NutriScore)
		r.Post("/supernutri", h.SuperNutri)
		r.Post("/batch", h.Batch)
		r.Get("/profiles", h.Profiles)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(rc.AdminToken))
			r.Post("/population/reload", h.Reload)
		})
	})

	return r
}

// HealthCheck reports whether an optional dependency is reachable. A failing
// check marks /health degraded but keeps it 200, since classification does
// not depend on it.
type HealthCheck struct {
	Name string
	Up   func() bool
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func NewMetricsRouter(m *metrics.Metrics, checks ...HealthCheck) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}
		for _, c := range checks {
			if resp.Checks == nil {
				resp.Checks = make(map[string]string, len(checks))
			}
			state := "up"
			if !c.Up() {
				state = "down"
				resp.Status = "degraded"
			}
			resp.Checks[c.Name] = state
		}
		writeJSON(w, http.StatusOK, resp)
	})
	r.Handle("/metrics", m.Handler())
	return r
}
