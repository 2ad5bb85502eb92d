package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/keystone-pm/keystone/internal/observability"
	"github.com/keystone-pm/keystone/internal/property"
	statementhttp "github.com/keystone-pm/keystone/internal/statement/http"
	"github.com/keystone-pm/keystone/internal/tenancy"
	"github.com/keystone-pm/keystone/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	PropertyHandler  *property.Handler
	TenancyHandler   *tenancy.Handler
	StatementHandler *statementhttp.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with Keystone defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/properties", func(r chi.Router) {
			if params.PropertyHandler != nil {
				params.PropertyHandler.MountRoutes(r)
			}
			if params.StatementHandler != nil {
				params.StatementHandler.MountRoutes(r)
			}
		})
		r.Route("/tenants", func(r chi.Router) {
			if params.TenancyHandler != nil {
				params.TenancyHandler.MountRoutes(r)
			}
		})
	})

	if params.JobHandler != nil {
		r.Route("/jobs", func(r chi.Router) {
			params.JobHandler.MountRoutes(r)
		})
	}

	return r
}
