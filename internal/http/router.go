package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/avandenberg/tally/internal/http/data"
	"github.com/avandenberg/tally/internal/http/health"
	"github.com/avandenberg/tally/internal/http/reconcile"
	"github.com/avandenberg/tally/internal/http/reporting"
)

// Config carries the router-level settings: CORS origins and the optional
// bearer auth secret. An empty secret disables auth.
type Config struct {
	AuthSecret     string
	AllowedOrigins []string
}

func New(
	cfg Config,
	healthV1 *health.Handler,
	dataV1 *data.Handler,
	reconcileV1 *reconcile.Handler,
	reportingV1 *reporting.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Get("/healthz", healthV1.Healthz)

	router.Route("/api/v1", func(r chi.Router) {
		if cfg.AuthSecret != "" {
			r.Use(BearerAuth(cfg.AuthSecret))
		}

		r.Get("/kpi", reportingV1.KPI)

		r.Route("/data", dataV1.Routes)
		r.Get("/datasets/{dataset}", dataV1.GetDataset)

		r.Route("/reconcile", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			reconcileV1.Routes(r)
		})

		r.Route("/reporting", reportingV1.Routes)
		r.Get("/reports/board-pack", reportingV1.BoardPack)
	})

	return router
}
