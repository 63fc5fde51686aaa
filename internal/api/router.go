package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/FACorreiaa/pocketledger/pkg/config"
)

// Mountable is implemented by every domain handler.
type Mountable interface {
	Routes(r chi.Router)
}

// Handlers collects the domain handlers mounted under /api/v1.
type Handlers struct {
	Categories     Mountable
	Expenses       Mountable
	Budgets        Mountable
	Recurring      Mountable
	Import         Mountable
	Export         Mountable
	Categorization Mountable
}

// NewRouter assembles the HTTP surface: CORS, rate limiting, logging,
// health, and the authenticated API.
func NewRouter(cfg *config.ServerConfig, logger *slog.Logger, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))
	r.Use(RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", UserIDHeader},
		AllowCredentials: true,
	})
	r.Use(c.Handler)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RequireUser)

		r.Route("/categories", h.Categories.Routes)
		r.Route("/expenses", h.Expenses.Routes)
		r.Route("/budgets", h.Budgets.Routes)
		r.Route("/recurring", h.Recurring.Routes)
		r.Route("/import", h.Import.Routes)
		r.Route("/export", h.Export.Routes)
		r.Route("/categorization", h.Categorization.Routes)
	})

	return r
}
