package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds and returns the Chi router with all routes configured.
// Rate limiting is applied globally: 60 requests per minute per IP.
// db and redis may be nil when the journal or response cache is disabled.
func NewRouter(handlers *Handlers, db dbPinger, redisClient redisPinger, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(log))

	r.Get("/api/v1/health", HealthHandlerFunc(db, redisClient, log))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(60, time.Minute))

		r.Post("/api/v1/weather", handlers.Lookup)
		r.Post("/api/v1/plan", handlers.Plan)

		r.Post("/api/v1/conversations", handlers.StartConversation)
		r.Post("/api/v1/conversations/turn", handlers.ConversationTurn)
		r.Post("/api/v1/conversations/restart", handlers.RestartConversation)

		r.Get("/api/v1/lookups", handlers.LookupsByRisk)
		r.Get("/api/v1/lookups/recent", handlers.RecentLookups)
	})

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
