// Package router wires every HTTP surface of the service: the WhatsApp
// webhook, the admin API and operational endpoints.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rrcordoba/volky/internal/http/handlers"
	httpmiddleware "github.com/rrcordoba/volky/internal/http/middleware"
	"github.com/rrcordoba/volky/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger          *logging.Logger
	Webhook         *handlers.WebhookHandler
	AdminLeads      *handlers.AdminLeadsHandler
	AdminAuthSecret string
	MetricsHandler  http.Handler
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Group(func(public chi.Router) {
		public.Get("/health", cfg.Webhook.HealthCheck)
		public.Get("/bienvenido", cfg.Webhook.Welcome)
		public.Get("/webhook", cfg.Webhook.Verify)
		public.Post("/webhook", cfg.Webhook.Receive)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	if cfg.AdminLeads != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/leads", cfg.AdminLeads.List)
			admin.Get("/leads/{phone}", cfg.AdminLeads.Get)
			admin.Delete("/leads/{phone}", cfg.AdminLeads.Delete)
		})
	}

	return r
}
