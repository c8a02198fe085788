package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/wibisono/ais-console/internal/httpapi/middleware"
	"github.com/wibisono/ais-console/pkg/logging"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	Logger             *logging.Logger
	Handler            *Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// NewRouter creates a Chi router with all routes configured.
func NewRouter(cfg *RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.Handler.HealthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/chat", func(chat chi.Router) {
		chat.Post("/sessions", cfg.Handler.CreateSession)
		chat.Post("/message", cfg.Handler.Message)
		chat.Get("/history", cfg.Handler.History)
		chat.Post("/agent", cfg.Handler.SelectAgent)
		chat.Delete("/filter", cfg.Handler.ClearFilter)
		chat.Get("/view", cfg.Handler.View)
	})
	r.Get("/ws/chat", cfg.Handler.HandleWebSocket)

	return r
}
