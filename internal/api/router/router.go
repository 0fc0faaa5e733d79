// Package router assembles the HTTP surface: health and metrics for
// operators, and the agent endpoints the voice runtime connects to.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/synctrack/sylvia/internal/gateway"
	httpmiddleware "github.com/synctrack/sylvia/internal/http/middleware"
	"github.com/synctrack/sylvia/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	Gateway            *gateway.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Requests/sec and burst for the public agent endpoints; zero
	// disables rate limiting.
	RateLimitPerSec float64
	RateLimitBurst  int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handleHealth)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.Gateway != nil {
		r.Route("/agent", func(agent chi.Router) {
			if cfg.RateLimitPerSec > 0 {
				agent.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSec, cfg.RateLimitBurst))
			}
			agent.Get("/ws", cfg.Gateway.HandleWebSocket)
			agent.Get("/config", cfg.Gateway.HandleConfig)
			agent.Get("/history", cfg.Gateway.HandleHistory)
			agent.Post("/tool", cfg.Gateway.HandleTool)
			agent.Post("/session/end", cfg.Gateway.HandleSessionEnd)
		})
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
