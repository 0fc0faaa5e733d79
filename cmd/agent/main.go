package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/synctrack/sylvia/internal/agent"
	"github.com/synctrack/sylvia/internal/api/router"
	appconfig "github.com/synctrack/sylvia/internal/config"
	"github.com/synctrack/sylvia/internal/crm"
	"github.com/synctrack/sylvia/internal/gateway"
	"github.com/synctrack/sylvia/internal/lead"
	"github.com/synctrack/sylvia/internal/notify"
	"github.com/synctrack/sylvia/internal/observability/metrics"
	"github.com/synctrack/sylvia/internal/transcript"
	"github.com/synctrack/sylvia/pkg/logging"
)

func main() {
	// Load .env if present; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting sylvia agent server",
		"env", cfg.Env,
		"port", cfg.Port,
		"agent", cfg.AgentName,
	)

	if cfg.CRMWebhookURL == "" {
		logger.Error("CRM_WEBHOOK_URL is required")
		os.Exit(1)
	}

	agentMetrics := metrics.NewAgentMetrics(prometheus.DefaultRegisterer)

	submitter := crm.NewClient(cfg.CRMWebhookURL,
		crm.WithTimeout(cfg.CRMTimeout),
		crm.WithLogger(logger),
	)

	var notifier lead.Notifier
	if sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sender != nil {
		if svc := notify.NewService(sender, cfg.LeadNotifyEmails, logger); svc != nil {
			notifier = svc
			logger.Info("lead email notifications enabled", "recipients", len(cfg.LeadNotifyEmails))
		}
	}

	manager := agent.NewManager(submitter, lead.TrackerConfig{
		SourceTag:       cfg.CRMSourceTag,
		CompanyName:     cfg.CompanyName,
		FallbackContact: cfg.FallbackContactEmail,
		Notifier:        notifier,
		Metrics:         agentMetrics,
	}, logger)
	registry := agent.NewRegistry(agentMetrics, logger)

	var transcriptStore *transcript.Store
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		transcriptStore = transcript.NewStore(redis.NewClient(opts), cfg.TranscriptTTL)
		logger.Info("transcript store enabled", "addr", cfg.RedisAddr, "ttl", cfg.TranscriptTTL)
	}

	gw := gateway.NewHandler(manager, registry, transcriptStore, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		Gateway:            gw,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSec:    cfg.RateLimitPerSec,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	// No Read/Write timeouts: the runtime holds WebSocket connections
	// open for the length of a phone call.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// Open conversations still get their end-of-call submission.
	manager.Shutdown(ctx)

	logger.Info("server stopped")
}
