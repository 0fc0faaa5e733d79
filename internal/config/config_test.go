package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.AgentName != "Sylvia" {
		t.Errorf("expected default agent name Sylvia, got %s", cfg.AgentName)
	}
	if cfg.CRMTimeout != 10*time.Second {
		t.Errorf("expected default CRM timeout 10s, got %s", cfg.CRMTimeout)
	}
	if cfg.CRMSourceTag != "voice" {
		t.Errorf("expected default source tag voice, got %s", cfg.CRMSourceTag)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("expected transcript store disabled by default, got %s", cfg.RedisAddr)
	}
	if cfg.RateLimitPerSec != 10 || cfg.RateLimitBurst != 20 {
		t.Errorf("unexpected rate limit defaults: %v rps, burst %d", cfg.RateLimitPerSec, cfg.RateLimitBurst)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CRM_WEBHOOK_URL", "https://crm.example.com/webhook/sylvia")
	t.Setenv("CRM_TIMEOUT", "3s")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("LEAD_NOTIFY_EMAILS", "team@synctrack.ai, sales@synctrack.ai ,")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "5")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.CRMWebhookURL != "https://crm.example.com/webhook/sylvia" {
		t.Errorf("unexpected webhook URL %s", cfg.CRMWebhookURL)
	}
	if cfg.CRMTimeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %s", cfg.CRMTimeout)
	}
	if !cfg.RedisTLS {
		t.Error("expected RedisTLS true")
	}
	if len(cfg.LeadNotifyEmails) != 2 {
		t.Fatalf("expected 2 notify emails, got %v", cfg.LeadNotifyEmails)
	}
	if cfg.LeadNotifyEmails[1] != "sales@synctrack.ai" {
		t.Errorf("expected trimmed email, got %q", cfg.LeadNotifyEmails[1])
	}
	if cfg.RateLimitPerSec != 2.5 || cfg.RateLimitBurst != 5 {
		t.Errorf("unexpected rate limit values: %v rps, burst %d", cfg.RateLimitPerSec, cfg.RateLimitBurst)
	}
}

func TestGetEnvAsDurationInvalid(t *testing.T) {
	t.Setenv("CRM_TIMEOUT", "not-a-duration")

	cfg := Load()
	if cfg.CRMTimeout != 10*time.Second {
		t.Errorf("invalid duration should fall back to default, got %s", cfg.CRMTimeout)
	}
}
