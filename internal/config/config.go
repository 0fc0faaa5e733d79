package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Agent identity
	AgentName   string
	CompanyName string

	// CRM webhook (outbound lead submission)
	CRMWebhookURL string
	CRMTimeout    time.Duration
	CRMSourceTag  string

	// Contact address read to visitors who leave neither email nor phone
	FallbackContactEmail string

	// Transcript store (optional; empty REDIS_ADDR disables it)
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	TranscriptTTL time.Duration

	// SendGrid lead notification emails (optional)
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	LeadNotifyEmails  []string

	CORSAllowedOrigins []string

	// Rate limiting on the public agent endpoints; zero disables it
	RateLimitPerSec float64
	RateLimitBurst  int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AgentName:   getEnv("AGENT_NAME", "Sylvia"),
		CompanyName: getEnv("COMPANY_NAME", "Synctrack"),

		CRMWebhookURL: getEnv("CRM_WEBHOOK_URL", ""),
		CRMTimeout:    getEnvAsDuration("CRM_TIMEOUT", 10*time.Second),
		CRMSourceTag:  getEnv("CRM_SOURCE_TAG", "voice"),

		FallbackContactEmail: getEnv("FALLBACK_CONTACT_EMAIL", "hello@synctrack.ai"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		TranscriptTTL: getEnvAsDuration("TRANSCRIPT_TTL", 24*time.Hour),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Sylvia"),
		LeadNotifyEmails:  getEnvAsList("LEAD_NOTIFY_EMAILS"),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),

		RateLimitPerSec: getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:  getEnvAsInt("RATE_LIMIT_BURST", 20),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable, dropping empties.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
