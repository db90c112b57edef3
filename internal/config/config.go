package config

import (
	"log"
	"os"
	"strings"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	DatabaseURL        string
	RedisURL           string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
	SessionSecret      string
	EncryptionKey      string

	// AdminEmails lists the identities granted the administrative surface.
	// Comma-separated in ADMIN_EMAILS; matching is case-insensitive.
	AdminEmails []string

	TrackerURL      string
	TrackerSecret   string
	TrackerStubMode bool

	Env       string
	Port      string
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		EncryptionKey:      os.Getenv("ENCRYPTION_KEY"),
		AdminEmails:        splitList(os.Getenv("ADMIN_EMAILS")),
		TrackerURL:         os.Getenv("TRACKER_URL"),
		TrackerSecret:      os.Getenv("TRACKER_SECRET"),
		TrackerStubMode:    os.Getenv("TRACKER_STUB_MODE") == "true",
		Env:                getEnvWithDefault("ENV", "development"),
		Port:               getEnvWithDefault("PORT", "8080"),
		LogLevel:           getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:          getEnvWithDefault("LOG_FORMAT", "text"),
	}

	// Warn if using default session secret (insecure for production)
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "dev-secret-change-in-production-use-openssl-rand-hex-32"
		log.Println("WARNING: Using default SESSION_SECRET. Generate a secure secret with: openssl rand -hex 32")
	}

	if len(cfg.AdminEmails) == 0 {
		log.Println("WARNING: ADMIN_EMAILS not set. No identity will be able to create or manage briefs.")
	}

	return cfg
}

func splitList(raw string) []string {
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
