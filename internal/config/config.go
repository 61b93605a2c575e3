package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is read once at startup. Load fails before any side effect when a
// required value is missing, so a misconfigured process never reaches the DB.
type Config struct {
	Port    string
	BaseURL string

	// DSN is the regular application credential. ServiceDSN is the elevated
	// credential used only for order creation and guest provisioning; it
	// falls back to DSN for single-credential deployments.
	DSN        string
	ServiceDSN string

	SessionCookie string
	SessionSecure bool
	SessionTTL    time.Duration
}

func Load() (Config, error) {
	cfg := Config{
		Port:          envOr("PORT", "8080"),
		BaseURL:       envOr("BASE_URL", "http://localhost:8080"),
		DSN:           os.Getenv("DB_DSN"),
		ServiceDSN:    os.Getenv("DB_SERVICE_DSN"),
		SessionCookie: envOr("SESSION_COOKIE", "sb_session"),
		SessionSecure: envBool("SESSION_SECURE", false),
		SessionTTL:    envDuration("SESSION_TTL", 30*24*time.Hour),
	}

	if cfg.DSN == "" {
		return Config{}, fmt.Errorf("config: DB_DSN is required")
	}
	if cfg.ServiceDSN == "" {
		cfg.ServiceDSN = cfg.DSN
	}
	return cfg, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
