package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	environmentProduction = "production"
	authModeGateway       = "gateway"
)

// Config holds the application configuration.
// Persistence is optional: without DATABASE_URL the API is stateless.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Persistence (optional)
	DatabaseURL string

	// Observability
	SentryDSN string

	// Auth mode
	// - "none": No auth (self-hosted, local dev)
	// - "gateway": Trust X-User-* headers from an upstream gateway
	AuthMode string

	// Comma-separated in the environment; "*" allows any origin
	CORSAllowedOrigins []string

	// Theory defaults
	DefaultOctave        int
	MaxProgressionLength int
}

func Load() *Config {
	return &Config{
		Environment:          getEnv("ENVIRONMENT", "development"),
		Port:                 getEnv("PORT", "8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		SentryDSN:            getEnv("SENTRY_DSN", ""),
		AuthMode:             getEnv("AUTH_MODE", "none"), // Default to no auth for self-hosted
		CORSAllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		DefaultOctave:        getEnvInt("DEFAULT_OCTAVE", 4),
		MaxProgressionLength: getEnvInt("MAX_PROGRESSION_LENGTH", 32),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt falls back to defaultValue when the variable is unset or not a number
func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsGatewayMode returns true if running behind an auth gateway
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == authModeGateway
}

func (c *Config) IsProduction() bool {
	return c.Environment == environmentProduction
}

// PersistenceEnabled reports whether progressions can be stored
func (c *Config) PersistenceEnabled() bool {
	return c.DatabaseURL != ""
}
