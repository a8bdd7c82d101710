// Package config loads service configuration from the environment, with a
// .env file picked up for local development.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full service configuration.
type Config struct {
	// HTTP server
	Port string

	// Storage
	DataBackend  string // memory | sqlite
	SQLiteDBPath string

	// Sessions
	SessionTTL time.Duration

	// Date parsing for ambiguous numeric dates
	DateOrder string // dayfirst | monthfirst

	// Insight providers, tried in the listed order
	InsightProviders  string // comma-separated: gemini, openrouter; empty disables
	GeminiModel       string
	OpenRouterAPIKey  string
	OpenRouterReferer string

	// Export archival; empty disables
	ExportBucket string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", "8080"),
		DataBackend:  getEnv("DATA_BACKEND", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/expensecoach.db"),

		SessionTTL: getEnvDuration("SESSION_TTL", 7*24*time.Hour),

		DateOrder: getEnv("DATE_ORDER", "dayfirst"),

		InsightProviders:  getEnv("INSIGHT_PROVIDERS", "gemini,openrouter"),
		GeminiModel:       getEnv("GEMINI_MODEL", ""),
		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterReferer: getEnv("OPENROUTER_REFERER", ""),

		ExportBucket: getEnv("EXPORT_BUCKET", ""),
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "memory":
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of [memory sqlite]", c.DataBackend))
	}

	if c.DateOrder != "dayfirst" && c.DateOrder != "monthfirst" {
		errors = append(errors, fmt.Sprintf("invalid date order '%s': must be 'dayfirst' or 'monthfirst'", c.DateOrder))
	}

	for _, provider := range c.Providers() {
		if provider != "gemini" && provider != "openrouter" {
			errors = append(errors, fmt.Sprintf("unknown insight provider '%s'", provider))
		}
	}

	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// Providers returns the configured insight provider names in order.
func (c *Config) Providers() []string {
	if strings.TrimSpace(c.InsightProviders) == "" {
		return nil
	}
	parts := strings.Split(c.InsightProviders, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(strings.ToLower(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
