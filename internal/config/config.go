// Package config collects every environment variable the server reads.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the process configuration. All values come from the
// environment; .env loading happens in main before Load is called.
type Config struct {
	Port string

	// Store: DatabaseURL selects Postgres; when empty the server falls
	// back to a local SQLite file at SQLitePath.
	DatabaseURL string
	SQLitePath  string

	// AI research credentials. When neither key is usable the pipeline
	// runs in mock mode.
	OpenAIAPIKey    string
	AnthropicAPIKey string

	AIUpdateEnabled bool
	AIUpdateCron    string
	AICallTimeout   time.Duration

	RateLimitWindow time.Duration
	RateLimitMax    int

	UploadDir string
	JWTSecret string
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SQLitePath:      getEnv("SQLITE_PATH", "data/trashspot.db"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AIUpdateEnabled: getEnv("AI_UPDATE_ENABLED", "true") != "false",
		AIUpdateCron:    getEnv("AI_UPDATE_CRON_SCHEDULE", "0 2 * * 1"),
		AICallTimeout:   getEnvDuration("AI_CALL_TIMEOUT_MS", 60*time.Second),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW_MS", time.Minute),
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX_REQUESTS", 100),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		JWTSecret:       os.Getenv("APP_JWT_SECRET"),
	}
}

// MockAIMode reports whether the AI pipeline should synthesize results
// instead of calling external services. Placeholder and test-prefixed keys
// count as unusable.
func (c *Config) MockAIMode() bool {
	return !usableKey(c.OpenAIAPIKey) && !usableKey(c.AnthropicAPIKey)
}

// OpenAIConfigured reports whether a real OpenAI key is present.
func (c *Config) OpenAIConfigured() bool { return usableKey(c.OpenAIAPIKey) }

// AnthropicConfigured reports whether a real Anthropic key is present.
func (c *Config) AnthropicConfigured() bool { return usableKey(c.AnthropicAPIKey) }

func usableKey(key string) bool {
	if key == "" {
		return false
	}
	if strings.Contains(key, "test_") {
		return false
	}
	if strings.HasPrefix(key, "YOUR_") {
		return false
	}
	return true
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return fallback
}
