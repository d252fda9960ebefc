// Package config loads application settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the FlashCase backend.
type Config struct {
	// Server
	ListenAddr  string
	CORSOrigins []string

	// Database
	DatabasePath string

	// Auth
	JWTSecret      string
	AccessTokenTTL time.Duration

	// Study
	DefaultSessionLimit int

	// Grok (OpenAI-compatible) API
	GrokAPIKey            string
	GrokBaseURL           string
	GrokModel             string
	GrokTemperature       float64
	GrokMaxTokens         int
	GrokRewriteMaxTokens  int
	GrokCompleteMaxTokens int

	// Rate limiting
	RateLimitEnabled     bool
	RateLimitPerMinute   int
	AIRateLimitPerMinute int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present; real environment variables win.
func Load() (*Config, error) {
	// Missing .env is the normal case in production.
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:            getEnv("FLASHCASE_ADDR", ":8080"),
		CORSOrigins:           splitList(getEnv("FLASHCASE_CORS_ORIGINS", "http://localhost:3000")),
		DatabasePath:          getEnv("FLASHCASE_DB_PATH", "data/flashcase.db"),
		JWTSecret:             getEnv("FLASHCASE_JWT_SECRET", "change-me-in-production"),
		AccessTokenTTL:        time.Duration(getEnvInt("FLASHCASE_TOKEN_TTL_MINUTES", 30)) * time.Minute,
		DefaultSessionLimit:   getEnvInt("FLASHCASE_SESSION_LIMIT", 20),
		GrokAPIKey:            os.Getenv("GROK_API_KEY"),
		GrokBaseURL:           getEnv("GROK_API_BASE_URL", "https://api.x.ai/v1"),
		GrokModel:             getEnv("GROK_MODEL", "grok-4-fast"),
		GrokTemperature:       getEnvFloat("GROK_TEMPERATURE", 0.7),
		GrokMaxTokens:         getEnvInt("GROK_MAX_TOKENS", 1500),
		GrokRewriteMaxTokens:  getEnvInt("GROK_REWRITE_MAX_TOKENS", 1000),
		GrokCompleteMaxTokens: getEnvInt("GROK_AUTOCOMPLETE_MAX_TOKENS", 500),
		RateLimitEnabled:      getEnvBool("FLASHCASE_RATE_LIMIT_ENABLED", true),
		RateLimitPerMinute:    getEnvInt("FLASHCASE_RATE_LIMIT_PER_MINUTE", 10),
		AIRateLimitPerMinute:  getEnvInt("FLASHCASE_AI_RATE_LIMIT_PER_MINUTE", 5),
	}
	return cfg, nil
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

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
