// Package config reads service settings from the environment, after loading
// an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultGatewayURL = "https://ai.gateway.lovable.dev/v1/chat/completions"
	DefaultModel      = "google/gemini-3-flash-preview"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	GatewayURL        string
	GatewayAPIKey     string
	Model             string
	GatewayTimeout    time.Duration
	GatewayMaxRetries uint64
}

// Load reads .env (if present) then the process environment.
// A missing API key is not an error here: the extraction endpoints report it
// per request.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:          envOr("PORT", "8080"),
		Environment:   envOr("ENVIRONMENT", "local"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		GatewayURL:    envOr("AI_GATEWAY_URL", DefaultGatewayURL),
		GatewayAPIKey: envOr("AI_GATEWAY_API_KEY", os.Getenv("LOVABLE_API_KEY")),
		Model:         envOr("AI_MODEL", DefaultModel),
	}

	timeout, err := time.ParseDuration(envOr("AI_GATEWAY_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("AI_GATEWAY_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("AI_GATEWAY_TIMEOUT must be positive, got %s", timeout)
	}
	cfg.GatewayTimeout = timeout

	retries, err := strconv.ParseUint(envOr("AI_GATEWAY_MAX_RETRIES", "0"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("AI_GATEWAY_MAX_RETRIES: %w", err)
	}
	cfg.GatewayMaxRetries = retries

	return cfg, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
