// Package config loads service configuration from the environment, with
// an optional YAML file overlay for deployments that prefer files over
// env vars.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	DatabaseURL string `yaml:"database_url"`
	ServerPort  string `yaml:"server_port"`
	FrontendURL string `yaml:"frontend_url"`

	// Hosted auth provider connection. Both are required unless demo
	// mode is enabled; the data layer cannot initialize without them.
	AuthServiceURL string `yaml:"auth_service_url"`
	AuthAnonKey    string `yaml:"auth_anon_key"`
	AuthIssuer     string `yaml:"auth_issuer"`
	AuthJWKSURL    string `yaml:"auth_jwks_url"`

	// DemoMode swaps the hosted auth provider for an in-process one and
	// skips the connection-parameter requirement.
	DemoMode bool `yaml:"demo_mode"`

	RedisURL      string `yaml:"redis_url"`
	AuthRateLimit string `yaml:"auth_rate_limit"`

	EnableHSTS      bool   `yaml:"enable_hsts"`
	ServerDebugMode bool   `yaml:"server_debug_mode"`
	OTELEnabled     bool   `yaml:"otel_enabled"`
	OTELEndpoint    string `yaml:"otel_endpoint"`
}

// Load loads configuration from environment variables, first applying
// the YAML file named by CONFIG_FILE when set.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:    "8080",
		FrontendURL:   "http://localhost:3000",
		RedisURL:      "redis://localhost:6379/0",
		AuthRateLimit: "10-M",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.FrontendURL = getEnv("FRONTEND_URL", cfg.FrontendURL)
	cfg.AuthServiceURL = getEnv("AUTH_SERVICE_URL", cfg.AuthServiceURL)
	cfg.AuthAnonKey = getEnv("AUTH_ANON_KEY", cfg.AuthAnonKey)
	cfg.AuthIssuer = getEnv("AUTH_ISSUER", cfg.AuthIssuer)
	cfg.AuthJWKSURL = getEnv("AUTH_JWKS_URL", cfg.AuthJWKSURL)
	cfg.DemoMode = getEnvBool("DEMO_MODE", cfg.DemoMode)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.AuthRateLimit = getEnv("AUTH_RATE_LIMIT", cfg.AuthRateLimit)
	cfg.EnableHSTS = getEnvBool("ENABLE_HSTS", cfg.EnableHSTS)
	cfg.ServerDebugMode = getEnvBool("SERVER_DEBUG_MODE", cfg.ServerDebugMode)
	cfg.OTELEnabled = getEnvBool("OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if !cfg.DemoMode {
		if cfg.AuthServiceURL == "" {
			return nil, fmt.Errorf("AUTH_SERVICE_URL is required (set DEMO_MODE=true for an offline build)")
		}
		if cfg.AuthAnonKey == "" {
			return nil, fmt.Errorf("AUTH_ANON_KEY is required (set DEMO_MODE=true for an offline build)")
		}
	}

	if cfg.AuthJWKSURL == "" && cfg.AuthServiceURL != "" {
		cfg.AuthJWKSURL = cfg.AuthServiceURL + "/auth/v1/.well-known/jwks.json"
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
