// Package common provides shared utilities for quantdash
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// DefaultAPIBaseURL is used when neither config nor environment name an API endpoint.
const DefaultAPIBaseURL = "http://localhost:8000"

// Config holds all configuration for quantdash
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	API         APIConfig      `toml:"api"`
	Provider    ProviderConfig `toml:"provider"`
	Storage     StorageConfig  `toml:"storage"`
	Query       QueryConfig    `toml:"query"`
	Logging     LoggingConfig  `toml:"logging"`
	Auth        AuthConfig     `toml:"auth"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// APIConfig configures the outgoing request layer used by the HTTP data provider.
type APIConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *APIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ProviderConfig selects the data provider variant.
type ProviderConfig struct {
	Kind       string `toml:"kind"`        // "mock" or "http"
	Seed       int64  `toml:"seed"`        // 0 = unseeded random walk
	StrictOHLC bool   `toml:"strict_ohlc"` // clamp high/low around open/close
	Latency    string `toml:"latency"`     // simulated I/O delay for the mock, e.g. "50ms"
}

// GetLatency parses the simulated latency, zero when unset or invalid.
func (c *ProviderConfig) GetLatency() time.Duration {
	d, err := time.ParseDuration(c.Latency)
	if err != nil {
		return 0
	}
	return d
}

// StorageConfig holds the persisted session storage configuration.
type StorageConfig struct {
	Backend string `toml:"backend"` // "file", "sqlite" or "memory"
	Path    string `toml:"path"`
}

// QueryConfig holds query cache freshness settings.
type QueryConfig struct {
	TTL           string `toml:"ttl"`            // "0" caches for the lifetime of the cache
	SweepInterval string `toml:"sweep_interval"` // cron "@every" interval, empty disables
}

// GetTTL parses the freshness window. Zero means entries never go stale.
func (c *QueryConfig) GetTTL() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// AuthConfig holds credential signing configuration for the API server.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		API: APIConfig{
			BaseURL:   DefaultAPIBaseURL,
			RateLimit: 10,
			Timeout:   "30s",
		},
		Provider: ProviderConfig{
			Kind: "mock",
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    defaultDataPath(),
		},
		Query: QueryConfig{
			TTL:           "0",
			SweepInterval: "1m",
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// defaultDataPath resolves the per-user data directory for the persisted session.
func defaultDataPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(dir, "quantdash")
}

// LoadConfig loads configuration from files with environment overrides.
// A .env file in the working directory is loaded first when present.
func LoadConfig(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	config := NewDefaultConfig()

	// Later files override earlier
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if config.API.BaseURL == "" {
		config.API.BaseURL = DefaultAPIBaseURL
	}
	config.API.BaseURL = strings.TrimRight(config.API.BaseURL, "/")

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("QUANTDASH_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("QUANTDASH_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("QUANTDASH_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	// REACT_APP_API_URL is honoured for parity with existing deployments' .env files.
	if u := os.Getenv("REACT_APP_API_URL"); u != "" {
		config.API.BaseURL = u
	}
	if u := os.Getenv("QUANTDASH_API_URL"); u != "" {
		config.API.BaseURL = u
	}

	if kind := os.Getenv("QUANTDASH_PROVIDER"); kind != "" {
		config.Provider.Kind = strings.ToLower(kind)
	}
	if seed := os.Getenv("QUANTDASH_SEED"); seed != "" {
		if s, err := strconv.ParseInt(seed, 10, 64); err == nil {
			config.Provider.Seed = s
		}
	}

	if level := os.Getenv("QUANTDASH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("QUANTDASH_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}
	if backend := os.Getenv("QUANTDASH_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = strings.ToLower(backend)
	}

	if v := os.Getenv("QUANTDASH_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("QUANTDASH_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
