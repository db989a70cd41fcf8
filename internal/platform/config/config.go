// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Both the API server and the mangactl operator CLI load the same schema.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/mangaverse/internal/platform/postgres"
)

// # Configuration Schema

// Config holds all runtime configuration for the Mangaverse services.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL      string `env:"DATABASE_URL,required,notEmpty"`
	DatabaseMaxConns int32  `env:"DATABASE_MAX_CONNS" envDefault:"25"`
	DatabaseMinConns int32  `env:"DATABASE_MIN_CONNS" envDefault:"2"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Empty disables caching.
	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Cryptographic keys for identity signing
	JWTPrivKeyPath string        `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPubKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"mangaverse.app"`

	// Observability
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// ValidateServer checks the settings only the API server needs.
func (c *Config) ValidateServer() error {
	if c.JWTPrivKeyPath == "" || c.JWTPubKeyPath == "" {
		return fmt.Errorf("config: JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH are required")
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Port returns the TCP port the HTTP server binds to.
func (c *Config) Port() string {
	return c.ServerPort
}

// OriginSuffix returns the domain suffix accepted by the CORS policy.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}

// Postgres returns the pool settings.
func (c *Config) Postgres() postgres.PoolConfig {
	return postgres.PoolConfig{
		DSN:      c.DatabaseURL,
		MaxConns: c.DatabaseMaxConns,
		MinConns: c.DatabaseMinConns,
	}
}

// CacheEnabled reports whether a Redis URL was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}
