// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components via constructors.
  - Zero Hidden State: No global variables are used to store config.

The storage mode is the one switch that matters: it selects the adapter pair
at process start, and nothing downstream ever branches on it again.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/minhanle/photolens/internal/platform/constants"
)

// # Configuration Schema

// Config holds all runtime configuration for the Photolens API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// StorageMode selects the persistence substrate: "postgres" or "local".
	StorageMode string `env:"STORAGE_MODE" envDefault:"postgres"`

	// Relational Database (PostgreSQL), required in postgres mode only.
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Embedded store (local mode)
	LocalDataDir    string `env:"LOCAL_DATA_DIR"    envDefault:"./data/local"`
	LocalQuotaBytes int64  `env:"LOCAL_QUOTA_BYTES" envDefault:"5242880"`

	// BcryptCost is the credential hashing work factor (postgres mode).
	// Zero selects the package default.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	// Cross-field validation that struct tags cannot express.
	switch cfg.StorageMode {
	case constants.StorageModePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("config: DATABASE_URL is required in postgres mode")
		}
	case constants.StorageModeLocal:
		// Nothing extra: the data directory is created on demand.
	default:
		return nil, fmt.Errorf("config: unknown STORAGE_MODE %q", cfg.StorageMode)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
