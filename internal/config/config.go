// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package config

import "time"

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Import   ImportConfig   `koanf:"import"`
	Cache    CacheConfig    `koanf:"cache"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging" or "production"

	// MaxRollingDays caps the date range of one rolling-active request.
	MaxRollingDays int `koanf:"max_rolling_days"`
}

// DatabaseConfig holds DuckDB event store settings
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = DuckDB default (all cores)

	// CheckpointInterval is how often the WAL is folded into the database
	// file. Zero disables periodic checkpoints.
	CheckpointInterval time.Duration `koanf:"checkpoint_interval"`
}

// ImportConfig holds CSV ingestion settings
type ImportConfig struct {
	// MaxUploadBytes caps the request body accepted by POST /api/v1/events.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// DateFormat is "auto" (detect per row), "compact" (YYYYMMDD) or "iso" (YYYY-MM-DD).
	DateFormat string `koanf:"date_format"`

	// BatchSize is the number of rows written per store transaction.
	BatchSize int `koanf:"batch_size"`
}

// CacheConfig holds report cache settings
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	Size    int           `koanf:"size"`
	TTL     time.Duration `koanf:"ttl"`
}

// SecurityConfig holds HTTP-level protection settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
