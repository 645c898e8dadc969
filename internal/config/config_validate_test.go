// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }, "HTTP_TIMEOUT"},
		{"unknown environment", func(c *Config) { c.Server.Environment = "prod" }, "ENVIRONMENT"},
		{"zero rolling range", func(c *Config) { c.Server.MaxRollingDays = 0 }, "ANALYTICS_MAX_ROLLING_DAYS"},
		{"empty database path", func(c *Config) { c.Database.Path = "  " }, "DUCKDB_PATH"},
		{"negative threads", func(c *Config) { c.Database.Threads = -1 }, "DUCKDB_THREADS"},
		{"negative checkpoint interval", func(c *Config) { c.Database.CheckpointInterval = -time.Second }, "DUCKDB_CHECKPOINT_INTERVAL"},
		{"zero upload cap", func(c *Config) { c.Import.MaxUploadBytes = 0 }, "IMPORT_MAX_UPLOAD_BYTES"},
		{"unknown date format", func(c *Config) { c.Import.DateFormat = "us" }, "IMPORT_DATE_FORMAT"},
		{"batch size too large", func(c *Config) { c.Import.BatchSize = 1_000_000 }, "IMPORT_BATCH_SIZE"},
		{"cache size zero", func(c *Config) { c.Cache.Size = 0 }, "CACHE_SIZE"},
		{"cache disabled skips checks", func(c *Config) { c.Cache.Enabled = false; c.Cache.Size = 0 }, ""},
		{"wildcard cors in production", func(c *Config) { c.Server.Environment = "production" }, "CORS_ORIGINS"},
		{
			"explicit cors in production",
			func(c *Config) {
				c.Server.Environment = "production"
				c.Security.CORSOrigins = []string{"https://dash.example"}
			},
			"",
		},
		{"rate limit window too short", func(c *Config) { c.Security.RateLimitWindow = time.Millisecond }, "RATE_LIMIT_WINDOW"},
		{"rate limit requests zero", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{
			"rate limit disabled skips checks",
			func(c *Config) {
				c.Security.RateLimitDisabled = true
				c.Security.RateLimitReqs = 0
			},
			"",
		},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	cfg := defaultConfig()
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("wildcard origin should trigger a warning")
	}
	cfg.Security.CORSOrigins = []string{"https://dash.example"}
	if cfg.ShouldWarnAboutCORS() {
		t.Error("explicit origins should not trigger a warning")
	}
}
