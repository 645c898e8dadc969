// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

/*
Package config provides centralized configuration management for Tally.

Configuration is layered with Koanf v2, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml,
    /etc/tally/config.yaml, /etc/tally/config.yml
 3. Environment variables listed in envMappings

Load validates the merged result before returning it.

# Environment Variables

Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8080)
  - HTTP_TIMEOUT: Read/write timeout (default: 30s)
  - SHUTDOWN_TIMEOUT: Graceful shutdown budget (default: 10s)
  - ENVIRONMENT: development, staging or production (default: development)
  - ANALYTICS_MAX_ROLLING_DAYS: Longest rolling-active date range (default: 3660)

Database:
  - DUCKDB_PATH: Event store file (default: /data/tally.duckdb)
  - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)
  - DUCKDB_THREADS: DuckDB worker threads, 0 for all cores (default: 0)
  - DUCKDB_CHECKPOINT_INTERVAL: Periodic CHECKPOINT, 0 to disable (default: 5m)

Import:
  - IMPORT_MAX_UPLOAD_BYTES: Upload size cap (default: 32MB)
  - IMPORT_DATE_FORMAT: auto, compact (YYYYMMDD) or iso (default: auto)
  - IMPORT_BATCH_SIZE: Rows per store transaction (default: 1000)

Cache:
  - CACHE_ENABLED: Enable the report cache (default: true)
  - CACHE_SIZE: Maximum cached reports (default: 64)
  - CACHE_TTL: Report lifetime (default: 5m)

Security:
  - CORS_ORIGINS: Comma-separated allowed origins (default: *)
  - RATE_LIMIT_REQUESTS: Requests per window per client (default: 100)
  - RATE_LIMIT_WINDOW: Rate limit window (default: 1m)
  - DISABLE_RATE_LIMIT: Turn rate limiting off (default: false)

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: Include caller file:line (default: false)
*/
package config
