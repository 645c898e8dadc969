// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

/*
Package main is the entry point for the Tally server.

Tally ingests user activity logs (one user_id,date row per active day) and
serves engagement metrics over HTTP: active users per day, week and month,
new users per month, 7- and 30-day retention, 30-day rolling actives,
monthly cohort retention and monthly churn.

# Application Architecture

	RootSupervisor ("tally")
	├── DataSupervisor ("data-layer")
	│   └── DuckDB checkpoint service
	└── APISupervisor ("api-layer")
	    └── HTTP server

Initialization order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog with the configured level and format
 3. Event store: DuckDB file at DUCKDB_PATH
 4. Analytics service with the report cache
 5. CSV importer
 6. HTTP router (chi) and middleware
 7. Supervisor tree

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for SHUTDOWN_TIMEOUT, the checkpoint service flushes the
WAL, and the database is closed.

# Example Usage

	export DUCKDB_PATH=./tally.duckdb
	export LOG_FORMAT=console
	./tally

	curl --data-binary @events.csv -H 'Content-Type: text/csv' localhost:8080/api/v1/events
	curl 'localhost:8080/api/v1/analytics/active-users?period=W'
	curl localhost:8080/api/v1/analytics/report
*/
package main
