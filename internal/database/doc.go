// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

// Package database provides the DuckDB-backed activity event store.
//
// # Schema
//
// A single table holds one row per distinct (user, day) pair:
//
//	activity_events (
//	    user_id       VARCHAR   NOT NULL,
//	    activity_date DATE      NOT NULL,
//	    ingested_at   TIMESTAMP NOT NULL,
//	    PRIMARY KEY (user_id, activity_date)
//	)
//
// Writes use INSERT OR IGNORE, so uploading the same file twice stores
// nothing new and reports every row as a duplicate. Every metric counts
// distinct users per window, so collapsing same-day duplicates at write
// time does not change any result.
//
// # Reading
//
// LoadLog rebuilds an immutable events.Log from stored rows, optionally
// restricted to a date range and a set of users. Rows come back ordered
// by date then user so the log fingerprint is stable across loads.
//
// # Durability
//
// Close runs CHECKPOINT before closing so the WAL is flushed into the
// main database file and the next startup does not need to replay it.
package database
