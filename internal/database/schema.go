// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package database

import (
	"context"
	"fmt"
	"time"
)

// ingested_at has no DEFAULT: CURRENT_TIMESTAMP defaults need the ICU
// extension during WAL replay, so the timestamp is bound on insert.
var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS activity_events (
		user_id VARCHAR NOT NULL,
		activity_date DATE NOT NULL,
		ingested_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, activity_date)
	)`,
}

var indexQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_activity_events_date ON activity_events(activity_date)`,
}

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

func (db *DB) createTables() error {
	return db.execAll(tableCreationQueries)
}

func (db *DB) createIndexes() error {
	return db.execAll(indexQueries)
}

func (db *DB) execAll(queries []string) error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}
