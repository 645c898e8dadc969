// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/tally/internal/database/query"
	"github.com/tomtom215/tally/internal/events"
	"github.com/tomtom215/tally/internal/logging"
	"github.com/tomtom215/tally/internal/metrics"
	"github.com/tomtom215/tally/internal/models"
)

// Operation names used as the database metrics label.
const (
	opInsertEvents = "insert_events"
	opLoadLog      = "load_log"
	opStats        = "stats"
)

// Filter restricts which stored events LoadLog returns.
// Zero dates and an empty user list mean unbounded.
type Filter struct {
	Start events.Date
	End   events.Date
	Users []string
}

// Validate rejects a range whose end precedes its start.
func (f Filter) Validate() error {
	if !f.Start.IsZero() && !f.End.IsZero() && f.End.Before(f.Start) {
		return fmt.Errorf("%w: end %s is before start %s", events.ErrInvalidInput, f.End, f.Start)
	}
	return nil
}

// InsertEvents stores records in a single transaction. Pairs already
// present are skipped and counted as duplicates.
func (db *DB) InsertEvents(ctx context.Context, records []events.Record) (inserted, duplicates int64, err error) {
	if len(records) == 0 {
		return 0, 0, nil
	}

	start := time.Now()
	defer func() { metrics.RecordDBQuery(opInsertEvents, time.Since(start), err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().
					Err(rbErr).
					AnErr("original_error", err).
					Msg("Transaction rollback failed")
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO activity_events (user_id, activity_date, ingested_at)
		VALUES (?, CAST(? AS DATE), ?)`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	ingestedAt := time.Now().UTC()
	for i, rec := range records {
		result, execErr := stmt.ExecContext(ctx, rec.UserID, rec.Date.String(), ingestedAt)
		if execErr != nil {
			err = fmt.Errorf("failed to insert event %d (user=%s): %w", i, rec.UserID, execErr)
			return 0, 0, err
		}

		rowsAffected, rowsErr := result.RowsAffected()
		if rowsErr != nil {
			err = fmt.Errorf("failed to get rows affected for event %d: %w", i, rowsErr)
			return 0, 0, err
		}
		if rowsAffected > 0 {
			inserted++
		} else {
			duplicates++
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logging.Debug().
		Int64("inserted", inserted).
		Int64("duplicates", duplicates).
		Int("total", len(records)).
		Msg("Event batch committed")
	return inserted, duplicates, nil
}

// LoadLog reads the stored events matching filter into an events.Log.
func (db *DB) LoadLog(ctx context.Context, filter Filter) (log *events.Log, err error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { metrics.RecordDBQuery(opLoadLog, time.Since(start), err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	where, args := query.NewWhereBuilder().
		AddDateRange(filter.Start, filter.End).
		AddUsers(filter.Users).
		BuildWithPrefix()

	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf(
		`SELECT user_id, activity_date FROM activity_events %s ORDER BY activity_date, user_id`, where),
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var records []events.Record
	for rows.Next() {
		var (
			userID string
			day    time.Time
		)
		if err := rows.Scan(&userID, &day); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		records = append(records, events.Record{UserID: userID, Date: events.DateOf(day)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	log, err = events.NewLog(records)
	if err != nil {
		return nil, fmt.Errorf("stored events failed validation: %w", err)
	}
	return log, nil
}

// Stats summarizes the stored events.
func (db *DB) Stats(ctx context.Context) (stats *models.EventStats, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(opStats, time.Since(start), err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var first, last, lastImport sql.NullTime
	stats = &models.EventStats{}
	err = db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT user_id),
		       MIN(activity_date), MAX(activity_date), MAX(ingested_at)
		FROM activity_events
	`).Scan(&stats.TotalEvents, &stats.UniqueUsers, &first, &last, &lastImport)
	if err != nil {
		return nil, fmt.Errorf("failed to get event stats: %w", err)
	}

	if first.Valid {
		d := events.DateOf(first.Time)
		stats.FirstActivity = &d
	}
	if last.Valid {
		d := events.DateOf(last.Time)
		stats.LastActivity = &d
	}
	if lastImport.Valid {
		t := lastImport.Time.UTC()
		stats.LastImportTime = &t
	}
	return stats, nil
}
