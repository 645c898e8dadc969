// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package ingest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tomtom215/tally/internal/events"
	"github.com/tomtom215/tally/internal/logging"
	"github.com/tomtom215/tally/internal/metrics"
	"github.com/tomtom215/tally/internal/models"
)

// DefaultBatchSize is used when Options.BatchSize is not positive.
const DefaultBatchSize = 1000

// EventStore persists activity records.
type EventStore interface {
	// InsertEvents stores records, skipping (user, date) pairs already present.
	InsertEvents(ctx context.Context, records []events.Record) (inserted, duplicates int64, err error)
}

// Options configures an Importer.
type Options struct {
	BatchSize  int
	DateFormat DateFormat
}

// Importer validates uploads and writes them to an EventStore in batches.
type Importer struct {
	store     EventStore
	batchSize int
	format    DateFormat
}

// NewImporter creates an Importer writing to store.
func NewImporter(store EventStore, opts Options) *Importer {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	format := opts.DateFormat
	if format == "" {
		format = DateFormatAuto
	}
	return &Importer{
		store:     store,
		batchSize: batchSize,
		format:    format,
	}
}

// Import reads a CSV upload from r and stores its events.
//
// Every row is validated before the first write. A validation failure
// returns an error wrapping events.ErrInvalidInput and stores nothing.
// A store failure part way through returns the counts written so far.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	start := time.Now()
	logger := logging.Ctx(ctx)

	records, err := ReadCSV(r, i.format)
	if err != nil {
		metrics.RecordIngestRejected()
		logger.Warn().Err(err).Msg("Rejected event upload")
		return nil, err
	}
	if _, err := events.NewLog(records); err != nil {
		metrics.RecordIngestRejected()
		logger.Warn().Err(err).Msg("Rejected event upload")
		return nil, err
	}

	result := &models.ImportResult{RecordsRead: len(records)}
	for offset := 0; offset < len(records); offset += i.batchSize {
		if err := ctx.Err(); err != nil {
			return i.finish(result, start), fmt.Errorf("import canceled: %w", err)
		}

		end := min(offset+i.batchSize, len(records))
		inserted, duplicates, err := i.store.InsertEvents(ctx, records[offset:end])
		result.Inserted += inserted
		result.Duplicates += duplicates
		if err != nil {
			metrics.RecordIngest(result.Inserted, result.Duplicates)
			logger.Error().Err(err).
				Int("batch_offset", offset).
				Int64("inserted", result.Inserted).
				Msg("Event batch insert failed")
			return i.finish(result, start), fmt.Errorf("insert batch at row %d: %w", offset, err)
		}
	}

	metrics.RecordIngest(result.Inserted, result.Duplicates)
	i.finish(result, start)
	logger.Info().
		Int("records", result.RecordsRead).
		Int64("inserted", result.Inserted).
		Int64("duplicates", result.Duplicates).
		Int64("duration_ms", result.DurationMs).
		Msg("Event upload imported")
	return result, nil
}

func (i *Importer) finish(result *models.ImportResult, start time.Time) *models.ImportResult {
	result.DurationMs = time.Since(start).Milliseconds()
	return result
}
