// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package services

import (
	"context"
	"time"

	"github.com/tomtom215/tally/internal/logging"
)

// Checkpointer folds the write-ahead log into the database file.
// Satisfied by *database.DB.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService runs a DuckDB CHECKPOINT on a fixed interval so the WAL
// stays small between uploads.
//
// A failed checkpoint is logged and retried on the next tick; it never
// stops the service, so a busy database cannot trigger restart backoff.
type CheckpointService struct {
	db       Checkpointer
	interval time.Duration
	name     string
}

// DefaultCheckpointInterval is used for non-positive intervals.
const DefaultCheckpointInterval = 5 * time.Minute

// NewCheckpointService creates a checkpoint service.
func NewCheckpointService(db Checkpointer, interval time.Duration) *CheckpointService {
	if interval <= 0 {
		interval = DefaultCheckpointInterval
	}
	return &CheckpointService{
		db:       db,
		interval: interval,
		name:     "duckdb-checkpoint",
	}
}

// Serve implements suture.Service. It checkpoints once more on shutdown.
func (s *CheckpointService) Serve(ctx context.Context) error {
	logger := logging.WithComponent(s.name)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			start := time.Now()
			if err := s.db.Checkpoint(ctx); err != nil {
				logger.Warn().Err(err).Msg("Periodic checkpoint failed")
				continue
			}
			logger.Debug().Dur("duration", time.Since(start)).Msg("Checkpoint complete")

		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.db.Checkpoint(flushCtx); err != nil {
				logger.Warn().Err(err).Msg("Final checkpoint failed")
			}
			cancel()
			return ctx.Err()
		}
	}
}

// String implements fmt.Stringer.
func (s *CheckpointService) String() string {
	return s.name
}
