// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/tally/internal/analytics"
	"github.com/tomtom215/tally/internal/config"
	"github.com/tomtom215/tally/internal/database"
	"github.com/tomtom215/tally/internal/events"
	"github.com/tomtom215/tally/internal/ingest"
	"github.com/tomtom215/tally/internal/models"
)

// EventStore is the persistence the handlers need. *database.DB implements it.
type EventStore interface {
	ingest.EventStore
	LoadLog(ctx context.Context, filter database.Filter) (*events.Log, error)
	Stats(ctx context.Context) (*models.EventStats, error)
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_events.go: upload and store statistics
//   - handlers_analytics.go: metric endpoints
//   - handlers_health.go: health probes
type Handler struct {
	store     EventStore
	service   *analytics.Service
	importer  *ingest.Importer
	config    *config.Config
	version   string
	startTime time.Time
}

// NewHandler creates a new API handler.
func NewHandler(store EventStore, service *analytics.Service, importer *ingest.Importer, cfg *config.Config, version string) *Handler {
	return &Handler{
		store:     store,
		service:   service,
		importer:  importer,
		config:    cfg,
		version:   version,
		startTime: time.Now(),
	}
}

// respondStoreError reports a store failure. Invalid filters are the
// caller's fault; everything else is a database error.
func respondStoreError(rw *ResponseWriter, err error) {
	if errors.Is(err, events.ErrInvalidInput) {
		rw.FromError(err)
		return
	}
	rw.DatabaseError(err)
}
