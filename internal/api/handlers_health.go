// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/tally/internal/logging"
	"github.com/tomtom215/tally/internal/models"
)

// healthCheckTimeout bounds the database ping in health checks.
const healthCheckTimeout = 2 * time.Second

// Health status values.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
	StatusAlive    = "alive"
	StatusReady    = "ready"
)

func (h *Handler) databaseConnected(r *http.Request) bool {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Database health check failed")
		return false
	}
	return true
}

// Health reports overall service status. It always answers 200; a failed
// database ping only marks the status as degraded.
//
// Method: GET
// Path: /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	status := models.HealthStatus{
		Status:            StatusHealthy,
		Version:           h.version,
		DatabaseConnected: h.databaseConnected(r),
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if !status.DatabaseConnected {
		status.Status = StatusDegraded
	}
	rw.Success(status)
}

// HealthLive is the liveness probe. It does not touch the database.
//
// Method: GET
// Path: /health/live
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"status": StatusAlive,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady is the readiness probe. It answers 503 while the database
// is unreachable.
//
// Method: GET
// Path: /health/ready
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.databaseConnected(r) {
		rw.ServiceUnavailable("database unavailable")
		return
	}
	rw.Success(map[string]interface{}{"status": StatusReady})
}
