// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package models

import (
	"time"

	"github.com/tomtom215/tally/internal/events"
)

// EventStats represents overall event store statistics
type EventStats struct {
	TotalEvents    int64        `json:"total_events"`
	UniqueUsers    int64        `json:"unique_users"`
	FirstActivity  *events.Date `json:"first_activity,omitempty"`
	LastActivity   *events.Date `json:"last_activity,omitempty"`
	LastImportTime *time.Time   `json:"last_import_time,omitempty"`
}

// ImportResult summarizes a single ingestion.
type ImportResult struct {
	// RecordsRead is the number of data rows parsed from the source
	RecordsRead int `json:"records_read"`

	// Inserted is the number of new (user, date) pairs stored
	Inserted int64 `json:"inserted"`

	// Duplicates is the number of pairs already present
	Duplicates int64 `json:"duplicates"`

	DurationMs int64 `json:"duration_ms"`
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	Uptime            float64 `json:"uptime_seconds"`
}
