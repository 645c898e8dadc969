// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package models

import (
	"time"

	"github.com/tomtom215/tally/internal/events"
)

// EngagementReport contains every metric family computed from one event log.
type EngagementReport struct {
	DailyActive   []ActivityPoint `json:"daily_active"`
	WeeklyActive  []ActivityPoint `json:"weekly_active"`
	MonthlyActive []ActivityPoint `json:"monthly_active"`
	Acquisition   []ActivityPoint `json:"acquisition"`

	Retention       RetentionRatios `json:"retention"`
	ReturnRetention RetentionRatios `json:"return_retention"`
	RollingActive   []RollingPoint  `json:"rolling_active"`

	Cohorts        RetentionMatrix  `json:"cohorts"`
	CohortSummary  CohortSummary    `json:"cohort_summary"`
	RetentionCurve []RetentionPoint `json:"retention_curve"`

	Churn ChurnSeries `json:"churn"`

	// AverageChurn is nil when the churn series is empty (single-month logs);
	// the metric name is then listed in Undefined.
	AverageChurn *float64 `json:"average_churn"`

	// Undefined names metrics whose denominator was zero for this log
	Undefined []string `json:"undefined,omitempty"`

	Metadata ReportMetadata `json:"metadata"`
}

// ReportMetadata provides provenance and auditability information
type ReportMetadata struct {
	// Fingerprint identifies the event log the report was computed from
	Fingerprint string `json:"fingerprint"`

	// EventCount is the number of events analyzed (duplicates included)
	EventCount int `json:"event_count"`

	// UserCount is the number of distinct users analyzed
	UserCount int `json:"user_count"`

	// DataRangeStart is the earliest activity date
	DataRangeStart events.Date `json:"data_range_start"`

	// DataRangeEnd is the latest activity date
	DataRangeEnd events.Date `json:"data_range_end"`

	// GeneratedAt is when this report was computed
	GeneratedAt time.Time `json:"generated_at"`

	// ComputeTimeMs is how long the computation took
	ComputeTimeMs int64 `json:"compute_time_ms"`

	// Cached indicates if this result was served from cache
	Cached bool `json:"cached"`
}
