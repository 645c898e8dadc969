// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/tally/internal/events"
)

var (
	// Computation Metrics
	ComputationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tally_computation_duration_seconds",
			Help:    "Duration of engagement metric computations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"metric"},
	)

	ComputationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tally_computation_errors_total",
			Help: "Total number of failed engagement metric computations",
		},
		[]string{"metric", "error_type"}, // "invalid_input", "division_undefined", "other"
	)

	EventLogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tally_event_log_events",
			Help: "Number of events in the most recently analyzed event log",
		},
	)

	EventLogUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tally_event_log_users",
			Help: "Number of distinct users in the most recently analyzed event log",
		},
	)

	// Report Cache Metrics
	ReportCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tally_report_cache_hits_total",
			Help: "Total number of engagement report cache hits",
		},
	)

	ReportCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tally_report_cache_misses_total",
			Help: "Total number of engagement report cache misses",
		},
	)

	// Ingestion Metrics
	EventsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tally_events_ingested_total",
			Help: "Total number of activity events ingested",
		},
		[]string{"result"}, // "inserted", "duplicate"
	)

	IngestRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tally_ingest_rejected_total",
			Help: "Total number of rejected uploads",
		},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tally_duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tally_duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tally_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tally_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tally_api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// RecordComputation records the duration and outcome of one metric computation.
func RecordComputation(metric string, duration time.Duration, err error) {
	ComputationDuration.WithLabelValues(metric).Observe(duration.Seconds())
	if err != nil {
		ComputationErrors.WithLabelValues(metric, ErrorType(err)).Inc()
	}
}

// RecordEventLog records the size of an analyzed event log.
func RecordEventLog(events, users int) {
	EventLogSize.Set(float64(events))
	EventLogUsers.Set(float64(users))
}

// RecordCacheLookup records a report cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		ReportCacheHits.Inc()
		return
	}
	ReportCacheMisses.Inc()
}

// RecordIngest records the outcome of a single upload.
func RecordIngest(inserted, duplicates int64) {
	EventsIngested.WithLabelValues("inserted").Add(float64(inserted))
	EventsIngested.WithLabelValues("duplicate").Add(float64(duplicates))
}

// RecordIngestRejected records an upload that failed validation.
func RecordIngestRejected() {
	IngestRejected.Inc()
}

// RecordDBQuery records metrics for a database query
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordAPIRequest records metrics for an API request
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// ErrorType maps an error to a low-cardinality label value.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, events.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, events.ErrDivisionUndefined):
		return "division_undefined"
	default:
		return "other"
	}
}
