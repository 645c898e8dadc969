// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

/*
Package metrics provides Prometheus metrics collection and export for observability.

# Overview

The package provides metrics for:
  - Engagement metric computation latency and failures
  - Event ingestion volume and rejected uploads
  - Event store query performance (DuckDB)
  - Report cache hit/miss rates
  - HTTP request latency and throughput

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:3858/metrics

# Usage

	start := time.Now()
	matrix := analytics.CohortRetention(log)
	metrics.RecordComputation("cohort_retention", time.Since(start), nil)

All collectors are registered with the default registry via promauto.
*/
package metrics
