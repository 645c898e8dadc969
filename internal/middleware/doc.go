// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

/*
Package middleware provides HTTP middleware components for the application.

PrometheusMetrics instruments every request with the counters, histogram
and in-flight gauge defined in internal/metrics. The endpoint label is the
chi route pattern ("/api/v1/analytics/{metric}" style) rather than the raw
path, so query strings and path parameters never create new series.

Usage:

	r := chi.NewRouter()
	r.Use(middleware.PrometheusMetrics)
	r.Get("/api/v1/analytics/report", h.Report)
*/
package middleware
