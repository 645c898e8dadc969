// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

// Package analytics computes engagement metrics from an events.Log.
//
// The package has four metric families, each a set of pure functions that
// read an immutable log and return freshly built results from
// internal/models:
//
//   - Activity: ActiveUsers, DailyActiveUsers, NewUsersPerMonth
//   - Retention: Retention, ReturnRetention, RollingActive (A30)
//   - Cohorts: CohortAssignments, CohortRetention, SummarizeCohorts, RetentionCurve
//   - Churn: MonthlyChurn, AverageChurn
//
// Period bucketing follows calendar boundaries (day, ISO week starting
// Monday, calendar month). Month offsets are computed from month indices,
// never from elapsed time.
//
// Ratio computations fail with events.ErrDivisionUndefined instead of
// returning 0 or NaN when their denominator is empty.
//
// Service wraps the functions with Prometheus instrumentation, zerolog
// logging and a fingerprint-keyed report cache for the HTTP layer:
//
//	svc := analytics.NewService(analytics.ServiceConfig{CacheSize: 64, CacheTTL: 5 * time.Minute})
//	report, err := svc.Report(ctx, log)
package analytics
