// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

/*
Package models defines the read-only result structures produced by Tally.

Every type in this package is plain data: computations live in
internal/analytics, rendering lives in the presentation layer (internal/api
or any other consumer). All types carry JSON tags so they can be returned
as-is from HTTP handlers.

Model Categories:

 1. Activity Models:
    - ActivityPoint: distinct active users in one calendar bucket
    - RollingPoint: distinct active users in a trailing 30-day window

 2. Retention Models:
    - RetentionRatios: 7-day and 30-day retention ratios

 3. Cohort Models:
    - RetentionMatrix: sparse cohort x month-offset retention matrix
    - CohortRow, CohortCell: one cohort and one observed offset
    - CohortSummary, RetentionPoint: aggregate statistics across cohorts

 4. Churn Models:
    - ChurnSeries, ChurnPoint: users lost between adjacent calendar months

 5. Report Models:
    - EngagementReport: every metric family for a single event log
    - ReportMetadata: provenance (fingerprint, counts, timing)

 6. Store Models:
    - EventStats: stored event counts and date range
    - ImportResult: outcome of one upload
    - HealthStatus: service health for /health
*/
package models
