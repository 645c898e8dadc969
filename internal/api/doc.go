// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

/*
Package api provides the HTTP interface to Tally using the chi router.

Routes:

	POST /api/v1/events                        upload a user_id,date CSV
	GET  /api/v1/events/stats                  stored event counts and range
	GET  /api/v1/analytics/active-users        ?period=D|W|M
	GET  /api/v1/analytics/acquisition         new users per month
	GET  /api/v1/analytics/retention           7/30-day retention and return rates
	GET  /api/v1/analytics/rolling-active      30-day rolling actives
	GET  /api/v1/analytics/cohorts             cohort matrix, summary and curve
	GET  /api/v1/analytics/churn               monthly churn and its average
	GET  /api/v1/analytics/report              every metric family at once
	GET  /health, /health/live, /health/ready  probes
	GET  /metrics                              Prometheus exposition

Every analytics endpoint accepts start and end (YYYYMMDD or YYYY-MM-DD)
and users (comma separated) to restrict which stored events are analyzed.

Responses use one envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "VALIDATION_FAILED", "message": "..."}, "meta": {...}}

Error codes map from the domain errors: events.ErrInvalidInput is 400
VALIDATION_FAILED, events.ErrDivisionUndefined is 422 DIVISION_UNDEFINED,
and store failures are 500 DATABASE_ERROR.
*/
package api
