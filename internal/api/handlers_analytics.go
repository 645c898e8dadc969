// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package api

import (
	"net/http"

	"github.com/tomtom215/tally/internal/analytics"
	"github.com/tomtom215/tally/internal/database"
	"github.com/tomtom215/tally/internal/events"
	"github.com/tomtom215/tally/internal/models"
)

// analyticsRequest is a parsed analytics query with the filter it implies.
type analyticsRequest struct {
	query  *analyticsQuery
	filter database.Filter
}

// parseAnalyticsRequest parses the shared query parameters. It writes the
// error response and returns false on failure.
func parseAnalyticsRequest(rw *ResponseWriter, r *http.Request) (*analyticsRequest, bool) {
	q, err := parseAnalyticsQuery(r)
	if err != nil {
		rw.FromError(err)
		return nil, false
	}
	f, err := q.filter()
	if err != nil {
		rw.FromError(err)
		return nil, false
	}
	return &analyticsRequest{query: q, filter: f}, true
}

// loadLog fetches the events matching filter. It writes the error
// response and returns false on failure.
func (h *Handler) loadLog(rw *ResponseWriter, r *http.Request, filter database.Filter) (*events.Log, bool) {
	log, err := h.store.LoadLog(r.Context(), filter)
	if err != nil {
		respondStoreError(rw, err)
		return nil, false
	}
	return log, true
}

// requestLog parses the query and loads the matching events.
func (h *Handler) requestLog(rw *ResponseWriter, r *http.Request) (*analyticsRequest, *events.Log, bool) {
	req, ok := parseAnalyticsRequest(rw, r)
	if !ok {
		return nil, nil, false
	}
	log, ok := h.loadLog(rw, r, req.filter)
	if !ok {
		return nil, nil, false
	}
	return req, log, true
}

// respond writes data or maps err to an error response.
func respond(rw *ResponseWriter, data interface{}, err error) {
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.Success(data)
}

// ActiveUsers returns distinct active users per day, week or month.
//
// Method: GET
// Path: /api/v1/analytics/active-users
//
// Query Parameters:
//   - period: D, W or M (default D)
//   - start, end, users: event filter
func (h *Handler) ActiveUsers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	req, log, ok := h.requestLog(rw, r)
	if !ok {
		return
	}

	name := req.query.Period
	if name == "" {
		name = "D"
	}
	period, err := analytics.ParsePeriod(name)
	if err != nil {
		rw.FromError(err)
		return
	}

	points, err := h.service.ActiveUsers(r.Context(), log, period)
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.Success(models.ActivitySeries{Period: period.Name(), Points: points})
}

// Acquisition returns first-time users per calendar month.
//
// Method: GET
// Path: /api/v1/analytics/acquisition
func (h *Handler) Acquisition(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	_, log, ok := h.requestLog(rw, r)
	if !ok {
		return
	}
	points, err := h.service.Acquisition(r.Context(), log)
	respond(rw, points, err)
}

// Retention returns the 7- and 30-day retention and return ratios.
//
// Method: GET
// Path: /api/v1/analytics/retention
//
// Responds 422 DIVISION_UNDEFINED when no events match.
func (h *Handler) Retention(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	_, log, ok := h.requestLog(rw, r)
	if !ok {
		return
	}
	ratios, err := h.service.Retention(r.Context(), log)
	respond(rw, ratios, err)
}

// RollingActive returns the 30-day rolling active count per date.
//
// Method: GET
// Path: /api/v1/analytics/rolling-active
//
// start and end bound the returned dates. Events up to 29 days before
// start still count toward the first windows.
//
// Responds 400 when the range is longer than ANALYTICS_MAX_ROLLING_DAYS.
func (h *Handler) RollingActive(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	req, ok := parseAnalyticsRequest(rw, r)
	if !ok {
		return
	}
	log, ok := h.loadLog(rw, r, rollingWindowFilter(req.filter))
	if !ok {
		return
	}
	points, err := h.service.RollingActive(r.Context(), log, req.filter.Start, req.filter.End)
	respond(rw, points, err)
}

// Cohorts returns the monthly cohort retention matrix with its summary.
//
// Method: GET
// Path: /api/v1/analytics/cohorts
func (h *Handler) Cohorts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	_, log, ok := h.requestLog(rw, r)
	if !ok {
		return
	}
	cohorts, err := h.service.Cohorts(r.Context(), log)
	respond(rw, cohorts, err)
}

// Churn returns monthly churn and its average.
//
// Method: GET
// Path: /api/v1/analytics/churn
//
// Responds 422 DIVISION_UNDEFINED when no events match.
func (h *Handler) Churn(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	_, log, ok := h.requestLog(rw, r)
	if !ok {
		return
	}
	churn, err := h.service.Churn(r.Context(), log)
	respond(rw, churn, err)
}

// Report returns every metric family for the matching events. Reports
// are cached by the fingerprint of the analyzed events.
//
// Method: GET
// Path: /api/v1/analytics/report
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	_, log, ok := h.requestLog(rw, r)
	if !ok {
		return
	}
	report, err := h.service.Report(r.Context(), log)
	respond(rw, report, err)
}
