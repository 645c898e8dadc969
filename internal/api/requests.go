// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/tally/internal/analytics"
	"github.com/tomtom215/tally/internal/database"
	"github.com/tomtom215/tally/internal/ingest"
	"github.com/tomtom215/tally/internal/validation"
)

// analyticsQuery holds the query parameters shared by analytics endpoints.
type analyticsQuery struct {
	Start  string   `json:"start" validate:"omitempty,activity_date"`
	End    string   `json:"end" validate:"omitempty,activity_date"`
	Period string   `json:"period" validate:"omitempty,period"`
	Users  []string `json:"users" validate:"max=100,dive,required,max=256"`
}

// parseAnalyticsQuery reads and validates the analytics query parameters.
func parseAnalyticsQuery(r *http.Request) (*analyticsQuery, error) {
	q := r.URL.Query()
	aq := &analyticsQuery{
		Start:  strings.TrimSpace(q.Get("start")),
		End:    strings.TrimSpace(q.Get("end")),
		Period: strings.TrimSpace(q.Get("period")),
		Users:  splitList(q.Get("users")),
	}

	if verr := validation.ValidateStruct(aq); verr != nil {
		return nil, verr
	}
	return aq, nil
}

// filter converts the query into a store filter.
func (q *analyticsQuery) filter() (database.Filter, error) {
	var f database.Filter
	var err error

	if q.Start != "" {
		if f.Start, err = ingest.ParseActivityDate(q.Start, ingest.DateFormatAuto); err != nil {
			return database.Filter{}, err
		}
	}
	if q.End != "" {
		if f.End, err = ingest.ParseActivityDate(q.End, ingest.DateFormatAuto); err != nil {
			return database.Filter{}, err
		}
	}
	f.Users = q.Users
	return f, f.Validate()
}

// rollingWindowFilter widens the start bound so the first requested date
// still sees its full trailing window of events.
func rollingWindowFilter(f database.Filter) database.Filter {
	if !f.Start.IsZero() {
		f.Start = f.Start.AddDays(-(analytics.RollingWindowDays - 1))
	}
	return f
}

// splitList splits a comma-separated parameter, dropping blanks.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
