// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package models

import "github.com/tomtom215/tally/internal/events"

// ActivityPoint is the distinct-user count of one calendar bucket.
type ActivityPoint struct {
	// PeriodStart is the first day of the bucket (the day itself, the
	// Monday of the week, or the first of the month)
	PeriodStart events.Date `json:"period_start"`

	// Users is the number of distinct users active within the bucket
	Users int `json:"users"`
}

// RollingPoint is the A30 value for one query date.
type RollingPoint struct {
	// Date is the last day of the trailing window
	Date events.Date `json:"date"`

	// ActiveUsers is the number of distinct users active in [Date-29, Date]
	ActiveUsers int `json:"active_users"`
}

// ActivitySeries wraps an activity series with its bucket granularity.
type ActivitySeries struct {
	Period string          `json:"period"`
	Points []ActivityPoint `json:"points"`
}
