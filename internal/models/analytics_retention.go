// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package models

// RetentionRatios holds fixed-window retention ratios in [0, 1].
type RetentionRatios struct {
	// Day7 is the share of users with activity in [first, first+7 days]
	Day7 float64 `json:"day7"`

	// Day30 is the share of users with activity in [first, first+30 days]
	Day30 float64 `json:"day30"`

	// Users is the population the ratios are computed over
	Users int `json:"users"`
}

// RetentionAnalytics pairs inclusive-window retention with return retention.
type RetentionAnalytics struct {
	// Retention counts the first activity itself, so it is 1.0 for any non-empty log
	Retention RetentionRatios `json:"retention"`

	// Return counts only events strictly after the first activity date
	Return RetentionRatios `json:"return"`
}
