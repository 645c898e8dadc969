// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package models

import "github.com/tomtom215/tally/internal/events"

// ChurnPoint is the churn of a single month against the following calendar month.
type ChurnPoint struct {
	Month events.Month `json:"month"`

	// ActiveUsers is the number of distinct users active in Month
	ActiveUsers int `json:"active_users"`

	// Churned is the number of Month's users absent from the next calendar month
	Churned int `json:"churned"`

	// Rate is Churned / ActiveUsers
	Rate float64 `json:"rate"`
}

// ChurnSeries is sorted ascending by month and never contains the last
// month of the data range.
type ChurnSeries []ChurnPoint

// Values returns the churned counts in series order.
func (s ChurnSeries) Values() []int {
	out := make([]int, len(s))
	for i, p := range s {
		out[i] = p.Churned
	}
	return out
}

// ChurnAnalytics bundles the churn series with its average.
type ChurnAnalytics struct {
	Series ChurnSeries `json:"series"`

	// AverageChurn is the mean churned count over Series
	AverageChurn float64 `json:"average_churn"`
}
