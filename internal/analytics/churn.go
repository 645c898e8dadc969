// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package analytics

import (
	"fmt"
	"sort"

	"github.com/tomtom215/tally/internal/events"
	"github.com/tomtom215/tally/internal/models"
)

// MonthlyChurn counts, for every month with activity except the last,
// the users active that month but not in the next calendar month.
//
// The comparison month is always month+1, even when it has no activity:
// a gap month counts as zero users, so every user of the month before the
// gap is churned. The last month of the data is excluded because it has
// no following month to compare against.
func MonthlyChurn(log *events.Log) models.ChurnSeries {
	monthly := make(map[events.Month]userSet)
	for i := 0; i < log.Len(); i++ {
		e := log.Event(i)
		m := e.Date.Month()
		set, ok := monthly[m]
		if !ok {
			set = make(userSet)
			monthly[m] = set
		}
		set.add(e.UserID)
	}

	months := make([]events.Month, 0, len(monthly))
	for m := range monthly {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Before(months[j])
	})

	if len(months) < 2 {
		return models.ChurnSeries{}
	}

	series := make(models.ChurnSeries, 0, len(months)-1)
	for _, m := range months[:len(months)-1] {
		current := monthly[m]
		next := monthly[m.Next()]

		churned := 0
		for user := range current {
			if !next.has(user) {
				churned++
			}
		}

		series = append(series, models.ChurnPoint{
			Month:       m,
			ActiveUsers: len(current),
			Churned:     churned,
			Rate:        roundTo(float64(churned)/float64(len(current)), RetentionPrecision),
		})
	}
	return series
}

// AverageChurn returns the arithmetic mean of the MonthlyChurn counts.
// It fails with events.ErrDivisionUndefined when the series is empty
// (no events, or activity in a single month only).
func AverageChurn(log *events.Log) (float64, error) {
	return averageOf(MonthlyChurn(log))
}

func averageOf(series models.ChurnSeries) (float64, error) {
	if len(series) == 0 {
		return 0, fmt.Errorf("average churn: %w", events.ErrDivisionUndefined)
	}
	var sum int
	for _, p := range series {
		sum += p.Churned
	}
	return float64(sum) / float64(len(series)), nil
}
