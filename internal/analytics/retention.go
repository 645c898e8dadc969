// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package analytics

import (
	"fmt"

	"github.com/tomtom215/tally/internal/events"
	"github.com/tomtom215/tally/internal/models"
)

// Window lengths in calendar days.
const (
	ShortWindowDays   = 7
	LongWindowDays    = 30
	RollingWindowDays = 30
)

// Retention returns the share of users with at least one event inside
// [first activity, first activity + N days] for N = 7 and N = 30.
//
// A user's own first event always lies inside both windows, so for a
// non-empty log both ratios are 1.0. ReturnRetention excludes the first
// activity date and measures actual returns.
func Retention(log *events.Log) (models.RetentionRatios, error) {
	return windowRetention(log, false)
}

// ReturnRetention is Retention restricted to events strictly after the
// user's first activity date: the share of users who came back within
// 7 and 30 days.
func ReturnRetention(log *events.Log) (models.RetentionRatios, error) {
	return windowRetention(log, true)
}

func windowRetention(log *events.Log, excludeFirstDay bool) (models.RetentionRatios, error) {
	first := log.FirstActivity()
	if len(first) == 0 {
		return models.RetentionRatios{}, fmt.Errorf("retention: %w", events.ErrDivisionUndefined)
	}

	short := make(userSet)
	long := make(userSet)
	for i := 0; i < log.Len(); i++ {
		e := log.Event(i)
		start := first[e.UserID]
		if excludeFirstDay && !e.Date.After(start) {
			continue
		}
		if e.Date.Within(start, start.AddDays(ShortWindowDays)) {
			short.add(e.UserID)
		}
		if e.Date.Within(start, start.AddDays(LongWindowDays)) {
			long.add(e.UserID)
		}
	}

	total := float64(len(first))
	return models.RetentionRatios{
		Day7:  float64(len(short)) / total,
		Day30: float64(len(long)) / total,
		Users: len(first),
	}, nil
}

// RollingActive returns, for each query date D, the number of distinct
// users active in the inclusive trailing window [D-29, D]. The result is
// aligned with dates.
func RollingActive(log *events.Log, dates []events.Date) []int {
	byDay := make(map[events.Date]userSet)
	for i := 0; i < log.Len(); i++ {
		e := log.Event(i)
		set, ok := byDay[e.Date]
		if !ok {
			set = make(userSet)
			byDay[e.Date] = set
		}
		set.add(e.UserID)
	}

	counts := make([]int, len(dates))
	seen := make(userSet)
	for i, end := range dates {
		clear(seen)
		for offset := 0; offset < RollingWindowDays; offset++ {
			for user := range byDay[end.AddDays(-offset)] {
				seen.add(user)
			}
		}
		counts[i] = len(seen)
	}
	return counts
}

// RollingActiveSeries pairs RollingActive counts with their query dates.
func RollingActiveSeries(log *events.Log, dates []events.Date) []models.RollingPoint {
	counts := RollingActive(log, dates)
	points := make([]models.RollingPoint, len(dates))
	for i, d := range dates {
		points[i] = models.RollingPoint{Date: d, ActiveUsers: counts[i]}
	}
	return points
}

// DateRange returns every calendar date in [start, end]. It returns nil
// when end is before start.
func DateRange(start, end events.Date) []events.Date {
	if end.Before(start) {
		return nil
	}
	var dates []events.Date
	for d := start; !d.After(end); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates
}
