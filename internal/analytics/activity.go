// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package analytics

import (
	"sort"

	"github.com/tomtom215/tally/internal/events"
	"github.com/tomtom215/tally/internal/models"
)

// ActiveUsers counts distinct users per calendar bucket, ascending by bucket start.
// A user active on several dates of one bucket counts once. An empty log
// yields an empty series.
func ActiveUsers(log *events.Log, period Period) []models.ActivityPoint {
	buckets := make(map[events.Date]userSet)
	for i := 0; i < log.Len(); i++ {
		e := log.Event(i)
		start := period.Start(e.Date)
		set, ok := buckets[start]
		if !ok {
			set = make(userSet)
			buckets[start] = set
		}
		set.add(e.UserID)
	}

	points := make([]models.ActivityPoint, 0, len(buckets))
	for start, set := range buckets {
		points = append(points, models.ActivityPoint{PeriodStart: start, Users: len(set)})
	}
	sortPoints(points)
	return points
}

// DailyActiveUsers returns the DAU series.
func DailyActiveUsers(log *events.Log) []models.ActivityPoint {
	return ActiveUsers(log, PeriodDay)
}

// NewUsersPerMonth counts users by the month of their first activity.
// Every user lands in exactly one bucket, so the counts sum to the number
// of distinct users in the log.
func NewUsersPerMonth(log *events.Log) []models.ActivityPoint {
	counts := make(map[events.Month]int)
	for _, first := range log.FirstActivity() {
		counts[first.Month()]++
	}

	points := make([]models.ActivityPoint, 0, len(counts))
	for month, n := range counts {
		points = append(points, models.ActivityPoint{PeriodStart: month.Start(), Users: n})
	}
	sortPoints(points)
	return points
}

func sortPoints(points []models.ActivityPoint) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].PeriodStart.Before(points[j].PeriodStart)
	})
}
