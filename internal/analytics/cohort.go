// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

// This file contains monthly cohort retention analytics.
//
// Cohort retention analysis helps understand:
// - When users typically stop coming back (churn points)
// - Which cohorts have best/worst retention (identify successful periods)
// - Overall user engagement health over time
package analytics

import (
	"sort"

	"github.com/tomtom215/tally/internal/events"
	"github.com/tomtom215/tally/internal/models"
)

// RetentionPrecision is the number of decimal places cohort ratios are rounded to.
const RetentionPrecision = 3

type cohortKey struct {
	cohort events.Month
	offset int
}

// CohortAssignments places every event of the log relative to its user's
// cohort (month of first activity). The result is aligned with the log's
// event order.
func CohortAssignments(log *events.Log) []models.CohortAssignment {
	first := log.FirstActivity()
	out := make([]models.CohortAssignment, log.Len())
	for i := 0; i < log.Len(); i++ {
		e := log.Event(i)
		cohort := first[e.UserID].Month()
		out[i] = models.CohortAssignment{
			UserID:       e.UserID,
			Date:         e.Date,
			Cohort:       cohort,
			CohortPeriod: events.MonthsBetween(cohort, e.Date.Month()),
		}
	}
	return out
}

// CohortRetention builds the cohort x month-offset retention matrix.
//
// Step 1: assign each user to the month of their first activity.
// Step 2: for every event, compute its month offset from the cohort.
// Step 3: count distinct users per (cohort, offset) and divide by the
// cohort size (the offset 0 count).
func CohortRetention(log *events.Log) models.RetentionMatrix {
	groups := make(map[cohortKey]userSet)
	for _, a := range CohortAssignments(log) {
		key := cohortKey{cohort: a.Cohort, offset: a.CohortPeriod}
		set, ok := groups[key]
		if !ok {
			set = make(userSet)
			groups[key] = set
		}
		set.add(a.UserID)
	}

	rowMap := make(map[events.Month]*models.CohortRow)
	for key, set := range groups {
		row, ok := rowMap[key.cohort]
		if !ok {
			row = &models.CohortRow{Cohort: key.cohort}
			rowMap[key.cohort] = row
		}
		row.Periods = append(row.Periods, models.CohortCell{
			Offset:      key.offset,
			ActiveUsers: len(set),
		})
		if key.offset == 0 {
			row.Size = len(set)
		}
	}

	rows := make([]models.CohortRow, 0, len(rowMap))
	for _, row := range rowMap {
		sort.Slice(row.Periods, func(i, j int) bool {
			return row.Periods[i].Offset < row.Periods[j].Offset
		})

		// Calculate average retention (excluding offset 0)
		var totalRetention float64
		var retentionPoints int
		for i := range row.Periods {
			cell := &row.Periods[i]
			cell.Retention = roundTo(float64(cell.ActiveUsers)/float64(row.Size), RetentionPrecision)
			if cell.Offset > 0 {
				totalRetention += cell.Retention
				retentionPoints++
			}
		}
		if retentionPoints > 0 {
			row.AverageRetention = roundTo(totalRetention/float64(retentionPoints), RetentionPrecision)
		}
		rows = append(rows, *row)
	}

	// Sort by cohort month
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Cohort.Before(rows[j].Cohort)
	})

	return models.RetentionMatrix{Cohorts: rows}
}
