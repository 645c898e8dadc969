// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

// Package models provides data structures for the Tally application.
// This file contains monthly cohort retention models.
package models

import "github.com/tomtom215/tally/internal/events"

// CohortAssignment places a single event relative to its user's cohort.
type CohortAssignment struct {
	UserID string      `json:"user_id"`
	Date   events.Date `json:"date"`

	// Cohort is the calendar month of the user's first activity
	Cohort events.Month `json:"cohort"`

	// CohortPeriod is the whole number of calendar months from Cohort to
	// the event's month. Never negative.
	CohortPeriod int `json:"cohort_period"`
}

// RetentionMatrix is a sparse cohort x offset retention matrix.
// Offsets with no observed activity are absent, not zero-filled.
type RetentionMatrix struct {
	// Cohorts is sorted ascending by cohort month
	Cohorts []CohortRow `json:"cohorts"`
}

// CohortRow represents a single monthly cohort (users who started in the same month)
type CohortRow struct {
	// Cohort is the month of first activity shared by every member
	Cohort events.Month `json:"cohort"`

	// Size is the number of distinct users in the cohort (active at offset 0)
	Size int `json:"size"`

	// Periods lists the observed offsets in ascending order.
	// Offset 0 is always present with retention 1.0.
	Periods []CohortCell `json:"periods"`

	// AverageRetention is the mean retention across observed offsets > 0
	AverageRetention float64 `json:"average_retention"`
}

// CohortCell is one observed (cohort, offset) pair.
type CohortCell struct {
	// Offset is the number of months since cohort formation (0 = same month)
	Offset int `json:"offset"`

	// ActiveUsers is the count of distinct cohort members active at Offset
	ActiveUsers int `json:"active_users"`

	// Retention is ActiveUsers / Size rounded to 3 decimal places
	Retention float64 `json:"retention"`
}

// Ratio returns the retention ratio at (cohort, offset).
// ok is false when the cell was not observed.
func (m RetentionMatrix) Ratio(cohort events.Month, offset int) (float64, bool) {
	for _, row := range m.Cohorts {
		if row.Cohort != cohort {
			continue
		}
		for _, cell := range row.Periods {
			if cell.Offset == offset {
				return cell.Retention, true
			}
		}
		return 0, false
	}
	return 0, false
}

// MaxOffset returns the largest observed offset across all cohorts.
func (m RetentionMatrix) MaxOffset() int {
	maxOffset := 0
	for _, row := range m.Cohorts {
		for _, cell := range row.Periods {
			if cell.Offset > maxOffset {
				maxOffset = cell.Offset
			}
		}
	}
	return maxOffset
}

// CohortSummary provides aggregate statistics across all cohorts
type CohortSummary struct {
	// TotalCohorts is the number of monthly cohorts analyzed
	TotalCohorts int `json:"total_cohorts"`

	// TotalUsersTracked is the sum of all cohort sizes
	TotalUsersTracked int `json:"total_users_tracked"`

	// Month1Retention is the average retention at offset 1 across cohorts
	Month1Retention float64 `json:"month1_retention"`

	// Month3Retention is the average retention at offset 3 across cohorts
	Month3Retention float64 `json:"month3_retention"`

	// Month6Retention is the average retention at offset 6 across cohorts
	Month6Retention float64 `json:"month6_retention"`

	// MedianRetentionMonth1 is the median retention at offset 1 (more robust than mean)
	MedianRetentionMonth1 float64 `json:"median_retention_month1"`

	// BestPerformingCohort is the cohort month with highest average retention
	BestPerformingCohort string `json:"best_performing_cohort"`

	// WorstPerformingCohort is the cohort month with lowest average retention
	WorstPerformingCohort string `json:"worst_performing_cohort"`

	// OverallAverageRetention is the average retention across all cohorts and offsets > 0
	OverallAverageRetention float64 `json:"overall_average_retention"`

	// RetentionTrend is "improving", "declining", "stable" or "insufficient_data"
	RetentionTrend string `json:"retention_trend"`
}

// RetentionPoint represents a single point on the aggregate retention curve
type RetentionPoint struct {
	// Offset is the number of months since cohort formation
	Offset int `json:"offset"`

	// AverageRetention is the mean retention across cohorts at this offset
	AverageRetention float64 `json:"average_retention"`

	// MedianRetention is the median retention (more robust to outliers)
	MedianRetention float64 `json:"median_retention"`

	// MinRetention is the lowest retention among cohorts at this offset
	MinRetention float64 `json:"min_retention"`

	// MaxRetention is the highest retention among cohorts at this offset
	MaxRetention float64 `json:"max_retention"`

	// CohortsWithData is the number of cohorts observed at this offset
	CohortsWithData int `json:"cohorts_with_data"`
}

// CohortAnalytics bundles the retention matrix with its summary statistics.
type CohortAnalytics struct {
	Matrix  RetentionMatrix  `json:"matrix"`
	Summary CohortSummary    `json:"summary"`
	Curve   []RetentionPoint `json:"curve"`
}
