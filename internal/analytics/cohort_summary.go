// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package analytics

import (
	"sort"

	"github.com/tomtom215/tally/internal/models"
)

// trendThreshold is the retention difference between early and late
// cohorts that counts as a trend (ratios, not percent).
const trendThreshold = 0.05

// SummarizeCohorts computes aggregate statistics across all cohorts
func SummarizeCohorts(matrix models.RetentionMatrix) models.CohortSummary {
	cohorts := matrix.Cohorts
	summary := models.CohortSummary{
		TotalCohorts: len(cohorts),
	}

	if len(cohorts) == 0 {
		summary.RetentionTrend = "insufficient_data"
		return summary
	}

	var month1Rates, month3Rates, month6Rates []float64
	var allRetentionRates []float64
	var bestRetention, worstRetention float64 = -1, 2
	var bestCohort, worstCohort string

	for _, cohort := range cohorts {
		summary.TotalUsersTracked += cohort.Size

		for _, cell := range cohort.Periods {
			switch cell.Offset {
			case 1:
				month1Rates = append(month1Rates, cell.Retention)
			case 3:
				month3Rates = append(month3Rates, cell.Retention)
			case 6:
				month6Rates = append(month6Rates, cell.Retention)
			}
			if cell.Offset > 0 {
				allRetentionRates = append(allRetentionRates, cell.Retention)
			}
		}

		if cohort.AverageRetention > bestRetention {
			bestRetention = cohort.AverageRetention
			bestCohort = cohort.Cohort.String()
		}
		if cohort.AverageRetention < worstRetention {
			worstRetention = cohort.AverageRetention
			worstCohort = cohort.Cohort.String()
		}
	}

	summary.Month1Retention = roundTo(average(month1Rates), RetentionPrecision)
	summary.Month3Retention = roundTo(average(month3Rates), RetentionPrecision)
	summary.Month6Retention = roundTo(average(month6Rates), RetentionPrecision)
	summary.MedianRetentionMonth1 = median(month1Rates)
	summary.OverallAverageRetention = roundTo(average(allRetentionRates), RetentionPrecision)
	summary.BestPerformingCohort = bestCohort
	summary.WorstPerformingCohort = worstCohort

	// Compare first half to second half of cohorts
	summary.RetentionTrend = retentionTrend(cohorts)

	return summary
}

// RetentionCurve aggregates retention per offset across cohorts, up to maxOffset.
// Offsets no cohort observed are skipped.
func RetentionCurve(matrix models.RetentionMatrix, maxOffset int) []models.RetentionPoint {
	if len(matrix.Cohorts) == 0 {
		return []models.RetentionPoint{}
	}

	offsetData := make(map[int][]float64)
	for _, cohort := range matrix.Cohorts {
		for _, cell := range cohort.Periods {
			if cell.Offset <= maxOffset {
				offsetData[cell.Offset] = append(offsetData[cell.Offset], cell.Retention)
			}
		}
	}

	curve := make([]models.RetentionPoint, 0, maxOffset+1)
	for offset := 0; offset <= maxOffset; offset++ {
		rates := offsetData[offset]
		if len(rates) == 0 {
			continue
		}

		curve = append(curve, models.RetentionPoint{
			Offset:           offset,
			AverageRetention: roundTo(average(rates), RetentionPrecision),
			MedianRetention:  median(rates),
			MinRetention:     minFloat(rates),
			MaxRetention:     maxFloat(rates),
			CohortsWithData:  len(rates),
		})
	}

	return curve
}

// retentionTrend compares recent cohorts to older ones
func retentionTrend(cohorts []models.CohortRow) string {
	if len(cohorts) < 4 {
		return "insufficient_data"
	}

	midpoint := len(cohorts) / 2
	var earlyAvg, lateAvg float64
	var earlyCount, lateCount int

	for i, cohort := range cohorts {
		if i < midpoint {
			earlyAvg += cohort.AverageRetention
			earlyCount++
		} else {
			lateAvg += cohort.AverageRetention
			lateCount++
		}
	}

	if earlyCount > 0 {
		earlyAvg /= float64(earlyCount)
	}
	if lateCount > 0 {
		lateAvg /= float64(lateCount)
	}

	diff := lateAvg - earlyAvg
	if diff > trendThreshold {
		return "improving"
	}
	if diff < -trendThreshold {
		return "declining"
	}
	return "stable"
}

// Helper functions for statistics

func average(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func minFloat(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	result := vals[0]
	for _, v := range vals[1:] {
		if v < result {
			result = v
		}
	}
	return result
}

func maxFloat(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	result := vals[0]
	for _, v := range vals[1:] {
		if v > result {
			result = v
		}
	}
	return result
}
