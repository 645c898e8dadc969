// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package analytics

import (
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/tally/internal/events"
)

// Period is a calendar bucket granularity.
type Period string

// Supported bucket granularities.
const (
	PeriodDay   Period = "D"
	PeriodWeek  Period = "W"
	PeriodMonth Period = "M"
)

// ParsePeriod accepts D/W/M (case-insensitive) or day/week/month.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d", "day", "daily":
		return PeriodDay, nil
	case "w", "week", "weekly":
		return PeriodWeek, nil
	case "m", "month", "monthly":
		return PeriodMonth, nil
	default:
		return "", fmt.Errorf("%w: unknown period %q (want D, W or M)", events.ErrInvalidInput, s)
	}
}

// Start returns the first day of the bucket containing d.
func (p Period) Start(d events.Date) events.Date {
	switch p {
	case PeriodWeek:
		return d.WeekStart()
	case PeriodMonth:
		return d.Month().Start()
	default:
		return d
	}
}

// Name returns the long form of the period ("day", "week", "month").
func (p Period) Name() string {
	switch p {
	case PeriodWeek:
		return "week"
	case PeriodMonth:
		return "month"
	default:
		return "day"
	}
}

// userSet is a set of distinct user identifiers.
type userSet map[string]struct{}

func (s userSet) add(user string) {
	s[user] = struct{}{}
}

func (s userSet) has(user string) bool {
	_, ok := s[user]
	return ok
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
