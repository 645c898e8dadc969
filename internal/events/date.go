// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package events

import (
	"fmt"
	"time"
)

// ISODateLayout is the canonical textual form of a Date.
const ISODateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day component.
// The zero value represents a missing date.
type Date struct {
	t time.Time
}

// NewDate returns the calendar date year-month-day. Out of range values are
// normalized the same way time.Date normalizes them (e.g. Jan 32 -> Feb 1).
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses s with the given layout and drops any time-of-day.
func ParseDate(layout, s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// IsZero reports whether d is the missing date.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time returns d as a UTC midnight timestamp.
func (d Date) Time() time.Time {
	return d.t
}

// Year returns the calendar year.
func (d Date) Year() int {
	return d.t.Year()
}

// AddDays returns d shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysUntil returns the number of calendar days from d to other, negative
// when other is earlier.
func (d Date) DaysUntil(other Date) int {
	return int((other.t.Unix() - d.t.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Equal reports whether d and other are the same calendar date.
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to,
// or after other.
func (d Date) Compare(other Date) int {
	return d.t.Compare(other.t)
}

// Within reports whether d lies in the inclusive range [start, end].
func (d Date) Within(start, end Date) bool {
	return !d.Before(start) && !d.After(end)
}

// Month returns the calendar month containing d.
func (d Date) Month() Month {
	return Month{Year: d.t.Year(), Month: d.t.Month()}
}

// WeekStart returns the Monday of the ISO week containing d.
func (d Date) WeekStart() Date {
	// time.Weekday is Sunday=0; shift so Monday=0.
	offset := (int(d.t.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(ISODateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(ISODateLayout, string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Month is a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month with the given year and month number.
func MonthOf(year int, month time.Month) Month {
	return Month{Year: year, Month: month}
}

// Index returns a monotonically increasing month number (year*12 + month-1)
// so that consecutive calendar months differ by exactly one.
func (m Month) Index() int {
	return m.Year*12 + int(m.Month) - 1
}

// Next returns the calendar month immediately after m.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Start returns the first day of m.
func (m Month) Start() Date {
	return NewDate(m.Year, m.Month, 1)
}

// Before reports whether m is strictly earlier than other.
func (m Month) Before(other Month) bool {
	return m.Index() < other.Index()
}

// String formats m as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MarshalText implements encoding.TextMarshaler.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Month) UnmarshalText(b []byte) error {
	t, err := time.Parse("2006-01", string(b))
	if err != nil {
		return fmt.Errorf("parse month %q: %w", string(b), err)
	}
	*m = Month{Year: t.Year(), Month: t.Month()}
	return nil
}

// MonthsBetween returns the number of whole calendar months from a to b.
// The result is negative when b is earlier than a.
func MonthsBetween(a, b Month) int {
	return b.Index() - a.Index()
}
