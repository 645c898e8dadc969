// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

// Package events provides the validated in-memory activity log that every
// engagement metric in Tally is computed from.
//
// An activity log is a finite set of (user, calendar date) pairs. All
// arithmetic in this package is calendar based: dates carry no time of day,
// month offsets are computed from year/month indices, and day offsets use
// calendar days rather than 24h durations.
//
// # Types
//
//   - Date: a calendar date (stored as UTC midnight)
//   - Month: a calendar month, with Index/Next/MonthsBetween helpers
//   - Record: the ingestion contract (user identifier + date)
//   - Log: the immutable, validated event log
//
// # Errors
//
// Construction fails with an error wrapping ErrInvalidInput when any record
// lacks a user identifier or a date. Ratio computations over an empty log
// report ErrDivisionUndefined. Use errors.Is to classify:
//
//	log, err := events.NewLog(records)
//	if errors.Is(err, events.ErrInvalidInput) {
//	    // reject the upload
//	}
package events
