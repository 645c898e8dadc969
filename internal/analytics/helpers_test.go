// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package analytics

import (
	"testing"
	"time"

	"github.com/tomtom215/tally/internal/events"
)

func date(y int, m time.Month, d int) events.Date {
	return events.NewDate(y, m, d)
}

// ev is shorthand for a single record.
func ev(user string, y int, m time.Month, d int) events.Record {
	return events.Record{UserID: user, Date: date(y, m, d)}
}

func mustLog(t *testing.T, records ...events.Record) *events.Log {
	t.Helper()
	log, err := events.NewLog(records)
	if err != nil {
		t.Fatalf("NewLog: %v", err)
	}
	return log
}

// twoUserLog is the two-user, two-month scenario used across metric families.
func twoUserLog(t *testing.T) *events.Log {
	return mustLog(t,
		ev("u1", 2023, time.January, 5),
		ev("u1", 2023, time.February, 10),
		ev("u2", 2023, time.January, 20),
		ev("u2", 2023, time.February, 1),
	)
}
