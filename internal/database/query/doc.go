// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

// Package query provides SQL query building utilities for the database package.
//
// WhereBuilder assembles parameterized WHERE clauses over the
// activity_events table from optional filters:
//
//	wb := query.NewWhereBuilder().
//	    AddDateRange(start, end).
//	    AddUsers([]string{"alice", "bob"})
//	where, args := wb.BuildWithPrefix()
//	// WHERE activity_date >= CAST(? AS DATE) AND activity_date <= CAST(? AS DATE) AND user_id IN (?, ?)
//
// Values are always bound as arguments, never interpolated into SQL.
package query
