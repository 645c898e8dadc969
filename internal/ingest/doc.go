// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

// Package ingest turns uploaded activity files into stored events.
//
// # Input Format
//
// A CSV file with a header row naming a user_id column and a date column,
// in any order. Dates are YYYYMMDD or YYYY-MM-DD depending on the
// configured DateFormat:
//
//	user_id,date
//	alice,20230105
//	bob,2023-01-06
//
// # Pipeline
//
//	CSV upload
//	     ↓
//	ReadCSV (parse + validate every row)
//	     ↓
//	events.NewLog (all-or-nothing record validation)
//	     ↓
//	Importer (batched writes)
//	     ↓
//	EventStore (DuckDB, INSERT OR IGNORE on (user_id, activity_date))
//
// Validation happens before the first write, so a rejected upload never
// leaves a partial import behind. Re-uploading the same file is safe: the
// store counts already-present pairs as duplicates.
package ingest
