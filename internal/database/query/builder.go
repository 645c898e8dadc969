// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package query

import (
	"fmt"
	"strings"

	"github.com/tomtom215/tally/internal/events"
)

// Column names of the activity_events table.
const (
	ColumnUserID       = "user_id"
	ColumnActivityDate = "activity_date"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw WHERE clause with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddDateRange adds inclusive activity_date bounds. Zero dates are skipped.
// Dates are bound as YYYY-MM-DD strings and cast in SQL.
func (wb *WhereBuilder) AddDateRange(start, end events.Date) *WhereBuilder {
	if !start.IsZero() {
		wb.AddClause(ColumnActivityDate+" >= CAST(? AS DATE)", start.String())
	}
	if !end.IsZero() {
		wb.AddClause(ColumnActivityDate+" <= CAST(? AS DATE)", end.String())
	}
	return wb
}

// AddUsers adds a user_id IN (...) filter. An empty slice is skipped.
func (wb *WhereBuilder) AddUsers(users []string) *WhereBuilder {
	if len(users) == 0 {
		return wb
	}
	placeholders := make([]string, len(users))
	for i, user := range users {
		placeholders[i] = "?"
		wb.args = append(wb.args, user)
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s IN (%s)", ColumnUserID, strings.Join(placeholders, ", ")))
	return wb
}

// Build returns the clauses joined with AND, or "1=1" when empty.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}
