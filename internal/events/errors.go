// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package events

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates a record without a user identifier or date,
	// or a value that could not be parsed into one.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDivisionUndefined indicates a ratio was requested over an empty
	// population (for example retention of an empty log).
	ErrDivisionUndefined = errors.New("division undefined: empty population")
)

// InvalidRecordError describes the first offending record of a log.
// It wraps ErrInvalidInput.
type InvalidRecordError struct {
	// Index is the zero-based position of the record in the input.
	Index int

	// Field is the offending field ("user_id" or "date").
	Field string

	// Reason is a short human-readable explanation.
	Reason string
}

// Error implements the error interface.
func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid input: record %d: %s %s", e.Index, e.Field, e.Reason)
}

// Unwrap returns ErrInvalidInput so errors.Is works on wrapped values.
func (e *InvalidRecordError) Unwrap() error {
	return ErrInvalidInput
}
