// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tomtom215/tally/internal/events"
	"github.com/tomtom215/tally/internal/validation"
)

// DateFormat selects how the date column is parsed.
type DateFormat string

// Supported date formats.
const (
	// DateFormatAuto accepts YYYYMMDD or YYYY-MM-DD per row.
	DateFormatAuto DateFormat = "auto"

	// DateFormatCompact accepts YYYYMMDD only.
	DateFormatCompact DateFormat = "compact"

	// DateFormatISO accepts YYYY-MM-DD only.
	DateFormatISO DateFormat = "iso"
)

// CompactDateLayout is the YYYYMMDD layout.
const CompactDateLayout = "20060102"

// MinActivityYear is the earliest accepted activity year. Earlier years
// include 0001-01-01, which collides with the zero Date.
const MinActivityYear = 1900

var errDateTooEarly = fmt.Errorf("%w: date is before %d", events.ErrInvalidInput, MinActivityYear)

// Column names required in the header row.
const (
	ColumnUserID = "user_id"
	ColumnDate   = "date"
)

// ParseDateFormat maps a config value to a DateFormat. Empty means auto.
func ParseDateFormat(s string) (DateFormat, error) {
	switch DateFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", DateFormatAuto:
		return DateFormatAuto, nil
	case DateFormatCompact:
		return DateFormatCompact, nil
	case DateFormatISO:
		return DateFormatISO, nil
	default:
		return "", fmt.Errorf("%w: unknown date format %q", events.ErrInvalidInput, s)
	}
}

// ParseActivityDate parses s according to format.
func ParseActivityDate(s string, format DateFormat) (events.Date, error) {
	s = strings.TrimSpace(s)

	var layout string
	switch format {
	case DateFormatCompact:
		layout = CompactDateLayout
	case DateFormatISO:
		layout = events.ISODateLayout
	default:
		layout = CompactDateLayout
		if strings.Contains(s, "-") {
			layout = events.ISODateLayout
		}
	}

	if len(s) != len(layout) {
		return events.Date{}, fmt.Errorf("%w: date %q does not match %s", events.ErrInvalidInput, s, layoutName(layout))
	}
	d, err := events.ParseDate(layout, s)
	if err != nil {
		return events.Date{}, fmt.Errorf("%w: date %q: %v", events.ErrInvalidInput, s, err)
	}
	if d.Year() < MinActivityYear {
		return events.Date{}, fmt.Errorf("%w: %q", errDateTooEarly, s)
	}
	return d, nil
}

func layoutName(layout string) string {
	if layout == CompactDateLayout {
		return "YYYYMMDD"
	}
	return "YYYY-MM-DD"
}

// csvRow is the validated shape of one data row.
type csvRow struct {
	UserID string `json:"user_id" validate:"required,max=256"`
	Date   string `json:"date" validate:"required,activity_date"`
}

// RowError locates an invalid record in the source file.
type RowError struct {
	// Line is the 1-based line number in the file (the header is line 1).
	Line int

	Err *events.InvalidRecordError
}

func (e *RowError) Error() string {
	return fmt.Sprintf("invalid input: line %d: %s %s", e.Line, e.Err.Field, e.Err.Reason)
}

// Unwrap returns the underlying *events.InvalidRecordError.
func (e *RowError) Unwrap() error {
	return e.Err
}

// ReadCSV parses a user_id,date CSV into records.
//
// The first row must be a header naming the user_id and date columns in
// any order; other columns are ignored. Blank lines are skipped. The first
// malformed row aborts the read with a *RowError wrapping
// events.ErrInvalidInput; no partial result is returned.
func ReadCSV(r io.Reader, format DateFormat) ([]events.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty input, header row required", events.ErrInvalidInput)
	}
	if err != nil {
		return nil, readError("read header", err)
	}
	userCol, dateCol, err := headerIndex(header)
	if err != nil {
		return nil, err
	}
	width := max(userCol, dateCol) + 1

	var records []events.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, readError("read row", err)
		}
		line, _ := reader.FieldPos(0)
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}

		index := len(records)
		if len(row) < width {
			return nil, &RowError{Line: line, Err: &events.InvalidRecordError{
				Index: index, Field: ColumnDate, Reason: fmt.Sprintf("is missing (row has %d columns)", len(row)),
			}}
		}

		rec, recErr := parseRow(csvRow{
			UserID: strings.TrimSpace(row[userCol]),
			Date:   strings.TrimSpace(row[dateCol]),
		}, index, format)
		if recErr != nil {
			return nil, &RowError{Line: line, Err: recErr}
		}
		records = append(records, rec)
	}
	return records, nil
}

// readError marks CSV syntax errors as invalid input. Other read failures,
// such as an oversized request body, are wrapped unchanged.
func readError(op string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %s: %v", events.ErrInvalidInput, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// parseRow validates one row and converts it to a record.
func parseRow(row csvRow, index int, format DateFormat) (events.Record, *events.InvalidRecordError) {
	if verr := validation.ValidateStruct(&row); verr != nil {
		first := verr.Errors()[0]
		return events.Record{}, &events.InvalidRecordError{
			Index:  index,
			Field:  first.Field(),
			Reason: strings.TrimPrefix(first.Error(), first.Field()+" "),
		}
	}

	d, err := ParseActivityDate(row.Date, format)
	if err != nil {
		reason := fmt.Sprintf("%q does not match the %s format", row.Date, format)
		if errors.Is(err, errDateTooEarly) {
			reason = fmt.Sprintf("%q is before %d", row.Date, MinActivityYear)
		}
		return events.Record{}, &events.InvalidRecordError{
			Index:  index,
			Field:  ColumnDate,
			Reason: reason,
		}
	}
	return events.Record{UserID: row.UserID, Date: d}, nil
}

// headerIndex locates the required columns. Names are matched
// case-insensitively after trimming spaces and a UTF-8 BOM.
func headerIndex(header []string) (userCol, dateCol int, err error) {
	userCol, dateCol = -1, -1
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		switch name {
		case ColumnUserID:
			userCol = i
		case ColumnDate:
			dateCol = i
		}
	}
	if userCol < 0 {
		return 0, 0, fmt.Errorf("%w: missing required column %q", events.ErrInvalidInput, ColumnUserID)
	}
	if dateCol < 0 {
		return 0, 0, fmt.Errorf("%w: missing required column %q", events.ErrInvalidInput, ColumnDate)
	}
	return userCol, dateCol, nil
}
