// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package ingest

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/tomtom215/tally/internal/events"
)

func TestParseDateFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    DateFormat
		wantErr bool
	}{
		{"", DateFormatAuto, false},
		{"auto", DateFormatAuto, false},
		{"COMPACT", DateFormatCompact, false},
		{" iso ", DateFormatISO, false},
		{"us", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDateFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDateFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDateFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseActivityDate(t *testing.T) {
	jan5 := events.NewDate(2023, time.January, 5)

	tests := []struct {
		name    string
		input   string
		format  DateFormat
		want    events.Date
		wantErr bool
	}{
		{"auto compact", "20230105", DateFormatAuto, jan5, false},
		{"auto iso", "2023-01-05", DateFormatAuto, jan5, false},
		{"compact", "20230105", DateFormatCompact, jan5, false},
		{"compact rejects iso", "2023-01-05", DateFormatCompact, events.Date{}, true},
		{"iso rejects compact", "20230105", DateFormatISO, events.Date{}, true},
		{"leap day", "20240229", DateFormatAuto, events.NewDate(2024, time.February, 29), false},
		{"not a leap year", "20230229", DateFormatAuto, events.Date{}, true},
		{"short", "2023015", DateFormatAuto, events.Date{}, true},
		{"empty", "", DateFormatAuto, events.Date{}, true},
		{"year one compact", "00010101", DateFormatAuto, events.Date{}, true},
		{"year one iso", "0001-01-01", DateFormatISO, events.Date{}, true},
		{"before 1900", "18991231", DateFormatAuto, events.Date{}, true},
		{"first accepted day", "19000101", DateFormatAuto, events.NewDate(1900, time.January, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseActivityDate(tt.input, tt.format)
			if tt.wantErr {
				if !errors.Is(err, events.ErrInvalidInput) {
					t.Errorf("ParseActivityDate(%q) error = %v, want ErrInvalidInput", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseActivityDate(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseActivityDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestReadCSV(t *testing.T) {
	input := "user_id,date\n" +
		"alice,20230105\n" +
		"bob,2023-01-06\n" +
		"\n" +
		"alice,20230105\n"

	records, err := ReadCSV(strings.NewReader(input), DateFormatAuto)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	want := []events.Record{
		{UserID: "alice", Date: events.NewDate(2023, time.January, 5)},
		{UserID: "bob", Date: events.NewDate(2023, time.January, 6)},
		{UserID: "alice", Date: events.NewDate(2023, time.January, 5)},
	}
	if len(records) != len(want) {
		t.Fatalf("ReadCSV() returned %d records, want %d", len(records), len(want))
	}
	for i := range want {
		if records[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, records[i], want[i])
		}
	}
}

func TestReadCSVHeaderVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"reordered", "date,user_id\n20230105,alice\n"},
		{"upper case", "USER_ID,Date\nalice,20230105\n"},
		{"extra columns", "source,user_id,country,date\nweb,alice,NL,20230105\n"},
		{"byte order mark", "\ufeffuser_id,date\nalice,20230105\n"},
		{"padded", "user_id, date\nalice, 20230105\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ReadCSV(strings.NewReader(tt.input), DateFormatAuto)
			if err != nil {
				t.Fatalf("ReadCSV() error = %v", err)
			}
			if len(records) != 1 || records[0].UserID != "alice" ||
				records[0].Date != events.NewDate(2023, time.January, 5) {
				t.Errorf("ReadCSV() = %+v", records)
			}
		})
	}
}

func TestReadCSVHeaderOnly(t *testing.T) {
	records, err := ReadCSV(strings.NewReader("user_id,date\n"), DateFormatAuto)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("ReadCSV() = %v, want no records", records)
	}
}

func TestReadCSVRejects(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		format    DateFormat
		wantLine  int
		wantField string
		wantMsg   string
	}{
		{"empty input", "", DateFormatAuto, 0, "", "header row required"},
		{"missing user column", "uid,date\na,20230105\n", DateFormatAuto, 0, "", `missing required column "user_id"`},
		{"missing date column", "user_id,day\na,20230105\n", DateFormatAuto, 0, "", `missing required column "date"`},
		{"blank user", "user_id,date\nalice,20230105\n ,20230106\n", DateFormatAuto, 3, "user_id", "is required"},
		{"blank date", "user_id,date\nalice,\n", DateFormatAuto, 2, "date", "is required"},
		{"short row", "user_id,date\nalice\n", DateFormatAuto, 2, "date", "is missing"},
		{"bad month", "user_id,date\nalice,20231301\n", DateFormatAuto, 2, "date", "YYYYMMDD or YYYY-MM-DD"},
		{"wrong layout for format", "user_id,date\nalice,2023-01-05\n", DateFormatCompact, 2, "date", "compact format"},
		{"year one", "user_id,date\nalice,00010101\n", DateFormatAuto, 2, "date", `"00010101" is before 1900`},
		{"unterminated quote", "user_id,date\n\"alice,20230105\n", DateFormatAuto, 0, "", "invalid input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ReadCSV(strings.NewReader(tt.input), tt.format)
			if err == nil {
				t.Fatalf("ReadCSV() = %v, want error", records)
			}
			if records != nil {
				t.Errorf("ReadCSV() returned partial records: %v", records)
			}
			if !errors.Is(err, events.ErrInvalidInput) {
				t.Errorf("error %v does not wrap ErrInvalidInput", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}

			var rowErr *RowError
			if tt.wantLine == 0 {
				if errors.As(err, &rowErr) {
					t.Errorf("unexpected *RowError: %v", rowErr)
				}
				return
			}
			if !errors.As(err, &rowErr) {
				t.Fatalf("error %T is not a *RowError", err)
			}
			if rowErr.Line != tt.wantLine || rowErr.Err.Field != tt.wantField {
				t.Errorf("RowError line/field = %d/%s, want %d/%s", rowErr.Line, rowErr.Err.Field, tt.wantLine, tt.wantField)
			}
		})
	}
}

func TestRowErrorUnwrapsToRecordError(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("user_id,date\na,20230101\nb,20230102\nc,bad\n"), DateFormatAuto)

	var recErr *events.InvalidRecordError
	if !errors.As(err, &recErr) {
		t.Fatalf("error %v is not an *events.InvalidRecordError", err)
	}
	if recErr.Index != 2 {
		t.Errorf("Index = %d, want 2", recErr.Index)
	}
}

func TestReadCSVReaderFailureIsNotInvalidInput(t *testing.T) {
	boom := errors.New("connection reset")
	r := io.MultiReader(strings.NewReader("user_id,date\nalice,20230105\n"), iotest.ErrReader(boom))

	_, err := ReadCSV(r, DateFormatAuto)
	if !errors.Is(err, boom) {
		t.Fatalf("ReadCSV() error = %v, want it to wrap %v", err, boom)
	}
	if errors.Is(err, events.ErrInvalidInput) {
		t.Errorf("reader failure should not be reported as invalid input: %v", err)
	}
}
