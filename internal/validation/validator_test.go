// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/tomtom215/tally/internal/events"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type eventRow struct {
	UserID string `json:"user_id" validate:"required,max=16"`
	Date   string `json:"date" validate:"required,activity_date"`
}

type periodQuery struct {
	Period string `json:"period" validate:"omitempty,period"`
	Limit  int    `validate:"min=1,max=10"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
	}{
		{"compact date", &eventRow{UserID: "u1", Date: "20230105"}, "", ""},
		{"iso date", &eventRow{UserID: "u1", Date: "2023-01-05"}, "", ""},
		{"missing user", &eventRow{Date: "20230105"}, "user_id", "required"},
		{"user too long", &eventRow{UserID: strings.Repeat("x", 17), Date: "20230105"}, "user_id", "max"},
		{"missing date", &eventRow{UserID: "u1"}, "date", "required"},
		{"impossible date", &eventRow{UserID: "u1", Date: "20230230"}, "date", "activity_date"},
		{"short date", &eventRow{UserID: "u1", Date: "2023015"}, "date", "activity_date"},
		{"us date", &eventRow{UserID: "u1", Date: "01/05/2023"}, "date", "activity_date"},
		{"valid period", &periodQuery{Period: "w", Limit: 1}, "", ""},
		{"long period", &periodQuery{Period: "Month", Limit: 1}, "", ""},
		{"empty period", &periodQuery{Limit: 1}, "", ""},
		{"bad period", &periodQuery{Period: "Q", Limit: 1}, "period", "period"},
		{"go field name without json tag", &periodQuery{Limit: 11}, "Limit", "max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := ValidateStruct(tt.input)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("expected validation error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField || errs[0].Tag() != tt.wantTag {
				t.Errorf("got %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestRequestValidationErrorIsInvalidInput(t *testing.T) {
	verr := ValidateStruct(&eventRow{})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	var err error = verr
	if !errors.Is(err, events.ErrInvalidInput) {
		t.Error("validation errors should match events.ErrInvalidInput")
	}
	if len(verr.Errors()) != 2 {
		t.Errorf("expected 2 field errors, got %d", len(verr.Errors()))
	}
	if !strings.Contains(verr.Error(), "user_id is required") || !strings.Contains(verr.Error(), "date is required") {
		t.Errorf("combined message = %q", verr.Error())
	}
	fields, ok := verr.Details()["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Errorf("details = %v", verr.Details())
	}
}

func TestTranslateErrorMessages(t *testing.T) {
	tests := []struct {
		input interface{}
		want  string
	}{
		{&eventRow{UserID: "u1", Date: "bad"}, "date must be a date in YYYYMMDD or YYYY-MM-DD format"},
		{&eventRow{UserID: strings.Repeat("x", 17), Date: "20230101"}, "user_id must be at most 16 characters"},
		{&periodQuery{Limit: 0}, "Limit must be at least 1"},
		{&periodQuery{Period: "x", Limit: 1}, "period must be one of: D, W, M"},
	}

	for _, tt := range tests {
		verr := ValidateStruct(tt.input)
		if verr == nil {
			t.Fatalf("expected error for %+v", tt.input)
		}
		if verr.Error() != tt.want {
			t.Errorf("message = %q, want %q", verr.Error(), tt.want)
		}
	}
}
