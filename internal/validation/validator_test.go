// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package validation

import (
	"math"
	"strings"
	"testing"
)

type ratingInput struct {
	UserID int     `json:"user_id" validate:"min=1"`
	ItemID int     `json:"item_id" validate:"min=1"`
	Rating float64 `json:"rating" validate:"rating"`
}

type ratingBatch struct {
	Ratings []ratingInput `json:"ratings" validate:"required,min=1,max=3,dive"`
}

type queryParams struct {
	TopN      int     `json:"top_n" validate:"min=1,max=100"`
	Threshold float64 `json:"threshold" validate:"finite"`
	Format    string  `validate:"omitempty,oneof=json csv"`
}

func TestGetValidatorSingleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateStructValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input interface{}
	}{
		{"rating lower bound", &ratingInput{UserID: 1, ItemID: 1, Rating: MinRating}},
		{"rating upper bound", &ratingInput{UserID: 1, ItemID: 1, Rating: MaxRating}},
		{"batch", &ratingBatch{Ratings: []ratingInput{{1, 2, 3.5}, {2, 3, 4}}}},
		{"query", &queryParams{TopN: 5, Threshold: -2, Format: "csv"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateStruct(tt.input); err != nil {
				t.Errorf("ValidateStruct() = %v, want nil", err)
			}
		})
	}
}

func TestValidateStructInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{"rating too high", &ratingInput{UserID: 1, ItemID: 1, Rating: 5.5}, "rating", "rating", "rating must be a rating between 0 and 5"},
		{"rating NaN", &ratingInput{UserID: 1, ItemID: 1, Rating: math.NaN()}, "rating", "rating", ""},
		{"user id zero", &ratingInput{UserID: 0, ItemID: 1, Rating: 3}, "user_id", "min", "user_id must be at least 1"},
		{"empty batch", &ratingBatch{Ratings: []ratingInput{}}, "ratings", "min", "ratings must be at least 1 items"},
		{"batch too large", &ratingBatch{Ratings: make([]ratingInput, 4)}, "ratings", "max", "ratings must be at most 3 items"},
		{"nested element", &ratingBatch{Ratings: []ratingInput{{1, 1, 3}, {1, 1, -1}}}, "rating", "rating", "ratings[1].rating must be a rating between 0 and 5"},
		{"infinite threshold", &queryParams{TopN: 1, Threshold: math.Inf(-1)}, "threshold", "finite", "threshold must be a finite number"},
		{"format", &queryParams{TopN: 1, Format: "xml"}, "Format", "oneof", "Format must be one of: json csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := ValidateStruct(tt.input)
			if verr == nil {
				t.Fatal("expected validation error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField || errs[0].Tag() != tt.wantTag {
				t.Errorf("field/tag = %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.wantField, tt.wantTag)
			}
			if tt.wantMsg != "" && errs[0].Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	single := ValidateStruct(&ratingInput{UserID: 0, ItemID: 1, Rating: 3}).ToAPIError()
	if single.Code != ErrorCode {
		t.Errorf("Code = %q, want %q", single.Code, ErrorCode)
	}
	if single.Details["field"] != "user_id" {
		t.Errorf("Details[field] = %v, want user_id", single.Details["field"])
	}

	multi := ValidateStruct(&ratingInput{UserID: 0, ItemID: 0, Rating: 9}).ToAPIError()
	fields, ok := multi.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 3 {
		t.Fatalf("Details[fields] = %#v, want 3 entries", multi.Details["fields"])
	}
	for _, name := range []string{"user_id", "item_id", "rating"} {
		if !strings.Contains(multi.Message, name) {
			t.Errorf("Message %q should mention %s", multi.Message, name)
		}
	}

	empty := (&RequestValidationError{}).ToAPIError()
	if empty.Code != ErrorCode || empty.Message != "Validation failed" {
		t.Errorf("empty error = %+v", empty)
	}
}
