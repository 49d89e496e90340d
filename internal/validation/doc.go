// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package validation wraps go-playground/validator v10 with a shared
// validator instance and translation into the API's VALIDATION_ERROR shape.
//
// Field names in errors come from json tags when present, so clients see
// the names they sent. Two custom tags are registered:
//
//   - finite: float is neither NaN nor infinite
//   - rating: finite float within [MinRating, MaxRating]
//
// Example:
//
//	type ratingInput struct {
//	    UserID int     `json:"user_id" validate:"min=1"`
//	    Rating float64 `json:"rating" validate:"rating"`
//	}
//
//	if verr := validation.ValidateStruct(&in); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	}
package validation
