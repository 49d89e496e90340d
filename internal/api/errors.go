// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"context"
	"errors"
	"net/http"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend"
	"github.com/tomtom215/cinerec/internal/validation"
)

var (
	// errDatabase marks failures of the rating store.
	errDatabase = errors.New("database error")

	// errInvalidBody is returned for request bodies that are not valid JSON.
	errInvalidBody = errors.New("invalid JSON body")

	// errInvalidParam is returned for malformed path or query parameters.
	errInvalidParam = errors.New("invalid parameter")
)

// errorMapping is the HTTP form of an error.
type errorMapping struct {
	status  int
	code    string
	message string
	details map[string]interface{}
	// expected errors are client mistakes and are not logged as errors.
	expected bool
}

// mapError classifies err. Order matters: wrapped store errors can also
// carry context or breaker errors.
func mapError(err error) errorMapping {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		apiErr := verr.ToAPIError()
		return errorMapping{http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, true}
	case errors.Is(err, errInvalidBody), errors.Is(err, errInvalidParam):
		return errorMapping{http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil, true}
	case errors.Is(err, recommend.ErrInvalidParams):
		return errorMapping{http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil, true}
	case errors.Is(err, recommend.ErrUnknownUser):
		return errorMapping{http.StatusNotFound, models.ErrCodeUserNotFound, "User does not exist", nil, true}
	case errors.Is(err, recommend.ErrUnknownItem):
		return errorMapping{http.StatusNotFound, models.ErrCodeItemNotFound, "Item does not exist", nil, true}
	case errors.Is(err, recommend.ErrNotReady):
		return errorMapping{http.StatusServiceUnavailable, models.ErrCodeNotReady, "Recommendation snapshot is not ready yet", nil, true}
	case errors.Is(err, recommend.ErrRefreshInProgress):
		return errorMapping{http.StatusConflict, models.ErrCodeRefreshInProgress, "A snapshot refresh is already running", nil, true}
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return errorMapping{http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Rating store is temporarily unavailable", nil, false}
	case errors.Is(err, context.DeadlineExceeded):
		return errorMapping{http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Request timed out", nil, false}
	case errors.Is(err, errDatabase):
		return errorMapping{http.StatusInternalServerError, models.ErrCodeDatabase, "A database error occurred", nil, false}
	default:
		return errorMapping{http.StatusInternalServerError, models.ErrCodeInternal, "Internal server error", nil, false}
	}
}
