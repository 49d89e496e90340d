// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package models

import "time"

// APIResponse is the envelope of every API response.
//
// Status is "success" or "error". On error, Error is set and Data is null.
//
//	{
//	  "status": "success",
//	  "data": {"items": [{"item_id": 50, "title": "Heat", "score": 1.8, "rank": 1}]},
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z", "query_time_ms": 3}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing and cache information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is the machine-readable error body.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes returned by the API.
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeItemNotFound      = "ITEM_NOT_FOUND"
	ErrCodeNotReady          = "NOT_READY"
	ErrCodeRefreshInProgress = "REFRESH_IN_PROGRESS"
	ErrCodeDatabase          = "DATABASE_ERROR"
	ErrCodeUnavailable       = "SERVICE_UNAVAILABLE"
	ErrCodeInternal          = "INTERNAL_ERROR"
	ErrCodeRateLimited       = "RATE_LIMIT_EXCEEDED"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
)

// HealthStatus is returned by the health endpoints.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	SnapshotReady     bool    `json:"snapshot_ready"`
	SnapshotVersion   int64   `json:"snapshot_version"`
	Uptime            float64 `json:"uptime_seconds"`
}
