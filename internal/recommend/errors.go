// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import "errors"

var (
	// ErrUnknownUser is returned when the user has no ratings in the snapshot.
	ErrUnknownUser = errors.New("unknown user")

	// ErrUnknownItem is returned when the item does not appear in the snapshot.
	ErrUnknownItem = errors.New("unknown item")

	// ErrNotReady is returned before the first snapshot has been built.
	ErrNotReady = errors.New("recommendation snapshot not ready")

	// ErrRefreshInProgress is returned when a refresh is already running.
	ErrRefreshInProgress = errors.New("snapshot refresh already in progress")

	// ErrInvalidParams wraps parameter validation failures.
	ErrInvalidParams = errors.New("invalid recommendation parameters")
)
