// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import "context"

// RatingStore supplies the raw data a snapshot is built from. It is
// implemented by the database layer; keeping the interface here avoids an
// import cycle.
type RatingStore interface {
	// Ratings returns every rating record in insertion order.
	Ratings(ctx context.Context) ([]Rating, error)

	// Titles returns every title record in insertion order.
	Titles(ctx context.Context) ([]Title, error)

	// UserRatings returns one user's rating records in insertion order.
	UserRatings(ctx context.Context, userID int) ([]Rating, error)

	// ReviewCounts returns the number of rating records per item.
	ReviewCounts(ctx context.Context) (map[int]int, error)
}
