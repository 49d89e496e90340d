// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package models

import "time"

// MaxRatingsPerRequest bounds one ingestion batch.
const MaxRatingsPerRequest = 10000

// RatingInput is one rating in an ingestion request.
type RatingInput struct {
	UserID int     `json:"user_id" validate:"min=1"`
	ItemID int     `json:"item_id" validate:"min=1"`
	Rating float64 `json:"rating" validate:"rating"`
}

// TitleInput is an optional title record sent alongside ratings.
type TitleInput struct {
	ItemID int    `json:"item_id" validate:"min=1"`
	Title  string `json:"title" validate:"required,max=500"`
}

// IngestRatingsRequest is the body of POST /api/v1/ratings.
type IngestRatingsRequest struct {
	Ratings []RatingInput `json:"ratings" validate:"required,min=1,max=10000,dive"`
	Titles  []TitleInput  `json:"titles,omitempty" validate:"omitempty,max=10000,dive"`

	// Refresh rebuilds the snapshot after the insert when true.
	Refresh bool `json:"refresh,omitempty"`
}

// IngestRatingsResult reports what an ingestion request stored.
type IngestRatingsResult struct {
	RatingsInserted int   `json:"ratings_inserted"`
	TitlesInserted  int   `json:"titles_inserted"`
	Refreshed       bool  `json:"refreshed"`
	SnapshotVersion int64 `json:"snapshot_version"`
}

// UserRatings lists one user's stored ratings.
type UserRatings struct {
	UserID  int              `json:"user_id"`
	Count   int              `json:"count"`
	Ratings []UserRatingItem `json:"ratings"`
}

// UserRatingItem is a stored rating with its title when known.
type UserRatingItem struct {
	ItemID int     `json:"item_id"`
	Title  string  `json:"title,omitempty"`
	Rating float64 `json:"rating"`
}

// RefreshResult is returned by POST /api/v1/recommendations/refresh.
type RefreshResult struct {
	SnapshotVersion int64     `json:"snapshot_version"`
	BuiltAt         time.Time `json:"built_at"`
	DurationMS      int64     `json:"duration_ms"`
}
