// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"fmt"
	"math"
	"time"
)

// Rating is a single user's rating of an item.
type Rating struct {
	UserID int     `json:"user_id"`
	ItemID int     `json:"item_id"`
	Rating float64 `json:"rating"`
}

// Title maps an item to its display title.
type Title struct {
	ItemID int    `json:"item_id"`
	Title  string `json:"title"`
}

// Params are the tunables of a single recommendation call.
type Params struct {
	// RatingThreshold is the minimum rating for an item to act as a seed.
	RatingThreshold float64 `json:"rating_threshold"`

	// MinReviewCount is the minimum number of ratings a candidate needs
	// across all users.
	MinReviewCount int `json:"min_review_count"`

	// TopN caps the number of returned items.
	TopN int `json:"top_n"`
}

// DefaultParams returns the standard tunables.
func DefaultParams() Params {
	return Params{
		RatingThreshold: 4.0,
		MinReviewCount:  10,
		TopN:            5,
	}
}

// Validate checks that the parameters can drive a recommendation.
func (p Params) Validate() error {
	if math.IsNaN(p.RatingThreshold) || math.IsInf(p.RatingThreshold, 0) {
		return fmt.Errorf("rating threshold must be finite, got %v", p.RatingThreshold)
	}
	if p.MinReviewCount < 0 {
		return fmt.Errorf("min review count must be non-negative, got %d", p.MinReviewCount)
	}
	if p.TopN < 1 {
		return fmt.Errorf("top n must be at least 1, got %d", p.TopN)
	}
	return nil
}

// ScoredItem is a ranked candidate.
type ScoredItem struct {
	ItemID int     `json:"item_id"`
	Score  float64 `json:"score"`
}

// Ranking is the outcome of scoring candidates for one user.
type Ranking struct {
	// Items are the top candidates in rank order.
	Items []ScoredItem

	// Seeds is the number of the user's items at or above the threshold.
	Seeds int

	// FallbackSeeds counts seeds that had no similarity row and triggered
	// the popularity fallback.
	FallbackSeeds int

	// Candidates is the number of distinct items scored before truncation.
	Candidates int
}

// Recommendation is a ranked, titled result returned by the Engine.
type Recommendation struct {
	ItemID int     `json:"item_id"`
	Title  string  `json:"title"`
	Score  float64 `json:"score"`
	Rank   int     `json:"rank"`
}

// Neighbor is an item together with its similarity to a reference item.
type Neighbor struct {
	ItemID     int     `json:"item_id"`
	Similarity float64 `json:"similarity"`
}

// SimilarItem is a titled neighbor returned by Engine.Similar.
type SimilarItem struct {
	ItemID      int     `json:"item_id"`
	Title       string  `json:"title"`
	Similarity  float64 `json:"similarity"`
	ReviewCount int     `json:"review_count"`
}

// Request describes a recommendation request handled by the Engine.
// Nil overrides fall back to the engine defaults.
type Request struct {
	UserID int

	// TopN overrides the default result size when positive.
	TopN int

	RatingThreshold *float64
	MinReviewCount  *int

	// RequestID is propagated into logs; generated when empty.
	RequestID string
}

// Response is the Engine's answer to a Request.
type Response struct {
	Items    []Recommendation `json:"items"`
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a response was produced.
type ResponseMetadata struct {
	RequestID       string    `json:"request_id"`
	UserID          int       `json:"user_id"`
	Params          Params    `json:"params"`
	Seeds           int       `json:"seeds"`
	FallbackSeeds   int       `json:"fallback_seeds"`
	Candidates      int       `json:"candidates"`
	SnapshotVersion int64     `json:"snapshot_version"`
	BuiltAt         time.Time `json:"built_at"`
	LatencyMS       int64     `json:"latency_ms"`
	CacheHit        bool      `json:"cache_hit"`
	Timestamp       time.Time `json:"timestamp"`
}

// SnapshotStats summarizes a built snapshot.
type SnapshotStats struct {
	Users           int   `json:"users"`
	Items           int   `json:"items"`
	Ratings         int   `json:"ratings"`
	Titles          int   `json:"titles"`
	SimilarityPairs int   `json:"similarity_pairs"`
	LoadMS          int64 `json:"load_ms"`
	MatrixMS        int64 `json:"matrix_ms"`
	SimilarityMS    int64 `json:"similarity_ms"`
}

// Status reports the engine's snapshot state.
type Status struct {
	Ready             bool          `json:"ready"`
	Refreshing        bool          `json:"refreshing"`
	SnapshotVersion   int64         `json:"snapshot_version"`
	BuiltAt           time.Time     `json:"built_at,omitempty"`
	Stats             SnapshotStats `json:"stats"`
	LastRefreshMS     int64         `json:"last_refresh_ms"`
	LastError         string        `json:"last_error,omitempty"`
	RequestCount      int64         `json:"request_count"`
	CacheHits         int64         `json:"cache_hits"`
	CacheMisses       int64         `json:"cache_misses"`
	UnknownUserCount  int64         `json:"unknown_user_count"`
	DefaultParameters Params        `json:"default_parameters"`
}
