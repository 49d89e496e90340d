// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package recommend implements item-based collaborative filtering for movies.
//
// # Pipeline
//
// A recommendation is produced in three stages:
//
//   - BuildRatingMatrix turns raw (user, item, rating) records into a sparse
//     user by item matrix. Unrated cells are absent, never zero.
//   - ComputeItemSimilarity derives a symmetric Pearson correlation matrix
//     over co-rated users. Pairs with fewer than two co-raters, or with a
//     constant rating vector on either side, are undefined.
//   - Dataset.Score expands the user's highly rated items ("seeds") into
//     candidates, accumulates similarity scores and ranks them.
//
// Seeds with no similarity row fall back to global popularity: every
// sufficiently reviewed, unseen item receives its mean rating. The fallback
// runs once per such seed, so popular items accumulate once per triggering
// seed.
//
// # Engine
//
// Engine wraps the pipeline for a long-running service. It loads ratings
// from a RatingStore, builds an immutable Snapshot and publishes it
// atomically. Requests read a single snapshot for their whole lifetime, so
// scoring never holds a lock.
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), store, logger)
//	if err != nil {
//	    return err
//	}
//	if err := engine.Refresh(ctx); err != nil {
//	    return err
//	}
//	resp, err := engine.Recommend(ctx, recommend.Request{UserID: 42})
//
// # Determinism
//
// Seeds are visited in ascending item order, similarity rows are ordered by
// coefficient then item id, and ties in the final ranking are broken by
// ascending item id. Identical inputs always produce identical output.
package recommend
