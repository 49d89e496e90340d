// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/cinerec/internal/database"
	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/middleware"
	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend"
)

// recommendQuery holds the optional overrides of a recommendation request.
type recommendQuery struct {
	TopN       *int     `json:"top_n" validate:"omitempty,min=1"`
	Threshold  *float64 `json:"threshold" validate:"omitempty,finite"`
	MinReviews *int     `json:"min_reviews" validate:"omitempty,min=0"`
}

func parseRecommendQuery(r *http.Request) (recommendQuery, error) {
	var q recommendQuery
	var err error
	if q.TopN, err = queryInt(r, "top_n"); err != nil {
		return q, err
	}
	if q.Threshold, err = queryFloat(r, "threshold"); err != nil {
		return q, err
	}
	if q.MinReviews, err = queryInt(r, "min_reviews"); err != nil {
		return q, err
	}
	return q, validateRequest(&q)
}

// GetRecommendations handles GET /api/v1/recommendations/user/{userID}.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q, err := parseRecommendQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	req := recommend.Request{
		UserID:          userID,
		RatingThreshold: q.Threshold,
		MinReviewCount:  q.MinReviews,
		RequestID:       logging.RequestIDFromContext(r.Context()),
	}
	if q.TopN != nil {
		req.TopN = *q.TopN
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp, err := h.engine.Recommend(ctx, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, resp, start, resp.Metadata.CacheHit)
}

// GetSimilarItems handles GET /api/v1/items/{itemID}/similar.
func (h *Handler) GetSimilarItems(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	n := 0
	if limit != nil {
		n = *limit
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	items, err := h.engine.Similar(ctx, itemID, n)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"item_id": itemID,
		"count":   len(items),
		"items":   items,
	}, start, false)
}

// GetUserRatings handles GET /api/v1/users/{userID}/ratings. It reads the
// store directly, so ratings ingested since the last refresh are included.
func (h *Handler) GetUserRatings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	ratings, err := h.engine.UserRatings(ctx, userID)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", errDatabase, err))
		return
	}
	if len(ratings) == 0 {
		writeError(w, r, fmt.Errorf("user %d: %w", userID, recommend.ErrUnknownUser))
		return
	}

	snap := h.engine.Snapshot()
	out := models.UserRatings{
		UserID:  userID,
		Count:   len(ratings),
		Ratings: make([]models.UserRatingItem, len(ratings)),
	}
	for i, rt := range ratings {
		item := models.UserRatingItem{ItemID: rt.ItemID, Rating: rt.Rating}
		if snap != nil {
			item.Title, _ = snap.Dataset.Title(rt.ItemID)
		}
		out.Ratings[i] = item
	}
	respondSuccess(w, r, http.StatusOK, out, start, false)
}

// statusResponse is the body of the status endpoint.
type statusResponse struct {
	recommend.Status
	Breaker   string                     `json:"circuit_breaker,omitempty"`
	Store     *database.Counts           `json:"store,omitempty"`
	Endpoints []middleware.EndpointStats `json:"endpoints"`
}

// statusCountsTimeout bounds the table count query of the status endpoint.
const statusCountsTimeout = 2 * time.Second

// GetStatus handles GET /api/v1/recommendations/status.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	st := statusResponse{
		Status:    h.engine.Status(),
		Endpoints: h.perfMon.Stats(),
	}
	if h.breaker != nil {
		st.Breaker = h.breaker.State()
	}
	if h.counter != nil {
		ctx, cancel := context.WithTimeout(r.Context(), statusCountsTimeout)
		counts, err := h.counter.Counts(ctx)
		cancel()
		if err != nil {
			// Status stays available while the store is down.
			logging.Ctx(r.Context()).Warn().Err(err).Msg("store counts unavailable")
		} else {
			st.Store = &counts
		}
	}
	respondSuccess(w, r, http.StatusOK, st, start, false)
}

// PostRefresh handles POST /api/v1/recommendations/refresh. The rebuild is
// synchronous and is not canceled if the client disconnects.
func (h *Handler) PostRefresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.engine.Refresh(context.WithoutCancel(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}

	res := models.RefreshResult{DurationMS: time.Since(start).Milliseconds()}
	if snap := h.engine.Snapshot(); snap != nil {
		res.SnapshotVersion = snap.Version
		res.BuiltAt = snap.BuiltAt
	}
	respondSuccess(w, r, http.StatusOK, res, start, false)
}
