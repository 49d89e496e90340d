// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend"
)

// PostRatings handles POST /api/v1/ratings.
//
// Titles are written before ratings. Both writes are transactional on their
// own; a failed rating insert leaves inserted titles in place, which is
// harmless since titles of unrated items are never recommended.
func (h *Handler) PostRatings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.IngestRatingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var result models.IngestRatingsResult
	if len(req.Titles) > 0 {
		titles := make([]recommend.Title, len(req.Titles))
		for i, t := range req.Titles {
			titles[i] = recommend.Title{ItemID: t.ItemID, Title: t.Title}
		}
		n, err := h.store.InsertTitles(ctx, titles)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: %w", errDatabase, err))
			return
		}
		result.TitlesInserted = n
	}

	ratings := make([]recommend.Rating, len(req.Ratings))
	for i, rt := range req.Ratings {
		ratings[i] = recommend.Rating{UserID: rt.UserID, ItemID: rt.ItemID, Rating: rt.Rating}
	}
	n, err := h.store.InsertRatings(ctx, ratings)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", errDatabase, err))
		return
	}
	result.RatingsInserted = n

	if req.Refresh {
		err := h.engine.Refresh(context.WithoutCancel(r.Context()))
		switch {
		case err == nil:
			result.Refreshed = true
		case errors.Is(err, recommend.ErrRefreshInProgress):
			// The running refresh may or may not include this batch; the next
			// scheduled one will.
		default:
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Refresh after ingestion failed")
		}
	}
	if snap := h.engine.Snapshot(); snap != nil {
		result.SnapshotVersion = snap.Version
	}

	logging.Ctx(r.Context()).Info().
		Int("ratings", result.RatingsInserted).
		Int("titles", result.TitlesInserted).
		Bool("refreshed", result.Refreshed).
		Msg("Ratings ingested")

	respondSuccess(w, r, http.StatusCreated, result, start, false)
}
