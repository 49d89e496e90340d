// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/cinerec/internal/models"
)

const healthPingTimeout = 2 * time.Second

func (h *Handler) healthStatus(ctx context.Context) models.HealthStatus {
	pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()

	dbConnected := h.store != nil && h.store.Ping(pingCtx) == nil

	hs := models.HealthStatus{
		Status:            "healthy",
		Version:           h.version,
		DatabaseConnected: dbConnected,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if snap := h.engine.Snapshot(); snap != nil {
		hs.SnapshotReady = true
		hs.SnapshotVersion = snap.Version
	}
	if !hs.DatabaseConnected || !hs.SnapshotReady {
		hs.Status = "degraded"
	}
	return hs
}

// Health handles GET /api/v1/health. It always answers 200 and reports
// degraded components in the body.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, r, http.StatusOK, h.healthStatus(r.Context()), start, false)
}

// HealthLive handles GET /api/v1/health/live.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"status": "alive",
		"uptime": time.Since(h.startTime).Seconds(),
	}, time.Now(), false)
}

// HealthReady handles GET /api/v1/health/ready. Ready means a snapshot is
// published and the database answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	hs := h.healthStatus(r.Context())
	if hs.Status != "healthy" {
		respondError(w, r, http.StatusServiceUnavailable, &models.APIError{
			Code:    models.ErrCodeNotReady,
			Message: "Service is not ready",
			Details: map[string]interface{}{
				"database_connected": hs.DatabaseConnected,
				"snapshot_ready":     hs.SnapshotReady,
			},
		})
		return
	}
	respondSuccess(w, r, http.StatusOK, hs, start, false)
}
