// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"context"
	"time"

	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/database"
	"github.com/tomtom215/cinerec/internal/middleware"
	"github.com/tomtom215/cinerec/internal/recommend"
)

// requestTimeout bounds read endpoints.
const requestTimeout = 10 * time.Second

// Recommender is the engine surface the handlers use.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	Similar(ctx context.Context, itemID, limit int) ([]recommend.SimilarItem, error)
	UserRatings(ctx context.Context, userID int) ([]recommend.Rating, error)
	Refresh(ctx context.Context) error
	Snapshot() *recommend.Snapshot
	Status() recommend.Status
	Ready() bool
}

// RatingWriter persists ingested ratings.
type RatingWriter interface {
	InsertRatings(ctx context.Context, ratings []recommend.Rating) (int, error)
	InsertTitles(ctx context.Context, titles []recommend.Title) (int, error)
	Ping(ctx context.Context) error
}

// BreakerStater reports a circuit breaker state. Optional.
type BreakerStater interface {
	State() string
}

// StoreCounter reports table sizes for the status endpoint. Optional.
type StoreCounter interface {
	Counts(ctx context.Context) (database.Counts, error)
}

// Handler holds the dependencies of every endpoint.
type Handler struct {
	engine    Recommender
	store     RatingWriter
	breaker   BreakerStater
	counter   StoreCounter
	config    *config.Config
	perfMon   *middleware.PerformanceMonitor
	version   string
	startTime time.Time
}

// HandlerOption customizes a Handler.
type HandlerOption func(*Handler)

// WithBreaker exposes a breaker state in the status endpoint.
func WithBreaker(b BreakerStater) HandlerOption {
	return func(h *Handler) { h.breaker = b }
}

// WithStoreCounts adds store table sizes to the status endpoint.
func WithStoreCounts(c StoreCounter) HandlerOption {
	return func(h *Handler) { h.counter = c }
}

// WithVersion sets the version reported by the health endpoints.
func WithVersion(v string) HandlerOption {
	return func(h *Handler) { h.version = v }
}

// NewHandler wires the handlers. cfg may be nil in tests.
func NewHandler(engine Recommender, store RatingWriter, cfg *config.Config, opts ...HandlerOption) *Handler {
	h := &Handler{
		engine:    engine,
		store:     store,
		config:    cfg,
		perfMon:   middleware.NewPerformanceMonitor(1000, middleware.DefaultSlowThreshold),
		version:   "dev",
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// PerformanceMonitor returns the monitor fed by the router middleware.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}
