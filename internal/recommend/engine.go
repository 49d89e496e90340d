// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/cache"
	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/metrics"
)

// Snapshot is an immutable view of the rating data and everything derived
// from it. The Engine replaces it wholesale on refresh.
type Snapshot struct {
	Version    int64
	BuiltAt    time.Time
	Dataset    *Dataset
	Similarity *SimilarityMatrix
	Stats      SnapshotStats
}

// Engine serves recommendations from the current snapshot and rebuilds it
// from a RatingStore on demand. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger
	store  RatingStore

	snapshot  atomic.Pointer[Snapshot]
	refreshMu sync.Mutex

	refreshing    atomic.Bool
	lastRefreshMS atomic.Int64
	lastErrMu     sync.RWMutex
	lastErr       string

	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	unknownUsers atomic.Int64

	cache *cache.Cache[*Response]
}

// NewEngine creates an engine without a snapshot. Call Refresh before
// serving requests.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(cfg *Config, store RatingStore, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if store == nil {
		return nil, errors.New("rating store is required")
	}

	e := &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
		store:  store,
	}
	if cfg.Cache.Enabled {
		e.cache = cache.New[*Response](cfg.Cache.TTL, cfg.Cache.MaxEntries)
	}
	return e, nil
}

// Close releases background resources.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Snapshot returns the current snapshot, or nil before the first refresh.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// Ready reports whether a snapshot has been published.
func (e *Engine) Ready() bool {
	return e.snapshot.Load() != nil
}

// Refresh rebuilds the snapshot from the store and publishes it. Only one
// refresh runs at a time; a concurrent call returns ErrRefreshInProgress.
func (e *Engine) Refresh(ctx context.Context) error {
	if !e.refreshMu.TryLock() {
		return ErrRefreshInProgress
	}
	defer e.refreshMu.Unlock()

	e.refreshing.Store(true)
	defer e.refreshing.Store(false)

	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.RefreshTimeout)
	defer cancel()
	ctx = logging.ContextWithNewCorrelationID(ctx)

	start := time.Now()
	snap, err := e.build(ctx)
	e.lastRefreshMS.Store(time.Since(start).Milliseconds())
	if err != nil {
		e.setLastError(err)
		metrics.RecordSnapshotRefresh("error")
		e.logger.Error().Err(err).
			Str("correlation_id", logging.CorrelationIDFromContext(ctx)).
			Msg("snapshot refresh failed")
		return err
	}

	if prev := e.snapshot.Load(); prev != nil {
		snap.Version = prev.Version + 1
	} else {
		snap.Version = 1
	}
	e.snapshot.Store(snap)
	e.setLastError(nil)
	if e.cache != nil {
		e.cache.Clear()
	}

	metrics.RecordSnapshotRefresh("success")
	metrics.UpdateSnapshotGauges(snap.Version, snap.Stats.Users, snap.Stats.Items,
		snap.Stats.Ratings, snap.Stats.SimilarityPairs)

	e.logger.Info().
		Str("correlation_id", logging.CorrelationIDFromContext(ctx)).
		Int64("version", snap.Version).
		Int("users", snap.Stats.Users).
		Int("items", snap.Stats.Items).
		Int("ratings", snap.Stats.Ratings).
		Int("similarity_pairs", snap.Stats.SimilarityPairs).
		Int64("duration_ms", e.lastRefreshMS.Load()).
		Msg("snapshot published")
	return nil
}

func (e *Engine) build(ctx context.Context) (*Snapshot, error) {
	stageStart := time.Now()
	ratings, err := e.store.Ratings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	titles, err := e.store.Titles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load titles: %w", err)
	}
	loadDur := time.Since(stageStart)
	metrics.RecordSnapshotStage("load", loadDur)

	stageStart = time.Now()
	dataset := NewDataset(ratings, titles)
	matrixDur := time.Since(stageStart)
	metrics.RecordSnapshotStage("matrix", matrixDur)

	stageStart = time.Now()
	sim, err := ComputeItemSimilarityContext(ctx, dataset.Matrix(), e.config.SimilarityWorkers)
	if err != nil {
		return nil, fmt.Errorf("compute similarity: %w", err)
	}
	simDur := time.Since(stageStart)
	metrics.RecordSnapshotStage("similarity", simDur)

	m := dataset.Matrix()
	return &Snapshot{
		BuiltAt:    time.Now(),
		Dataset:    dataset,
		Similarity: sim,
		Stats: SnapshotStats{
			Users:           m.NumUsers(),
			Items:           m.NumItems(),
			Ratings:         dataset.NumRatings(),
			Titles:          dataset.NumTitles(),
			SimilarityPairs: sim.NumPairs(),
			LoadMS:          loadDur.Milliseconds(),
			MatrixMS:        matrixDur.Milliseconds(),
			SimilarityMS:    simDur.Milliseconds(),
		},
	}, nil
}

func (e *Engine) setLastError(err error) {
	e.lastErrMu.Lock()
	defer e.lastErrMu.Unlock()
	if err == nil {
		e.lastErr = ""
		return
	}
	e.lastErr = err.Error()
}

// Recommend returns ranked, titled recommendations for a user.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if req.RequestID == "" {
		req.RequestID = logging.RequestIDFromContext(ctx)
	}
	if req.RequestID == "" {
		req.RequestID = logging.GenerateRequestID()
	}
	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Int("user_id", req.UserID).
		Logger()

	params, err := e.resolveParams(req)
	if err != nil {
		metrics.RecordRecommendation("invalid", time.Since(start), 0)
		return nil, err
	}

	snap := e.snapshot.Load()
	if snap == nil {
		metrics.RecordRecommendation("not_ready", time.Since(start), 0)
		return nil, ErrNotReady
	}

	if !snap.Dataset.HasUser(req.UserID) {
		e.unknownUsers.Add(1)
		metrics.RecordRecommendation("unknown_user", time.Since(start), 0)
		logger.Warn().Msg("recommendation requested for unknown user")
		return nil, fmt.Errorf("user %d: %w", req.UserID, ErrUnknownUser)
	}

	key := e.cacheKey(snap.Version, req.UserID, params)
	if resp, ok := e.fromCache(key); ok {
		resp.Metadata.RequestID = req.RequestID
		resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
		resp.Metadata.Timestamp = time.Now()
		metrics.RecordRecommendation("cached", time.Since(start), resp.Metadata.FallbackSeeds)
		logger.Debug().Msg("cache hit")
		return resp, nil
	}

	ranking := snap.Dataset.Score(req.UserID, snap.Similarity, params)
	resp := &Response{
		Items: e.titled(snap.Dataset, ranking.Items),
		Metadata: ResponseMetadata{
			RequestID:       req.RequestID,
			UserID:          req.UserID,
			Params:          params,
			Seeds:           ranking.Seeds,
			FallbackSeeds:   ranking.FallbackSeeds,
			Candidates:      ranking.Candidates,
			SnapshotVersion: snap.Version,
			BuiltAt:         snap.BuiltAt,
			LatencyMS:       time.Since(start).Milliseconds(),
			Timestamp:       time.Now(),
		},
	}
	e.toCache(key, resp)

	outcome := "ok"
	if len(resp.Items) == 0 {
		outcome = "empty"
	}
	metrics.RecordRecommendation(outcome, time.Since(start), ranking.FallbackSeeds)

	logger.Debug().
		Int("seeds", ranking.Seeds).
		Int("fallback_seeds", ranking.FallbackSeeds).
		Int("candidates", ranking.Candidates).
		Int("returned", len(resp.Items)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// resolveParams applies engine defaults to request overrides.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) resolveParams(req Request) (Params, error) {
	p := e.config.Defaults
	if req.TopN > 0 {
		p.TopN = req.TopN
	}
	if p.TopN > e.config.Limits.MaxTopN {
		p.TopN = e.config.Limits.MaxTopN
	}
	if req.RatingThreshold != nil {
		p.RatingThreshold = *req.RatingThreshold
	}
	if req.MinReviewCount != nil {
		p.MinReviewCount = *req.MinReviewCount
	}
	if err := p.Validate(); err != nil {
		return Params{}, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return p, nil
}

func (e *Engine) titled(d *Dataset, items []ScoredItem) []Recommendation {
	out := make([]Recommendation, 0, len(items))
	for _, it := range items {
		title, ok := d.Title(it.ItemID)
		if !ok {
			continue
		}
		out = append(out, Recommendation{
			ItemID: it.ItemID,
			Title:  title,
			Score:  it.Score,
			Rank:   len(out) + 1,
		})
	}
	return out
}

func (e *Engine) cacheKey(version int64, userID int, p Params) string {
	return cache.GenerateKey("rec", struct {
		Version int64  `json:"v"`
		UserID  int    `json:"u"`
		Params  Params `json:"p"`
	}{version, userID, p})
}

// fromCache returns a copy of a cached response so callers may modify it.
func (e *Engine) fromCache(key string) (*Response, bool) {
	if e.cache == nil {
		return nil, false
	}
	cached, ok := e.cache.Get(key)
	metrics.RecordRecommendCache(ok)
	if !ok {
		e.cacheMisses.Add(1)
		return nil, false
	}
	e.cacheHits.Add(1)

	resp := &Response{
		Items:    make([]Recommendation, len(cached.Items)),
		Metadata: cached.Metadata,
	}
	copy(resp.Items, cached.Items)
	resp.Metadata.CacheHit = true
	return resp, true
}

func (e *Engine) toCache(key string, resp *Response) {
	if e.cache == nil {
		return
	}
	stored := &Response{
		Items:    make([]Recommendation, len(resp.Items)),
		Metadata: resp.Metadata,
	}
	copy(stored.Items, resp.Items)
	e.cache.Set(key, stored)
}

// Similar returns the closest neighbors of an item, strongest first.
// Items with no defined similarity yield an empty list.
func (e *Engine) Similar(_ context.Context, itemID, limit int) ([]SimilarItem, error) {
	snap := e.snapshot.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	if !snap.Similarity.HasItem(itemID) {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrUnknownItem)
	}
	if limit <= 0 || limit > e.config.Limits.MaxSimilar {
		limit = e.config.Limits.MaxSimilar
	}

	found, ok := snap.Similarity.Lookup(itemID).(Found)
	if !ok {
		return []SimilarItem{}, nil
	}

	out := make([]SimilarItem, 0, min(limit, len(found.Row)))
	for _, n := range found.Row {
		if len(out) == limit {
			break
		}
		title, _ := snap.Dataset.Title(n.ItemID)
		out = append(out, SimilarItem{
			ItemID:      n.ItemID,
			Title:       title,
			Similarity:  n.Similarity,
			ReviewCount: snap.Dataset.ReviewCount(n.ItemID),
		})
	}
	return out, nil
}

// UserRatings returns a user's raw ratings straight from the store.
func (e *Engine) UserRatings(ctx context.Context, userID int) ([]Rating, error) {
	ratings, err := e.store.UserRatings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user ratings: %w", err)
	}
	return ratings, nil
}

// HasUser reports whether the current snapshot contains ratings by userID.
func (e *Engine) HasUser(userID int) bool {
	snap := e.snapshot.Load()
	return snap != nil && snap.Dataset.HasUser(userID)
}

// Status reports snapshot and request counters.
func (e *Engine) Status() Status {
	e.lastErrMu.RLock()
	lastErr := e.lastErr
	e.lastErrMu.RUnlock()

	st := Status{
		Refreshing:        e.refreshing.Load(),
		LastRefreshMS:     e.lastRefreshMS.Load(),
		LastError:         lastErr,
		RequestCount:      e.requestCount.Load(),
		CacheHits:         e.cacheHits.Load(),
		CacheMisses:       e.cacheMisses.Load(),
		UnknownUserCount:  e.unknownUsers.Load(),
		DefaultParameters: e.config.Defaults,
	}
	if snap := e.snapshot.Load(); snap != nil {
		st.Ready = true
		st.SnapshotVersion = snap.Version
		st.BuiltAt = snap.BuiltAt
		st.Stats = snap.Stats
	}
	return st
}
