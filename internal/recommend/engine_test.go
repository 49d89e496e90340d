// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockStore is a RatingStore backed by slices.
type mockStore struct {
	mu      sync.Mutex
	ratings []Rating
	titles  []Title
	err     error
	loads   int

	// block, when set, holds Ratings until closed; entered is signaled
	// once the call is waiting.
	block   chan struct{}
	entered chan struct{}
}

func newMockStore() *mockStore {
	return &mockStore{ratings: fixtureRatings(), titles: fixtureTitles()}
}

func (s *mockStore) Ratings(ctx context.Context) ([]Rating, error) {
	s.mu.Lock()
	s.loads++
	block, entered, err := s.block, s.entered, s.err
	out := append([]Rating(nil), s.ratings...)
	s.mu.Unlock()

	if block != nil {
		close(entered)
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mockStore) Titles(_ context.Context) ([]Title, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Title(nil), s.titles...), nil
}

func (s *mockStore) UserRatings(_ context.Context, userID int) ([]Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []Rating
	for _, r := range s.ratings {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *mockStore) ReviewCounts(_ context.Context) (map[int]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]int)
	for _, r := range s.ratings {
		out[r.ItemID]++
	}
	return out, nil
}

func (s *mockStore) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Defaults.MinReviewCount = 0
	cfg.SimilarityWorkers = 2
	return cfg
}

func newTestEngine(t *testing.T, cfg *Config, store RatingStore) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, store, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func refreshedEngine(t *testing.T) (*Engine, *mockStore) {
	t.Helper()
	store := newMockStore()
	e := newTestEngine(t, testConfig(), store)
	if err := e.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	return e, store
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	t.Run("nil config uses defaults", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(t, nil, newMockStore())
		if e.Config().Defaults != DefaultParams() {
			t.Errorf("Defaults = %+v, want %+v", e.Config().Defaults, DefaultParams())
		}
		if e.Ready() {
			t.Error("new engine should not be ready")
		}
	})

	t.Run("nil store", func(t *testing.T) {
		t.Parallel()
		if _, err := NewEngine(nil, nil, zerolog.Nop()); err == nil {
			t.Error("expected error for nil store")
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.Limits.MaxTopN = 0
		if _, err := NewEngine(cfg, newMockStore(), zerolog.Nop()); err == nil {
			t.Error("expected error for invalid config")
		}
	})
}

func TestEngineNotReady(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig(), newMockStore())

	if _, err := e.Recommend(context.Background(), Request{UserID: 5}); !errors.Is(err, ErrNotReady) {
		t.Errorf("Recommend() error = %v, want ErrNotReady", err)
	}
	if _, err := e.Similar(context.Background(), 10, 5); !errors.Is(err, ErrNotReady) {
		t.Errorf("Similar() error = %v, want ErrNotReady", err)
	}
	if e.HasUser(5) {
		t.Error("HasUser should be false without a snapshot")
	}
	if st := e.Status(); st.Ready || st.SnapshotVersion != 0 {
		t.Errorf("Status() = %+v, want not ready", st)
	}
}

func TestEngineRecommend(t *testing.T) {
	t.Parallel()

	e, _ := refreshedEngine(t)

	resp, err := e.Recommend(context.Background(), Request{UserID: 5, RequestID: "req-1"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	wantIDs := []int{40, 20, 30}
	if len(resp.Items) != len(wantIDs) {
		t.Fatalf("got %d items, want %d: %+v", len(resp.Items), len(wantIDs), resp.Items)
	}
	for i, id := range wantIDs {
		if resp.Items[i].ItemID != id || resp.Items[i].Rank != i+1 {
			t.Errorf("item %d = %+v, want id %d rank %d", i, resp.Items[i], id, i+1)
		}
	}
	if resp.Items[0].Title != "Alien" {
		t.Errorf("first title = %q, want Alien", resp.Items[0].Title)
	}

	md := resp.Metadata
	if md.RequestID != "req-1" || md.UserID != 5 || md.SnapshotVersion != 1 {
		t.Errorf("metadata = %+v", md)
	}
	if md.Seeds != 1 || md.Candidates != 4 || md.CacheHit {
		t.Errorf("diagnostics = seeds %d candidates %d cached %v", md.Seeds, md.Candidates, md.CacheHit)
	}
}

func TestEngineRecommendCache(t *testing.T) {
	t.Parallel()

	e, _ := refreshedEngine(t)
	ctx := context.Background()

	first, err := e.Recommend(ctx, Request{UserID: 5})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	first.Items[0].Title = "mutated"

	second, err := e.Recommend(ctx, Request{UserID: 5})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !second.Metadata.CacheHit {
		t.Error("second identical request should hit the cache")
	}
	if second.Items[0].Title != "Alien" {
		t.Errorf("cached response was mutated through the first result: %q", second.Items[0].Title)
	}

	third, err := e.Recommend(ctx, Request{UserID: 5, TopN: 1})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if third.Metadata.CacheHit {
		t.Error("different parameters must not share a cache entry")
	}

	st := e.Status()
	if st.CacheHits != 1 || st.CacheMisses != 2 || st.RequestCount != 3 {
		t.Errorf("Status() hits %d misses %d requests %d, want 1 2 3", st.CacheHits, st.CacheMisses, st.RequestCount)
	}

	if err := e.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	fourth, err := e.Recommend(ctx, Request{UserID: 5})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if fourth.Metadata.CacheHit || fourth.Metadata.SnapshotVersion != 2 {
		t.Errorf("after refresh: cached %v version %d, want fresh version 2", fourth.Metadata.CacheHit, fourth.Metadata.SnapshotVersion)
	}
}

func TestEngineRecommendCacheDisabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Cache.Enabled = false
	e := newTestEngine(t, cfg, newMockStore())
	if err := e.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		resp, err := e.Recommend(context.Background(), Request{UserID: 5})
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if resp.Metadata.CacheHit {
			t.Error("cache disabled but response marked cached")
		}
	}
}

func TestEngineRecommendUnknownUser(t *testing.T) {
	t.Parallel()

	e, _ := refreshedEngine(t)

	_, err := e.Recommend(context.Background(), Request{UserID: 404})
	if !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("Recommend() error = %v, want ErrUnknownUser", err)
	}
	if e.Status().UnknownUserCount != 1 {
		t.Errorf("UnknownUserCount = %d, want 1", e.Status().UnknownUserCount)
	}
}

func TestEngineRecommendParams(t *testing.T) {
	t.Parallel()

	e, _ := refreshedEngine(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     Request
		wantErr error
		wantN   int
		wantTop int
	}{
		{"defaults", Request{UserID: 5}, nil, 3, 5},
		{"top n override", Request{UserID: 5, TopN: 2}, nil, 2, 2},
		{"top n clamped", Request{UserID: 5, TopN: 1000}, nil, 3, 100},
		{"min reviews override", Request{UserID: 5, MinReviewCount: intPtr(3)}, nil, 2, 5},
		{"threshold above all ratings", Request{UserID: 5, RatingThreshold: floatPtr(6)}, nil, 0, 5},
		{"negative min reviews", Request{UserID: 5, MinReviewCount: intPtr(-1)}, ErrInvalidParams, 0, 0},
		{"NaN threshold", Request{UserID: 5, RatingThreshold: floatPtr(math.NaN())}, ErrInvalidParams, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp, err := e.Recommend(ctx, tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(resp.Items) != tt.wantN {
				t.Errorf("got %d items, want %d", len(resp.Items), tt.wantN)
			}
			if resp.Metadata.Params.TopN != tt.wantTop {
				t.Errorf("effective top n = %d, want %d", resp.Metadata.Params.TopN, tt.wantTop)
			}
		})
	}
}

func TestEngineRefreshFailureKeepsSnapshot(t *testing.T) {
	t.Parallel()

	e, store := refreshedEngine(t)
	store.setErr(errors.New("disk on fire"))

	if err := e.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}

	st := e.Status()
	if !st.Ready || st.SnapshotVersion != 1 {
		t.Errorf("previous snapshot should remain: ready %v version %d", st.Ready, st.SnapshotVersion)
	}
	if st.LastError == "" {
		t.Error("LastError should be recorded")
	}

	store.setErr(nil)
	if err := e.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if st := e.Status(); st.LastError != "" || st.SnapshotVersion != 2 {
		t.Errorf("after recovery: last error %q version %d", st.LastError, st.SnapshotVersion)
	}
}

func TestEngineRefreshInProgress(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	store.block = make(chan struct{})
	store.entered = make(chan struct{})
	e := newTestEngine(t, testConfig(), store)

	done := make(chan error, 1)
	go func() { done <- e.Refresh(context.Background()) }()

	select {
	case <-store.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh never reached the store")
	}

	if err := e.Refresh(context.Background()); !errors.Is(err, ErrRefreshInProgress) {
		t.Errorf("concurrent Refresh() error = %v, want ErrRefreshInProgress", err)
	}
	if !e.Status().Refreshing {
		t.Error("Status().Refreshing should be true during a refresh")
	}

	close(store.block)
	if err := <-done; err != nil {
		t.Fatalf("blocked Refresh() error = %v", err)
	}
	if !e.Ready() {
		t.Error("engine should be ready after refresh completes")
	}
}

func TestEngineRefreshTimeout(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	store.block = make(chan struct{})
	store.entered = make(chan struct{})
	cfg := testConfig()
	cfg.Limits.RefreshTimeout = 20 * time.Millisecond
	e := newTestEngine(t, cfg, store)

	err := e.Refresh(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Refresh() error = %v, want deadline exceeded", err)
	}
	if e.Ready() {
		t.Error("engine should not be ready after a timed out refresh")
	}
}

func TestEngineSimilar(t *testing.T) {
	t.Parallel()

	e, _ := refreshedEngine(t)
	ctx := context.Background()

	items, err := e.Similar(ctx, 10, 2)
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}
	if len(items) != 2 || items[0].ItemID != 40 || items[1].ItemID != 20 {
		t.Fatalf("Similar(10, 2) = %+v, want items 40 and 20", items)
	}
	if items[1].Title != "Ronin" || items[1].ReviewCount != 4 || !approxEqual(items[1].Similarity, 0.8) {
		t.Errorf("second neighbor = %+v", items[1])
	}

	all, err := e.Similar(ctx, 10, 0)
	if err != nil || len(all) != 4 {
		t.Errorf("Similar(10, 0) = %d items, err %v; want 4", len(all), err)
	}

	none, err := e.Similar(ctx, 60, 5)
	if err != nil || len(none) != 0 {
		t.Errorf("Similar(60) = %+v, err %v; want empty", none, err)
	}

	if _, err := e.Similar(ctx, 999, 5); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("Similar(999) error = %v, want ErrUnknownItem", err)
	}
}

func TestEngineUserRatingsAndStatus(t *testing.T) {
	t.Parallel()

	e, store := refreshedEngine(t)

	ratings, err := e.UserRatings(context.Background(), 5)
	if err != nil || len(ratings) != 2 {
		t.Errorf("UserRatings(5) = %v, err %v; want 2 ratings", ratings, err)
	}
	if !e.HasUser(5) || e.HasUser(404) {
		t.Error("HasUser mismatch")
	}

	st := e.Status()
	if !st.Ready || st.Stats.Users != 5 || st.Stats.Items != 6 || st.Stats.Ratings != 18 || st.Stats.Titles != 5 {
		t.Errorf("Status().Stats = %+v", st.Stats)
	}
	if st.Stats.SimilarityPairs == 0 {
		t.Error("expected similarity pairs in stats")
	}
	if st.BuiltAt.IsZero() {
		t.Error("BuiltAt should be set")
	}

	store.setErr(errors.New("gone"))
	if _, err := e.UserRatings(context.Background(), 5); err == nil {
		t.Error("expected store error to propagate")
	}
}

func TestEngineConcurrentRecommend(t *testing.T) {
	t.Parallel()

	e, _ := refreshedEngine(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%5 == 0 {
				_ = e.Refresh(ctx)
				return
			}
			if _, err := e.Recommend(ctx, Request{UserID: 1 + i%5}); err != nil {
				t.Errorf("Recommend() error = %v", err)
			}
		}(i)
	}
	wg.Wait()
}
