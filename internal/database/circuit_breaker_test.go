// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinerec/internal/recommend"
)

var _ recommend.RatingStore = (*BreakerStore)(nil)

type flakyStore struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (f *flakyStore) result() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *flakyStore) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *flakyStore) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *flakyStore) Ratings(context.Context) ([]recommend.Rating, error) {
	if err := f.result(); err != nil {
		return nil, err
	}
	return []recommend.Rating{{UserID: 1, ItemID: 2, Rating: 3}}, nil
}

func (f *flakyStore) Titles(context.Context) ([]recommend.Title, error) {
	if err := f.result(); err != nil {
		return nil, err
	}
	return []recommend.Title{{ItemID: 2, Title: "Heat"}}, nil
}

func (f *flakyStore) UserRatings(_ context.Context, userID int) ([]recommend.Rating, error) {
	if err := f.result(); err != nil {
		return nil, err
	}
	return []recommend.Rating{{UserID: userID, ItemID: 2, Rating: 3}}, nil
}

func (f *flakyStore) ReviewCounts(context.Context) (map[int]int, error) {
	if err := f.result(); err != nil {
		return nil, err
	}
	return map[int]int{2: 1}, nil
}

func testBreakerSettings(name string) BreakerSettings {
	return BreakerSettings{
		Name:         name,
		MinRequests:  3,
		FailureRatio: 0.6,
		Interval:     time.Minute,
		Timeout:      50 * time.Millisecond,
		MaxRequests:  1,
	}
}

func TestBreakerStorePassThrough(t *testing.T) {
	t.Parallel()

	store := &flakyStore{}
	b := NewBreakerStore(store, testBreakerSettings("test-pass"))
	ctx := context.Background()

	if r, err := b.Ratings(ctx); err != nil || len(r) != 1 {
		t.Errorf("Ratings() = %v, %v", r, err)
	}
	if ti, err := b.Titles(ctx); err != nil || len(ti) != 1 || ti[0].Title != "Heat" {
		t.Errorf("Titles() = %v, %v", ti, err)
	}
	if r, err := b.UserRatings(ctx, 7); err != nil || r[0].UserID != 7 {
		t.Errorf("UserRatings() = %v, %v", r, err)
	}
	if c, err := b.ReviewCounts(ctx); err != nil || c[2] != 1 {
		t.Errorf("ReviewCounts() = %v, %v", c, err)
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q, want closed", b.State())
	}
}

func TestBreakerStoreOpensAndRecovers(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk on fire")
	store := &flakyStore{err: boom}
	b := NewBreakerStore(store, testBreakerSettings("test-trip"))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := b.Ratings(ctx); !errors.Is(err, boom) {
			t.Fatalf("call %d error = %v, want %v", i, err, boom)
		}
	}
	if b.State() != "open" {
		t.Fatalf("State() = %q, want open", b.State())
	}

	if _, err := b.Ratings(ctx); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("open breaker error = %v, want ErrOpenState", err)
	}
	if store.Calls() != 3 {
		t.Errorf("store calls = %d, want 3 (open breaker must not call through)", store.Calls())
	}

	store.setErr(nil)
	time.Sleep(80 * time.Millisecond)

	if _, err := b.Ratings(ctx); err != nil {
		t.Fatalf("probe error = %v", err)
	}
	if b.State() != "closed" {
		t.Errorf("State() after successful probe = %q, want closed", b.State())
	}
}

func TestBreakerStoreIgnoresCanceled(t *testing.T) {
	t.Parallel()

	store := &flakyStore{err: context.Canceled}
	b := NewBreakerStore(store, testBreakerSettings("test-cancel"))

	for i := 0; i < 5; i++ {
		if _, err := b.Titles(context.Background()); !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q, want closed", b.State())
	}
}

func TestStateHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state gobreaker.State
		str   string
		num   float64
	}{
		{gobreaker.StateClosed, "closed", 0},
		{gobreaker.StateHalfOpen, "half-open", 1},
		{gobreaker.StateOpen, "open", 2},
	}
	for _, tt := range tests {
		if got := stateToString(tt.state); got != tt.str {
			t.Errorf("stateToString(%v) = %q, want %q", tt.state, got, tt.str)
		}
		if got := stateToFloat(tt.state); got != tt.num {
			t.Errorf("stateToFloat(%v) = %v, want %v", tt.state, got, tt.num)
		}
	}
}
