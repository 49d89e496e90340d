// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend"
)

// memStore backs both the engine and the ingestion endpoint.
type memStore struct {
	mu      sync.Mutex
	ratings []recommend.Rating
	titles  []recommend.Title
}

func (s *memStore) Ratings(context.Context) ([]recommend.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recommend.Rating(nil), s.ratings...), nil
}

func (s *memStore) Titles(context.Context) ([]recommend.Title, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recommend.Title(nil), s.titles...), nil
}

func (s *memStore) UserRatings(_ context.Context, userID int) ([]recommend.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recommend.Rating
	for _, r := range s.ratings {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) ReviewCounts(context.Context) (map[int]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[int]int)
	for _, r := range s.ratings {
		counts[r.ItemID]++
	}
	return counts, nil
}

func (s *memStore) InsertRatings(_ context.Context, r []recommend.Rating) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratings = append(s.ratings, r...)
	return len(r), nil
}

func (s *memStore) InsertTitles(_ context.Context, t []recommend.Title) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.titles = append(s.titles, t...)
	return len(t), nil
}

func (s *memStore) Ping(context.Context) error { return nil }

// ingestBody rates item 10 against 20 (positive), 30 (negative) and 40
// (perfectly positive); user 5 has seen only 10.
const ingestBody = `{
	"ratings": [
		{"user_id":1,"item_id":10,"rating":5},{"user_id":1,"item_id":20,"rating":4},{"user_id":1,"item_id":30,"rating":1},{"user_id":1,"item_id":40,"rating":2},
		{"user_id":2,"item_id":10,"rating":4},{"user_id":2,"item_id":20,"rating":5},{"user_id":2,"item_id":30,"rating":2},{"user_id":2,"item_id":40,"rating":1},
		{"user_id":3,"item_id":10,"rating":2},{"user_id":3,"item_id":20,"rating":1},{"user_id":3,"item_id":30,"rating":5},
		{"user_id":4,"item_id":10,"rating":1},{"user_id":4,"item_id":20,"rating":2},{"user_id":4,"item_id":30,"rating":4},
		{"user_id":5,"item_id":10,"rating":5}
	],
	"titles": [
		{"item_id":10,"title":"Heat"},{"item_id":20,"title":"Ronin"},{"item_id":30,"title":"Amelie"},{"item_id":40,"title":"Alien"}
	],
	"refresh": true
}`

func TestEndToEnd(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	cfg := recommend.DefaultConfig()
	cfg.Defaults.MinReviewCount = 0
	engine, err := recommend.NewEngine(cfg, store, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	t.Cleanup(engine.Close)

	srv := newTestServer(engine, store)

	rec, env := do(t, srv, http.MethodGet, "/api/v1/recommendations/user/5", "")
	if rec.Code != http.StatusServiceUnavailable || errorCode(env) != models.ErrCodeNotReady {
		t.Fatalf("before ingestion: status = %d code = %q", rec.Code, errorCode(env))
	}

	rec, _ = do(t, srv, http.MethodPost, "/api/v1/ratings", ingestBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("ingest status = %d: %s", rec.Code, rec.Body.String())
	}

	rec, env = do(t, srv, http.MethodGet, "/api/v1/recommendations/user/5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("recommend status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp recommend.Response
	raw, _ := json.Marshal(env.Data)
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatal(err)
	}
	// Seed 10 is the only rating >= 4; 30 correlates negatively and is
	// still a candidate, ranked last.
	want := []string{"Alien", "Ronin", "Amelie"}
	if len(resp.Items) != len(want) {
		t.Fatalf("items = %+v, want %v", resp.Items, want)
	}
	for i, title := range want {
		if resp.Items[i].Title != title || resp.Items[i].Rank != i+1 {
			t.Errorf("item %d = %+v, want %s at rank %d", i, resp.Items[i], title, i+1)
		}
	}

	rec, env = do(t, srv, http.MethodGet, "/api/v1/recommendations/user/99", "")
	if rec.Code != http.StatusNotFound || errorCode(env) != models.ErrCodeUserNotFound {
		t.Errorf("unknown user: status = %d code = %q", rec.Code, errorCode(env))
	}

	rec, env = do(t, srv, http.MethodGet, "/api/v1/items/10/similar?limit=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("similar status = %d", rec.Code)
	}
	items := env.Data.(map[string]interface{})["items"].([]interface{})
	if len(items) != 1 || items[0].(map[string]interface{})["title"] != "Alien" {
		t.Errorf("similar items = %v, want Alien first", items)
	}

	rec, _ = do(t, srv, http.MethodGet, "/api/v1/items/77/similar", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown item status = %d", rec.Code)
	}
}
