// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tomtom215/cinerec/internal/recommend"
)

var _ recommend.RatingStore = (*DB)(nil)

func seedRatings() []recommend.Rating {
	return []recommend.Rating{
		{UserID: 1, ItemID: 10, Rating: 5},
		{UserID: 1, ItemID: 20, Rating: 3.5},
		{UserID: 2, ItemID: 10, Rating: 4},
		{UserID: 2, ItemID: 30, Rating: 1},
		{UserID: 1, ItemID: 10, Rating: 2},
	}
}

func TestInsertAndReadRatings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	n, err := db.InsertRatings(ctx, seedRatings())
	if err != nil {
		t.Fatalf("InsertRatings() error = %v", err)
	}
	if n != 5 {
		t.Errorf("InsertRatings() = %d, want 5", n)
	}

	got, err := db.Ratings(ctx)
	if err != nil {
		t.Fatalf("Ratings() error = %v", err)
	}
	if !reflect.DeepEqual(got, seedRatings()) {
		t.Errorf("Ratings() = %v, want insertion order %v", got, seedRatings())
	}

	user, err := db.UserRatings(ctx, 1)
	if err != nil {
		t.Fatalf("UserRatings() error = %v", err)
	}
	want := []recommend.Rating{
		{UserID: 1, ItemID: 10, Rating: 5},
		{UserID: 1, ItemID: 20, Rating: 3.5},
		{UserID: 1, ItemID: 10, Rating: 2},
	}
	if !reflect.DeepEqual(user, want) {
		t.Errorf("UserRatings(1) = %v, want %v", user, want)
	}

	none, err := db.UserRatings(ctx, 99)
	if err != nil {
		t.Fatalf("UserRatings(99) error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("UserRatings(99) = %v, want empty", none)
	}

	counts, err := db.ReviewCounts(ctx)
	if err != nil {
		t.Fatalf("ReviewCounts() error = %v", err)
	}
	wantCounts := map[int]int{10: 3, 20: 1, 30: 1}
	if !reflect.DeepEqual(counts, wantCounts) {
		t.Errorf("ReviewCounts() = %v, want %v", counts, wantCounts)
	}

	c, err := db.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	if c.Ratings != 5 || c.Users != 2 || c.Items != 3 {
		t.Errorf("Counts() = %+v", c)
	}
}

func TestInsertTitles(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	titles := []recommend.Title{
		{ItemID: 10, Title: "Heat"},
		{ItemID: 20, Title: "Ronin"},
		{ItemID: 10, Title: "Heat (1995)"},
	}
	if _, err := db.InsertTitles(ctx, titles); err != nil {
		t.Fatalf("InsertTitles() error = %v", err)
	}

	got, err := db.Titles(ctx)
	if err != nil {
		t.Fatalf("Titles() error = %v", err)
	}
	if !reflect.DeepEqual(got, titles) {
		t.Errorf("Titles() = %v, want %v", got, titles)
	}
}

func TestInsertEmpty(t *testing.T) {
	db := setupTestDB(t)

	if n, err := db.InsertRatings(context.Background(), nil); n != 0 || err != nil {
		t.Errorf("InsertRatings(nil) = %d, %v", n, err)
	}
	if n, err := db.InsertTitles(context.Background(), nil); n != 0 || err != nil {
		t.Errorf("InsertTitles(nil) = %d, %v", n, err)
	}
}

func TestCounts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	c, err := db.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts() on empty store error = %v", err)
	}
	if c != (Counts{}) {
		t.Errorf("Counts() on empty store = %+v", c)
	}

	if _, err := db.InsertRatings(ctx, seedRatings()); err != nil {
		t.Fatal(err)
	}
	if _, err := db.InsertTitles(ctx, []recommend.Title{{ItemID: 10, Title: "Heat"}, {ItemID: 20, Title: "Ronin"}}); err != nil {
		t.Fatal(err)
	}

	// Duplicate (user, item) records count as rows, not as extra users or items.
	c, err = db.Counts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := Counts{Ratings: 5, Titles: 2, Users: 2, Items: 3}
	if c != want {
		t.Errorf("Counts() = %+v, want %+v", c, want)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestImportCSV(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	ratingsPath := writeFile(t, "movie_review.csv",
		"user_id,item_id,rating,timestamp\n1,10,5,881250949\n1,20,3.5,881250950\n2,10,4,881250951\n")
	titlesPath := writeFile(t, "movie_title.csv",
		"item_id,title\n10,Heat\n20,\"Crouching Tiger, Hidden Dragon\"\n")

	n, err := db.ImportRatingsCSV(ctx, ratingsPath, false)
	if err != nil {
		t.Fatalf("ImportRatingsCSV() error = %v", err)
	}
	if n != 3 {
		t.Errorf("ImportRatingsCSV() = %d, want 3", n)
	}

	if _, err := db.ImportTitlesCSV(ctx, titlesPath, false); err != nil {
		t.Fatalf("ImportTitlesCSV() error = %v", err)
	}

	ratings, err := db.Ratings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []recommend.Rating{
		{UserID: 1, ItemID: 10, Rating: 5},
		{UserID: 1, ItemID: 20, Rating: 3.5},
		{UserID: 2, ItemID: 10, Rating: 4},
	}
	if !reflect.DeepEqual(ratings, want) {
		t.Errorf("Ratings() = %v, want %v", ratings, want)
	}

	titles, err := db.Titles(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(titles) != 2 || titles[1].Title != "Crouching Tiger, Hidden Dragon" {
		t.Errorf("Titles() = %v", titles)
	}

	// Appending doubles the rows, replacing resets them.
	if _, err := db.ImportRatingsCSV(ctx, ratingsPath, false); err != nil {
		t.Fatal(err)
	}
	if c, _ := db.Counts(ctx); c.Ratings != 6 {
		t.Errorf("ratings after append = %d, want 6", c.Ratings)
	}
	if _, err := db.ImportRatingsCSV(ctx, ratingsPath, true); err != nil {
		t.Fatal(err)
	}
	if c, _ := db.Counts(ctx); c.Ratings != 3 {
		t.Errorf("ratings after replace = %d, want 3", c.Ratings)
	}
}

func TestImportCSVErrors(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.ImportRatingsCSV(ctx, "", false); err == nil {
		t.Error("empty path expected error")
	}
	if _, err := db.ImportRatingsCSV(ctx, filepath.Join(t.TempDir(), "missing.csv"), false); err == nil {
		t.Error("missing file expected error")
	}

	if _, err := db.InsertRatings(ctx, seedRatings()); err != nil {
		t.Fatal(err)
	}
	bad := writeFile(t, "bad.csv", "user_id,item_id,rating\n1,10,notanumber\n")
	if _, err := db.ImportRatingsCSV(ctx, bad, true); err == nil {
		t.Fatal("malformed rating expected error")
	}
	// A failed replace leaves the previous rows in place.
	if c, _ := db.Counts(ctx); c.Ratings != 5 {
		t.Errorf("ratings after failed import = %d, want 5", c.Ratings)
	}
}

func TestQuoteLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"plain.csv", "'plain.csv'"},
		{"it's.csv", "'it''s.csv'"},
		{"", "''"},
	}
	for _, tt := range tests {
		if got := quoteLiteral(tt.in); got != tt.want {
			t.Errorf("quoteLiteral(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
