// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"math"
	"math/rand"
	"strconv"
)

const tolerance = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

// fixtureRatings is a small catalogue where item 10 correlates
// with 20 (0.8), 30 (-0.9), 40 (1) and 50 (-1), and item 60 has no
// defined neighbor.
func fixtureRatings() []Rating {
	return []Rating{
		{UserID: 1, ItemID: 10, Rating: 5}, {UserID: 1, ItemID: 20, Rating: 4}, {UserID: 1, ItemID: 30, Rating: 1}, {UserID: 1, ItemID: 40, Rating: 2},
		{UserID: 2, ItemID: 10, Rating: 4}, {UserID: 2, ItemID: 20, Rating: 5}, {UserID: 2, ItemID: 30, Rating: 2}, {UserID: 2, ItemID: 40, Rating: 1},
		{UserID: 3, ItemID: 10, Rating: 2}, {UserID: 3, ItemID: 20, Rating: 1}, {UserID: 3, ItemID: 30, Rating: 5}, {UserID: 3, ItemID: 50, Rating: 4},
		{UserID: 4, ItemID: 10, Rating: 1}, {UserID: 4, ItemID: 20, Rating: 2}, {UserID: 4, ItemID: 30, Rating: 4}, {UserID: 4, ItemID: 50, Rating: 5},
		{UserID: 5, ItemID: 10, Rating: 5}, {UserID: 5, ItemID: 60, Rating: 3},
	}
}

// fixtureTitles leaves item 50 untitled.
func fixtureTitles() []Title {
	return []Title{
		{ItemID: 10, Title: "Heat"},
		{ItemID: 20, Title: "Ronin"},
		{ItemID: 30, Title: "Amelie"},
		{ItemID: 40, Title: "Alien"},
		{ItemID: 60, Title: "Brazil"},
	}
}

// randomRatings generates a reproducible sparse rating set.
func randomRatings(seed int64, users, items int, density float64) []Rating {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic test data
	var out []Rating
	for u := 1; u <= users; u++ {
		for i := 1; i <= items; i++ {
			if rng.Float64() < density {
				out = append(out, Rating{UserID: u, ItemID: i, Rating: float64(1 + rng.Intn(5))})
			}
		}
	}
	return out
}

func titlesFor(items int) []Title {
	out := make([]Title, 0, items)
	for i := 1; i <= items; i++ {
		out = append(out, Title{ItemID: i, Title: "Movie " + strconv.Itoa(i)})
	}
	return out
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
