// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"fmt"
	"sort"
)

// Dataset holds a rating snapshot together with the per-user and per-item
// aggregates the recommender consults. It is read-only after construction.
type Dataset struct {
	matrix       *RatingMatrix
	titles       map[int]string
	reviewCounts map[int]int
	meanRatings  map[int]float64
	ratingCount  int
	titleCount   int
}

// NewDataset indexes raw ratings and titles. Review counts and means are
// taken over every raw record. The first title seen for an item wins.
func NewDataset(ratings []Rating, titles []Title) *Dataset {
	d := &Dataset{
		matrix:       BuildRatingMatrix(ratings),
		titles:       make(map[int]string, len(titles)),
		reviewCounts: make(map[int]int),
		meanRatings:  make(map[int]float64),
		ratingCount:  len(ratings),
		titleCount:   len(titles),
	}

	sums := make(map[int]float64)
	for _, r := range ratings {
		d.reviewCounts[r.ItemID]++
		sums[r.ItemID] += r.Rating
	}
	for id, n := range d.reviewCounts {
		d.meanRatings[id] = sums[id] / float64(n)
	}

	for _, t := range titles {
		if _, ok := d.titles[t.ItemID]; !ok {
			d.titles[t.ItemID] = t.Title
		}
	}
	return d
}

// Matrix returns the dataset's rating matrix.
func (d *Dataset) Matrix() *RatingMatrix { return d.matrix }

// HasUser reports whether the user has at least one rating.
func (d *Dataset) HasUser(userID int) bool { return d.matrix.HasUser(userID) }

// ReviewCount returns the number of raw ratings of an item.
func (d *Dataset) ReviewCount(itemID int) int { return d.reviewCounts[itemID] }

// MeanRating returns the mean raw rating of an item.
func (d *Dataset) MeanRating(itemID int) (float64, bool) {
	v, ok := d.meanRatings[itemID]
	return v, ok
}

// Title returns the title of an item.
func (d *Dataset) Title(itemID int) (string, bool) {
	t, ok := d.titles[itemID]
	return t, ok
}

// NumRatings returns the number of raw rating records.
func (d *Dataset) NumRatings() int { return d.ratingCount }

// NumTitles returns the number of raw title records.
func (d *Dataset) NumTitles() int { return d.titleCount }

// Score ranks candidate items for a user. Unknown users and users without a
// rating at or above the threshold get an empty ranking.
func (d *Dataset) Score(userID int, sim *SimilarityMatrix, p Params) Ranking {
	var ranking Ranking

	seen := d.matrix.byUser[userID]
	if len(seen) == 0 {
		return ranking
	}

	var seeds []int
	for _, itemID := range d.matrix.UserItems(userID) {
		if seen[itemID] >= p.RatingThreshold {
			seeds = append(seeds, itemID)
		}
	}
	ranking.Seeds = len(seeds)
	if len(seeds) == 0 {
		return ranking
	}

	scores := make(map[int]float64)
	for _, seed := range seeds {
		switch lookup := sim.Lookup(seed).(type) {
		case NotFound:
			ranking.FallbackSeeds++
			d.addPopular(scores, seen, p.MinReviewCount)
		case Found:
			for _, n := range lookup.Row {
				if _, ok := seen[n.ItemID]; ok {
					continue
				}
				if d.reviewCounts[n.ItemID] < p.MinReviewCount {
					continue
				}
				scores[n.ItemID] += n.Similarity
			}
		default:
			panic(fmt.Sprintf("recommend: unexpected similarity lookup %T", lookup))
		}
	}

	ranking.Candidates = len(scores)
	ranking.Items = topScored(scores, p.TopN)
	return ranking
}

// addPopular adds the mean rating of every sufficiently reviewed, unseen
// item to its score.
func (d *Dataset) addPopular(scores map[int]float64, seen map[int]float64, minReviews int) {
	for _, itemID := range d.matrix.items {
		if _, ok := seen[itemID]; ok {
			continue
		}
		if d.reviewCounts[itemID] < minReviews {
			continue
		}
		scores[itemID] += d.meanRatings[itemID]
	}
}

// topScored orders scores descending with ascending item id as tie-break
// and keeps at most n entries. A non-positive n yields nothing.
func topScored(scores map[int]float64, n int) []ScoredItem {
	if n <= 0 {
		return nil
	}
	items := make([]ScoredItem, 0, len(scores))
	for id, s := range scores {
		items = append(items, ScoredItem{ItemID: id, Score: s})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ItemID < items[j].ItemID
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}

// Titles maps ranked items to titles in rank order. Items without a title
// record are dropped.
func (d *Dataset) Titles(items []ScoredItem) []Title {
	out := make([]Title, 0, len(items))
	for _, it := range items {
		if t, ok := d.titles[it.ItemID]; ok {
			out = append(out, Title{ItemID: it.ItemID, Title: t})
		}
	}
	return out
}

// Recommend returns up to p.TopN titles for the user in rank order. It
// builds its aggregates from the raw inputs on every call; long-running
// callers should hold a Dataset instead.
func Recommend(userID int, ratings []Rating, titles []Title, sim *SimilarityMatrix, p Params) []Title {
	d := NewDataset(ratings, titles)
	return d.Titles(d.Score(userID, sim, p).Items)
}
