// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import "sort"

// RatingMatrix is a sparse user by item rating matrix. A missing cell means
// the user never rated the item; it is never treated as a zero rating.
// The matrix is read-only after construction.
type RatingMatrix struct {
	byUser  map[int]map[int]float64
	byItem  map[int]map[int]float64
	users   []int
	items   []int
	ratings int
}

// BuildRatingMatrix builds a RatingMatrix from raw rating records.
// Duplicate (user, item) pairs resolve to the last record seen.
func BuildRatingMatrix(ratings []Rating) *RatingMatrix {
	m := &RatingMatrix{
		byUser: make(map[int]map[int]float64),
		byItem: make(map[int]map[int]float64),
	}

	for _, r := range ratings {
		row, ok := m.byUser[r.UserID]
		if !ok {
			row = make(map[int]float64)
			m.byUser[r.UserID] = row
		}
		if _, dup := row[r.ItemID]; !dup {
			m.ratings++
		}
		row[r.ItemID] = r.Rating

		col, ok := m.byItem[r.ItemID]
		if !ok {
			col = make(map[int]float64)
			m.byItem[r.ItemID] = col
		}
		col[r.UserID] = r.Rating
	}

	m.users = sortedKeys(m.byUser)
	m.items = sortedKeys(m.byItem)
	return m
}

// Get returns the rating of item by user and whether it exists.
func (m *RatingMatrix) Get(userID, itemID int) (float64, bool) {
	row, ok := m.byUser[userID]
	if !ok {
		return 0, false
	}
	v, ok := row[itemID]
	return v, ok
}

// HasUser reports whether the user rated at least one item.
func (m *RatingMatrix) HasUser(userID int) bool {
	_, ok := m.byUser[userID]
	return ok
}

// HasItem reports whether the item was rated by at least one user.
func (m *RatingMatrix) HasItem(itemID int) bool {
	_, ok := m.byItem[itemID]
	return ok
}

// UserItems returns the items rated by the user in ascending order.
func (m *RatingMatrix) UserItems(userID int) []int {
	return sortedKeys(m.byUser[userID])
}

// UserRatings returns a copy of the user's row.
func (m *RatingMatrix) UserRatings(userID int) map[int]float64 {
	row := m.byUser[userID]
	out := make(map[int]float64, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

// Users returns all user ids in ascending order.
func (m *RatingMatrix) Users() []int {
	return append([]int(nil), m.users...)
}

// Items returns all item ids in ascending order.
func (m *RatingMatrix) Items() []int {
	return append([]int(nil), m.items...)
}

// NumUsers returns the number of users with at least one rating.
func (m *RatingMatrix) NumUsers() int { return len(m.users) }

// NumItems returns the number of items with at least one rating.
func (m *RatingMatrix) NumItems() int { return len(m.items) }

// NumRatings returns the number of present cells.
func (m *RatingMatrix) NumRatings() int { return m.ratings }

// itemVector is an item's column ordered by user id, used for co-rating
// intersection.
type itemVector struct {
	users  []int
	values []float64
}

func (m *RatingMatrix) itemVector(itemID int) itemVector {
	col := m.byItem[itemID]
	v := itemVector{
		users:  sortedKeys(col),
		values: make([]float64, len(col)),
	}
	for i, u := range v.users {
		v.values[i] = col[u]
	}
	return v
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
