// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// minCoRaters is the minimum number of users who rated both items for a
// correlation to be defined.
const minCoRaters = 2

// SimilarityMatrix holds Pearson correlations between items. Only defined
// off-diagonal coefficients are stored; the diagonal is implicit.
type SimilarityMatrix struct {
	items map[int]struct{}
	rows  map[int][]Neighbor // sorted by similarity desc, item id asc
	index map[int]map[int]float64
	pairs int
}

// SimilarityLookup is the outcome of looking up an item's similarity row.
// It is either Found or NotFound.
type SimilarityLookup interface {
	isSimilarityLookup()
}

// Found carries an item's defined neighbors, self excluded, ordered by
// similarity descending then item id ascending.
type Found struct {
	Row []Neighbor
}

// NotFound means the item has no defined similarity to any other item.
type NotFound struct{}

func (Found) isSimilarityLookup()    {}
func (NotFound) isSimilarityLookup() {}

// ComputeItemSimilarity computes the item-item Pearson similarity matrix
// sequentially.
func ComputeItemSimilarity(m *RatingMatrix) *SimilarityMatrix {
	sim, _ := ComputeItemSimilarityContext(context.Background(), m, 1)
	return sim
}

// ComputeItemSimilarityContext computes the similarity matrix with up to
// workers goroutines (0 means runtime.NumCPU). The result does not depend on
// the worker count. It returns ctx.Err() if the context is canceled.
func ComputeItemSimilarityContext(ctx context.Context, m *RatingMatrix, workers int) (*SimilarityMatrix, error) {
	items := m.Items()
	vectors := make([]itemVector, len(items))
	for i, id := range items {
		vectors[i] = m.itemVector(id)
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(items) {
		workers = len(items)
	}

	// upper[i] holds coefficients for pairs (i, j>i); each row is written by
	// exactly one worker.
	upper := make([][]pairCoefficient, len(items))

	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				upper[i] = computeUpperRow(vectors, items, i)
			}
		}()
	}

	var cancelErr error
feed:
	for i := range items {
		if err := ctx.Err(); err != nil {
			cancelErr = err
			break
		}
		select {
		case <-ctx.Done():
			cancelErr = ctx.Err()
			break feed
		case rows <- i:
		}
	}
	close(rows)
	wg.Wait()

	if cancelErr != nil {
		return nil, fmt.Errorf("compute item similarity: %w", cancelErr)
	}

	return assembleSimilarity(items, upper), nil
}

type pairCoefficient struct {
	j    int
	corr float64
}

func computeUpperRow(vectors []itemVector, items []int, i int) []pairCoefficient {
	var out []pairCoefficient
	for j := i + 1; j < len(items); j++ {
		if corr, ok := pearson(vectors[i], vectors[j]); ok {
			out = append(out, pairCoefficient{j: j, corr: corr})
		}
	}
	return out
}

func assembleSimilarity(items []int, upper [][]pairCoefficient) *SimilarityMatrix {
	s := &SimilarityMatrix{
		items: make(map[int]struct{}, len(items)),
		rows:  make(map[int][]Neighbor),
		index: make(map[int]map[int]float64),
	}
	for _, id := range items {
		s.items[id] = struct{}{}
	}

	for i, row := range upper {
		a := items[i]
		for _, pc := range row {
			b := items[pc.j]
			s.set(a, b, pc.corr)
			s.set(b, a, pc.corr)
			s.pairs++
		}
	}

	for id, row := range s.rows {
		sortNeighbors(row)
		s.rows[id] = row
	}
	return s
}

func (s *SimilarityMatrix) set(a, b int, corr float64) {
	idx, ok := s.index[a]
	if !ok {
		idx = make(map[int]float64)
		s.index[a] = idx
	}
	idx[b] = corr
	s.rows[a] = append(s.rows[a], Neighbor{ItemID: b, Similarity: corr})
}

func sortNeighbors(row []Neighbor) {
	sort.Slice(row, func(x, y int) bool {
		if row[x].Similarity != row[y].Similarity {
			return row[x].Similarity > row[y].Similarity
		}
		return row[x].ItemID < row[y].ItemID
	})
}

// pearson correlates two item columns over their co-rated users. It reports
// false when fewer than minCoRaters users rated both items or when either
// side is constant over that set.
func pearson(a, b itemVector) (float64, bool) {
	var xs, ys []float64
	for p, q := 0, 0; p < len(a.users) && q < len(b.users); {
		switch {
		case a.users[p] < b.users[q]:
			p++
		case a.users[p] > b.users[q]:
			q++
		default:
			xs = append(xs, a.values[p])
			ys = append(ys, b.values[q])
			p++
			q++
		}
	}

	if len(xs) < minCoRaters || isConstant(xs) || isConstant(ys) {
		return 0, false
	}

	corr := stat.Correlation(xs, ys, nil)
	if math.IsNaN(corr) {
		return 0, false
	}
	return math.Max(-1, math.Min(1, corr)), true
}

func isConstant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}

// Get returns the similarity of two items. The diagonal is 1 for every item
// present in the source matrix; undefined pairs report false.
func (s *SimilarityMatrix) Get(a, b int) (float64, bool) {
	if a == b {
		_, ok := s.items[a]
		if ok {
			return 1, true
		}
		return 0, false
	}
	v, ok := s.index[a][b]
	return v, ok
}

// Lookup returns the item's similarity row, or NotFound when the item has
// no defined coefficient with any other item. The returned row is a copy.
func (s *SimilarityMatrix) Lookup(itemID int) SimilarityLookup {
	row, ok := s.rows[itemID]
	if !ok || len(row) == 0 {
		return NotFound{}
	}
	return Found{Row: append([]Neighbor(nil), row...)}
}

// HasItem reports whether the item was part of the source matrix.
func (s *SimilarityMatrix) HasItem(itemID int) bool {
	_, ok := s.items[itemID]
	return ok
}

// NumItems returns the number of items covered, including those with no
// defined neighbor.
func (s *SimilarityMatrix) NumItems() int { return len(s.items) }

// NumPairs returns the number of unordered item pairs with a defined
// coefficient.
func (s *SimilarityMatrix) NumPairs() int { return s.pairs }
