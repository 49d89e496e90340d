// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/metrics"
	"github.com/tomtom215/cinerec/internal/recommend"
)

// Counts summarizes table sizes.
type Counts struct {
	Ratings int64 `json:"ratings"`
	Titles  int64 `json:"titles"`
	Users   int64 `json:"users"`
	Items   int64 `json:"items"`
}

// Ratings returns every rating record in insertion order.
func (db *DB) Ratings(ctx context.Context) (result []recommend.Rating, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "ratings", time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx, `SELECT user_id, item_id, rating FROM ratings ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer closeWithLog(rows, "rows")

	return scanRatings(rows)
}

// UserRatings returns one user's rating records in insertion order.
func (db *DB) UserRatings(ctx context.Context, userID int) (result []recommend.Rating, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "ratings", time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_id, item_id, rating FROM ratings WHERE user_id = ? ORDER BY seq`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user ratings: %w", err)
	}
	defer closeWithLog(rows, "rows")

	return scanRatings(rows)
}

func scanRatings(rows *sql.Rows) ([]recommend.Rating, error) {
	ratings := make([]recommend.Rating, 0, 1024)
	for rows.Next() {
		var r recommend.Rating
		if err := rows.Scan(&r.UserID, &r.ItemID, &r.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}
	return ratings, nil
}

// Titles returns every title record in insertion order.
func (db *DB) Titles(ctx context.Context) (result []recommend.Title, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "titles", time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx, `SELECT item_id, title FROM titles ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query titles: %w", err)
	}
	defer closeWithLog(rows, "rows")

	titles := make([]recommend.Title, 0, 256)
	for rows.Next() {
		var t recommend.Title
		if err := rows.Scan(&t.ItemID, &t.Title); err != nil {
			return nil, fmt.Errorf("failed to scan title: %w", err)
		}
		titles = append(titles, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating titles: %w", err)
	}
	return titles, nil
}

// ReviewCounts returns the number of rating records per item.
func (db *DB) ReviewCounts(ctx context.Context) (result map[int]int, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("aggregate", "ratings", time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx, `SELECT item_id, COUNT(*) FROM ratings GROUP BY item_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query review counts: %w", err)
	}
	defer closeWithLog(rows, "rows")

	counts := make(map[int]int)
	for rows.Next() {
		var itemID int
		var n int64
		if err := rows.Scan(&itemID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan review count: %w", err)
		}
		counts[itemID] = int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating review counts: %w", err)
	}
	return counts, nil
}

// Counts returns table sizes. The status endpoint reports them.
func (db *DB) Counts(ctx context.Context) (Counts, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var c Counts
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM ratings),
			(SELECT COUNT(*) FROM titles),
			(SELECT COUNT(DISTINCT user_id) FROM ratings),
			(SELECT COUNT(DISTINCT item_id) FROM ratings)`).
		Scan(&c.Ratings, &c.Titles, &c.Users, &c.Items)
	if err != nil {
		return Counts{}, fmt.Errorf("failed to count rows: %w", err)
	}
	return c, nil
}

// InsertRatings appends rating records in a single transaction.
func (db *DB) InsertRatings(ctx context.Context, ratings []recommend.Rating) (int, error) {
	if len(ratings) == 0 {
		return 0, nil
	}
	return db.insertBatch(ctx, "ratings",
		`INSERT INTO ratings (user_id, item_id, rating) VALUES (?, ?, ?)`,
		len(ratings), func(stmt *sql.Stmt, i int) error {
			r := ratings[i]
			_, err := stmt.ExecContext(ctx, r.UserID, r.ItemID, r.Rating)
			return err
		})
}

// InsertTitles appends title records in a single transaction.
func (db *DB) InsertTitles(ctx context.Context, titles []recommend.Title) (int, error) {
	if len(titles) == 0 {
		return 0, nil
	}
	return db.insertBatch(ctx, "titles",
		`INSERT INTO titles (item_id, title) VALUES (?, ?)`,
		len(titles), func(stmt *sql.Stmt, i int) error {
			t := titles[i]
			_, err := stmt.ExecContext(ctx, t.ItemID, t.Title)
			return err
		})
}

func (db *DB) insertBatch(ctx context.Context, table, query string, n int, exec func(*sql.Stmt, int) error) (inserted int, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", table, time.Since(start), err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().Err(rbErr).AnErr("original_error", err).Str("table", table).Msg("Failed to rollback transaction")
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare %s insert: %w", table, err)
	}
	defer closeWithLog(stmt, "statement")

	for i := 0; i < n; i++ {
		if err = exec(stmt, i); err != nil {
			return 0, fmt.Errorf("failed to insert %s row %d: %w", table, i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit %s insert: %w", table, err)
	}
	return n, nil
}
