// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package database stores raw ratings and titles in DuckDB and serves them to
the recommendation engine.

Tables:
  - ratings(seq, user_id, item_id, rating): one row per rating record. seq
    comes from a sequence and preserves insertion order, which decides
    "last seen wins" for duplicate (user, item) pairs downstream.
  - titles(seq, item_id, title): one row per title record.

No constraints reject duplicates; both tables mirror the CSV exports they
are imported from.

CSV import uses DuckDB's read_csv_auto, so files are parsed inside the
database without passing rows through Go:

	db, err := database.New(&cfg.Database)
	n, err := db.ImportRatingsCSV(ctx, "movie_review.csv", false)

DB implements recommend.RatingStore. BreakerStore wraps any RatingStore with
a circuit breaker so a failing database rejects reads quickly instead of
stacking up timeouts.
*/
package database
