// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"fmt"
	"time"
)

var schemaQueries = []string{
	`CREATE SEQUENCE IF NOT EXISTS ratings_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS titles_seq START 1`,
	`CREATE TABLE IF NOT EXISTS ratings (
		seq BIGINT NOT NULL DEFAULT nextval('ratings_seq'),
		user_id INTEGER NOT NULL,
		item_id INTEGER NOT NULL,
		rating DOUBLE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS titles (
		seq BIGINT NOT NULL DEFAULT nextval('titles_seq'),
		item_id INTEGER NOT NULL,
		title TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_titles_item ON titles (item_id)`,
}

func (db *DB) createSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for _, q := range schemaQueries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to execute schema query %q: %w", firstLine(q), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
