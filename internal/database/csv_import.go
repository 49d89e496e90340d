// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/metrics"
)

// csvImportTimeout bounds a single file import when the caller has no
// deadline. Large rating exports take longer than the default query timeout.
const csvImportTimeout = 10 * time.Minute

// ImportRatingsCSV loads a ratings export with header user_id,item_id,rating.
// Extra columns are ignored. When replace is true the existing ratings are
// removed in the same transaction.
func (db *DB) ImportRatingsCSV(ctx context.Context, path string, replace bool) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO ratings (user_id, item_id, rating)
		SELECT CAST(user_id AS INTEGER), CAST(item_id AS INTEGER), CAST(rating AS DOUBLE)
		FROM read_csv_auto(%s, header = true)`, quoteLiteral(path))
	return db.importCSV(ctx, "ratings", path, query, replace)
}

// ImportTitlesCSV loads a titles export with header item_id,title.
func (db *DB) ImportTitlesCSV(ctx context.Context, path string, replace bool) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO titles (item_id, title)
		SELECT CAST(item_id AS INTEGER), CAST(title AS VARCHAR)
		FROM read_csv_auto(%s, header = true, all_varchar = true)`, quoteLiteral(path))
	return db.importCSV(ctx, "titles", path, query, replace)
}

func (db *DB) importCSV(ctx context.Context, table, path, query string, replace bool) (inserted int64, err error) {
	if path == "" {
		return 0, errors.New("csv path is required")
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return 0, fmt.Errorf("csv file %s: %w", path, statErr)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, csvImportTimeout)
		defer cancel()
	}

	start := time.Now()
	defer func() { metrics.RecordDBQuery("import", table, time.Since(start), err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().Err(rbErr).AnErr("original_error", err).Str("table", table).Msg("Failed to rollback import")
			}
		}
	}()

	if replace {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return 0, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	res, err := tx.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to import %s from %s: %w", table, path, err)
	}
	inserted, err = res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read import row count: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit %s import: %w", table, err)
	}

	logging.Info().
		Str("table", table).
		Str("path", path).
		Int64("rows", inserted).
		Bool("replace", replace).
		Dur("duration", time.Since(start)).
		Msg("CSV import complete")
	return inserted, nil
}

// quoteLiteral renders s as a SQL string literal. read_csv_auto does not
// accept a bound parameter for its path.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
