// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/cinerec/internal/config"
)

// testDBSemaphore serializes DuckDB tests. Concurrent CGO databases in one
// test binary exhaust memory on small CI runners.
var testDBSemaphore = make(chan struct{}, 1)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	db, err := New(&config.DatabaseConfig{
		Path:      MemoryPath,
		MaxMemory: "1GB",
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

func TestNew(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	counts, err := db.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	if counts != (Counts{}) {
		t.Errorf("Counts() on fresh database = %+v, want zero", counts)
	}
}

func TestNewRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := New(nil); err == nil {
		t.Error("New(nil) expected error")
	}
	if _, err := New(&config.DatabaseConfig{}); err == nil {
		t.Error("New(empty path) expected error")
	}
}

func TestNewFileBacked(t *testing.T) {
	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	path := filepath.Join(t.TempDir(), "nested", "cinerec.duckdb")
	db, err := New(&config.DatabaseConfig{Path: path, MaxMemory: "256MB", Threads: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
	if err := db.Checkpoint(context.Background()); err != nil {
		t.Errorf("Checkpoint() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := db.Ping(context.Background()); err != ErrClosed {
		t.Errorf("Ping() after Close = %v, want ErrClosed", err)
	}
}

func TestConnectionString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want []string
		not  []string
	}{
		{
			name: "explicit threads and memory",
			cfg:  config.DatabaseConfig{Path: "/data/x.duckdb", Threads: 3, MaxMemory: "2GB"},
			want: []string{"/data/x.duckdb?", "threads=3", "max_memory=2GB", "autoload_known_extensions=false"},
		},
		{
			name: "no memory limit",
			cfg:  config.DatabaseConfig{Path: MemoryPath, Threads: 1},
			want: []string{":memory:?", "threads=1"},
			not:  []string{"max_memory"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dsn := connectionString(&tt.cfg)
			for _, w := range tt.want {
				if !strings.Contains(dsn, w) {
					t.Errorf("connectionString() = %q, missing %q", dsn, w)
				}
			}
			for _, n := range tt.not {
				if strings.Contains(dsn, n) {
					t.Errorf("connectionString() = %q, should not contain %q", dsn, n)
				}
			}
		})
	}
}

func TestEnsureContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := ensureContext(context.Background())
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Error("ensureContext() should add a deadline")
	}

	parent, parentCancel := context.WithTimeout(context.Background(), time.Second)
	defer parentCancel()
	got, cancel2 := ensureContext(parent)
	defer cancel2()
	if got != parent {
		t.Error("ensureContext() should keep a context that already has a deadline")
	}
}
