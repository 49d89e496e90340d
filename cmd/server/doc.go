// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package main is the entry point for the CineRec server.

CineRec serves item-based collaborative filtering recommendations over
HTTP. Ratings and titles live in DuckDB; the engine periodically rebuilds
an immutable snapshot (rating matrix, Pearson item similarity, review
counts) and answers requests from it.

# Application Architecture

	RootSupervisor ("cinerec")
	├── DataSupervisor ("data-layer")
	│   └── Snapshot service (startup and scheduled refresh)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB, optionally seeded from CSV exports
 4. Recommendation engine behind a circuit-breaking store
 5. Supervisor Tree: Suture v4 process supervision
 6. HTTP Server: Chi router with middleware stack

# Configuration

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	HTTP_PORT=8080
	DUCKDB_PATH=/data/cinerec.duckdb
	RATINGS_CSV=movie_review.csv       # user_id,item_id,rating
	TITLES_CSV=movie_title.csv         # item_id,title
	IMPORT_ON_STARTUP=true
	RECOMMEND_RATING_THRESHOLD=4.0
	RECOMMEND_MIN_REVIEW_COUNT=10
	RECOMMEND_TOP_N=5
	RECOMMEND_REFRESH_INTERVAL=1h
	LOG_LEVEL=info
	LOG_FORMAT=json

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains within
HTTP_SHUTDOWN_TIMEOUT, services that failed to stop are reported, and the
database is checkpointed and closed.

# Usage

	IMPORT_ON_STARTUP=true DUCKDB_PATH=:memory: go run ./cmd/server
	curl localhost:8080/api/v1/recommendations/user/42
*/
package main
