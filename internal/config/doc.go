// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package config loads CineRec configuration.

Configuration is layered with koanf, later layers overriding earlier ones:

 1. Struct defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml,
    /etc/cinerec/config.yaml or /etc/cinerec/config.yml
 3. Environment variables listed in envTransformFunc

Unmapped environment variables are ignored.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_IDLE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - CORS_ORIGINS: comma-separated
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Database:
  - DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS

Data import:
  - RATINGS_CSV, TITLES_CSV
  - IMPORT_ON_STARTUP, IMPORT_REPLACE

Recommendation:
  - RECOMMEND_RATING_THRESHOLD (4.0), RECOMMEND_MIN_REVIEW_COUNT (10),
    RECOMMEND_TOP_N (5), RECOMMEND_MAX_TOP_N, RECOMMEND_MAX_SIMILAR
  - RECOMMEND_REFRESH_INTERVAL, RECOMMEND_REFRESH_ON_STARTUP,
    RECOMMEND_REFRESH_TIMEOUT, RECOMMEND_SIMILARITY_WORKERS
  - RECOMMEND_CACHE_ENABLED, RECOMMEND_CACHE_TTL, RECOMMEND_CACHE_MAX_ENTRIES

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config
