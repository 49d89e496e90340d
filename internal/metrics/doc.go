// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package metrics provides Prometheus instrumentation for CineRec.

Collectors are registered with the default registry through promauto and
exposed at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

HTTP:
  - cinerec_api_requests_total{method,endpoint,status}
  - cinerec_api_request_duration_seconds{method,endpoint}
  - cinerec_api_active_requests

DuckDB:
  - cinerec_db_query_duration_seconds{operation,table}
  - cinerec_db_query_errors_total{operation,table}

Circuit breaker:
  - cinerec_circuit_breaker_state{name} (0 closed, 1 half-open, 2 open)
  - cinerec_circuit_breaker_requests_total{name,result}
  - cinerec_circuit_breaker_consecutive_failures{name}
  - cinerec_circuit_breaker_transitions_total{name,from,to}

Recommendations:
  - cinerec_recommend_requests_total{outcome}
  - cinerec_recommend_duration_seconds
  - cinerec_recommend_fallback_seeds_total
  - cinerec_recommend_cache_hits_total, cinerec_recommend_cache_misses_total

Snapshots:
  - cinerec_snapshot_build_duration_seconds{stage}
  - cinerec_snapshot_refresh_total{result}
  - cinerec_snapshot_version
  - cinerec_snapshot_users, cinerec_snapshot_items, cinerec_snapshot_ratings
  - cinerec_snapshot_similarity_pairs
*/
package metrics
