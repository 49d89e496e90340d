// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerec_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinerec_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinerec_api_active_requests",
			Help: "Number of in-flight API requests",
		},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinerec_db_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerec_db_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinerec_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerec_circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker by result",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinerec_circuit_breaker_consecutive_failures",
			Help: "Current consecutive failures seen by the circuit breaker",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerec_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerec_recommend_requests_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"}, // ok, empty, unknown_user, invalid, not_ready, error
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinerec_recommend_duration_seconds",
			Help:    "Time spent producing a recommendation",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	RecommendFallbackSeeds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinerec_recommend_fallback_seeds_total",
			Help: "Seed items that had no similarity row and used the popularity fallback",
		},
	)

	RecommendCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinerec_recommend_cache_hits_total",
			Help: "Recommendation responses served from cache",
		},
	)

	RecommendCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinerec_recommend_cache_misses_total",
			Help: "Recommendation responses computed on a cache miss",
		},
	)

	// Snapshot Metrics
	SnapshotBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinerec_snapshot_build_duration_seconds",
			Help:    "Duration of snapshot build stages",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"stage"}, // load, matrix, similarity
	)

	SnapshotRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerec_snapshot_refresh_total",
			Help: "Snapshot refresh attempts by result",
		},
		[]string{"result"}, // success, failure, skipped
	)

	SnapshotVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinerec_snapshot_version",
			Help: "Version of the currently published snapshot",
		},
	)

	SnapshotUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinerec_snapshot_users",
			Help: "Users in the current snapshot",
		},
	)

	SnapshotItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinerec_snapshot_items",
			Help: "Items in the current snapshot",
		},
	)

	SnapshotRatings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinerec_snapshot_ratings",
			Help: "Raw rating records in the current snapshot",
		},
	)

	SnapshotSimilarityPairs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinerec_snapshot_similarity_pairs",
			Help: "Item pairs with a defined similarity in the current snapshot",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordRecommendation records the outcome of a recommendation request.
func RecordRecommendation(outcome string, duration time.Duration, fallbackSeeds int) {
	RecommendRequests.WithLabelValues(outcome).Inc()
	RecommendDuration.Observe(duration.Seconds())
	if fallbackSeeds > 0 {
		RecommendFallbackSeeds.Add(float64(fallbackSeeds))
	}
}

// RecordRecommendCache records a response cache lookup.
func RecordRecommendCache(hit bool) {
	if hit {
		RecommendCacheHits.Inc()
	} else {
		RecommendCacheMisses.Inc()
	}
}

// RecordSnapshotStage records the duration of one snapshot build stage.
func RecordSnapshotStage(stage string, duration time.Duration) {
	SnapshotBuildDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordSnapshotRefresh records a refresh attempt.
func RecordSnapshotRefresh(result string) {
	SnapshotRefreshTotal.WithLabelValues(result).Inc()
}

// UpdateSnapshotGauges publishes the dimensions of a new snapshot.
func UpdateSnapshotGauges(version int64, users, items, ratings, pairs int) {
	SnapshotVersion.Set(float64(version))
	SnapshotUsers.Set(float64(users))
	SnapshotItems.Set(float64(items))
	SnapshotRatings.Set(float64(ratings))
	SnapshotSimilarityPairs.Set(float64(pairs))
}
