// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestIDWithLogging: request and correlation IDs in both the response
    header and the logging context
  - PrometheusMetrics: request count, latency and in-flight instrumentation
  - PerformanceMonitor: in-process latency percentiles per route, reported
    by the status endpoint

All middleware is chi-compatible (func(http.Handler) http.Handler). Metrics
are labelled with the chi route pattern, not the raw path, so
/api/v1/recommendations/user/{userID} is one series regardless of how many
users are queried.

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perfMon.Middleware)
*/
package middleware
