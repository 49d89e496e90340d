// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cinerec/internal/middleware"
	"github.com/tomtom215/cinerec/internal/models"
)

// Router assembles handlers and middleware.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi returns the HTTP handler with every route registered.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.handler.perfMon.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, &models.APIError{Code: models.ErrCodeNotFound, Message: "Route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, &models.APIError{Code: models.ErrCodeMethodNotAllowed, Message: "Method not allowed"})
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/user/{userID}", router.handler.GetRecommendations)
			r.Get("/status", router.handler.GetStatus)
			r.With(router.chiMiddleware.RateLimitRefresh()).Post("/refresh", router.handler.PostRefresh)
		})
		r.Get("/items/{itemID}/similar", router.handler.GetSimilarItems)
		r.Get("/users/{userID}/ratings", router.handler.GetUserRatings)
		r.Post("/ratings", router.handler.PostRatings)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
