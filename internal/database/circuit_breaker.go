// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/metrics"
	"github.com/tomtom215/cinerec/internal/recommend"
)

// BreakerSettings tunes BreakerStore.
type BreakerSettings struct {
	Name string
	// MinRequests is the sample size required before the breaker may trip.
	MinRequests uint32
	// FailureRatio opens the breaker once reached.
	FailureRatio float64
	// Interval resets counts while closed.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration
	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32
}

// DefaultBreakerSettings opens after a 60% failure rate over at least 10
// requests and probes again after two minutes.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:         "duckdb-store",
		MinRequests:  10,
		FailureRatio: 0.6,
		Interval:     time.Minute,
		Timeout:      2 * time.Minute,
		MaxRequests:  3,
	}
}

// BreakerStore wraps a RatingStore with a circuit breaker. While open,
// reads fail immediately with gobreaker.ErrOpenState.
type BreakerStore struct {
	store recommend.RatingStore
	cb    *gobreaker.CircuitBreaker[any]
	name  string
}

// NewBreakerStore wraps store.
func NewBreakerStore(store recommend.RatingStore, s BreakerSettings) *BreakerStore {
	if s.Name == "" {
		s.Name = DefaultBreakerSettings().Name
	}

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= s.FailureRatio {
				logging.Warn().
					Str("breaker", s.Name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
				return true
			}
			return false
		},
		// A caller giving up is not a database failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerStore{store: store, cb: cb, name: s.Name}
}

// State reports the breaker state as closed, half-open or open.
func (b *BreakerStore) State() string {
	return stateToString(b.cb.State())
}

// Ratings implements recommend.RatingStore.
func (b *BreakerStore) Ratings(ctx context.Context) ([]recommend.Rating, error) {
	return run(b, func() ([]recommend.Rating, error) { return b.store.Ratings(ctx) })
}

// Titles implements recommend.RatingStore.
func (b *BreakerStore) Titles(ctx context.Context) ([]recommend.Title, error) {
	return run(b, func() ([]recommend.Title, error) { return b.store.Titles(ctx) })
}

// UserRatings implements recommend.RatingStore.
func (b *BreakerStore) UserRatings(ctx context.Context, userID int) ([]recommend.Rating, error) {
	return run(b, func() ([]recommend.Rating, error) { return b.store.UserRatings(ctx, userID) })
}

// ReviewCounts implements recommend.RatingStore.
func (b *BreakerStore) ReviewCounts(ctx context.Context) (map[int]int, error) {
	return run(b, func() (map[int]int, error) { return b.store.ReviewCounts(ctx) })
}

func run[T any](b *BreakerStore, fn func() (T, error)) (T, error) {
	var zero T
	result, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Err(err).Str("breaker", b.name).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
		}
		return zero, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)

	typed, ok := result.(T)
	if !ok {
		return zero, errors.New("circuit breaker: unexpected result type")
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
