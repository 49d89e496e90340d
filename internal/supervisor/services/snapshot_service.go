// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/recommend"
)

// SnapshotRefresher is the engine surface the service drives.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) error
	Ready() bool
}

// SnapshotServiceConfig controls when snapshots are rebuilt.
type SnapshotServiceConfig struct {
	// RefreshOnStartup builds the first snapshot as soon as the service runs.
	RefreshOnStartup bool

	// Interval between scheduled rebuilds. Zero disables the schedule.
	Interval time.Duration

	// RetryInterval is used instead of Interval while no snapshot has been
	// published yet. Default: 30s.
	RetryInterval time.Duration
}

// SnapshotService keeps the engine's snapshot fresh.
type SnapshotService struct {
	engine SnapshotRefresher
	config SnapshotServiceConfig
	logger zerolog.Logger
	name   string
}

// NewSnapshotService creates the service.
//
//nolint:gocritic // zerolog.Logger is passed by value by convention
func NewSnapshotService(engine SnapshotRefresher, cfg SnapshotServiceConfig, logger zerolog.Logger) *SnapshotService {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 30 * time.Second
	}
	return &SnapshotService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "snapshot").Logger(),
		name:   "snapshot-service",
	}
}

// Serve implements suture.Service.
func (s *SnapshotService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("refresh_on_startup", s.config.RefreshOnStartup).
		Dur("interval", s.config.Interval).
		Msg("snapshot service starting")

	if s.config.RefreshOnStartup && !s.engine.Ready() {
		s.refresh(ctx, "startup")
	}

	timer := time.NewTimer(s.nextDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("snapshot service shutting down")
			return ctx.Err()
		case <-timer.C:
			if s.due() {
				s.refresh(ctx, "scheduled")
			}
			timer.Reset(s.nextDelay())
		}
	}
}

// due reports whether a timer tick should rebuild. With no schedule, ticks
// only serve to retry a missing first snapshot.
func (s *SnapshotService) due() bool {
	return s.config.Interval > 0 || (s.config.RefreshOnStartup && !s.engine.Ready())
}

func (s *SnapshotService) nextDelay() time.Duration {
	if !s.engine.Ready() && s.config.RefreshOnStartup {
		return s.config.RetryInterval
	}
	if s.config.Interval > 0 {
		return s.config.Interval
	}
	// Idle: nothing scheduled, wake rarely to keep the loop simple.
	return 24 * time.Hour
}

func (s *SnapshotService) refresh(ctx context.Context, trigger string) {
	start := time.Now()
	err := s.engine.Refresh(ctx)
	switch {
	case err == nil:
		s.logger.Info().Str("trigger", trigger).Dur("duration", time.Since(start)).Msg("snapshot refreshed")
	case errors.Is(err, recommend.ErrRefreshInProgress):
		s.logger.Debug().Str("trigger", trigger).Msg("refresh already running, skipped")
	case ctx.Err() != nil:
		// Shutting down.
	default:
		s.logger.Warn().Err(err).Str("trigger", trigger).Msg("snapshot refresh failed")
	}
}

func (s *SnapshotService) String() string {
	return s.name
}
