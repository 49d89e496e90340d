// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/database"
	"github.com/tomtom215/cinerec/internal/recommend"
	"github.com/tomtom215/cinerec/internal/supervisor"
	"github.com/tomtom215/cinerec/internal/supervisor/services"
)

// RecommendComponents holds the recommendation components.
type RecommendComponents struct {
	Engine  *recommend.Engine
	Store   *database.BreakerStore
	Service *services.SnapshotService
}

// initRecommend builds the engine over a circuit-breaking view of db and
// registers its snapshot service with the data layer.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, db *database.DB, logger zerolog.Logger, tree *supervisor.SupervisorTree) (*RecommendComponents, error) {
	logger.Info().
		Float64("rating_threshold", cfg.Recommend.RatingThreshold).
		Int("min_review_count", cfg.Recommend.MinReviewCount).
		Int("top_n", cfg.Recommend.TopN).
		Dur("refresh_interval", cfg.Recommend.RefreshInterval).
		Bool("refresh_on_startup", cfg.Recommend.RefreshOnStartup).
		Msg("initializing recommendation engine")

	store := database.NewBreakerStore(db, database.DefaultBreakerSettings())

	engine, err := recommend.NewEngine(buildEngineConfig(cfg), store, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}

	service := services.NewSnapshotService(engine, buildSnapshotServiceConfig(cfg), logger)
	tree.AddDataService(service)
	logger.Info().Msg("snapshot service added to supervisor tree")

	return &RecommendComponents{Engine: engine, Store: store, Service: service}, nil
}

// buildEngineConfig maps application config to engine config.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	ec := recommend.DefaultConfig()
	r := cfg.Recommend

	ec.Defaults = recommend.Params{
		RatingThreshold: r.RatingThreshold,
		MinReviewCount:  r.MinReviewCount,
		TopN:            r.TopN,
	}
	if r.MaxTopN > 0 {
		ec.Limits.MaxTopN = r.MaxTopN
	}
	if r.MaxSimilar > 0 {
		ec.Limits.MaxSimilar = r.MaxSimilar
	}
	if r.RefreshTimeout > 0 {
		ec.Limits.RefreshTimeout = r.RefreshTimeout
	}
	ec.SimilarityWorkers = r.SimilarityWorkers

	ec.Cache.Enabled = r.CacheEnabled
	if r.CacheTTL > 0 {
		ec.Cache.TTL = r.CacheTTL
	}
	if r.CacheMaxEntries > 0 {
		ec.Cache.MaxEntries = r.CacheMaxEntries
	}
	return ec
}

func buildSnapshotServiceConfig(cfg *config.Config) services.SnapshotServiceConfig {
	return services.SnapshotServiceConfig{
		RefreshOnStartup: cfg.Recommend.RefreshOnStartup,
		Interval:         cfg.Recommend.RefreshInterval,
	}
}

// importCSV loads the configured CSV exports into db. Titles go first so
// a failed ratings import still leaves a usable catalog.
func importCSV(ctx context.Context, cfg *config.Config, db *database.DB, logger zerolog.Logger) error {
	if !cfg.Data.ImportOnStartup || !cfg.HasImportSources() {
		return nil
	}
	replace := cfg.Data.ReplaceOnImport

	if cfg.Data.TitlesCSV != "" {
		n, err := db.ImportTitlesCSV(ctx, cfg.Data.TitlesCSV, replace)
		if err != nil {
			return fmt.Errorf("import titles: %w", err)
		}
		logger.Info().Str("path", cfg.Data.TitlesCSV).Int64("rows", n).Msg("titles imported")
	}
	if cfg.Data.RatingsCSV != "" {
		n, err := db.ImportRatingsCSV(ctx, cfg.Data.RatingsCSV, replace)
		if err != nil {
			return fmt.Errorf("import ratings: %w", err)
		}
		logger.Info().Str("path", cfg.Data.RatingsCSV).Int64("rows", n).Msg("ratings imported")
	}
	return nil
}
