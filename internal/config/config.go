// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	// Path is the DuckDB file; ":memory:" keeps everything in RAM.
	Path      string `koanf:"path" validate:"required"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads" validate:"gte=0"` // 0 = DuckDB default
}

// DataConfig controls CSV import of the rating and title exports.
type DataConfig struct {
	// RatingsCSV has the header user_id,item_id,rating.
	RatingsCSV string `koanf:"ratings_csv"`

	// TitlesCSV has the header item_id,title.
	TitlesCSV string `koanf:"titles_csv"`

	ImportOnStartup bool `koanf:"import_on_startup"`

	// ReplaceOnImport truncates existing rows before importing.
	ReplaceOnImport bool `koanf:"replace_on_import"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// RatingThreshold is the minimum rating for a seed item.
	// Default: 4.0
	RatingThreshold float64 `koanf:"rating_threshold"`

	// MinReviewCount is the minimum number of ratings a candidate needs.
	// Default: 10
	MinReviewCount int `koanf:"min_review_count" validate:"gte=0"`

	// TopN is the default result size.
	// Default: 5
	TopN int `koanf:"top_n" validate:"min=1"`

	// MaxTopN caps the result size a client may request.
	// Default: 100
	MaxTopN int `koanf:"max_top_n" validate:"min=1"`

	// MaxSimilar caps the neighbor list of the similar-items endpoint.
	// Default: 100
	MaxSimilar int `koanf:"max_similar" validate:"min=1"`

	// RefreshInterval is how often the snapshot is rebuilt. Zero disables
	// periodic refresh.
	// Default: 1h
	RefreshInterval time.Duration `koanf:"refresh_interval" validate:"gte=0"`

	// RefreshOnStartup builds the first snapshot when the service starts.
	// Default: true
	RefreshOnStartup bool `koanf:"refresh_on_startup"`

	// RefreshTimeout bounds one snapshot rebuild.
	// Default: 10m
	RefreshTimeout time.Duration `koanf:"refresh_timeout" validate:"gt=0"`

	// SimilarityWorkers bounds similarity goroutines; 0 uses NumCPU.
	SimilarityWorkers int `koanf:"similarity_workers" validate:"gte=0"`

	CacheEnabled    bool          `koanf:"cache_enabled"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries int           `koanf:"cache_max_entries"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level" validate:"oneof=trace debug info warn error"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, an optional config file and the
// environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
