// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Defaults are the parameters applied when a request does not
	// override them.
	Defaults Params `json:"defaults"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains response caching parameters.
	Cache CacheConfig `json:"cache"`

	// SimilarityWorkers bounds the goroutines used to compute the
	// similarity matrix. Zero uses runtime.NumCPU().
	SimilarityWorkers int `json:"similarity_workers"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// MaxTopN is the largest result size a request may ask for.
	// Default: 100.
	MaxTopN int `json:"max_top_n"`

	// MaxSimilar is the largest neighbor list Similar returns.
	// Default: 100.
	MaxSimilar int `json:"max_similar"`

	// RefreshTimeout bounds a full snapshot rebuild.
	// Default: 10m.
	RefreshTimeout time.Duration `json:"refresh_timeout"`
}

// CacheConfig contains response caching parameters.
type CacheConfig struct {
	// Enabled controls whether responses are cached.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries bounds the number of cached responses.
	// Default: 10000.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultParams(),
		Limits: LimitsConfig{
			MaxTopN:        100,
			MaxSimilar:     100,
			RefreshTimeout: 10 * time.Minute,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if err := c.Defaults.Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	if c.Limits.MaxTopN < 1 {
		return fmt.Errorf("limits.max_top_n must be positive, got %d", c.Limits.MaxTopN)
	}
	if c.Defaults.TopN > c.Limits.MaxTopN {
		return fmt.Errorf("defaults.top_n (%d) exceeds limits.max_top_n (%d)", c.Defaults.TopN, c.Limits.MaxTopN)
	}
	if c.Limits.MaxSimilar < 1 {
		return fmt.Errorf("limits.max_similar must be positive, got %d", c.Limits.MaxSimilar)
	}
	if c.Limits.RefreshTimeout <= 0 {
		return fmt.Errorf("limits.refresh_timeout must be positive, got %v", c.Limits.RefreshTimeout)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when caching is enabled, got %v", c.Cache.TTL)
	}
	if c.Cache.Enabled && c.Cache.MaxEntries < 1 {
		return fmt.Errorf("cache.max_entries must be positive when caching is enabled, got %d", c.Cache.MaxEntries)
	}
	if c.SimilarityWorkers < 0 {
		return fmt.Errorf("similarity_workers must be non-negative, got %d", c.SimilarityWorkers)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	clone := *c
	return &clone
}
