// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package config

import (
	"fmt"
	"math"

	"github.com/tomtom215/cinerec/internal/validation"
)

// Validate checks struct constraints and the cross-field rules that tags
// cannot express.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateRecommend()
}

func (c *Config) validateServer() error {
	if !c.Server.RateLimitDisabled && c.Server.RateLimitReqs > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if math.IsNaN(r.RatingThreshold) || math.IsInf(r.RatingThreshold, 0) {
		return fmt.Errorf("RECOMMEND_RATING_THRESHOLD must be a finite number")
	}
	if r.TopN > r.MaxTopN {
		return fmt.Errorf("RECOMMEND_TOP_N (%d) must not exceed RECOMMEND_MAX_TOP_N (%d)", r.TopN, r.MaxTopN)
	}
	if r.CacheEnabled && r.CacheTTL <= 0 {
		return fmt.Errorf("RECOMMEND_CACHE_TTL must be positive when caching is enabled")
	}
	if r.CacheEnabled && r.CacheMaxEntries < 1 {
		return fmt.Errorf("RECOMMEND_CACHE_MAX_ENTRIES must be positive when caching is enabled")
	}
	return nil
}

// ShouldWarnAboutCORS reports whether CORS allows any origin.
func (c *Config) ShouldWarnAboutCORS() bool {
	for _, origin := range c.Server.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// HasImportSources reports whether at least one CSV path is configured.
func (c *Config) HasImportSources() bool {
	return c.Data.RatingsCSV != "" || c.Data.TitlesCSV != ""
}
