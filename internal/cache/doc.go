// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package cache provides a typed in-memory TTL cache used to memoize
// recommendation responses between snapshot refreshes.
//
//	c := cache.New[*recommend.Response](5*time.Minute, 10000)
//	defer c.Close()
//	key := cache.GenerateKey("rec", params)
//	if resp, ok := c.Get(key); ok {
//	    return resp
//	}
package cache
