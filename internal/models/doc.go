// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package models defines the JSON shapes exchanged over the HTTP API.
//
// Every endpoint wraps its payload in APIResponse. Domain results such as
// recommendations and similar items are serialized from the recommend
// package types; this package only adds request bodies and the shapes that
// have no domain counterpart.
package models
