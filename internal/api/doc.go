// CineRec - Item-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package api exposes the recommendation engine over HTTP using the chi router.

Endpoints (all under /api/v1):

	GET  /health, /health/live, /health/ready
	GET  /recommendations/user/{userID}?top_n=&threshold=&min_reviews=
	GET  /recommendations/status
	POST /recommendations/refresh
	GET  /items/{itemID}/similar?limit=
	GET  /users/{userID}/ratings
	POST /ratings

/metrics serves the Prometheus exposition outside the versioned prefix.

Every JSON response uses the models.APIResponse envelope. Errors are mapped
to HTTP status and error code in one place (writeError), so handlers only
return the error they got:

	resp, err := h.engine.Recommend(ctx, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

Rate limiting uses go-chi/httprate keyed by client IP. The refresh endpoint
has its own, stricter limiter since each call rebuilds the similarity matrix.
*/
package api
