// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/nudex-library/internal/models"
)

// RecommendPlaylists suggests public playlists of other owners.
// Query: limit (0 or absent uses the engine default, larger values are capped).
func (h *Handler) RecommendPlaylists(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	limit, err := getIntParam(r, "limit", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}

	result, err := h.recommender.Recommend(r.Context(), owner, limit)
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}

	respondOK(w, http.StatusOK, models.RecommendationsResponse{
		Recommendations: nonNilPlaylists(result.Playlists),
		Reason:          result.Reason,
	}, start)
}
