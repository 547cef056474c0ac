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

// Favorites returns the caller's favorite video ids.
func (h *Handler) Favorites(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	ids, err := h.library.Favorites(r.Context(), owner)
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}

	respondOK(w, http.StatusOK, models.FavoritesResponse{
		OwnerID:  owner,
		VideoIDs: ids,
		Count:    len(ids),
	}, start)
}

// ToggleFavorite adds or removes one video from the caller's favorites.
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req models.FavoriteToggleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	performed, total, err := h.library.ToggleFavorite(r.Context(), owner, req.VideoID, req.Action)
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}

	respondOK(w, http.StatusOK, models.FavoriteToggleResponse{
		Action:         performed,
		VideoID:        req.VideoID,
		TotalFavorites: total,
	}, start)
}
