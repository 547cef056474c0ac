// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/nudex-library/internal/logging"
	"github.com/tomtom215/nudex-library/internal/models"
)

// ExportData returns the caller's favorites, playlists and history.
func (h *Handler) ExportData(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	export, err := h.library.Export(r.Context(), owner)
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="library-export.json"`)
	respondOK(w, http.StatusOK, export, start)
}

// ImportPlaylist creates a private playlist from an exported or hand-written
// payload.
func (h *Handler) ImportPlaylist(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req models.ImportPlaylistRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := h.library.ImportPlaylist(r.Context(), owner, &req)
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("playlist_id", p.ID).
		Int("videos", len(p.Videos)).
		Msg("Playlist imported")

	respondOK(w, http.StatusCreated, models.ImportPlaylistResponse{
		PlaylistID: p.ID,
		Name:       p.Name,
		VideoCount: len(p.Videos),
	}, start)
}
