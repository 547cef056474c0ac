// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/nudex-library/internal/models"
)

// PublicPlaylists pages through every owner's public playlists.
// Query: limit (default api.default_page_size, capped at api.max_page_size), skip.
func (h *Handler) PublicPlaylists(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := getIntParam(r, "limit", h.config.API.DefaultPageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}
	skip, err := getIntParam(r, "skip", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}
	if maxSize := h.config.API.MaxPageSize; maxSize > 0 && limit > maxSize {
		limit = maxSize
	}

	list, err := h.library.PublicPlaylists(r.Context(), limit, skip)
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, playlistsResponse(list), start)
}

// GenerateShareLink issues a new share token for one of the caller's
// playlists, invalidating the previous one.
func (h *Handler) GenerateShareLink(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	link, token, err := h.library.GenerateShareLink(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, models.ShareLinkResponse{
		ShareLink:  link,
		ShareToken: token,
	}, start)
}

// SharedPlaylist resolves a share token. No identity is required and the
// response reveals neither owner nor token.
func (h *Handler) SharedPlaylist(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	p, err := h.library.ResolveShare(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, p, start)
}
