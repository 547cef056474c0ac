// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/nudex-library/internal/library"
	"github.com/tomtom215/nudex-library/internal/logging"
	"github.com/tomtom215/nudex-library/internal/models"
)

// maxPlaylistNameLength matches the validate tag on CreatePlaylistRequest.Name.
const maxPlaylistNameLength = 200

// Playlists lists the caller's playlists in creation order.
func (h *Handler) Playlists(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	list, err := h.library.Playlists(r.Context(), owner)
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, playlistsResponse(list), start)
}

// CreatePlaylist creates an empty playlist for the caller.
func (h *Handler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req models.CreatePlaylistRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := h.library.CreatePlaylist(r.Context(), owner, req.Name, req.Description, req.IsPublic)
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("playlist_id", p.ID).Msg("Playlist created")

	respondOK(w, http.StatusCreated, models.PlaylistCreatedResponse{
		ID:       p.ID,
		Message:  "Playlist created successfully",
		Playlist: *p,
	}, start)
}

// Playlist returns one of the caller's playlists.
func (h *Handler) Playlist(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	p, err := h.library.Playlist(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, p, start)
}

// UpdatePlaylist applies a partial edit to one of the caller's playlists.
func (h *Handler) UpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req models.UpdatePlaylistRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.library.UpdatePlaylist(r.Context(), owner, chi.URLParam(r, "id"), library.PlaylistUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, models.MessageResponse{Message: "Playlist updated successfully"}, start)
}

// DeletePlaylist removes one of the caller's playlists and its share link.
func (h *Handler) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	if err := h.library.DeletePlaylist(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		respondLibraryError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, models.MessageResponse{Message: "Playlist deleted successfully"}, start)
}

// AddVideo appends a video to one of the caller's playlists. Duplicates are
// allowed.
func (h *Handler) AddVideo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req models.AddVideoRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.library.AddVideo(r.Context(), owner, chi.URLParam(r, "id"), req.VideoID); err != nil {
		respondLibraryError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, models.MessageResponse{Message: "Video added to playlist"}, start)
}

// RemoveVideo removes every entry of a video from one of the caller's playlists.
func (h *Handler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	err := h.library.RemoveVideo(r.Context(), owner, chi.URLParam(r, "id"), chi.URLParam(r, "videoID"))
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, models.MessageResponse{Message: "Video removed from playlist"}, start)
}

// SearchPlaylists matches ?q= against the caller's playlist names and
// descriptions.
func (h *Handler) SearchPlaylists(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, CodeValidation, "q is required", nil)
		return
	}

	list, err := h.library.SearchPlaylists(r.Context(), owner, query)
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, playlistsResponse(list), start)
}

// DuplicatePlaylist copies one of the caller's playlists. The copy is named
// by ?new_name= (legacy alias ?new_title=) or "<name> (Copy)".
func (h *Handler) DuplicatePlaylist(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	newName := strings.TrimSpace(q.Get("new_name"))
	if newName == "" {
		newName = strings.TrimSpace(q.Get("new_title"))
	}
	if len(newName) > maxPlaylistNameLength {
		respondError(w, http.StatusBadRequest, CodeValidation, "new_name must be at most 200 characters", nil)
		return
	}

	p, err := h.library.DuplicatePlaylist(r.Context(), owner, chi.URLParam(r, "id"), newName)
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}

	respondOK(w, http.StatusCreated, models.PlaylistCreatedResponse{
		ID:       p.ID,
		Message:  "Playlist duplicated successfully",
		Playlist: *p,
	}, start)
}

// SetVisibility makes one of the caller's playlists public or private.
// Query: is_public (required boolean).
func (h *Handler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	isPublic, err := getBoolParam(r, "is_public")
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}

	if err := h.library.SetVisibility(r.Context(), owner, chi.URLParam(r, "id"), isPublic); err != nil {
		respondLibraryError(w, r, err)
		return
	}

	visibility := "private"
	if isPublic {
		visibility = "public"
	}
	respondOK(w, http.StatusOK, models.MessageResponse{Message: "Playlist is now " + visibility}, start)
}
