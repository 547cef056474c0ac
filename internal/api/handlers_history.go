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

// History returns the caller's most recent watches, newest first.
// Query: limit (default api.history_default_limit, must be positive).
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	limit, err := getIntParam(r, "limit", h.config.API.HistoryDefaultLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}
	if limit <= 0 {
		respondError(w, http.StatusBadRequest, CodeValidation, "limit must be positive", nil)
		return
	}

	items, err := h.library.History(r.Context(), owner, limit)
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}
	if items == nil {
		items = []models.HistoryEntry{}
	}

	respondOK(w, http.StatusOK, models.HistoryResponse{
		OwnerID: owner,
		Items:   items,
		Count:   len(items),
	}, start)
}

// RecordWatch moves a video to the front of the caller's history.
func (h *Handler) RecordWatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req models.HistoryRecordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	entry, err := h.library.RecordWatch(r.Context(), owner, req.VideoID, req.Progress)
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}

	respondOK(w, http.StatusOK, models.HistoryRecordResponse{
		Message: "Watch recorded",
		Entry:   entry,
	}, start)
}
