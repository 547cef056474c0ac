// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package api

import (
	"net/http"
	"time"
)

// maxWatchTimeDays bounds the watch-time window. The ledger holds at most
// a few months of activity for typical owners.
const maxWatchTimeDays = 365

// AnalyticsOverview summarizes the caller's library.
func (h *Handler) AnalyticsOverview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	overview, err := h.library.Overview(r.Context(), owner)
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, overview, start)
}

// AnalyticsWatchTime aggregates the caller's watches per UTC day.
// Query: days (default api.watch_time_default_days, 1..365).
func (h *Handler) AnalyticsWatchTime(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	days, err := getIntParam(r, "days", h.config.API.WatchTimeDefaultDays)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}
	if days > maxWatchTimeDays {
		respondError(w, http.StatusBadRequest, CodeValidation, "days must be at most 365", nil)
		return
	}

	report, err := h.library.WatchTime(r.Context(), owner, days)
	if err != nil {
		respondLibraryError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, report, start)
}
