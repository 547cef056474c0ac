// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/nudex-library/internal/logging"
	"github.com/tomtom215/nudex-library/internal/models"
)

// healthPingTimeout bounds the store round trip of one probe.
const healthPingTimeout = 2 * time.Second

// Health handles health check requests. The probe always answers 200; an
// unreachable store is reported as database "disconnected" and status
// "degraded".
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	database := "connected"
	backend := ""

	store := h.library.Store()
	if store == nil {
		status, database = "degraded", "disconnected"
	} else {
		backend = store.Backend()

		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Str("backend", backend).Msg("Health check: store ping failed")
			status, database = "degraded", "disconnected"
		}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.HealthStatus{
			Status:    status,
			Timestamp: time.Now().UTC(),
			Version:   Version,
			Database:  database,
			Backend:   backend,
			Uptime:    time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}
