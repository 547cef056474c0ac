// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package api

import (
	"context"
	"time"

	"github.com/tomtom215/nudex-library/internal/config"
	"github.com/tomtom215/nudex-library/internal/library"
	"github.com/tomtom215/nudex-library/internal/models"
	"github.com/tomtom215/nudex-library/internal/recommend"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Recommender produces playlist recommendations. *recommend.Engine
// satisfies it.
type Recommender interface {
	Recommend(ctx context.Context, owner string, limit int) (*recommend.Result, error)
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files by resource:
//   - handlers_health.go: health probe
//   - handlers_favorites.go: favorites
//   - handlers_history.go: watch history
//   - handlers_playlists.go: playlist CRUD, membership, search, duplicate, visibility
//   - handlers_share.go: public listing and share links
//   - handlers_analytics.go: overview and watch-time
//   - handlers_transfer.go: export and import
//   - handlers_recommend.go: recommendations
type Handler struct {
	library     *library.Service
	recommender Recommender
	config      *config.Config
	startTime   time.Time
}

// NewHandler creates a new API handler. cfg may be nil, in which case
// listing defaults from config.DefaultConfig apply.
//
// Example:
//
//	svc := library.NewService(store, library.OptionsFromConfig(cfg))
//	engine, _ := recommend.NewEngine(store, recommend.DefaultConfig(), logging.Logger())
//	router := api.NewRouter(api.NewHandler(svc, engine, cfg), cfg)
//	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())
func NewHandler(svc *library.Service, recommender Recommender, cfg *config.Config) *Handler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Handler{
		library:     svc,
		recommender: recommender,
		config:      cfg,
		startTime:   time.Now(),
	}
}

// playlistsResponse wraps a listing, keeping empty listings as [].
func playlistsResponse(list []models.Playlist) models.PlaylistsResponse {
	list = nonNilPlaylists(list)
	return models.PlaylistsResponse{Playlists: list, Count: len(list)}
}
