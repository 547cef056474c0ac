// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

// Package recommend suggests public playlists to an owner.
//
// An owner without favorites gets the most recently updated public playlists
// of other owners ("popular_playlists"). Otherwise candidates are public
// playlists of other owners holding at least one favorite video; each is
// scored by how many distinct favorites it holds and the best are returned
// ("similar_interests"). Scores never leave the package and returned
// playlists carry neither owner nor share token.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nudex-library/internal/database"
	"github.com/tomtom215/nudex-library/internal/library"
	"github.com/tomtom215/nudex-library/internal/metrics"
	"github.com/tomtom215/nudex-library/internal/models"
)

// Recommendation reasons.
const (
	ReasonPopular = "popular_playlists"
	ReasonSimilar = "similar_interests"
)

// Source is the read side of the store the engine needs. database.Store
// satisfies it.
type Source interface {
	FindFavorites(ctx context.Context, owner string) (*models.FavoriteSet, error)
	FindPlaylists(ctx context.Context, filter database.PlaylistFilter, opts database.FindOptions) ([]models.Playlist, error)
}

// Result is a recommendation response.
type Result struct {
	Playlists []models.Playlist
	Reason    string
}

// scoredPlaylist pairs a candidate with its similarity score.
type scoredPlaylist struct {
	playlist models.Playlist
	score    int
}

// Engine produces playlist recommendations. It holds no per-request state
// and is safe for concurrent use.
type Engine struct {
	source Source
	config *Config
	logger zerolog.Logger
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(source Source, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		source: source,
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// resolveLimit applies the default and the cap. Negative limits are rejected.
func (e *Engine) resolveLimit(limit int) (int, error) {
	switch {
	case limit < 0:
		return 0, fmt.Errorf("%w: limit must not be negative", library.ErrValidation)
	case limit == 0:
		return e.config.DefaultLimit, nil
	case limit > e.config.MaxLimit:
		return e.config.MaxLimit, nil
	default:
		return limit, nil
	}
}

// Recommend returns up to limit playlists for owner. A zero limit uses the
// configured default.
func (e *Engine) Recommend(ctx context.Context, owner string, limit int) (*Result, error) {
	start := time.Now()

	limit, err := e.resolveLimit(limit)
	if err != nil {
		return nil, err
	}

	favorites, err := e.favorites(ctx, owner)
	if err != nil {
		return nil, err
	}

	var result *Result
	if len(favorites) == 0 {
		result, err = e.popular(ctx, owner, limit)
	} else {
		result, err = e.similar(ctx, owner, favorites, limit)
	}
	if err != nil {
		return nil, err
	}

	metrics.RecordRecommendation(result.Reason, len(result.Playlists))
	e.logger.Debug().
		Str("reason", result.Reason).
		Int("favorites", len(favorites)).
		Int("returned", len(result.Playlists)).
		Dur("latency", time.Since(start)).
		Msg("recommendation complete")

	return result, nil
}

func (e *Engine) favorites(ctx context.Context, owner string) ([]string, error) {
	set, err := e.source.FindFavorites(ctx, owner)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w: %w", library.ErrStorage, err)
	}
	return set.VideoIDs, nil
}

func (e *Engine) popular(ctx context.Context, owner string, limit int) (*Result, error) {
	list, err := e.source.FindPlaylists(ctx,
		database.PlaylistFilter{PublicOnly: true, ExcludeOwner: owner},
		database.FindOptions{SortByUpdatedDesc: true, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list popular playlists: %w: %w", library.ErrStorage, err)
	}
	return &Result{Playlists: redact(list), Reason: ReasonPopular}, nil
}

func (e *Engine) similar(ctx context.Context, owner string, favorites []string, limit int) (*Result, error) {
	pool, err := e.source.FindPlaylists(ctx,
		database.PlaylistFilter{PublicOnly: true, ExcludeOwner: owner, AnyVideoIDs: favorites},
		database.FindOptions{Limit: limit * e.config.PoolFactor})
	if err != nil {
		return nil, fmt.Errorf("list candidate playlists: %w: %w", library.ErrStorage, err)
	}

	scored := score(pool, favorites)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	out := make([]models.Playlist, len(scored))
	for i := range scored {
		out[i] = scored[i].playlist.Redacted()
	}
	return &Result{Playlists: out, Reason: ReasonSimilar}, nil
}

// score computes |distinct playlist videos ∩ favorites| per candidate,
// keeping pool order.
func score(pool []models.Playlist, favorites []string) []scoredPlaylist {
	favSet := make(map[string]struct{}, len(favorites))
	for _, id := range favorites {
		favSet[id] = struct{}{}
	}

	scored := make([]scoredPlaylist, 0, len(pool))
	for i := range pool {
		n := 0
		for id := range pool[i].VideoIDSet() {
			if _, ok := favSet[id]; ok {
				n++
			}
		}
		scored = append(scored, scoredPlaylist{playlist: pool[i], score: n})
	}
	return scored
}

func redact(list []models.Playlist) []models.Playlist {
	out := make([]models.Playlist, len(list))
	for i := range list {
		out[i] = list[i].Redacted()
	}
	return out
}
