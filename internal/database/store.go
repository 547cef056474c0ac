// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

// Package database is the storage gateway of the library service.
//
// Store is a typed document-store contract with three collections
// (favorites, history, playlists). Two backends implement it:
//
//   - BadgerStore: embedded BadgerDB, JSON documents, the default
//   - MongoStore: MongoDB through the official Go driver
//
// BreakerStore wraps either backend with a circuit breaker. Open builds the
// configured combination; the returned Store is owned by the caller and must
// be closed on shutdown.
package database

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/nudex-library/internal/models"
)

var (
	// ErrNotFound is returned by single-document lookups that match nothing.
	ErrNotFound = errors.New("document not found")

	// ErrVersionConflict is returned by SaveHistory when the stored ledger
	// version differs from the expected one.
	ErrVersionConflict = errors.New("document version conflict")

	// ErrDuplicateKey is returned when an insert collides with a unique key.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidPatch is returned for a patch that pushes and pulls videos at once.
	ErrInvalidPatch = errors.New("invalid playlist patch")
)

// Store is the storage gateway used by every library component.
type Store interface {
	// FindFavorites returns the owner's favorite set or ErrNotFound.
	FindFavorites(ctx context.Context, owner string) (*models.FavoriteSet, error)
	// UpsertFavorites replaces the owner's favorite set, creating it if absent.
	UpsertFavorites(ctx context.Context, set *models.FavoriteSet) error

	// FindHistory returns the owner's ledger or ErrNotFound.
	FindHistory(ctx context.Context, owner string) (*models.HistoryLedger, error)
	// SaveHistory stores ledger if the stored version equals expectedVersion
	// (0 meaning "no ledger yet") and sets ledger.Version to the new version.
	// A mismatch returns ErrVersionConflict and writes nothing.
	SaveHistory(ctx context.Context, ledger *models.HistoryLedger, expectedVersion int64) error

	FindPlaylist(ctx context.Context, filter PlaylistFilter) (*models.Playlist, error)
	FindPlaylists(ctx context.Context, filter PlaylistFilter, opts FindOptions) ([]models.Playlist, error)
	CountPlaylists(ctx context.Context, filter PlaylistFilter) (int64, error)
	InsertPlaylist(ctx context.Context, p *models.Playlist) error
	// UpdatePlaylist applies patch to the first playlist matching filter and
	// reports how many matched (0 or 1).
	UpdatePlaylist(ctx context.Context, filter PlaylistFilter, patch PlaylistPatch) (int64, error)
	// DeletePlaylist removes the first playlist matching filter together with
	// its share token and reports how many were deleted (0 or 1).
	DeletePlaylist(ctx context.Context, filter PlaylistFilter) (int64, error)

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
	// Backend names the implementation ("badger", "mongo").
	Backend() string
	Close() error
}

// PlaylistFilter selects playlists. Zero-valued fields do not constrain.
type PlaylistFilter struct {
	ID           string
	OwnerID      string
	ExcludeOwner string
	Name         string
	ShareToken   string
	PublicOnly   bool

	// Text matches case-insensitive substrings of name or description.
	Text string

	// AnyVideoIDs matches playlists holding at least one of the ids.
	AnyVideoIDs []string
}

// Match reports whether p satisfies every set field of f.
func (f *PlaylistFilter) Match(p *models.Playlist) bool {
	if f.ID != "" && p.ID != f.ID {
		return false
	}
	if f.OwnerID != "" && p.OwnerID != f.OwnerID {
		return false
	}
	if f.ExcludeOwner != "" && p.OwnerID == f.ExcludeOwner {
		return false
	}
	if f.Name != "" && p.Name != f.Name {
		return false
	}
	if f.ShareToken != "" && p.ShareToken != f.ShareToken {
		return false
	}
	if f.PublicOnly && !p.IsPublic {
		return false
	}
	if f.Text != "" {
		q := strings.ToLower(f.Text)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	if len(f.AnyVideoIDs) > 0 && !holdsAny(p, f.AnyVideoIDs) {
		return false
	}
	return true
}

func holdsAny(p *models.Playlist, ids []string) bool {
	for _, v := range p.Videos {
		for _, id := range ids {
			if v.VideoID == id {
				return true
			}
		}
	}
	return false
}

// FindOptions controls ordering and paging of FindPlaylists.
type FindOptions struct {
	// SortByUpdatedDesc orders most recently updated first. Otherwise results
	// come in creation order.
	SortByUpdatedDesc bool
	Skip              int
	// Limit caps the result size; 0 means no cap.
	Limit int
}

// PlaylistPatch is a partial playlist update. Set fields map to $set,
// PushVideos to $push and PullVideoID to $pull. UpdatedAt is always written.
// PushVideos and PullVideoID are mutually exclusive.
type PlaylistPatch struct {
	Name        *string
	Description *string
	IsPublic    *bool
	ShareToken  *string
	SharedAt    *time.Time
	PushVideos  []models.PlaylistEntry
	PullVideoID string
	UpdatedAt   time.Time
}

func (p *PlaylistPatch) validate() error {
	if len(p.PushVideos) > 0 && p.PullVideoID != "" {
		return ErrInvalidPatch
	}
	return nil
}

// Apply mutates pl in place.
func (p *PlaylistPatch) Apply(pl *models.Playlist) {
	if p.Name != nil {
		pl.Name = *p.Name
	}
	if p.Description != nil {
		pl.Description = *p.Description
	}
	if p.IsPublic != nil {
		pl.IsPublic = *p.IsPublic
	}
	if p.ShareToken != nil {
		pl.ShareToken = *p.ShareToken
	}
	if p.SharedAt != nil {
		t := *p.SharedAt
		pl.SharedAt = &t
	}
	if len(p.PushVideos) > 0 {
		pl.Videos = append(pl.Videos, p.PushVideos...)
	}
	if p.PullVideoID != "" {
		kept := pl.Videos[:0]
		for _, v := range pl.Videos {
			if v.VideoID != p.PullVideoID {
				kept = append(kept, v)
			}
		}
		pl.Videos = kept
	}
	pl.UpdatedAt = p.UpdatedAt
}

// sortAndPage orders playlists per opts and applies skip/limit.
func sortAndPage(list []models.Playlist, opts FindOptions) []models.Playlist {
	if opts.SortByUpdatedDesc {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].UpdatedAt.After(list[j].UpdatedAt)
		})
	} else {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].CreatedAt.Equal(list[j].CreatedAt) {
				return list[i].ID < list[j].ID
			}
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		})
	}

	if opts.Skip > 0 {
		if opts.Skip >= len(list) {
			return []models.Playlist{}
		}
		list = list[opts.Skip:]
	}
	if opts.Limit > 0 && len(list) > opts.Limit {
		list = list[:opts.Limit]
	}
	return list
}

// normalizePlaylist replaces nil slices so documents always carry an array.
func normalizePlaylist(p *models.Playlist) {
	if p.Videos == nil {
		p.Videos = []models.PlaylistEntry{}
	}
}
