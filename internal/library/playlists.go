// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package library

import (
	"context"
	"errors"
	"strings"

	"github.com/tomtom215/nudex-library/internal/database"
	"github.com/tomtom215/nudex-library/internal/models"
)

// CopySuffix is appended to the source name when a duplicate gets no name.
const CopySuffix = " (Copy)"

// PlaylistUpdate is a partial playlist edit. Nil fields are left unchanged.
type PlaylistUpdate struct {
	Name        *string
	Description *string
	IsPublic    *bool
}

// ownedFilter selects playlist id only when owned by owner. Empty keys would
// leave the filter unconstrained, so they resolve to ErrNotFound.
func ownedFilter(owner, id string) (database.PlaylistFilter, error) {
	if owner == "" || id == "" {
		return database.PlaylistFilter{}, ErrNotFound
	}
	return database.PlaylistFilter{ID: id, OwnerID: owner}, nil
}

// CreatePlaylist creates an empty playlist. An owner cannot hold two
// playlists with the same name; other owners may reuse it.
func (s *Service) CreatePlaylist(ctx context.Context, owner, name, description string, isPublic bool) (p *models.Playlist, err error) {
	defer s.observe("create_playlist", &err)

	if strings.TrimSpace(name) == "" {
		return nil, validationError("name is required")
	}

	_, err = s.store.FindPlaylist(ctx, database.PlaylistFilter{OwnerID: owner, Name: name})
	switch {
	case err == nil:
		return nil, ErrDuplicateName
	case !errors.Is(err, database.ErrNotFound):
		return nil, storageError("check playlist name", err)
	}

	now := s.clock()
	p = &models.Playlist{
		ID:          s.newID(),
		OwnerID:     owner,
		Name:        name,
		Description: description,
		Videos:      []models.PlaylistEntry{},
		IsPublic:    isPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.InsertPlaylist(ctx, p); err != nil {
		return nil, storageError("insert playlist", err)
	}
	return p, nil
}

// Playlist returns one of the owner's playlists.
func (s *Service) Playlist(ctx context.Context, owner, id string) (*models.Playlist, error) {
	filter, err := ownedFilter(owner, id)
	if err != nil {
		return nil, err
	}
	p, err := s.store.FindPlaylist(ctx, filter)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageError("load playlist", err)
	}
	return p, nil
}

// Playlists returns every playlist of owner in creation order.
func (s *Service) Playlists(ctx context.Context, owner string) ([]models.Playlist, error) {
	list, err := s.store.FindPlaylists(ctx, database.PlaylistFilter{OwnerID: owner}, database.FindOptions{})
	if err != nil {
		return nil, storageError("list playlists", err)
	}
	return list, nil
}

// patchOwned applies patch to an owned playlist, mapping "nothing matched"
// to ErrNotFound. updated_at is always refreshed.
func (s *Service) patchOwned(ctx context.Context, op, owner, id string, patch database.PlaylistPatch) (err error) {
	defer s.observe(op, &err)

	filter, err := ownedFilter(owner, id)
	if err != nil {
		return err
	}

	patch.UpdatedAt = s.clock()
	matched, err := s.store.UpdatePlaylist(ctx, filter, patch)
	if err != nil {
		return storageError(op, err)
	}
	if matched == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePlaylist edits name, description or visibility. A rename is not
// checked against the owner's other playlist names.
func (s *Service) UpdatePlaylist(ctx context.Context, owner, id string, upd PlaylistUpdate) error {
	return s.patchOwned(ctx, "update_playlist", owner, id, database.PlaylistPatch{
		Name:        upd.Name,
		Description: upd.Description,
		IsPublic:    upd.IsPublic,
	})
}

// SetVisibility makes a playlist public or private.
func (s *Service) SetVisibility(ctx context.Context, owner, id string, isPublic bool) error {
	return s.patchOwned(ctx, "set_visibility", owner, id, database.PlaylistPatch{IsPublic: &isPublic})
}

// AddVideo appends videoID. The same video may be added more than once.
func (s *Service) AddVideo(ctx context.Context, owner, id, videoID string) error {
	return s.patchOwned(ctx, "add_video", owner, id, database.PlaylistPatch{
		PushVideos: []models.PlaylistEntry{{VideoID: videoID, AddedAt: s.clock()}},
	})
}

// RemoveVideo removes every entry for videoID. Removing an absent video
// succeeds as long as the playlist is owned.
func (s *Service) RemoveVideo(ctx context.Context, owner, id, videoID string) error {
	if videoID == "" {
		return validationError("video_id is required")
	}
	return s.patchOwned(ctx, "remove_video", owner, id, database.PlaylistPatch{PullVideoID: videoID})
}

// DeletePlaylist removes an owned playlist and retires its share token.
func (s *Service) DeletePlaylist(ctx context.Context, owner, id string) (err error) {
	defer s.observe("delete_playlist", &err)

	filter, err := ownedFilter(owner, id)
	if err != nil {
		return err
	}
	deleted, err := s.store.DeletePlaylist(ctx, filter)
	if err != nil {
		return storageError("delete playlist", err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchPlaylists matches query case-insensitively against the name and
// description of the owner's playlists, most recently updated first.
func (s *Service) SearchPlaylists(ctx context.Context, owner, query string) ([]models.Playlist, error) {
	list, err := s.store.FindPlaylists(ctx,
		database.PlaylistFilter{OwnerID: owner, Text: query},
		database.FindOptions{SortByUpdatedDesc: true, Limit: s.opts.SearchLimit})
	if err != nil {
		return nil, storageError("search playlists", err)
	}
	return list, nil
}

// DuplicatePlaylist copies an owned playlist under a new id. The copy keeps
// description and entries, is always private and is named newName or
// "<name> (Copy)".
func (s *Service) DuplicatePlaylist(ctx context.Context, owner, id, newName string) (p *models.Playlist, err error) {
	defer s.observe("duplicate_playlist", &err)

	src, err := s.Playlist(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	name := newName
	if name == "" {
		name = src.Name + CopySuffix
	}

	videos := make([]models.PlaylistEntry, len(src.Videos))
	copy(videos, src.Videos)

	now := s.clock()
	p = &models.Playlist{
		ID:          s.newID(),
		OwnerID:     owner,
		Name:        name,
		Description: src.Description,
		Videos:      videos,
		IsPublic:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.InsertPlaylist(ctx, p); err != nil {
		return nil, storageError("insert playlist", err)
	}
	return p, nil
}

// PublicPlaylists pages through public playlists of all owners, most recently
// updated first, with owner and share token removed.
func (s *Service) PublicPlaylists(ctx context.Context, limit, skip int) ([]models.Playlist, error) {
	if limit <= 0 {
		return nil, validationError("limit must be positive")
	}
	if skip < 0 {
		return nil, validationError("skip must not be negative")
	}

	list, err := s.store.FindPlaylists(ctx,
		database.PlaylistFilter{PublicOnly: true},
		database.FindOptions{SortByUpdatedDesc: true, Skip: skip, Limit: limit})
	if err != nil {
		return nil, storageError("list public playlists", err)
	}
	return redactAll(list), nil
}

func redactAll(list []models.Playlist) []models.Playlist {
	out := make([]models.Playlist, len(list))
	for i := range list {
		out[i] = list[i].Redacted()
	}
	return out
}
