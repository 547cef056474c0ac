// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package library

import (
	"context"
	"strings"

	"github.com/tomtom215/nudex-library/internal/models"
)

// DefaultImportName names imported playlists that carry neither name nor title.
const DefaultImportName = "Imported Playlist"

// Export returns everything stored for owner.
func (s *Service) Export(ctx context.Context, owner string) (*models.LibraryExport, error) {
	favorites, err := s.Favorites(ctx, owner)
	if err != nil {
		return nil, err
	}
	playlists, err := s.Playlists(ctx, owner)
	if err != nil {
		return nil, err
	}
	history, err := s.ledgerItems(ctx, owner)
	if err != nil {
		return nil, err
	}

	return &models.LibraryExport{
		ExportDate: s.clock(),
		OwnerID:    owner,
		Favorites:  favorites,
		Playlists:  playlists,
		History:    history,
	}, nil
}

// ImportPlaylist creates a private playlist from an import payload. Entries
// without added_at are stamped with the import time. The name is not checked
// against the owner's existing playlists.
func (s *Service) ImportPlaylist(ctx context.Context, owner string, req *models.ImportPlaylistRequest) (p *models.Playlist, err error) {
	defer s.observe("import_playlist", &err)

	if req == nil {
		return nil, validationError("empty import payload")
	}

	now := s.clock()
	videos := make([]models.PlaylistEntry, 0, len(req.Videos))
	for i, v := range req.Videos {
		if strings.TrimSpace(v.VideoID) == "" {
			return nil, validationError("videos[%d].video_id is required", i)
		}
		added := now
		if v.AddedAt != nil {
			added = v.AddedAt.UTC()
		}
		videos = append(videos, models.PlaylistEntry{VideoID: v.VideoID, AddedAt: added})
	}

	name := req.Name
	if name == "" {
		name = req.Title
	}
	if name == "" {
		name = DefaultImportName
	}

	p = &models.Playlist{
		ID:          s.newID(),
		OwnerID:     owner,
		Name:        name,
		Description: req.Description,
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
