// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package library

import (
	"context"
	"errors"

	"github.com/tomtom215/nudex-library/internal/database"
	"github.com/tomtom215/nudex-library/internal/models"
)

// ShareLink returns the public link for token.
func (s *Service) ShareLink(token string) string {
	return s.opts.ShareLinkPrefix + token
}

// GenerateShareLink issues a fresh share token for an owned playlist. The
// previous token, if any, stops resolving.
func (s *Service) GenerateShareLink(ctx context.Context, owner, id string) (link, token string, err error) {
	token = s.newID()
	sharedAt := s.clock()

	err = s.patchOwned(ctx, "share_playlist", owner, id, database.PlaylistPatch{
		ShareToken: &token,
		SharedAt:   &sharedAt,
	})
	if err != nil {
		return "", "", err
	}
	return s.ShareLink(token), token, nil
}

// ResolveShare returns the playlist behind token without owner identity or
// the token itself.
func (s *Service) ResolveShare(ctx context.Context, token string) (p *models.Playlist, err error) {
	defer s.observe("resolve_share", &err)

	if token == "" {
		return nil, ErrNotFound
	}

	found, err := s.store.FindPlaylist(ctx, database.PlaylistFilter{ShareToken: token})
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageError("resolve share", err)
	}

	redacted := found.Redacted()
	return &redacted, nil
}
