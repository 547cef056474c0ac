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

// Performed favorite actions.
const (
	FavoriteAdded   = "added"
	FavoriteRemoved = "removed"
)

// ToggleFavorite adds or removes videoID from the owner's favorite set and
// returns the performed action with the resulting set size. Both actions are
// idempotent: adding a present id or removing an absent one still persists the
// set and reports the action. The set is created on first use.
func (s *Service) ToggleFavorite(ctx context.Context, owner, videoID, action string) (performed string, total int, err error) {
	defer s.observe("toggle_favorite", &err)

	switch action {
	case models.FavoriteAdd:
		performed = FavoriteAdded
	case models.FavoriteRemove:
		performed = FavoriteRemoved
	default:
		return "", 0, validationError("action must be %q or %q", models.FavoriteAdd, models.FavoriteRemove)
	}

	now := s.clock()
	set, err := s.store.FindFavorites(ctx, owner)
	switch {
	case errors.Is(err, database.ErrNotFound):
		set = &models.FavoriteSet{OwnerID: owner, VideoIDs: []string{}, CreatedAt: now}
	case err != nil:
		return "", 0, storageError("load favorites", err)
	}

	if performed == FavoriteAdded {
		if !set.Contains(videoID) {
			set.VideoIDs = append(set.VideoIDs, videoID)
		}
	} else {
		kept := make([]string, 0, len(set.VideoIDs))
		for _, id := range set.VideoIDs {
			if id != videoID {
				kept = append(kept, id)
			}
		}
		set.VideoIDs = kept
	}
	set.UpdatedAt = now

	if err := s.store.UpsertFavorites(ctx, set); err != nil {
		return "", 0, storageError("save favorites", err)
	}
	return performed, len(set.VideoIDs), nil
}

// Favorites returns the owner's favorite video ids. An owner without a set
// gets an empty list.
func (s *Service) Favorites(ctx context.Context, owner string) ([]string, error) {
	set, err := s.store.FindFavorites(ctx, owner)
	if errors.Is(err, database.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, storageError("load favorites", err)
	}
	if set.VideoIDs == nil {
		return []string{}, nil
	}
	return set.VideoIDs, nil
}
