// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

//go:build integration

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/nudex-library/internal/models"
	"github.com/tomtom215/nudex-library/internal/testinfra"
)

func newTestMongoStore(t *testing.T) *MongoStore {
	t.Helper()
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	container, err := testinfra.NewMongoContainer(ctx, testinfra.WithTestLogger(t))
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}
	t.Cleanup(func() { testinfra.CleanupContainer(t, ctx, container) })

	store, err := OpenMongo(ctx, MongoOptions{
		URI:      container.URI,
		Database: "library_test",
		Timeout:  15 * time.Second,
	})
	if err != nil {
		t.Fatalf("OpenMongo: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestMongoStore_Integration(t *testing.T) {
	store := newTestMongoStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("favorites", func(t *testing.T) {
		if _, err := store.FindFavorites(ctx, "u1"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("FindFavorites(missing) = %v, want ErrNotFound", err)
		}
		set := &models.FavoriteSet{OwnerID: "u1", VideoIDs: []string{"v1", "v2"}, CreatedAt: now, UpdatedAt: now}
		if err := store.UpsertFavorites(ctx, set); err != nil {
			t.Fatalf("UpsertFavorites: %v", err)
		}
		set.VideoIDs = []string{"v2"}
		if err := store.UpsertFavorites(ctx, set); err != nil {
			t.Fatalf("UpsertFavorites(replace): %v", err)
		}
		got, err := store.FindFavorites(ctx, "u1")
		if err != nil {
			t.Fatalf("FindFavorites: %v", err)
		}
		if len(got.VideoIDs) != 1 || got.VideoIDs[0] != "v2" {
			t.Errorf("VideoIDs = %v, want [v2]", got.VideoIDs)
		}
	})

	t.Run("history version check", func(t *testing.T) {
		ledger := &models.HistoryLedger{OwnerID: "u1", Items: []models.HistoryEntry{{VideoID: "v1", WatchedAt: now}}}
		if err := store.SaveHistory(ctx, ledger, 0); err != nil {
			t.Fatalf("SaveHistory(create): %v", err)
		}
		if err := store.SaveHistory(ctx, &models.HistoryLedger{OwnerID: "u1"}, 0); !errors.Is(err, ErrVersionConflict) {
			t.Errorf("SaveHistory(stale create) = %v, want ErrVersionConflict", err)
		}
		if err := store.SaveHistory(ctx, ledger, 1); err != nil {
			t.Fatalf("SaveHistory(update): %v", err)
		}
		got, err := store.FindHistory(ctx, "u1")
		if err != nil {
			t.Fatalf("FindHistory: %v", err)
		}
		if got.Version != 2 {
			t.Errorf("Version = %d, want 2", got.Version)
		}
	})

	t.Run("playlists", func(t *testing.T) {
		for _, p := range []*models.Playlist{
			{ID: "p1", OwnerID: "u1", Name: "Rock", IsPublic: true, CreatedAt: now, UpdatedAt: now},
			{ID: "p2", OwnerID: "u2", Name: "Jazz", Description: "smooth rock", IsPublic: true, CreatedAt: now.Add(time.Second), UpdatedAt: now.Add(time.Hour)},
			{ID: "p3", OwnerID: "u2", Name: "Other", CreatedAt: now.Add(2 * time.Second), UpdatedAt: now},
		} {
			if err := store.InsertPlaylist(ctx, p); err != nil {
				t.Fatalf("InsertPlaylist(%s): %v", p.ID, err)
			}
		}
		if err := store.InsertPlaylist(ctx, &models.Playlist{ID: "p1", OwnerID: "u9"}); !errors.Is(err, ErrDuplicateKey) {
			t.Errorf("InsertPlaylist(dup id) = %v, want ErrDuplicateKey", err)
		}

		public, err := store.FindPlaylists(ctx, PlaylistFilter{PublicOnly: true}, FindOptions{SortByUpdatedDesc: true})
		if err != nil {
			t.Fatalf("FindPlaylists(public): %v", err)
		}
		if len(public) != 2 || public[0].ID != "p2" {
			t.Errorf("public = %+v, want [p2 p1]", public)
		}

		found, err := store.FindPlaylists(ctx, PlaylistFilter{Text: "ROCK"}, FindOptions{})
		if err != nil || len(found) != 2 {
			t.Errorf("text search = %d results, %v; want 2", len(found), err)
		}

		matched, err := store.UpdatePlaylist(ctx, PlaylistFilter{ID: "p1", OwnerID: "u1"}, PlaylistPatch{
			PushVideos: []models.PlaylistEntry{{VideoID: "v1", AddedAt: now}},
			UpdatedAt:  now,
		})
		if err != nil || matched != 1 {
			t.Fatalf("UpdatePlaylist(push) = %d, %v", matched, err)
		}

		hits, err := store.FindPlaylists(ctx, PlaylistFilter{AnyVideoIDs: []string{"v1"}, ExcludeOwner: "u2"}, FindOptions{})
		if err != nil || len(hits) != 1 || hits[0].ID != "p1" {
			t.Errorf("any-video search = %+v, %v", hits, err)
		}

		token := "share-tok"
		if _, err := store.UpdatePlaylist(ctx, PlaylistFilter{ID: "p3", OwnerID: "u2"}, PlaylistPatch{ShareToken: &token, SharedAt: &now, UpdatedAt: now}); err != nil {
			t.Fatalf("UpdatePlaylist(share): %v", err)
		}
		shared, err := store.FindPlaylist(ctx, PlaylistFilter{ShareToken: token})
		if err != nil || shared.ID != "p3" {
			t.Errorf("FindPlaylist(token) = %+v, %v", shared, err)
		}

		n, err := store.CountPlaylists(ctx, PlaylistFilter{OwnerID: "u2"})
		if err != nil || n != 2 {
			t.Errorf("CountPlaylists(u2) = %d, %v; want 2", n, err)
		}

		deleted, err := store.DeletePlaylist(ctx, PlaylistFilter{ID: "p3", OwnerID: "u1"})
		if err != nil || deleted != 0 {
			t.Errorf("DeletePlaylist(wrong owner) = %d, %v; want 0", deleted, err)
		}
		deleted, err = store.DeletePlaylist(ctx, PlaylistFilter{ID: "p3", OwnerID: "u2"})
		if err != nil || deleted != 1 {
			t.Errorf("DeletePlaylist = %d, %v; want 1", deleted, err)
		}
	})
}
