// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package library

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/nudex-library/internal/models"
)

func TestExport(t *testing.T) {
	t.Parallel()
	svc, clock := newTestService(t)
	ctx := context.Background()

	_, _, _ = svc.ToggleFavorite(ctx, "u1", "f1", models.FavoriteAdd)
	_, _ = svc.CreatePlaylist(ctx, "u1", "Mine", "", false)
	_, _ = svc.CreatePlaylist(ctx, "u2", "Theirs", "", true)
	_, _ = svc.RecordWatch(ctx, "u1", "v1", 42)

	export, err := svc.Export(ctx, "u1")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if export.OwnerID != "u1" || !export.ExportDate.Equal(clock.Now()) {
		t.Errorf("header = %s / %v", export.OwnerID, export.ExportDate)
	}
	if len(export.Favorites) != 1 || export.Favorites[0] != "f1" {
		t.Errorf("Favorites = %v", export.Favorites)
	}
	if len(export.Playlists) != 1 || export.Playlists[0].Name != "Mine" {
		t.Errorf("Playlists = %+v", export.Playlists)
	}
	if len(export.History) != 1 || export.History[0].Progress != 42 {
		t.Errorf("History = %+v", export.History)
	}
}

func TestExport_Empty(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	export, err := svc.Export(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if export.Favorites == nil || export.Playlists == nil || export.History == nil {
		t.Errorf("empty export has nil lists: %+v", export)
	}
}

func TestImportPlaylist(t *testing.T) {
	t.Parallel()
	svc, clock := newTestService(t)
	ctx := context.Background()

	added := time.Date(2025, 12, 24, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		req      models.ImportPlaylistRequest
		wantName string
	}{
		{"name wins", models.ImportPlaylistRequest{Name: "N", Title: "T"}, "N"},
		{"legacy title", models.ImportPlaylistRequest{Title: "T"}, "T"},
		{"default name", models.ImportPlaylistRequest{}, DefaultImportName},
	}
	for _, tt := range tests {
		p, err := svc.ImportPlaylist(ctx, "u1", &tt.req)
		if err != nil {
			t.Fatalf("%s: ImportPlaylist: %v", tt.name, err)
		}
		if p.Name != tt.wantName || p.IsPublic || p.OwnerID != "u1" {
			t.Errorf("%s: playlist = %+v", tt.name, p)
		}
	}

	p, err := svc.ImportPlaylist(ctx, "u1", &models.ImportPlaylistRequest{
		Name:        "Mixed",
		Description: "from backup",
		Videos: []models.ImportVideo{
			{VideoID: "v1", AddedAt: &added},
			{VideoID: "v2"},
		},
	})
	if err != nil {
		t.Fatalf("ImportPlaylist: %v", err)
	}

	stored, err := svc.Playlist(ctx, "u1", p.ID)
	if err != nil {
		t.Fatalf("imported playlist not stored: %v", err)
	}
	if stored.Description != "from backup" || len(stored.Videos) != 2 {
		t.Fatalf("stored = %+v", stored)
	}
	if !stored.Videos[0].AddedAt.Equal(added) {
		t.Errorf("Videos[0].AddedAt = %v, want %v", stored.Videos[0].AddedAt, added)
	}
	if !stored.Videos[1].AddedAt.Equal(clock.Now()) {
		t.Errorf("Videos[1].AddedAt = %v, want import time", stored.Videos[1].AddedAt)
	}

	// imports may reuse an existing name
	if _, err := svc.ImportPlaylist(ctx, "u1", &models.ImportPlaylistRequest{Name: "Mixed"}); err != nil {
		t.Errorf("import with existing name: %v", err)
	}
}

func TestImportPlaylist_Invalid(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ImportPlaylist(ctx, "u1", nil); !errors.Is(err, ErrValidation) {
		t.Errorf("nil payload error = %v, want ErrValidation", err)
	}

	_, err := svc.ImportPlaylist(ctx, "u1", &models.ImportPlaylistRequest{
		Videos: []models.ImportVideo{{VideoID: "ok"}, {VideoID: "  "}},
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("blank video id error = %v, want ErrValidation", err)
	}

	list, _ := svc.Playlists(ctx, "u1")
	if len(list) != 0 {
		t.Errorf("invalid import stored %d playlists", len(list))
	}
}
