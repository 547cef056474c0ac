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
)

func TestCreatePlaylist(t *testing.T) {
	t.Parallel()
	svc, clock := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreatePlaylist(ctx, "u1", "Mix", "desc", true)
	if err != nil {
		t.Fatalf("CreatePlaylist: %v", err)
	}
	if p.ID != "id-1" || p.OwnerID != "u1" || !p.IsPublic || len(p.Videos) != 0 {
		t.Errorf("playlist = %+v", p)
	}
	if !p.CreatedAt.Equal(clock.Now()) || !p.UpdatedAt.Equal(clock.Now()) {
		t.Errorf("timestamps = %v / %v, want %v", p.CreatedAt, p.UpdatedAt, clock.Now())
	}

	if _, err := svc.CreatePlaylist(ctx, "u1", "Mix", "", false); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("same owner same name: error = %v, want ErrDuplicateName", err)
	}
	if _, err := svc.CreatePlaylist(ctx, "u2", "Mix", "", false); err != nil {
		t.Errorf("other owner same name: %v", err)
	}
	if _, err := svc.CreatePlaylist(ctx, "u1", "mix", "", false); err != nil {
		t.Errorf("name match is exact, got %v", err)
	}
	for _, blank := range []string{"", "   "} {
		if _, err := svc.CreatePlaylist(ctx, "u1", blank, "", false); !errors.Is(err, ErrValidation) {
			t.Errorf("CreatePlaylist(%q) = %v, want ErrValidation", blank, err)
		}
	}

	list, err := svc.Playlists(ctx, "u1")
	if err != nil {
		t.Fatalf("Playlists: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("len(Playlists) = %d, want 2", len(list))
	}
}

func TestPlaylist_OwnershipScoped(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreatePlaylist(ctx, "u1", "Mine", "", false)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Playlist(ctx, "u1", p.ID); err != nil {
		t.Errorf("owner read: %v", err)
	}

	name := "Hijacked"
	ops := map[string]func() error{
		"get":        func() error { _, err := svc.Playlist(ctx, "u2", p.ID); return err },
		"update":     func() error { return svc.UpdatePlaylist(ctx, "u2", p.ID, PlaylistUpdate{Name: &name}) },
		"visibility": func() error { return svc.SetVisibility(ctx, "u2", p.ID, true) },
		"add video":  func() error { return svc.AddVideo(ctx, "u2", p.ID, "v1") },
		"remove":     func() error { return svc.RemoveVideo(ctx, "u2", p.ID, "v1") },
		"delete":     func() error { return svc.DeletePlaylist(ctx, "u2", p.ID) },
		"duplicate":  func() error { _, err := svc.DuplicatePlaylist(ctx, "u2", p.ID, ""); return err },
		"share":      func() error { _, _, err := svc.GenerateShareLink(ctx, "u2", p.ID); return err },
		"empty id":   func() error { return svc.UpdatePlaylist(ctx, "u1", "", PlaylistUpdate{Name: &name}) },
		"unknown id": func() error { return svc.DeletePlaylist(ctx, "u1", "nope") },
	}
	for opName, op := range ops {
		if err := op(); !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: error = %v, want ErrNotFound", opName, err)
		}
	}

	got, err := svc.Playlist(ctx, "u1", p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Mine" || got.IsPublic || len(got.Videos) != 0 || got.ShareToken != "" {
		t.Errorf("playlist changed by non-owner: %+v", got)
	}
}

func TestUpdatePlaylist_Partial(t *testing.T) {
	t.Parallel()
	svc, clock := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreatePlaylist(ctx, "u1", "Old", "keep me", false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreatePlaylist(ctx, "u1", "Taken", "", false); err != nil {
		t.Fatal(err)
	}

	clock.Advance(time.Minute)
	name := "Taken" // renames are not re-checked
	public := true
	if err := svc.UpdatePlaylist(ctx, "u1", p.ID, PlaylistUpdate{Name: &name, IsPublic: &public}); err != nil {
		t.Fatalf("UpdatePlaylist: %v", err)
	}

	got, _ := svc.Playlist(ctx, "u1", p.ID)
	if got.Name != "Taken" || got.Description != "keep me" || !got.IsPublic {
		t.Errorf("after update = %+v", got)
	}
	if !got.UpdatedAt.Equal(clock.Now()) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, clock.Now())
	}

	// empty update still refreshes updated_at
	clock.Advance(time.Minute)
	if err := svc.UpdatePlaylist(ctx, "u1", p.ID, PlaylistUpdate{}); err != nil {
		t.Fatalf("UpdatePlaylist(empty): %v", err)
	}
	got, _ = svc.Playlist(ctx, "u1", p.ID)
	if !got.UpdatedAt.Equal(clock.Now()) {
		t.Errorf("UpdatedAt after empty update = %v, want %v", got.UpdatedAt, clock.Now())
	}
}

func TestPlaylistVideos(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreatePlaylist(ctx, "u1", "Mix", "", false)
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range []string{"a", "b", "a"} {
		if err := svc.AddVideo(ctx, "u1", p.ID, v); err != nil {
			t.Fatalf("AddVideo(%s): %v", v, err)
		}
	}
	got, _ := svc.Playlist(ctx, "u1", p.ID)
	if len(got.Videos) != 3 {
		t.Fatalf("len(Videos) = %d, want 3 (duplicates allowed)", len(got.Videos))
	}

	if err := svc.RemoveVideo(ctx, "u1", p.ID, "a"); err != nil {
		t.Fatalf("RemoveVideo: %v", err)
	}
	got, _ = svc.Playlist(ctx, "u1", p.ID)
	if len(got.Videos) != 1 || got.Videos[0].VideoID != "b" {
		t.Errorf("Videos = %+v, want [b]", got.Videos)
	}

	if err := svc.RemoveVideo(ctx, "u1", p.ID, "absent"); err != nil {
		t.Errorf("RemoveVideo(absent) = %v, want nil", err)
	}
	if err := svc.RemoveVideo(ctx, "u1", p.ID, ""); !errors.Is(err, ErrValidation) {
		t.Errorf("RemoveVideo(\"\") = %v, want ErrValidation", err)
	}
}

func TestDeletePlaylist(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, _ := svc.CreatePlaylist(ctx, "u1", "Mix", "", false)
	if err := svc.DeletePlaylist(ctx, "u1", p.ID); err != nil {
		t.Fatalf("DeletePlaylist: %v", err)
	}
	if err := svc.DeletePlaylist(ctx, "u1", p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
	// name is free again
	if _, err := svc.CreatePlaylist(ctx, "u1", "Mix", "", false); err != nil {
		t.Errorf("recreate: %v", err)
	}
}

func TestSearchPlaylists(t *testing.T) {
	t.Parallel()
	svc, clock := newTestService(t)
	ctx := context.Background()

	fixtures := []struct{ owner, name, desc string }{
		{"u1", "Rock Anthems", ""},
		{"u1", "Chill", "lofi and soft ROCK"},
		{"u1", "Jazz", "smooth"},
		{"u2", "Rock Party", ""},
	}
	for _, f := range fixtures {
		if _, err := svc.CreatePlaylist(ctx, f.owner, f.name, f.desc, false); err != nil {
			t.Fatal(err)
		}
		clock.Advance(time.Minute)
	}

	got, err := svc.SearchPlaylists(ctx, "u1", "rock")
	if err != nil {
		t.Fatalf("SearchPlaylists: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "Chill" || got[1].Name != "Rock Anthems" {
		t.Errorf("order = [%s %s], want most recently updated first", got[0].Name, got[1].Name)
	}

	special, err := svc.SearchPlaylists(ctx, "u1", ".*")
	if err != nil {
		t.Fatal(err)
	}
	if len(special) != 0 {
		t.Errorf("regex metacharacters matched %d playlists, want 0", len(special))
	}
}

func TestSearchPlaylists_Limit(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.SearchLimit = 3
	svc := NewService(newTestStore(t), opts, WithIDGenerator(sequentialIDs()))
	ctx := context.Background()

	for _, name := range []string{"a1", "a2", "a3", "a4", "a5"} {
		if _, err := svc.CreatePlaylist(ctx, "u1", name, "", false); err != nil {
			t.Fatal(err)
		}
	}
	got, err := svc.SearchPlaylists(ctx, "u1", "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
}

func TestDuplicatePlaylist(t *testing.T) {
	t.Parallel()
	svc, clock := newTestService(t)
	ctx := context.Background()

	src, _ := svc.CreatePlaylist(ctx, "u1", "Mix", "desc", true)
	_ = svc.AddVideo(ctx, "u1", src.ID, "v1")
	_ = svc.AddVideo(ctx, "u1", src.ID, "v2")
	clock.Advance(time.Hour)

	cp, err := svc.DuplicatePlaylist(ctx, "u1", src.ID, "")
	if err != nil {
		t.Fatalf("DuplicatePlaylist: %v", err)
	}
	if cp.ID == src.ID {
		t.Error("copy reused the source id")
	}
	if cp.Name != "Mix (Copy)" || cp.Description != "desc" || cp.IsPublic {
		t.Errorf("copy = %+v", cp)
	}
	if len(cp.Videos) != 2 || cp.Videos[0].VideoID != "v1" {
		t.Errorf("copy videos = %+v", cp.Videos)
	}
	if !cp.CreatedAt.Equal(clock.Now()) {
		t.Errorf("CreatedAt = %v, want fresh %v", cp.CreatedAt, clock.Now())
	}

	named, err := svc.DuplicatePlaylist(ctx, "u1", src.ID, "Road Trip")
	if err != nil {
		t.Fatal(err)
	}
	if named.Name != "Road Trip" {
		t.Errorf("Name = %q, want Road Trip", named.Name)
	}

	// the source is untouched
	got, _ := svc.Playlist(ctx, "u1", src.ID)
	if !got.IsPublic || len(got.Videos) != 2 {
		t.Errorf("source modified: %+v", got)
	}
}

func TestSetVisibility(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, _ := svc.CreatePlaylist(ctx, "u1", "Mix", "", false)
	if err := svc.SetVisibility(ctx, "u1", p.ID, true); err != nil {
		t.Fatalf("SetVisibility: %v", err)
	}
	got, _ := svc.Playlist(ctx, "u1", p.ID)
	if !got.IsPublic {
		t.Error("playlist still private")
	}
}

func TestPublicPlaylists(t *testing.T) {
	t.Parallel()
	svc, clock := newTestService(t)
	ctx := context.Background()

	for i, owner := range []string{"u1", "u2", "u3", "u4"} {
		p, err := svc.CreatePlaylist(ctx, owner, "List", "", i != 2)
		if err != nil {
			t.Fatal(err)
		}
		if _, _, err := svc.GenerateShareLink(ctx, owner, p.ID); err != nil {
			t.Fatal(err)
		}
		clock.Advance(time.Minute)
	}

	page, err := svc.PublicPlaylists(ctx, 2, 0)
	if err != nil {
		t.Fatalf("PublicPlaylists: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("len = %d, want 2", len(page))
	}
	if page[0].ID != "id-7" {
		t.Errorf("first = %s, want most recently updated id-7", page[0].ID)
	}
	for _, p := range page {
		if p.OwnerID != "" || p.ShareToken != "" {
			t.Errorf("playlist %s not redacted: owner=%q token=%q", p.ID, p.OwnerID, p.ShareToken)
		}
	}

	rest, err := svc.PublicPlaylists(ctx, 20, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 1 || rest[0].ID != "id-1" {
		t.Errorf("second page = %+v, want [id-1]", rest)
	}

	if _, err := svc.PublicPlaylists(ctx, 0, 0); !errors.Is(err, ErrValidation) {
		t.Errorf("limit 0 error = %v, want ErrValidation", err)
	}
	if _, err := svc.PublicPlaylists(ctx, 5, -1); !errors.Is(err, ErrValidation) {
		t.Errorf("negative skip error = %v, want ErrValidation", err)
	}
}
