// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/nudex-library/internal/models"
)

func newTestBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()

	store, err := OpenBadger(BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testPlaylist(id, owner, name string, created time.Time) *models.Playlist {
	return &models.Playlist{
		ID:        id,
		OwnerID:   owner,
		Name:      name,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestBadgerStore_OnDisk(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenBadger(BadgerOptions{Path: dir})
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}

	ctx := context.Background()
	if err := store.UpsertFavorites(ctx, &models.FavoriteSet{OwnerID: "u1", VideoIDs: []string{"v1"}}); err != nil {
		t.Fatalf("UpsertFavorites: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenBadger(BadgerOptions{Path: dir})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	fav, err := reopened.FindFavorites(ctx, "u1")
	if err != nil {
		t.Fatalf("FindFavorites after reopen: %v", err)
	}
	if len(fav.VideoIDs) != 1 || fav.VideoIDs[0] != "v1" {
		t.Errorf("VideoIDs = %v, want [v1]", fav.VideoIDs)
	}
}

func TestBadgerStore_Favorites(t *testing.T) {
	t.Parallel()
	store := newTestBadgerStore(t)
	ctx := context.Background()

	if _, err := store.FindFavorites(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindFavorites(missing) error = %v, want ErrNotFound", err)
	}

	set := &models.FavoriteSet{OwnerID: "u1", VideoIDs: []string{"a", "b"}}
	if err := store.UpsertFavorites(ctx, set); err != nil {
		t.Fatalf("UpsertFavorites: %v", err)
	}

	set.VideoIDs = []string{"b"}
	if err := store.UpsertFavorites(ctx, set); err != nil {
		t.Fatalf("UpsertFavorites (replace): %v", err)
	}

	got, err := store.FindFavorites(ctx, "u1")
	if err != nil {
		t.Fatalf("FindFavorites: %v", err)
	}
	if len(got.VideoIDs) != 1 || got.VideoIDs[0] != "b" {
		t.Errorf("VideoIDs = %v, want [b] (replace semantics)", got.VideoIDs)
	}
}

func TestBadgerStore_SaveHistory_VersionCheck(t *testing.T) {
	t.Parallel()
	store := newTestBadgerStore(t)
	ctx := context.Background()

	ledger := &models.HistoryLedger{OwnerID: "u1", Items: []models.HistoryEntry{{VideoID: "v1"}}}
	if err := store.SaveHistory(ctx, ledger, 0); err != nil {
		t.Fatalf("SaveHistory(create): %v", err)
	}
	if ledger.Version != 1 {
		t.Errorf("Version after create = %d, want 1", ledger.Version)
	}

	stale := &models.HistoryLedger{OwnerID: "u1"}
	if err := store.SaveHistory(ctx, stale, 0); !errors.Is(err, ErrVersionConflict) {
		t.Errorf("SaveHistory(stale create) error = %v, want ErrVersionConflict", err)
	}

	ledger.Items = append(ledger.Items, models.HistoryEntry{VideoID: "v2"})
	if err := store.SaveHistory(ctx, ledger, 1); err != nil {
		t.Fatalf("SaveHistory(update): %v", err)
	}

	got, err := store.FindHistory(ctx, "u1")
	if err != nil {
		t.Fatalf("FindHistory: %v", err)
	}
	if got.Version != 2 || len(got.Items) != 2 {
		t.Errorf("stored ledger = version %d, %d items; want version 2, 2 items", got.Version, len(got.Items))
	}

	if err := store.SaveHistory(ctx, &models.HistoryLedger{OwnerID: "u1"}, 1); !errors.Is(err, ErrVersionConflict) {
		t.Errorf("SaveHistory(stale update) error = %v, want ErrVersionConflict", err)
	}
}

func TestBadgerStore_SaveHistory_ConcurrentWritersOneWins(t *testing.T) {
	t.Parallel()
	store := newTestBadgerStore(t)
	ctx := context.Background()

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.SaveHistory(ctx, &models.HistoryLedger{OwnerID: "race"}, 0)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else if !errors.Is(err, ErrVersionConflict) {
				t.Errorf("SaveHistory unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("successful creates = %d, want exactly 1", successes)
	}
}

func TestBadgerStore_PlaylistLifecycle(t *testing.T) {
	t.Parallel()
	store := newTestBadgerStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	p := testPlaylist("p1", "u1", "Mix", base)
	if err := store.InsertPlaylist(ctx, p); err != nil {
		t.Fatalf("InsertPlaylist: %v", err)
	}
	if err := store.InsertPlaylist(ctx, p); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("InsertPlaylist(duplicate id) error = %v, want ErrDuplicateKey", err)
	}

	got, err := store.FindPlaylist(ctx, PlaylistFilter{ID: "p1", OwnerID: "u1"})
	if err != nil {
		t.Fatalf("FindPlaylist: %v", err)
	}
	if got.Videos == nil {
		t.Error("Videos = nil, want empty slice")
	}

	if _, err := store.FindPlaylist(ctx, PlaylistFilter{ID: "p1", OwnerID: "u2"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindPlaylist(other owner) error = %v, want ErrNotFound", err)
	}

	later := base.Add(time.Hour)
	matched, err := store.UpdatePlaylist(ctx, PlaylistFilter{ID: "p1", OwnerID: "u1"}, PlaylistPatch{
		PushVideos: []models.PlaylistEntry{{VideoID: "v1", AddedAt: later}, {VideoID: "v1", AddedAt: later}},
		UpdatedAt:  later,
	})
	if err != nil || matched != 1 {
		t.Fatalf("UpdatePlaylist(push) = %d, %v; want 1, nil", matched, err)
	}

	matched, err = store.UpdatePlaylist(ctx, PlaylistFilter{ID: "p1", OwnerID: "u2"}, PlaylistPatch{UpdatedAt: later})
	if err != nil || matched != 0 {
		t.Errorf("UpdatePlaylist(other owner) = %d, %v; want 0, nil", matched, err)
	}

	got, _ = store.FindPlaylist(ctx, PlaylistFilter{ID: "p1"})
	if len(got.Videos) != 2 {
		t.Errorf("len(Videos) = %d, want 2 (duplicates allowed)", len(got.Videos))
	}
	if !got.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, later)
	}

	if _, err := store.UpdatePlaylist(ctx, PlaylistFilter{ID: "p1"}, PlaylistPatch{PullVideoID: "v1", UpdatedAt: later}); err != nil {
		t.Fatalf("UpdatePlaylist(pull): %v", err)
	}
	got, _ = store.FindPlaylist(ctx, PlaylistFilter{ID: "p1"})
	if len(got.Videos) != 0 {
		t.Errorf("len(Videos) after pull = %d, want 0", len(got.Videos))
	}

	deleted, err := store.DeletePlaylist(ctx, PlaylistFilter{ID: "p1", OwnerID: "u2"})
	if err != nil || deleted != 0 {
		t.Errorf("DeletePlaylist(other owner) = %d, %v; want 0, nil", deleted, err)
	}
	deleted, err = store.DeletePlaylist(ctx, PlaylistFilter{ID: "p1", OwnerID: "u1"})
	if err != nil || deleted != 1 {
		t.Errorf("DeletePlaylist = %d, %v; want 1, nil", deleted, err)
	}
	if n, _ := store.CountPlaylists(ctx, PlaylistFilter{OwnerID: "u1"}); n != 0 {
		t.Errorf("CountPlaylists after delete = %d, want 0", n)
	}
}

func TestBadgerStore_ShareTokenIndex(t *testing.T) {
	t.Parallel()
	store := newTestBadgerStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := store.InsertPlaylist(ctx, testPlaylist("p1", "u1", "Mix", now)); err != nil {
		t.Fatalf("InsertPlaylist: %v", err)
	}

	first, second := "tok-1", "tok-2"
	for _, tok := range []string{first, second} {
		tok := tok
		if _, err := store.UpdatePlaylist(ctx, PlaylistFilter{ID: "p1", OwnerID: "u1"}, PlaylistPatch{
			ShareToken: &tok,
			SharedAt:   &now,
			UpdatedAt:  now,
		}); err != nil {
			t.Fatalf("UpdatePlaylist(share %s): %v", tok, err)
		}
	}

	if _, err := store.FindPlaylist(ctx, PlaylistFilter{ShareToken: first}); !errors.Is(err, ErrNotFound) {
		t.Errorf("old token lookup error = %v, want ErrNotFound", err)
	}
	got, err := store.FindPlaylist(ctx, PlaylistFilter{ShareToken: second})
	if err != nil {
		t.Fatalf("FindPlaylist(token): %v", err)
	}
	if got.ID != "p1" {
		t.Errorf("resolved id = %q, want p1", got.ID)
	}

	if _, err := store.DeletePlaylist(ctx, PlaylistFilter{ID: "p1"}); err != nil {
		t.Fatalf("DeletePlaylist: %v", err)
	}
	err = store.db.View(func(txn *badger.Txn) error {
		_, getErr := txn.Get([]byte(playlistShareKey(second)))
		return getErr
	})
	if !errors.Is(err, badger.ErrKeyNotFound) {
		t.Errorf("share index after delete: err = %v, want ErrKeyNotFound", err)
	}
}

func TestBadgerStore_FindPlaylists_FiltersAndPaging(t *testing.T) {
	t.Parallel()
	store := newTestBadgerStore(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	fixtures := []*models.Playlist{
		{ID: "a", OwnerID: "u1", Name: "Rock Classics", IsPublic: true, CreatedAt: base, UpdatedAt: base.Add(3 * time.Hour)},
		{ID: "b", OwnerID: "u2", Name: "Jazz", Description: "late night ROCK fusion", IsPublic: true, CreatedAt: base.Add(time.Minute), UpdatedAt: base.Add(5 * time.Hour)},
		{ID: "c", OwnerID: "u2", Name: "Private", IsPublic: false, CreatedAt: base.Add(2 * time.Minute), UpdatedAt: base.Add(9 * time.Hour),
			Videos: []models.PlaylistEntry{{VideoID: "v9"}}},
		{ID: "d", OwnerID: "u3", Name: "Pop", IsPublic: true, CreatedAt: base.Add(3 * time.Minute), UpdatedAt: base.Add(1 * time.Hour),
			Videos: []models.PlaylistEntry{{VideoID: "v1"}}},
	}
	for _, p := range fixtures {
		if err := store.InsertPlaylist(ctx, p); err != nil {
			t.Fatalf("InsertPlaylist(%s): %v", p.ID, err)
		}
	}

	tests := []struct {
		name    string
		filter  PlaylistFilter
		opts    FindOptions
		wantIDs []string
	}{
		{name: "public by recency", filter: PlaylistFilter{PublicOnly: true}, opts: FindOptions{SortByUpdatedDesc: true}, wantIDs: []string{"b", "a", "d"}},
		{name: "public skip and limit", filter: PlaylistFilter{PublicOnly: true}, opts: FindOptions{SortByUpdatedDesc: true, Skip: 1, Limit: 1}, wantIDs: []string{"a"}},
		{name: "skip past end", filter: PlaylistFilter{PublicOnly: true}, opts: FindOptions{Skip: 10}, wantIDs: []string{}},
		{name: "owner in creation order", filter: PlaylistFilter{OwnerID: "u2"}, wantIDs: []string{"b", "c"}},
		{name: "exclude owner", filter: PlaylistFilter{PublicOnly: true, ExcludeOwner: "u2"}, opts: FindOptions{SortByUpdatedDesc: true}, wantIDs: []string{"a", "d"}},
		{name: "text over name and description", filter: PlaylistFilter{Text: "rock"}, wantIDs: []string{"a", "b"}},
		{name: "any video", filter: PlaylistFilter{AnyVideoIDs: []string{"v1", "v9"}}, wantIDs: []string{"c", "d"}},
		{name: "exact name", filter: PlaylistFilter{OwnerID: "u2", Name: "Jazz"}, wantIDs: []string{"b"}},
	}

	for _, tt := range tests {
		got, err := store.FindPlaylists(ctx, tt.filter, tt.opts)
		if err != nil {
			t.Fatalf("%s: FindPlaylists: %v", tt.name, err)
		}
		if len(got) != len(tt.wantIDs) {
			t.Errorf("%s: got %d playlists, want %d", tt.name, len(got), len(tt.wantIDs))
			continue
		}
		for i, id := range tt.wantIDs {
			if got[i].ID != id {
				t.Errorf("%s: [%d] = %s, want %s", tt.name, i, got[i].ID, id)
			}
		}
	}

	if n, err := store.CountPlaylists(ctx, PlaylistFilter{OwnerID: "u2"}); err != nil || n != 2 {
		t.Errorf("CountPlaylists(u2) = %d, %v; want 2, nil", n, err)
	}
}

func TestBadgerStore_InvalidPatch(t *testing.T) {
	t.Parallel()
	store := newTestBadgerStore(t)

	_, err := store.UpdatePlaylist(context.Background(), PlaylistFilter{ID: "x"}, PlaylistPatch{
		PushVideos:  []models.PlaylistEntry{{VideoID: "a"}},
		PullVideoID: "b",
	})
	if !errors.Is(err, ErrInvalidPatch) {
		t.Errorf("error = %v, want ErrInvalidPatch", err)
	}
}

func TestBadgerStore_PingAfterClose(t *testing.T) {
	t.Parallel()

	store, err := OpenBadger(BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping(open) = %v, want nil", err)
	}
	_ = store.Close()
	if err := store.Ping(context.Background()); err == nil {
		t.Error("Ping(closed) = nil, want error")
	}
}

func TestBadgerStore_CanceledContext(t *testing.T) {
	t.Parallel()
	store := newTestBadgerStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.FindFavorites(ctx, "u1"); !errors.Is(err, context.Canceled) {
		t.Errorf("FindFavorites(canceled) error = %v, want context.Canceled", err)
	}
}
