// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/nudex-library/internal/metrics"
	"github.com/tomtom215/nudex-library/internal/models"
)

// Key prefixes for BadgerDB storage
const (
	favoritesKeyPrefix     = "favorites:"
	historyKeyPrefix       = "history:"
	playlistKeyPrefix      = "playlist:"
	playlistOwnerKeyPrefix = "playlist_owner:"
	playlistShareKeyPrefix = "playlist_share:"
)

const badgerBackend = "badger"

// maxTxnAttempts bounds retries of read-modify-write transactions that lost
// a Badger conflict check. It emulates the single-document atomicity of
// MongoDB's $set/$push/$pull for favorites and playlists.
const maxTxnAttempts = 5

// BadgerOptions configures OpenBadger.
type BadgerOptions struct {
	Path       string
	InMemory   bool
	SyncWrites bool
}

// BadgerStore implements Store on an embedded BadgerDB.
//
// Documents are JSON encoded. Playlists are keyed by id with two secondary
// index keys: playlist_owner:<owner>:<id> and playlist_share:<token>.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a Badger database.
func OpenBadger(opts BadgerOptions) (*BadgerStore, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts = bopts.WithSyncWrites(opts.SyncWrites)
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// NewBadgerStore wraps an already opened database.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Backend implements Store.
func (s *BadgerStore) Backend() string { return badgerBackend }

// Ping implements Store.
func (s *BadgerStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return errors.New("badger: database is closed")
	}
	return s.db.View(func(txn *badger.Txn) error { return nil })
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func track(op string) func(err error) {
	start := time.Now()
	return func(err error) {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrVersionConflict) {
			err = nil
		}
		metrics.RecordStoreOperation(badgerBackend, op, time.Since(start), err)
	}
}

// getJSON loads key into dst, mapping a missing key to ErrNotFound.
func getJSON(txn *badger.Txn, key string, dst interface{}) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dst)
	})
}

func setJSON(txn *badger.Txn, key string, src interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set([]byte(key), data)
}

// update runs fn in a read-write transaction, retrying when the commit loses
// a conflict check against a concurrent writer.
func (s *BadgerStore) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxTxnAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// FindFavorites implements Store.
func (s *BadgerStore) FindFavorites(ctx context.Context, owner string) (set *models.FavoriteSet, err error) {
	done := track("find_favorites")
	defer func() { done(err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var fav models.FavoriteSet
	err = s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, favoritesKeyPrefix+owner, &fav)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get favorites: %w", err)
	}
	return &fav, nil
}

// UpsertFavorites implements Store.
func (s *BadgerStore) UpsertFavorites(ctx context.Context, set *models.FavoriteSet) (err error) {
	done := track("upsert_favorites")
	defer func() { done(err) }()

	err = s.update(ctx, func(txn *badger.Txn) error {
		return setJSON(txn, favoritesKeyPrefix+set.OwnerID, set)
	})
	if err != nil {
		return fmt.Errorf("set favorites: %w", err)
	}
	return nil
}

// FindHistory implements Store.
func (s *BadgerStore) FindHistory(ctx context.Context, owner string) (ledger *models.HistoryLedger, err error) {
	done := track("find_history")
	defer func() { done(err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var h models.HistoryLedger
	err = s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, historyKeyPrefix+owner, &h)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get history: %w", err)
	}
	return &h, nil
}

// SaveHistory implements Store. The version check and the write share one
// transaction, and a lost Badger conflict check is reported as
// ErrVersionConflict so the caller re-reads and re-applies.
func (s *BadgerStore) SaveHistory(ctx context.Context, ledger *models.HistoryLedger, expectedVersion int64) (err error) {
	done := track("save_history")
	defer func() { done(err) }()

	if err := ctx.Err(); err != nil {
		return err
	}

	next := *ledger
	next.Version = expectedVersion + 1

	err = s.db.Update(func(txn *badger.Txn) error {
		var current models.HistoryLedger
		var currentVersion int64
		switch getErr := getJSON(txn, historyKeyPrefix+ledger.OwnerID, &current); {
		case getErr == nil:
			currentVersion = current.Version
		case errors.Is(getErr, ErrNotFound):
			currentVersion = 0
		default:
			return getErr
		}

		if currentVersion != expectedVersion {
			return ErrVersionConflict
		}
		return setJSON(txn, historyKeyPrefix+ledger.OwnerID, &next)
	})
	switch {
	case err == nil:
		ledger.Version = next.Version
		return nil
	case errors.Is(err, ErrVersionConflict), errors.Is(err, badger.ErrConflict):
		return ErrVersionConflict
	default:
		return fmt.Errorf("save history: %w", err)
	}
}

func playlistKey(id string) string {
	return playlistKeyPrefix + id
}

func playlistOwnerKey(owner, id string) string {
	return playlistOwnerKeyPrefix + owner + ":" + id
}

func playlistShareKey(token string) string {
	return playlistShareKeyPrefix + token
}

// candidateIDs narrows a filter to playlist ids using the index keys.
// A nil result with ok=false means "scan everything".
func candidateIDs(txn *badger.Txn, filter *PlaylistFilter) (ids []string, ok bool, err error) {
	switch {
	case filter.ID != "":
		return []string{filter.ID}, true, nil

	case filter.ShareToken != "":
		item, getErr := txn.Get([]byte(playlistShareKey(filter.ShareToken)))
		if errors.Is(getErr, badger.ErrKeyNotFound) {
			return nil, true, nil
		}
		if getErr != nil {
			return nil, false, getErr
		}
		val, copyErr := item.ValueCopy(nil)
		if copyErr != nil {
			return nil, false, copyErr
		}
		return []string{string(val)}, true, nil

	case filter.OwnerID != "":
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(playlistOwnerKeyPrefix + filter.OwnerID + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			val, copyErr := it.Item().ValueCopy(nil)
			if copyErr != nil {
				return nil, false, copyErr
			}
			ids = append(ids, string(val))
		}
		return ids, true, nil
	}
	return nil, false, nil
}

// matchPlaylists returns every playlist satisfying filter, unordered.
func matchPlaylists(txn *badger.Txn, filter *PlaylistFilter) ([]models.Playlist, error) {
	ids, indexed, err := candidateIDs(txn, filter)
	if err != nil {
		return nil, err
	}

	var out []models.Playlist
	if indexed {
		for _, id := range ids {
			var p models.Playlist
			getErr := getJSON(txn, playlistKey(id), &p)
			if errors.Is(getErr, ErrNotFound) {
				continue
			}
			if getErr != nil {
				return nil, getErr
			}
			if filter.Match(&p) {
				normalizePlaylist(&p)
				out = append(out, p)
			}
		}
		return out, nil
	}

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	it := txn.NewIterator(opts)
	defer it.Close()

	prefix := []byte(playlistKeyPrefix)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var p models.Playlist
		valErr := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
		if valErr != nil {
			return nil, valErr
		}
		if filter.Match(&p) {
			normalizePlaylist(&p)
			out = append(out, p)
		}
	}
	return out, nil
}

// firstMatch returns the earliest-created playlist matching filter.
func firstMatch(txn *badger.Txn, filter *PlaylistFilter) (*models.Playlist, error) {
	list, err := matchPlaylists(txn, filter)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	list = sortAndPage(list, FindOptions{Limit: 1})
	return &list[0], nil
}

// FindPlaylist implements Store.
func (s *BadgerStore) FindPlaylist(ctx context.Context, filter PlaylistFilter) (p *models.Playlist, err error) {
	done := track("find_playlist")
	defer func() { done(err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err = s.db.View(func(txn *badger.Txn) error {
		var findErr error
		p, findErr = firstMatch(txn, &filter)
		return findErr
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find playlist: %w", err)
	}
	return p, nil
}

// FindPlaylists implements Store.
func (s *BadgerStore) FindPlaylists(ctx context.Context, filter PlaylistFilter, opts FindOptions) (list []models.Playlist, err error) {
	done := track("find_playlists")
	defer func() { done(err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err = s.db.View(func(txn *badger.Txn) error {
		var matchErr error
		list, matchErr = matchPlaylists(txn, &filter)
		return matchErr
	})
	if err != nil {
		return nil, fmt.Errorf("find playlists: %w", err)
	}
	if list == nil {
		return []models.Playlist{}, nil
	}
	return sortAndPage(list, opts), nil
}

// CountPlaylists implements Store.
func (s *BadgerStore) CountPlaylists(ctx context.Context, filter PlaylistFilter) (n int64, err error) {
	done := track("count_playlists")
	defer func() { done(err) }()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	err = s.db.View(func(txn *badger.Txn) error {
		list, matchErr := matchPlaylists(txn, &filter)
		n = int64(len(list))
		return matchErr
	})
	if err != nil {
		return 0, fmt.Errorf("count playlists: %w", err)
	}
	return n, nil
}

// InsertPlaylist implements Store.
func (s *BadgerStore) InsertPlaylist(ctx context.Context, p *models.Playlist) (err error) {
	done := track("insert_playlist")
	defer func() { done(err) }()

	normalizePlaylist(p)

	err = s.update(ctx, func(txn *badger.Txn) error {
		if _, getErr := txn.Get([]byte(playlistKey(p.ID))); getErr == nil {
			return ErrDuplicateKey
		} else if !errors.Is(getErr, badger.ErrKeyNotFound) {
			return getErr
		}

		if err := setJSON(txn, playlistKey(p.ID), p); err != nil {
			return err
		}
		if err := txn.Set([]byte(playlistOwnerKey(p.OwnerID, p.ID)), []byte(p.ID)); err != nil {
			return fmt.Errorf("set owner index: %w", err)
		}
		if p.ShareToken != "" {
			if err := txn.Set([]byte(playlistShareKey(p.ShareToken)), []byte(p.ID)); err != nil {
				return fmt.Errorf("set share index: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return err
		}
		return fmt.Errorf("insert playlist: %w", err)
	}
	return nil
}

// UpdatePlaylist implements Store.
func (s *BadgerStore) UpdatePlaylist(ctx context.Context, filter PlaylistFilter, patch PlaylistPatch) (matched int64, err error) {
	done := track("update_playlist")
	defer func() { done(err) }()

	if err := patch.validate(); err != nil {
		return 0, err
	}

	err = s.update(ctx, func(txn *badger.Txn) error {
		matched = 0
		p, findErr := firstMatch(txn, &filter)
		if errors.Is(findErr, ErrNotFound) {
			return nil
		}
		if findErr != nil {
			return findErr
		}

		oldToken := p.ShareToken
		patch.Apply(p)

		if err := setJSON(txn, playlistKey(p.ID), p); err != nil {
			return err
		}
		if p.ShareToken != oldToken {
			if oldToken != "" {
				if err := txn.Delete([]byte(playlistShareKey(oldToken))); err != nil {
					return fmt.Errorf("delete share index: %w", err)
				}
			}
			if p.ShareToken != "" {
				if err := txn.Set([]byte(playlistShareKey(p.ShareToken)), []byte(p.ID)); err != nil {
					return fmt.Errorf("set share index: %w", err)
				}
			}
		}
		matched = 1
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("update playlist: %w", err)
	}
	return matched, nil
}

// DeletePlaylist implements Store.
func (s *BadgerStore) DeletePlaylist(ctx context.Context, filter PlaylistFilter) (deleted int64, err error) {
	done := track("delete_playlist")
	defer func() { done(err) }()

	err = s.update(ctx, func(txn *badger.Txn) error {
		deleted = 0
		p, findErr := firstMatch(txn, &filter)
		if errors.Is(findErr, ErrNotFound) {
			return nil
		}
		if findErr != nil {
			return findErr
		}

		if err := txn.Delete([]byte(playlistKey(p.ID))); err != nil {
			return fmt.Errorf("delete playlist: %w", err)
		}
		if err := txn.Delete([]byte(playlistOwnerKey(p.OwnerID, p.ID))); err != nil {
			return fmt.Errorf("delete owner index: %w", err)
		}
		if p.ShareToken != "" {
			if err := txn.Delete([]byte(playlistShareKey(p.ShareToken))); err != nil {
				return fmt.Errorf("delete share index: %w", err)
			}
		}
		deleted = 1
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete playlist: %w", err)
	}
	return deleted, nil
}
