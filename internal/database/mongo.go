// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tomtom215/nudex-library/internal/metrics"
	"github.com/tomtom215/nudex-library/internal/models"
)

const mongoBackend = "mongo"

// Collection names.
const (
	favoritesCollection = "favorites"
	historyCollection   = "history"
	playlistsCollection = "playlists"
)

// MongoOptions configures OpenMongo.
type MongoOptions struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// MongoStore implements Store on MongoDB.
type MongoStore struct {
	client    *mongo.Client
	favorites *mongo.Collection
	history   *mongo.Collection
	playlists *mongo.Collection
	timeout   time.Duration
}

// OpenMongo connects, verifies the deployment and ensures indexes.
func OpenMongo(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(opts.URI).
		SetServerSelectionTimeout(opts.Timeout))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background()) //nolint:errcheck // already failing
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(opts.Database)
	s := &MongoStore{
		client:    client,
		favorites: db.Collection(favoritesCollection),
		history:   db.Collection(historyCollection),
		playlists: db.Collection(playlistsCollection),
		timeout:   opts.Timeout,
	}

	if err := s.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background()) //nolint:errcheck // already failing
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	if _, err := s.favorites.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("create favorites index: %w", err)
	}

	if _, err := s.history.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("create history index: %w", err)
	}

	// (user_id, name) is not unique; renames are not re-checked.
	if _, err := s.playlists.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "share_token", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "is_public", Value: 1}, {Key: "updated_at", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("create playlist indexes: %w", err)
	}
	return nil
}

// Backend implements Store.
func (s *MongoStore) Backend() string { return mongoBackend }

// Ping implements Store.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close implements Store.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func trackMongo(op string) func(err error) {
	start := time.Now()
	return func(err error) {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrVersionConflict) {
			err = nil
		}
		metrics.RecordStoreOperation(mongoBackend, op, time.Since(start), err)
	}
}

// FindFavorites implements Store.
func (s *MongoStore) FindFavorites(ctx context.Context, owner string) (set *models.FavoriteSet, err error) {
	done := trackMongo("find_favorites")
	defer func() { done(err) }()

	var fav models.FavoriteSet
	err = s.favorites.FindOne(ctx, bson.M{"user_id": owner}).Decode(&fav)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find favorites: %w", err)
	}
	return &fav, nil
}

// UpsertFavorites implements Store.
func (s *MongoStore) UpsertFavorites(ctx context.Context, set *models.FavoriteSet) (err error) {
	done := trackMongo("upsert_favorites")
	defer func() { done(err) }()

	if set.VideoIDs == nil {
		set.VideoIDs = []string{}
	}
	_, err = s.favorites.ReplaceOne(ctx,
		bson.M{"user_id": set.OwnerID},
		set,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert favorites: %w", err)
	}
	return nil
}

// FindHistory implements Store.
func (s *MongoStore) FindHistory(ctx context.Context, owner string) (ledger *models.HistoryLedger, err error) {
	done := trackMongo("find_history")
	defer func() { done(err) }()

	var h models.HistoryLedger
	err = s.history.FindOne(ctx, bson.M{"user_id": owner}).Decode(&h)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find history: %w", err)
	}
	return &h, nil
}

// SaveHistory implements Store as a conditional replace on (user_id, version).
// Ledgers written before versioning carry no version field and count as 0.
// When expectedVersion is 0 the replace upserts; if another writer created
// the ledger first, the unique user_id index rejects the insert and the
// call reports ErrVersionConflict.
func (s *MongoStore) SaveHistory(ctx context.Context, ledger *models.HistoryLedger, expectedVersion int64) (err error) {
	done := trackMongo("save_history")
	defer func() { done(err) }()

	next := *ledger
	next.Version = expectedVersion + 1
	if next.Items == nil {
		next.Items = []models.HistoryEntry{}
	}

	filter := bson.M{"user_id": ledger.OwnerID, "version": expectedVersion}
	if expectedVersion == 0 {
		filter = bson.M{
			"user_id": ledger.OwnerID,
			"$or": bson.A{
				bson.M{"version": bson.M{"$exists": false}},
				bson.M{"version": 0},
			},
		}
	}

	res, err := s.history.ReplaceOne(ctx, filter, &next,
		options.Replace().SetUpsert(expectedVersion == 0))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrVersionConflict
		}
		return fmt.Errorf("save history: %w", err)
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrVersionConflict
	}

	ledger.Version = next.Version
	return nil
}

// playlistQuery translates a PlaylistFilter into a MongoDB query document.
func playlistQuery(f *PlaylistFilter) bson.M {
	q := bson.M{}
	if f.ID != "" {
		q["id"] = f.ID
	}
	switch {
	case f.OwnerID != "":
		q["user_id"] = f.OwnerID
	case f.ExcludeOwner != "":
		q["user_id"] = bson.M{"$ne": f.ExcludeOwner}
	}
	if f.OwnerID != "" && f.ExcludeOwner != "" {
		q["$and"] = bson.A{
			bson.M{"user_id": f.OwnerID},
			bson.M{"user_id": bson.M{"$ne": f.ExcludeOwner}},
		}
	}
	if f.Name != "" {
		q["name"] = f.Name
	}
	if f.ShareToken != "" {
		q["share_token"] = f.ShareToken
	}
	if f.PublicOnly {
		q["is_public"] = true
	}
	if f.Text != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(f.Text), "$options": "i"}
		q["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}
	if len(f.AnyVideoIDs) > 0 {
		q["videos.video_id"] = bson.M{"$in": f.AnyVideoIDs}
	}
	return q
}

// playlistUpdate translates a PlaylistPatch into $set/$push/$pull.
func playlistUpdate(p *PlaylistPatch) bson.M {
	set := bson.M{"updated_at": p.UpdatedAt}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.IsPublic != nil {
		set["is_public"] = *p.IsPublic
	}
	if p.ShareToken != nil {
		set["share_token"] = *p.ShareToken
	}
	if p.SharedAt != nil {
		set["shared_at"] = *p.SharedAt
	}

	update := bson.M{"$set": set}
	if len(p.PushVideos) > 0 {
		update["$push"] = bson.M{"videos": bson.M{"$each": p.PushVideos}}
	}
	if p.PullVideoID != "" {
		update["$pull"] = bson.M{"videos": bson.M{"video_id": p.PullVideoID}}
	}
	return update
}

func findOrder(opts FindOptions) bson.D {
	if opts.SortByUpdatedDesc {
		return bson.D{{Key: "updated_at", Value: -1}}
	}
	return bson.D{{Key: "created_at", Value: 1}, {Key: "id", Value: 1}}
}

// FindPlaylist implements Store.
func (s *MongoStore) FindPlaylist(ctx context.Context, filter PlaylistFilter) (p *models.Playlist, err error) {
	done := trackMongo("find_playlist")
	defer func() { done(err) }()

	var pl models.Playlist
	err = s.playlists.FindOne(ctx, playlistQuery(&filter),
		options.FindOne().SetSort(findOrder(FindOptions{}))).Decode(&pl)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find playlist: %w", err)
	}
	normalizePlaylist(&pl)
	return &pl, nil
}

// FindPlaylists implements Store.
func (s *MongoStore) FindPlaylists(ctx context.Context, filter PlaylistFilter, opts FindOptions) (list []models.Playlist, err error) {
	done := trackMongo("find_playlists")
	defer func() { done(err) }()

	findOpts := options.Find().SetSort(findOrder(opts))
	if opts.Skip > 0 {
		findOpts.SetSkip(int64(opts.Skip))
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cursor, err := s.playlists.Find(ctx, playlistQuery(&filter), findOpts)
	if err != nil {
		return nil, fmt.Errorf("find playlists: %w", err)
	}
	defer cursor.Close(ctx) //nolint:errcheck // cursor close error is not actionable

	list = []models.Playlist{}
	if err = cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode playlists: %w", err)
	}
	for i := range list {
		normalizePlaylist(&list[i])
	}
	return list, nil
}

// CountPlaylists implements Store.
func (s *MongoStore) CountPlaylists(ctx context.Context, filter PlaylistFilter) (n int64, err error) {
	done := trackMongo("count_playlists")
	defer func() { done(err) }()

	n, err = s.playlists.CountDocuments(ctx, playlistQuery(&filter))
	if err != nil {
		return 0, fmt.Errorf("count playlists: %w", err)
	}
	return n, nil
}

// InsertPlaylist implements Store.
func (s *MongoStore) InsertPlaylist(ctx context.Context, p *models.Playlist) (err error) {
	done := trackMongo("insert_playlist")
	defer func() { done(err) }()

	normalizePlaylist(p)
	if _, err = s.playlists.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("insert playlist: %w", err)
	}
	return nil
}

// UpdatePlaylist implements Store.
func (s *MongoStore) UpdatePlaylist(ctx context.Context, filter PlaylistFilter, patch PlaylistPatch) (matched int64, err error) {
	done := trackMongo("update_playlist")
	defer func() { done(err) }()

	if err = patch.validate(); err != nil {
		return 0, err
	}

	res, err := s.playlists.UpdateOne(ctx, playlistQuery(&filter), playlistUpdate(&patch))
	if err != nil {
		return 0, fmt.Errorf("update playlist: %w", err)
	}
	return res.MatchedCount, nil
}

// DeletePlaylist implements Store. The share token lives on the document, so
// deleting the document also retires the token.
func (s *MongoStore) DeletePlaylist(ctx context.Context, filter PlaylistFilter) (deleted int64, err error) {
	done := trackMongo("delete_playlist")
	defer func() { done(err) }()

	res, err := s.playlists.DeleteOne(ctx, playlistQuery(&filter))
	if err != nil {
		return 0, fmt.Errorf("delete playlist: %w", err)
	}
	return res.DeletedCount, nil
}
