// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

// Package models defines the persisted documents and the HTTP payloads of the
// library service. Persisted types carry both json tags (Badger documents and
// API bodies) and bson tags (MongoDB documents).
package models

import (
	"time"
)

// FavoriteSet is the per-owner set of favorited video ids.
//
// VideoIDs is treated as a set: it never holds a duplicate. Insertion order is
// kept only so listings are stable; callers must not rely on it.
type FavoriteSet struct {
	OwnerID   string    `json:"user_id" bson:"user_id"`
	VideoIDs  []string  `json:"video_ids" bson:"video_ids"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Contains reports whether videoID is in the set.
func (f *FavoriteSet) Contains(videoID string) bool {
	for _, id := range f.VideoIDs {
		if id == videoID {
			return true
		}
	}
	return false
}

// HistoryEntry is a single watch event kept in a ledger.
type HistoryEntry struct {
	VideoID   string    `json:"video_id" bson:"video_id"`
	WatchedAt time.Time `json:"watched_at" bson:"watched_at"`
	Progress  int       `json:"progress" bson:"progress"`
}

// HistoryLedger is the bounded most-recent-first watch history of one owner.
//
// Invariants maintained by the library package:
//   - at most one entry per video id
//   - Items[0] is the most recently recorded watch
//   - len(Items) never exceeds the configured capacity
//
// Version is bumped on every successful write and is the compare-and-swap
// token for SaveHistory. A ledger that was never stored has Version 0.
type HistoryLedger struct {
	OwnerID   string         `json:"user_id" bson:"user_id"`
	Items     []HistoryEntry `json:"items" bson:"items"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
	Version   int64          `json:"version" bson:"version"`
}

// PlaylistEntry is one video in a playlist. Playlists may hold the same
// video more than once.
type PlaylistEntry struct {
	VideoID string    `json:"video_id" bson:"video_id"`
	AddedAt time.Time `json:"added_at" bson:"added_at"`
}

// Playlist is a named, ordered, owner-scoped list of videos.
//
// OwnerID and ShareToken are omitted from JSON when empty; Redacted clears
// both so that public views never reveal who owns a playlist.
type Playlist struct {
	ID          string          `json:"id" bson:"id"`
	OwnerID     string          `json:"user_id,omitempty" bson:"user_id"`
	Name        string          `json:"name" bson:"name"`
	Description string          `json:"description" bson:"description"`
	Videos      []PlaylistEntry `json:"videos" bson:"videos"`
	IsPublic    bool            `json:"is_public" bson:"is_public"`
	ShareToken  string          `json:"share_token,omitempty" bson:"share_token,omitempty"`
	SharedAt    *time.Time      `json:"shared_at,omitempty" bson:"shared_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" bson:"updated_at"`
}

// Redacted returns a copy without owner identity or share token.
func (p Playlist) Redacted() Playlist {
	p.OwnerID = ""
	p.ShareToken = ""
	videos := make([]PlaylistEntry, len(p.Videos))
	copy(videos, p.Videos)
	p.Videos = videos
	return p
}

// VideoIDSet returns the distinct video ids held by the playlist.
func (p *Playlist) VideoIDSet() map[string]struct{} {
	ids := make(map[string]struct{}, len(p.Videos))
	for _, v := range p.Videos {
		ids[v.VideoID] = struct{}{}
	}
	return ids
}
