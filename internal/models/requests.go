// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package models

import "time"

// Favorite toggle actions.
const (
	FavoriteAdd    = "add"
	FavoriteRemove = "remove"
)

// FavoriteToggleRequest is the body of POST /favorites.
type FavoriteToggleRequest struct {
	VideoID string `json:"video_id" validate:"required,notblank,max=256"`
	Action  string `json:"action" validate:"required,oneof=add remove"`
}

// FavoriteToggleResponse reports what the toggle did. Action is "added" or
// "removed" regardless of whether the set actually changed.
type FavoriteToggleResponse struct {
	Action         string `json:"action"`
	VideoID        string `json:"video_id"`
	TotalFavorites int    `json:"total_favorites"`
}

// FavoritesResponse is the body of GET /favorites.
type FavoritesResponse struct {
	OwnerID  string   `json:"user_id"`
	VideoIDs []string `json:"video_ids"`
	Count    int      `json:"count"`
}

// HistoryRecordRequest is the body of POST /history.
type HistoryRecordRequest struct {
	VideoID  string `json:"video_id" validate:"required,notblank,max=256"`
	Progress int    `json:"progress" validate:"gte=0"`
}

// HistoryRecordResponse is the body of POST /history.
type HistoryRecordResponse struct {
	Message string       `json:"message"`
	Entry   HistoryEntry `json:"entry"`
}

// HistoryResponse is the body of GET /history.
type HistoryResponse struct {
	OwnerID string         `json:"user_id"`
	Items   []HistoryEntry `json:"items"`
	Count   int            `json:"count"`
}

// CreatePlaylistRequest is the body of POST /playlists.
type CreatePlaylistRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=2000"`
	IsPublic    bool   `json:"is_public"`
}

// UpdatePlaylistRequest is the body of PUT /playlists/{id}. Absent fields are
// left unchanged.
type UpdatePlaylistRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,notblank,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

// AddVideoRequest is the body of POST /playlists/{id}/videos.
type AddVideoRequest struct {
	VideoID string `json:"video_id" validate:"required,notblank,max=256"`
}

// PlaylistCreatedResponse is the body of POST /playlists and of duplicate.
type PlaylistCreatedResponse struct {
	ID       string   `json:"id"`
	Message  string   `json:"message"`
	Playlist Playlist `json:"playlist"`
}

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// PlaylistsResponse wraps a playlist listing.
type PlaylistsResponse struct {
	Playlists []Playlist `json:"playlists"`
	Count     int        `json:"count"`
}

// ShareLinkResponse is returned by POST /playlists/{id}/share.
type ShareLinkResponse struct {
	ShareLink  string `json:"share_link"`
	ShareToken string `json:"share_token"`
}

// RecommendationsResponse is the body of GET /recommendations/playlists.
type RecommendationsResponse struct {
	Recommendations []Playlist `json:"recommendations"`
	Reason          string     `json:"reason"`
}

// ImportVideo is one entry of an import payload.
type ImportVideo struct {
	VideoID string     `json:"video_id" validate:"required,notblank,max=256"`
	AddedAt *time.Time `json:"added_at,omitempty"`
}

// ImportPlaylistRequest is the accepted import schema. Title is the legacy
// spelling of Name; Name wins when both are set.
type ImportPlaylistRequest struct {
	Name        string        `json:"name,omitempty" validate:"max=200"`
	Title       string        `json:"title,omitempty" validate:"max=200"`
	Description string        `json:"description,omitempty" validate:"max=2000"`
	Videos      []ImportVideo `json:"videos,omitempty" validate:"max=5000,dive"`
}

// ImportPlaylistResponse reports the id of the imported playlist.
type ImportPlaylistResponse struct {
	PlaylistID string `json:"playlist_id"`
	Name       string `json:"name"`
	VideoCount int    `json:"video_count"`
}
