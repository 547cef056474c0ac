// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package models

import "time"

// LibraryOverview summarizes one owner's library.
type LibraryOverview struct {
	TotalFavorites      int            `json:"total_favorites"`
	TotalPlaylists      int64          `json:"total_playlists"`
	TotalPlaylistVideos int            `json:"total_playlist_videos"`
	TotalWatched        int            `json:"total_watched"`
	RecentActivity      int            `json:"recent_activity"`
	RecentPlaylists     []Playlist     `json:"recent_playlists"`
	RecentHistory       []HistoryEntry `json:"recent_history"`
}

// DailyWatchStats aggregates watches for one UTC day.
type DailyWatchStats struct {
	Date          string `json:"date"`
	VideosWatched int    `json:"videos_watched"`
	TotalProgress int    `json:"total_progress"`
}

// WatchTimeReport covers the ledger entries inside a trailing window.
type WatchTimeReport struct {
	Period           string            `json:"period"`
	TotalVideos      int               `json:"total_videos"`
	TotalTimeSeconds int               `json:"total_time_seconds"`
	DailyStats       []DailyWatchStats `json:"daily_stats"`
}

// LibraryExport is the full per-owner data dump.
type LibraryExport struct {
	ExportDate time.Time      `json:"export_date"`
	OwnerID    string         `json:"user_id"`
	Favorites  []string       `json:"favorites"`
	Playlists  []Playlist     `json:"playlists"`
	History    []HistoryEntry `json:"history"`
}
