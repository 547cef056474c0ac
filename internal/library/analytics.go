// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package library

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/nudex-library/internal/database"
	"github.com/tomtom215/nudex-library/internal/models"
)

const (
	overviewRecentPlaylists = 5
	overviewRecentHistory   = 10
)

// ledgerItems returns the owner's stored history, empty when none exists.
func (s *Service) ledgerItems(ctx context.Context, owner string) ([]models.HistoryEntry, error) {
	ledger, err := s.store.FindHistory(ctx, owner)
	if errors.Is(err, database.ErrNotFound) {
		return []models.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, storageError("load history", err)
	}
	if ledger.Items == nil {
		return []models.HistoryEntry{}, nil
	}
	return ledger.Items, nil
}

// Overview summarizes the owner's library.
func (s *Service) Overview(ctx context.Context, owner string) (*models.LibraryOverview, error) {
	favorites, err := s.Favorites(ctx, owner)
	if err != nil {
		return nil, err
	}

	total, err := s.store.CountPlaylists(ctx, database.PlaylistFilter{OwnerID: owner})
	if err != nil {
		return nil, storageError("count playlists", err)
	}

	playlists, err := s.Playlists(ctx, owner)
	if err != nil {
		return nil, err
	}
	videos := 0
	for i := range playlists {
		videos += len(playlists[i].Videos)
	}

	recent, err := s.store.FindPlaylists(ctx,
		database.PlaylistFilter{OwnerID: owner},
		database.FindOptions{SortByUpdatedDesc: true, Limit: overviewRecentPlaylists})
	if err != nil {
		return nil, storageError("list recent playlists", err)
	}

	items, err := s.ledgerItems(ctx, owner)
	if err != nil {
		return nil, err
	}

	cutoff := s.clock().Add(-s.opts.RecentActivityWindow)
	recentHistory := []models.HistoryEntry{}
	activity := 0
	for _, it := range items {
		if !it.WatchedAt.After(cutoff) {
			continue
		}
		activity++
		if len(recentHistory) < overviewRecentHistory {
			recentHistory = append(recentHistory, it)
		}
	}

	return &models.LibraryOverview{
		TotalFavorites:      len(favorites),
		TotalPlaylists:      total,
		TotalPlaylistVideos: videos,
		TotalWatched:        len(items),
		RecentActivity:      activity,
		RecentPlaylists:     recent,
		RecentHistory:       recentHistory,
	}, nil
}

// WatchTime aggregates ledger entries watched in the trailing days per UTC
// calendar day, oldest day first. Progress is summed as seconds watched.
func (s *Service) WatchTime(ctx context.Context, owner string, days int) (*models.WatchTimeReport, error) {
	if days <= 0 {
		return nil, validationError("days must be positive")
	}

	items, err := s.ledgerItems(ctx, owner)
	if err != nil {
		return nil, err
	}

	cutoff := s.clock().Add(-time.Duration(days) * 24 * time.Hour)
	byDay := make(map[string]*models.DailyWatchStats)
	report := &models.WatchTimeReport{
		Period:     fmt.Sprintf("%d days", days),
		DailyStats: []models.DailyWatchStats{},
	}

	for _, it := range items {
		if !it.WatchedAt.After(cutoff) {
			continue
		}
		day := it.WatchedAt.UTC().Format("2006-01-02")
		stats, ok := byDay[day]
		if !ok {
			stats = &models.DailyWatchStats{Date: day}
			byDay[day] = stats
		}
		stats.VideosWatched++
		stats.TotalProgress += it.Progress

		report.TotalVideos++
		report.TotalTimeSeconds += it.Progress
	}

	for _, stats := range byDay {
		report.DailyStats = append(report.DailyStats, *stats)
	}
	sort.Slice(report.DailyStats, func(i, j int) bool {
		return report.DailyStats[i].Date < report.DailyStats[j].Date
	})
	return report, nil
}
