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

	"github.com/tomtom215/nudex-library/internal/database"
	"github.com/tomtom215/nudex-library/internal/logging"
	"github.com/tomtom215/nudex-library/internal/metrics"
	"github.com/tomtom215/nudex-library/internal/models"
)

// RecordWatch puts a watch of videoID at the front of the owner's ledger.
//
// Any earlier entry for the same video is dropped and the ledger is truncated
// to capacity. The whole change is one compare-and-swap on the ledger version;
// when another writer got there first the ledger is re-read and the change
// re-applied, up to HistoryMaxAttempts times. Storage errors are not retried.
func (s *Service) RecordWatch(ctx context.Context, owner, videoID string, progress int) (entry models.HistoryEntry, err error) {
	defer s.observe("record_watch", &err)

	if progress < 0 {
		return models.HistoryEntry{}, validationError("progress must not be negative")
	}

	entry = models.HistoryEntry{
		VideoID:   videoID,
		WatchedAt: s.clock(),
		Progress:  progress,
	}

	for attempt := 1; attempt <= s.opts.HistoryMaxAttempts; attempt++ {
		ledger, findErr := s.store.FindHistory(ctx, owner)
		var expected int64
		switch {
		case errors.Is(findErr, database.ErrNotFound):
			ledger = &models.HistoryLedger{OwnerID: owner}
		case findErr != nil:
			return models.HistoryEntry{}, storageError("load history", findErr)
		default:
			expected = ledger.Version
		}

		ledger.Items = pushFront(ledger.Items, entry, s.opts.HistoryCapacity)
		ledger.UpdatedAt = entry.WatchedAt

		saveErr := s.store.SaveHistory(ctx, ledger, expected)
		if saveErr == nil {
			return entry, nil
		}
		if !errors.Is(saveErr, database.ErrVersionConflict) {
			return models.HistoryEntry{}, storageError("save history", saveErr)
		}

		metrics.RecordHistoryConflict()
		logging.Ctx(ctx).Debug().
			Int("attempt", attempt).
			Int64("expected_version", expected).
			Msg("History version conflict, retrying")
	}

	return models.HistoryEntry{}, fmt.Errorf("save history after %d attempts: %w: %w",
		s.opts.HistoryMaxAttempts, ErrStorage, ErrConflict)
}

// pushFront returns a new slice with entry first, followed by items minus any
// entry for the same video, capped at capacity.
func pushFront(items []models.HistoryEntry, entry models.HistoryEntry, capacity int) []models.HistoryEntry {
	size := len(items) + 1
	if size > capacity {
		size = capacity
	}

	out := make([]models.HistoryEntry, 0, size)
	out = append(out, entry)
	for _, it := range items {
		if len(out) == capacity {
			break
		}
		if it.VideoID != entry.VideoID {
			out = append(out, it)
		}
	}
	return out
}

// History returns the owner's watch history, most recent first, capped at
// limit. A limit of zero or less returns everything. Entries are sorted by
// watched_at rather than trusting the stored order.
func (s *Service) History(ctx context.Context, owner string, limit int) ([]models.HistoryEntry, error) {
	ledger, err := s.store.FindHistory(ctx, owner)
	if errors.Is(err, database.ErrNotFound) {
		return []models.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, storageError("load history", err)
	}

	items := make([]models.HistoryEntry, len(ledger.Items))
	copy(items, ledger.Items)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].WatchedAt.After(items[j].WatchedAt)
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
