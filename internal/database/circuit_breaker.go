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

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/nudex-library/internal/logging"
	"github.com/tomtom215/nudex-library/internal/metrics"
	"github.com/tomtom215/nudex-library/internal/models"
)

// BreakerSettings tunes BreakerStore.
type BreakerSettings struct {
	MaxRequests  uint32        // requests allowed through in half-open state
	Interval     time.Duration // closed-state counter reset period
	Timeout      time.Duration // open-state duration before half-open
	FailureRatio float64       // trip when failures/requests reaches this ratio
	MinRequests  uint32        // ...and at least this many requests were seen
}

// BreakerStore wraps a Store with a circuit breaker. Lookups that find
// nothing, version conflicts and duplicate keys are outcomes of a healthy
// store and never count as failures. Rejections while open are returned as
// gobreaker.ErrOpenState / ErrTooManyRequests wrapped with the operation.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[interface{}]
	name string
}

// NewBreakerStore wraps next.
func NewBreakerStore(next Store, settings BreakerSettings) *BreakerStore {
	name := "store-" + next.Backend()

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= settings.FailureRatio {
				logging.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("Opening store circuit")
				return true
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("Store circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},

		IsSuccessful: isHealthyOutcome,
	})

	return &BreakerStore{next: next, cb: cb, name: name}
}

func isHealthyOutcome(err error) bool {
	return err == nil ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrVersionConflict) ||
		errors.Is(err, ErrDuplicateKey) ||
		errors.Is(err, ErrInvalidPatch) ||
		errors.Is(err, context.Canceled)
}

// State returns the current breaker state.
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerStore) execute(op string, fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	case !isHealthyOutcome(err):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	}
	return result, err
}

// castResult type-asserts a breaker result.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Backend implements Store.
func (b *BreakerStore) Backend() string { return b.next.Backend() }

// Close implements Store. Closing bypasses the breaker.
func (b *BreakerStore) Close() error { return b.next.Close() }

// Ping implements Store.
func (b *BreakerStore) Ping(ctx context.Context) error {
	_, err := b.execute("ping", func() (interface{}, error) {
		return nil, b.next.Ping(ctx)
	})
	return err
}

// FindFavorites implements Store.
func (b *BreakerStore) FindFavorites(ctx context.Context, owner string) (*models.FavoriteSet, error) {
	return castResult[*models.FavoriteSet](b.execute("find favorites", func() (interface{}, error) {
		return b.next.FindFavorites(ctx, owner)
	}))
}

// UpsertFavorites implements Store.
func (b *BreakerStore) UpsertFavorites(ctx context.Context, set *models.FavoriteSet) error {
	_, err := b.execute("upsert favorites", func() (interface{}, error) {
		return nil, b.next.UpsertFavorites(ctx, set)
	})
	return err
}

// FindHistory implements Store.
func (b *BreakerStore) FindHistory(ctx context.Context, owner string) (*models.HistoryLedger, error) {
	return castResult[*models.HistoryLedger](b.execute("find history", func() (interface{}, error) {
		return b.next.FindHistory(ctx, owner)
	}))
}

// SaveHistory implements Store.
func (b *BreakerStore) SaveHistory(ctx context.Context, ledger *models.HistoryLedger, expectedVersion int64) error {
	_, err := b.execute("save history", func() (interface{}, error) {
		return nil, b.next.SaveHistory(ctx, ledger, expectedVersion)
	})
	return err
}

// FindPlaylist implements Store.
func (b *BreakerStore) FindPlaylist(ctx context.Context, filter PlaylistFilter) (*models.Playlist, error) {
	return castResult[*models.Playlist](b.execute("find playlist", func() (interface{}, error) {
		return b.next.FindPlaylist(ctx, filter)
	}))
}

// FindPlaylists implements Store.
func (b *BreakerStore) FindPlaylists(ctx context.Context, filter PlaylistFilter, opts FindOptions) ([]models.Playlist, error) {
	return castResult[[]models.Playlist](b.execute("find playlists", func() (interface{}, error) {
		return b.next.FindPlaylists(ctx, filter, opts)
	}))
}

// CountPlaylists implements Store.
func (b *BreakerStore) CountPlaylists(ctx context.Context, filter PlaylistFilter) (int64, error) {
	return castResult[int64](b.execute("count playlists", func() (interface{}, error) {
		return b.next.CountPlaylists(ctx, filter)
	}))
}

// InsertPlaylist implements Store.
func (b *BreakerStore) InsertPlaylist(ctx context.Context, p *models.Playlist) error {
	_, err := b.execute("insert playlist", func() (interface{}, error) {
		return nil, b.next.InsertPlaylist(ctx, p)
	})
	return err
}

// UpdatePlaylist implements Store.
func (b *BreakerStore) UpdatePlaylist(ctx context.Context, filter PlaylistFilter, patch PlaylistPatch) (int64, error) {
	return castResult[int64](b.execute("update playlist", func() (interface{}, error) {
		return b.next.UpdatePlaylist(ctx, filter, patch)
	}))
}

// DeletePlaylist implements Store.
func (b *BreakerStore) DeletePlaylist(ctx context.Context, filter PlaylistFilter) (int64, error) {
	return castResult[int64](b.execute("delete playlist", func() (interface{}, error) {
		return b.next.DeletePlaylist(ctx, filter)
	}))
}
