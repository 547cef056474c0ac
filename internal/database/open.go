// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/nudex-library/internal/config"
	"github.com/tomtom215/nudex-library/internal/logging"
)

// Open builds the configured backend and, when enabled, wraps it in a
// circuit breaker. The caller owns the returned Store and must Close it.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.Driver {
	case config.DriverBadger:
		store, err = OpenBadger(BadgerOptions{
			Path:       cfg.Path,
			InMemory:   cfg.InMemory,
			SyncWrites: cfg.SyncWrites,
		})
	case config.DriverMongo:
		store, err = OpenMongo(ctx, MongoOptions{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
			Timeout:  cfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	logging.Info().
		Str("backend", store.Backend()).
		Bool("in_memory", cfg.Driver == config.DriverBadger && cfg.InMemory).
		Bool("circuit_breaker", cfg.CircuitBreaker.Enabled).
		Msg("Document store opened")

	if !cfg.CircuitBreaker.Enabled {
		return store, nil
	}

	cb := cfg.CircuitBreaker
	return NewBreakerStore(store, BreakerSettings{
		MaxRequests:  cb.MaxRequests,
		Interval:     cb.Interval,
		Timeout:      cb.Timeout,
		FailureRatio: cb.FailureRatio,
		MinRequests:  cb.MinRequests,
	}), nil
}
