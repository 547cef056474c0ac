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

	"github.com/tomtom215/nudex-library/internal/metrics"
)

// valueLogGCRatio is the discard ratio handed to badger's value log GC.
const valueLogGCRatio = 0.5

// Compactor is implemented by backends that need periodic space reclamation.
type Compactor interface {
	Compact(ctx context.Context) error
}

// CompactorOf returns the Compactor behind store, looking through
// decorators such as BreakerStore.
func CompactorOf(store Store) (Compactor, bool) {
	for store != nil {
		if c, ok := store.(Compactor); ok {
			return c, true
		}
		u, ok := store.(interface{ Unwrap() Store })
		if !ok {
			return nil, false
		}
		store = u.Unwrap()
	}
	return nil, false
}

// Unwrap returns the decorated store.
func (b *BreakerStore) Unwrap() Store { return b.next }

// Compact runs value log GC until badger reports nothing left to rewrite.
// In-memory databases have no value log and return immediately.
func (s *BadgerStore) Compact(ctx context.Context) (err error) {
	if s.db.IsClosed() {
		return errors.New("badger: database is closed")
	}
	if s.db.Opts().InMemory {
		return nil
	}

	start := time.Now()
	defer func() { metrics.RecordStoreGC(badgerBackend, time.Since(start), err) }()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.db.RunValueLogGC(valueLogGCRatio)
		switch {
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrRejected):
			return nil
		case err != nil:
			return fmt.Errorf("run value log gc: %w", err)
		}
	}
}
