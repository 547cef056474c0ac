// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

// Package library implements the per-user media library: favorites, the
// bounded watch history ledger, playlists with sharing, analytics and
// import/export.
//
// Service holds no state of its own. Every operation loads the owner's
// documents through the database.Store, applies the change and persists it.
// Only history writes are guarded against concurrent writers, through a
// version compare-and-swap retried on conflict; favorites and playlist
// patches are single best-effort writes.
package library

import (
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/nudex-library/internal/config"
	"github.com/tomtom215/nudex-library/internal/database"
	"github.com/tomtom215/nudex-library/internal/metrics"
)

// Options holds the domain limits of a Service.
type Options struct {
	HistoryCapacity      int
	HistoryMaxAttempts   int
	SearchLimit          int
	RecentActivityWindow time.Duration
	ShareLinkPrefix      string
}

// DefaultOptions returns the production limits.
func DefaultOptions() Options {
	return Options{
		HistoryCapacity:      100,
		HistoryMaxAttempts:   5,
		SearchLimit:          100,
		RecentActivityWindow: 7 * 24 * time.Hour,
		ShareLinkPrefix:      "/api/playlists/shared/",
	}
}

// OptionsFromConfig maps the loaded configuration onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		HistoryCapacity:      cfg.Library.HistoryCapacity,
		HistoryMaxAttempts:   cfg.Library.HistoryMaxAttempts,
		SearchLimit:          cfg.Library.SearchLimit,
		RecentActivityWindow: cfg.Library.RecentActivityWindow,
		ShareLinkPrefix:      cfg.API.ShareLinkPrefix,
	}
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator replaces the UUID generator used for playlist ids and
// share tokens.
func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *Service) {
		s.newID = newID
	}
}

// Service is the library domain layer. It is safe for concurrent use.
type Service struct {
	store database.Store
	opts  Options
	now   func() time.Time
	newID func() string
}

// NewService creates a Service on store. Non-positive limits fall back to
// DefaultOptions.
//
//nolint:gocritic // hugeParam: opts copied once at construction
func NewService(store database.Store, opts Options, fns ...ServiceOption) *Service {
	def := DefaultOptions()
	if opts.HistoryCapacity <= 0 {
		opts.HistoryCapacity = def.HistoryCapacity
	}
	if opts.HistoryMaxAttempts <= 0 {
		opts.HistoryMaxAttempts = def.HistoryMaxAttempts
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = def.SearchLimit
	}
	if opts.RecentActivityWindow <= 0 {
		opts.RecentActivityWindow = def.RecentActivityWindow
	}
	if opts.ShareLinkPrefix == "" {
		opts.ShareLinkPrefix = def.ShareLinkPrefix
	}

	s := &Service{
		store: store,
		opts:  opts,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, fn := range fns {
		fn(s)
	}
	return s
}

// Store returns the underlying store.
func (s *Service) Store() database.Store {
	return s.store
}

// Options returns the effective limits.
func (s *Service) Options() Options {
	return s.opts
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// observe records the outcome of op. Use as defer s.observe("op", &err).
func (s *Service) observe(op string, err *error) {
	metrics.RecordLibraryOperation(op, outcome(*err))
}
