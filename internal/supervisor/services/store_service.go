// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nudex-library/internal/database"
	"github.com/tomtom215/nudex-library/internal/metrics"
)

const maxProbeTimeout = 5 * time.Second

// StoreMaintenanceService keeps the library_store_up gauge current and runs
// periodic compaction on backends that support it.
//
// Probe and compaction failures are logged and retried on the next tick.
// Serve only returns when its context is canceled.
type StoreMaintenanceService struct {
	store         database.Store
	compactor     database.Compactor
	probeInterval time.Duration
	gcInterval    time.Duration
	logger        zerolog.Logger
}

// NewStoreMaintenanceService creates the service. A gcInterval of zero, or a
// store without a Compactor, disables compaction.
func NewStoreMaintenanceService(store database.Store, probeInterval, gcInterval time.Duration, logger zerolog.Logger) *StoreMaintenanceService {
	if probeInterval <= 0 {
		probeInterval = 30 * time.Second
	}
	svc := &StoreMaintenanceService{
		store:         store,
		probeInterval: probeInterval,
		gcInterval:    gcInterval,
		logger: logger.With().
			Str("service", "store-maintenance").
			Str("backend", store.Backend()).
			Logger(),
	}
	if c, ok := database.CompactorOf(store); ok && gcInterval > 0 {
		svc.compactor = c
	}
	return svc
}

// Serve implements suture.Service.
func (s *StoreMaintenanceService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("probe_interval", s.probeInterval).
		Bool("compaction", s.compactor != nil).
		Msg("Store maintenance started")

	s.probe(ctx)

	probeTicker := time.NewTicker(s.probeInterval)
	defer probeTicker.Stop()

	// A nil channel never fires, which leaves compaction off.
	var gcTick <-chan time.Time
	if s.compactor != nil {
		gcTicker := time.NewTicker(s.gcInterval)
		defer gcTicker.Stop()
		gcTick = gcTicker.C
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Store maintenance stopping")
			return ctx.Err()
		case <-probeTicker.C:
			s.probe(ctx)
		case <-gcTick:
			s.compact(ctx)
		}
	}
}

func (s *StoreMaintenanceService) probe(ctx context.Context) bool {
	timeout := s.probeInterval
	if timeout > maxProbeTimeout {
		timeout = maxProbeTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := s.store.Ping(pingCtx)
	metrics.RecordStoreProbe(s.store.Backend(), err == nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Store probe failed")
		return false
	}
	return true
}

func (s *StoreMaintenanceService) compact(ctx context.Context) {
	start := time.Now()
	if err := s.compactor.Compact(ctx); err != nil {
		if ctx.Err() == nil {
			s.logger.Error().Err(err).Msg("Store compaction failed")
		}
		return
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("Store compaction finished")
}

// String implements fmt.Stringer for suture's event log.
func (s *StoreMaintenanceService) String() string {
	return "store-maintenance"
}
