// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/nudex-library/internal/api"
	"github.com/tomtom215/nudex-library/internal/config"
	"github.com/tomtom215/nudex-library/internal/database"
	"github.com/tomtom215/nudex-library/internal/library"
	"github.com/tomtom215/nudex-library/internal/logging"
	"github.com/tomtom215/nudex-library/internal/recommend"
	"github.com/tomtom215/nudex-library/internal/supervisor"
	"github.com/tomtom215/nudex-library/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("driver", cfg.Database.Driver).
		Str("user_id_header", cfg.Security.UserIDHeader).
		Msg("Starting NUDEX library service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	openCtx, cancelOpen := context.WithTimeout(ctx, cfg.Database.Timeout)
	store, err := database.Open(openCtx, &cfg.Database)
	cancelOpen()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open document store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing document store")
		}
	}()

	svc := library.NewService(store, library.OptionsFromConfig(cfg))

	engine, err := recommend.NewEngine(store, &recommend.Config{
		DefaultLimit: cfg.API.RecommendDefaultLimit,
		MaxLimit:     cfg.API.RecommendMaxLimit,
		PoolFactor:   recommend.DefaultConfig().PoolFactor,
	}, logging.Logger())
	if err != nil {
		logging.Error().Err(err).Msg("Invalid recommendation settings")
		return
	}

	router := api.NewRouter(api.NewHandler(svc, engine, cfg), cfg)
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.Timeout + 5*time.Second,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return
	}

	tree.AddDataService(services.NewStoreMaintenanceService(
		store, cfg.Database.ProbeInterval, cfg.Database.GCInterval, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout, logging.Logger()))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for services to stop")
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, u := range unstopped {
		logging.Warn().Str("service", u.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("NUDEX library service stopped")
}
