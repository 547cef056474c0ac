// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/nudex-library/internal/config"
	"github.com/tomtom215/nudex-library/internal/middleware"
)

// Router wires handlers and middleware into a chi route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	config        *config.Config
}

// NewRouter creates a router for handler. cfg may be nil.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	if cfg == nil {
		cfg = handler.config
	}
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(ChiMiddlewareConfigFromSecurity(&cfg.Security)),
		config:        cfg,
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes.
//
// Layout:
//
//	/health, /api/health            probe, no identity
//	/metrics                        Prometheus
//	/api/playlists/public           public listing, no identity
//	/api/playlists/shared/{token}   share resolution, no identity
//	/api/...                        everything else, identity header required
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, CodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/health", h.Health)
		r.Get("/api/health", h.Health)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(RequestTimeout(router.config.API.RequestTimeout))

		// Identity-free reads. Registered before /playlists/{id} so the
		// static segments win.
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitPublic())
			r.Get("/playlists/public", h.PublicPlaylists)
			r.Get("/playlists/shared/{token}", h.SharedPlaylist)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(chiMiddleware(middleware.RequireUser(router.config.Security.UserIDHeader)))

			r.Get("/favorites", h.Favorites)
			r.Post("/favorites", h.ToggleFavorite)

			r.Get("/history", h.History)
			r.Post("/history", h.RecordWatch)

			r.Route("/playlists", func(r chi.Router) {
				r.Get("/", h.Playlists)
				r.Post("/", h.CreatePlaylist)
				r.Get("/search", h.SearchPlaylists)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Playlist)
					r.Put("/", h.UpdatePlaylist)
					r.Delete("/", h.DeletePlaylist)
					r.Post("/videos", h.AddVideo)
					r.Delete("/videos/{videoID}", h.RemoveVideo)
					r.Post("/duplicate", h.DuplicatePlaylist)
					r.Patch("/visibility", h.SetVisibility)
					r.Post("/share", h.GenerateShareLink)
				})
			})

			r.Get("/analytics/overview", h.AnalyticsOverview)
			r.Get("/analytics/watch-time", h.AnalyticsWatchTime)

			r.Get("/recommendations/playlists", h.RecommendPlaylists)

			r.Group(func(r chi.Router) {
				r.Use(router.chiMiddleware.RateLimitTransfer())
				r.Get("/export/data", h.ExportData)
				r.Post("/import/playlist", h.ImportPlaylist)
			})
		})
	})

	return r
}
