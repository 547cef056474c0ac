// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

/*
Package api provides the HTTP surface of the library service.

Routing uses go-chi/chi with the following middleware stack, outermost first:

  - RequestIDWithLogging: X-Request-Id propagation plus request and
    correlation ids in the logging context
  - chi RealIP and Recoverer
  - go-chi/cors
  - per-group go-chi/httprate limiters, APISecurityHeaders and
    Prometheus instrumentation
  - middleware.RequireUser on every user-scoped route

The caller identity is taken from a trusted header (X-User-ID by default,
security.user_id_header in configuration). Requests without it fail with
401 UNAUTHENTICATED. The public playlist listing, share resolution, health
and metrics need no identity.

Every response uses the models.APIResponse envelope. Library errors map to
HTTP statuses in respondLibraryError:

	library.ErrNotFound       404 NOT_FOUND
	library.ErrDuplicateName  409 DUPLICATE_NAME
	library.ErrValidation     400 VALIDATION_ERROR
	library.ErrStorage        500 DATABASE_ERROR

Storage failure details are logged, never returned to the client.
*/
package api
