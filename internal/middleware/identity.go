// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

// Package middleware holds the net/http middleware shared by the API router.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/nudex-library/internal/logging"
	"github.com/tomtom215/nudex-library/internal/models"
)

// DefaultUserHeader is the trusted header carrying the caller identity.
const DefaultUserHeader = "X-User-ID"

type contextKey string

const ownerKey contextKey = "owner"

// RequireUser rejects requests without a non-blank identity header with 401
// and stores the trimmed identity in the context for OwnerFromContext.
// The header is trusted as-is; the service sits behind a gateway that sets it.
func RequireUser(header string) func(http.HandlerFunc) http.HandlerFunc {
	if header == "" {
		header = DefaultUserHeader
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			owner := strings.TrimSpace(r.Header.Get(header))
			if owner == "" {
				writeUnauthenticated(w, header)
				return
			}

			ctx := context.WithValue(r.Context(), ownerKey, owner)
			ctx = logging.ContextWithOwner(ctx, owner)
			next(w, r.WithContext(ctx))
		}
	}
}

// OwnerFromContext returns the identity stored by RequireUser.
func OwnerFromContext(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(ownerKey).(string)
	return owner, ok && owner != ""
}

func writeUnauthenticated(w http.ResponseWriter, header string) {
	body, err := json.Marshal(&models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    "UNAUTHENTICATED",
			Message: "Missing " + header + " header",
		},
	})
	if err != nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	//nolint:errcheck // best effort write of error body
	w.Write(body)
}
