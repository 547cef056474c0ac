// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package models

import (
	"time"
)

// APIResponse is the envelope every HTTP endpoint writes.
//
// Status field values:
//   - "success": Request completed, see Data
//   - "error": Request failed, see Error
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"user_id": "u1", "video_ids": ["v1"], "count": 1},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 3}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "error": {"code": "NOT_FOUND", "message": "Playlist not found"},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is the structured error body.
//
// Error codes used by the service:
//   - UNAUTHENTICATED: identity header missing
//   - VALIDATION_ERROR: malformed body or parameters
//   - NOT_FOUND: record missing or not owned by the caller
//   - DUPLICATE_NAME: playlist name already used by the caller
//   - DATABASE_ERROR: document store failure
//   - METHOD_NOT_ALLOWED, RATE_LIMIT_EXCEEDED
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the body of GET /health. Database reports "connected" or
// "disconnected"; a disconnected store degrades Status but never fails the probe.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Database  string    `json:"database"`
	Backend   string    `json:"backend"`
	Uptime    float64   `json:"uptime_seconds"`
}
