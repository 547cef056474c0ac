// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

// Package services adapts the service's long-running components to
// suture.Service so they can run under the supervisor tree.
//
//   - HTTPServerService runs the REST API and shuts it down gracefully.
//   - StoreMaintenanceService probes the document store and runs Badger
//     value log GC on a schedule.
package services
