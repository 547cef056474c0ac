// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

/*
Package main is the entry point for the NUDEX library service.

The service keeps per-user favorites, a bounded watch history and playlists
for the NUDEX video frontend, and serves them over a REST API together with
playlist sharing, recommendations and usage analytics.

# Application Architecture

Long-running components run under a Suture v4 supervisor tree:

	RootSupervisor ("nudex-library")
	├── DataSupervisor ("data-layer")
	│   └── Store maintenance (probe, Badger value log GC)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config file
 2. Logging: zerolog with JSON/console output modes
 3. Document store: Badger (embedded) or MongoDB, behind a circuit breaker
 4. Library service and recommendation engine
 5. Chi router with middleware stack
 6. Supervisor tree

# Configuration

Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	PORT=8083
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Store
	DB_DRIVER=badger             # badger or mongo
	BADGER_PATH=/data/library
	BADGER_IN_MEMORY=false
	MONGODB_URL=mongodb://localhost:27017/nudex_library
	MONGODB_DATABASE=nudex_library

	# Identity
	USER_ID_HEADER=X-User-ID     # set by the trusted gateway in front

	# Limits
	HISTORY_CAPACITY=100
	RATE_LIMIT_REQUESTS=300

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for up to server.timeout before the store is closed.

# Example Usage

Embedded store for development:

	export BADGER_IN_MEMORY=true
	export LOG_FORMAT=console
	./nudex-library

MongoDB backend:

	export DB_DRIVER=mongo
	export MONGODB_URL=mongodb://mongo:27017/nudex_library
	./nudex-library
*/
package main
