// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

// Package testinfra provides container helpers for integration tests.
//
// It uses testcontainers-go to run a real MongoDB so the Mongo storage
// backend is exercised against the server it ships with:
//
//	func TestMongoStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    mongo, err := testinfra.NewMongoContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mongo)
//
//	    store, err := database.OpenMongo(ctx, database.MongoOptions{
//	        URI:      mongo.URI,
//	        Database: "library_test",
//	    })
//	    // ...
//	}
//
// All files carry the integration build tag:
//
//	go test -tags integration ./...
package testinfra
