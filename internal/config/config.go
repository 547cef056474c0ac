// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

// Package config loads the service configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence (lowest
// first), and validates the result.
//
// Environment variables are mapped explicitly (see envTransformFunc); any
// variable not in the mapping is ignored.
package config

import (
	"time"
)

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	API      APIConfig      `koanf:"api"`
	Library  LibraryConfig  `koanf:"library"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production"
}

// Supported document store drivers.
const (
	DriverBadger = "badger"
	DriverMongo  = "mongo"
)

// DatabaseConfig selects and configures the document store.
type DatabaseConfig struct {
	// Driver is "badger" (embedded, default) or "mongo".
	Driver string `koanf:"driver"`

	// Path is the Badger data directory. Ignored when InMemory is set.
	Path string `koanf:"path"`

	// InMemory runs Badger without touching disk. Data is lost on exit.
	InMemory bool `koanf:"in_memory"`

	// SyncWrites makes Badger fsync every commit.
	SyncWrites bool `koanf:"sync_writes"`

	// MongoURI and MongoDatabase address the MongoDB deployment.
	MongoURI      string `koanf:"mongo_uri"`
	MongoDatabase string `koanf:"mongo_database"`

	// Timeout bounds connection setup and index creation.
	Timeout time.Duration `koanf:"timeout"`

	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`

	// ProbeInterval is how often the maintenance service pings the store.
	ProbeInterval time.Duration `koanf:"probe_interval"`

	// GCInterval is how often Badger value log GC runs. Zero disables it.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// CircuitBreakerConfig tunes the breaker wrapped around the store.
type CircuitBreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	FailureRatio float64       `koanf:"failure_ratio"`
	MinRequests  uint32        `koanf:"min_requests"`
}

// APIConfig holds listing defaults and bounds.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`

	HistoryDefaultLimit   int `koanf:"history_default_limit"`
	RecommendDefaultLimit int `koanf:"recommend_default_limit"`
	RecommendMaxLimit     int `koanf:"recommend_max_limit"`
	WatchTimeDefaultDays  int `koanf:"watch_time_default_days"`

	// ShareLinkPrefix is prepended to share tokens in share links.
	ShareLinkPrefix string `koanf:"share_link_prefix"`

	// RequestTimeout bounds the store work of a single request.
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// LibraryConfig holds domain limits.
type LibraryConfig struct {
	// HistoryCapacity is the maximum number of entries kept per ledger.
	HistoryCapacity int `koanf:"history_capacity"`

	// HistoryMaxAttempts bounds compare-and-swap retries on version conflicts.
	HistoryMaxAttempts int `koanf:"history_max_attempts"`

	// SearchLimit caps playlist search results.
	SearchLimit int `koanf:"search_limit"`

	// RecentActivityWindow is the look-back for the overview's recent activity count.
	RecentActivityWindow time.Duration `koanf:"recent_activity_window"`
}

// SecurityConfig holds edge protection settings.
type SecurityConfig struct {
	UserIDHeader      string        `koanf:"user_id_header"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, config file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// IsProduction reports whether the service runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// DefaultConfig returns the built-in defaults without reading any file or
// environment variable.
func DefaultConfig() *Config {
	return defaultConfig()
}
