// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations, first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/nudex-library/config.yaml",
	"/etc/nudex-library/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8083,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Driver:        DriverBadger,
			Path:          "/data/library",
			InMemory:      false,
			SyncWrites:    false,
			MongoURI:      "mongodb://localhost:27017/nudex_library",
			MongoDatabase: "nudex_library",
			Timeout:       10 * time.Second,
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:      true,
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      30 * time.Second,
				FailureRatio: 0.6,
				MinRequests:  10,
			},
			ProbeInterval: 30 * time.Second,
			GCInterval:    10 * time.Minute,
		},
		API: APIConfig{
			DefaultPageSize:       20,
			MaxPageSize:           100,
			HistoryDefaultLimit:   50,
			RecommendDefaultLimit: 10,
			RecommendMaxLimit:     50,
			WatchTimeDefaultDays:  30,
			ShareLinkPrefix:       "/api/playlists/shared/",
			RequestTimeout:        10 * time.Second,
		},
		Library: LibraryConfig{
			HistoryCapacity:      100,
			HistoryMaxAttempts:   5,
			SearchLimit:          100,
			RecentActivityWindow: 7 * 24 * time.Hour,
		},
		Security: SecurityConfig{
			UserIDHeader:      "X-User-ID",
			RateLimitReqs:     300,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration in three layers:
//  1. Defaults from defaultConfig
//  2. Optional YAML config file
//  3. Mapped environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

var envMappings = map[string]string{
	// Server
	"port":         "server.port",
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Database
	"db_driver":                "database.driver",
	"badger_path":              "database.path",
	"badger_in_memory":         "database.in_memory",
	"badger_sync_writes":       "database.sync_writes",
	"mongodb_url":              "database.mongo_uri",
	"mongodb_database":         "database.mongo_database",
	"db_timeout":               "database.timeout",
	"db_breaker_enabled":       "database.circuit_breaker.enabled",
	"db_breaker_max_requests":  "database.circuit_breaker.max_requests",
	"db_breaker_interval":      "database.circuit_breaker.interval",
	"db_breaker_timeout":       "database.circuit_breaker.timeout",
	"db_breaker_failure_ratio": "database.circuit_breaker.failure_ratio",
	"db_breaker_min_requests":  "database.circuit_breaker.min_requests",
	"db_probe_interval":        "database.probe_interval",
	"badger_gc_interval":       "database.gc_interval",

	// API
	"api_default_page_size":       "api.default_page_size",
	"api_max_page_size":           "api.max_page_size",
	"api_history_default_limit":   "api.history_default_limit",
	"api_recommend_default_limit": "api.recommend_default_limit",
	"api_recommend_max_limit":     "api.recommend_max_limit",
	"api_watch_time_default_days": "api.watch_time_default_days",
	"api_share_link_prefix":       "api.share_link_prefix",
	"api_request_timeout":         "api.request_timeout",

	// Library
	"history_capacity":       "library.history_capacity",
	"history_max_attempts":   "library.history_max_attempts",
	"search_limit":           "library.search_limit",
	"recent_activity_window": "library.recent_activity_window",

	// Security
	"user_id_header":      "security.user_id_header",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped variables return "" and are skipped.
//
// Examples:
//   - PORT -> server.port
//   - MONGODB_URL -> database.mongo_uri
//   - HISTORY_CAPACITY -> library.history_capacity
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
