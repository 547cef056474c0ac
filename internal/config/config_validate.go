// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package config

import (
	"fmt"
	"net/url"
	"strings"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case DriverBadger:
		if !c.Database.InMemory && strings.TrimSpace(c.Database.Path) == "" {
			return fmt.Errorf("BADGER_PATH is required unless BADGER_IN_MEMORY=true")
		}
	case DriverMongo:
		if err := validateMongoURI(c.Database.MongoURI); err != nil {
			return fmt.Errorf("MONGODB_URL is invalid: %w", err)
		}
		if c.Database.MongoDatabase == "" {
			return fmt.Errorf("MONGODB_DATABASE is required when DB_DRIVER=mongo")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be one of: %s, %s", DriverBadger, DriverMongo)
	}

	if c.Database.Timeout <= 0 {
		return fmt.Errorf("DB_TIMEOUT must be positive")
	}
	if c.Database.ProbeInterval <= 0 {
		return fmt.Errorf("DB_PROBE_INTERVAL must be positive")
	}
	if c.Database.GCInterval < 0 {
		return fmt.Errorf("BADGER_GC_INTERVAL must not be negative")
	}

	cb := c.Database.CircuitBreaker
	if cb.Enabled {
		if cb.FailureRatio <= 0 || cb.FailureRatio > 1 {
			return fmt.Errorf("DB_BREAKER_FAILURE_RATIO must be in (0, 1]")
		}
		if cb.Timeout <= 0 {
			return fmt.Errorf("DB_BREAKER_TIMEOUT must be positive")
		}
	}
	return nil
}

func validateMongoURI(raw string) error {
	if raw == "" {
		return fmt.Errorf("must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "mongodb" && u.Scheme != "mongodb+srv" {
		return fmt.Errorf("scheme must be mongodb or mongodb+srv, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

func (c *Config) validateAPI() error {
	a := c.API
	if a.DefaultPageSize < 1 || a.MaxPageSize < a.DefaultPageSize {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1 and not exceed API_MAX_PAGE_SIZE")
	}
	if a.HistoryDefaultLimit < 1 {
		return fmt.Errorf("API_HISTORY_DEFAULT_LIMIT must be at least 1")
	}
	if a.RecommendDefaultLimit < 1 || a.RecommendMaxLimit < a.RecommendDefaultLimit {
		return fmt.Errorf("API_RECOMMEND_DEFAULT_LIMIT must be at least 1 and not exceed API_RECOMMEND_MAX_LIMIT")
	}
	if a.WatchTimeDefaultDays < 1 {
		return fmt.Errorf("API_WATCH_TIME_DEFAULT_DAYS must be at least 1")
	}
	if a.RequestTimeout <= 0 {
		return fmt.Errorf("API_REQUEST_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateLibrary() error {
	l := c.Library
	if l.HistoryCapacity < 1 {
		return fmt.Errorf("HISTORY_CAPACITY must be at least 1")
	}
	if l.HistoryMaxAttempts < 1 {
		return fmt.Errorf("HISTORY_MAX_ATTEMPTS must be at least 1")
	}
	if l.SearchLimit < 1 {
		return fmt.Errorf("SEARCH_LIMIT must be at least 1")
	}
	if l.RecentActivityWindow <= 0 {
		return fmt.Errorf("RECENT_ACTIVITY_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if strings.TrimSpace(c.Security.UserIDHeader) == "" {
		return fmt.Errorf("USER_ID_HEADER must not be empty")
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	if c.Server.IsProduction() {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain '*' when ENVIRONMENT=production")
			}
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
