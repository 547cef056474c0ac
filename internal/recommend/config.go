// NUDEX Library - Favorites, Watch History and Playlist Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nudex-library

package recommend

import "fmt"

// Config contains the limits of the recommendation engine.
type Config struct {
	// DefaultLimit is used when a request does not name a limit.
	// Default: 10.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps requested limits.
	// Default: 50.
	MaxLimit int `json:"max_limit"`

	// PoolFactor sizes the similar-interest candidate pool as
	// PoolFactor * limit.
	// Default: 2.
	PoolFactor int `json:"pool_factor"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultLimit: 10,
		MaxLimit:     50,
		PoolFactor:   2,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit must be >= default_limit, got %d < %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.PoolFactor < 1 {
		return fmt.Errorf("pool_factor must be positive, got %d", c.PoolFactor)
	}
	return nil
}
