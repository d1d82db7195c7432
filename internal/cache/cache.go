// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/photon/internal/config"
	"github.com/tomtom215/photon/internal/logging"
	"github.com/tomtom215/photon/internal/tenant"
)

// Cache is a tenant.CachePort with lifecycle methods.
type Cache interface {
	tenant.CachePort

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend's resources.
	Close() error

	// Backend returns the backend name (redis, badger, memory).
	Backend() string
}

// New creates the cache backend selected by cfg.Backend.
func New(cfg config.CacheConfig) (Cache, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	var (
		c   Cache
		err error
	)
	switch backend {
	case config.CacheRedis, "":
		c, err = NewRedisCache(cfg.Redis)
	case config.CacheBadger:
		c, err = NewBadgerCache(cfg.Badger)
	case config.CacheMemory:
		mc := NewMemoryCache()
		memoryStats.track(mc)
		c = mc
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	logging.Info().Str("backend", c.Backend()).Msg("Tenant cache initialized")
	return c, nil
}
