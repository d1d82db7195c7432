// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package services

import (
	"context"
	"time"
)

// GarbageCollector is a cache that needs periodic compaction.
// Satisfied by *cache.BadgerCache.
type GarbageCollector interface {
	RunGC()
}

// CacheGCService runs GarbageCollector.RunGC every interval.
type CacheGCService struct {
	cache    GarbageCollector
	interval time.Duration
}

// NewCacheGCService creates the service. A non-positive interval defaults to 5m.
func NewCacheGCService(cache GarbageCollector, interval time.Duration) *CacheGCService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CacheGCService{cache: cache, interval: interval}
}

// Serve blocks until ctx is canceled.
func (s *CacheGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.cache.RunGC()
		}
	}
}

// String identifies the service in supervisor logs.
func (s *CacheGCService) String() string {
	return "cache-gc"
}
