// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package cache

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationDuration tracks backend call latency.
	// Labels:
	//   - backend: "redis", "badger", "memory"
	//   - operation: "get", "set"
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tenant_cache_operation_duration_seconds",
			Help:    "Tenant cache backend operation duration in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"backend", "operation"},
	)
)

func observe(backend, operation string, start time.Time) {
	OperationDuration.WithLabelValues(backend, operation).Observe(time.Since(start).Seconds())
}

// memoryStats exports the counters of the active in-process cache.
var memoryStats = newMemoryStatsCollector()

func init() {
	prometheus.MustRegister(memoryStats)
}

type memoryStatsCollector struct {
	source atomic.Pointer[MemoryCache]

	lookups   *prometheus.Desc
	evictions *prometheus.Desc
	keys      *prometheus.Desc
}

func newMemoryStatsCollector() *memoryStatsCollector {
	return &memoryStatsCollector{
		lookups: prometheus.NewDesc(
			"tenant_cache_memory_lookups_total",
			"In-process tenant cache lookups by result",
			[]string{"result"}, nil,
		),
		evictions: prometheus.NewDesc(
			"tenant_cache_memory_evictions_total",
			"Expired entries removed from the in-process tenant cache",
			nil, nil,
		),
		keys: prometheus.NewDesc(
			"tenant_cache_memory_keys",
			"Entries held by the in-process tenant cache",
			nil, nil,
		),
	}
}

// track makes c the cache reported on /metrics.
func (m *memoryStatsCollector) track(c *MemoryCache) {
	m.source.Store(c)
}

func (m *memoryStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.lookups
	ch <- m.evictions
	ch <- m.keys
}

func (m *memoryStatsCollector) Collect(ch chan<- prometheus.Metric) {
	c := m.source.Load()
	if c == nil {
		return
	}
	s := c.GetStats()
	ch <- prometheus.MustNewConstMetric(m.lookups, prometheus.CounterValue, float64(s.Hits), "hit")
	ch <- prometheus.MustNewConstMetric(m.lookups, prometheus.CounterValue, float64(s.Misses), "miss")
	ch <- prometheus.MustNewConstMetric(m.evictions, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(m.keys, prometheus.GaugeValue, float64(s.TotalKeys))
}
