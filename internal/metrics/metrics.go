// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics is the in-process monitoring facade for the inference
// pipeline. It tracks request outcomes, fallback reroutes, parse failures,
// and catalog errors so operators can see how the pipeline is behaving
// without an external metrics system.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks pipeline counters. All methods are safe for concurrent use.
type Metrics struct {
	requests        atomic.Int64
	directSearches  atomic.Int64
	backendCalls    atomic.Int64
	reroutes        atomic.Int64
	parseFailures   atomic.Int64
	fallbackPayload atomic.Int64
	catalogErrors   atomic.Int64
	profileErrors   atomic.Int64
	logFailures     atomic.Int64
	logDrops        atomic.Int64

	byBackendMu sync.RWMutex
	byBackend   map[string]int64

	startTime time.Time
}

// New creates a Metrics instance.
func New() *Metrics {
	return &Metrics{
		byBackend: make(map[string]int64),
		startTime: time.Now(),
	}
}

func (m *Metrics) RecordRequest()         { m.requests.Add(1) }
func (m *Metrics) RecordDirectSearch()    { m.directSearches.Add(1) }
func (m *Metrics) RecordReroute()         { m.reroutes.Add(1) }
func (m *Metrics) RecordParseFailure()    { m.parseFailures.Add(1) }
func (m *Metrics) RecordFallbackPayload() { m.fallbackPayload.Add(1) }
func (m *Metrics) RecordCatalogError()    { m.catalogErrors.Add(1) }
func (m *Metrics) RecordProfileError()    { m.profileErrors.Add(1) }
func (m *Metrics) RecordLogFailure()      { m.logFailures.Add(1) }
func (m *Metrics) RecordLogDrop()         { m.logDrops.Add(1) }

// RecordBackendCall counts one dispatch to the named backend.
func (m *Metrics) RecordBackendCall(backend string) {
	m.backendCalls.Add(1)
	m.byBackendMu.Lock()
	m.byBackend[backend]++
	m.byBackendMu.Unlock()
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	UptimeSeconds    int64            `json:"uptime_seconds"`
	Requests         int64            `json:"requests"`
	DirectSearches   int64            `json:"direct_searches"`
	BackendCalls     int64            `json:"backend_calls"`
	CallsByBackend   map[string]int64 `json:"calls_by_backend"`
	Reroutes         int64            `json:"reroutes"`
	ParseFailures    int64            `json:"parse_failures"`
	FallbackPayloads int64            `json:"fallback_payloads"`
	CatalogErrors    int64            `json:"catalog_errors"`
	ProfileErrors    int64            `json:"profile_errors"`
	LogFailures      int64            `json:"log_failures"`
	LogDrops         int64            `json:"log_drops"`
}

// Snapshot returns a consistent copy of the current counters.
func (m *Metrics) Snapshot() Snapshot {
	m.byBackendMu.RLock()
	byBackend := make(map[string]int64, len(m.byBackend))
	for k, v := range m.byBackend {
		byBackend[k] = v
	}
	m.byBackendMu.RUnlock()

	return Snapshot{
		UptimeSeconds:    int64(time.Since(m.startTime).Seconds()),
		Requests:         m.requests.Load(),
		DirectSearches:   m.directSearches.Load(),
		BackendCalls:     m.backendCalls.Load(),
		CallsByBackend:   byBackend,
		Reroutes:         m.reroutes.Load(),
		ParseFailures:    m.parseFailures.Load(),
		FallbackPayloads: m.fallbackPayload.Load(),
		CatalogErrors:    m.catalogErrors.Load(),
		ProfileErrors:    m.profileErrors.Load(),
		LogFailures:      m.logFailures.Load(),
		LogDrops:         m.logDrops.Load(),
	}
}
