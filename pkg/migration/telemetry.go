// Package migration tracks how callers reach tools: by canonical name or by
// a deprecated alias. The counters feed deprecation-readiness reporting so
// operators know when an alias can be removed. Recording is strictly
// observational - it never alters control flow, response content, or error
// classification, and a failure inside Record must never reach the caller.
package migration

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Resolution describes a single tool name resolution event.
// Alias is empty when the caller used the canonical name directly.
type Resolution struct {
	Alias     string
	Target    string
	RemovedIn string
}

// Canonical reports whether the resolution took the canonical path.
func (r Resolution) Canonical() bool {
	return r.Alias == ""
}

// Stats is a point-in-time snapshot of resolution counters.
// Lifecycle is process-wide: reset at construction (or via Reset in tests),
// never persisted.
type Stats struct {
	TotalCalls      uint64            `json:"total_calls"`
	CanonicalCalls  uint64            `json:"canonical_calls"`
	AliasCalls      uint64            `json:"alias_calls"`
	PerAliasCounts  map[string]uint64 `json:"per_alias_counts"`
	RecordingErrors uint64            `json:"recording_errors,omitempty"`
}

// Telemetry is an injectable counter service. Construct one per process (or
// per test) rather than sharing module-level state, so test cases run with
// isolated counters.
//
// Counter increments are safe under concurrent use: the scalar counters are
// atomics and the per-alias map is guarded by a mutex.
type Telemetry struct {
	total     atomic.Uint64
	canonical atomic.Uint64
	alias     atomic.Uint64
	errors    atomic.Uint64

	mu       sync.Mutex
	perAlias map[string]uint64

	logger zerolog.Logger

	resolutions *prometheus.CounterVec
	aliasCalls  *prometheus.CounterVec
}

// NewTelemetry creates a Telemetry instance. When reg is non-nil the
// counters are mirrored to Prometheus; pass nil to skip metric registration
// (e.g., in tests).
func NewTelemetry(logger zerolog.Logger, reg prometheus.Registerer) *Telemetry {
	t := &Telemetry{
		perAlias: make(map[string]uint64),
		logger:   logger,
	}
	if reg != nil {
		t.resolutions = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tool_name_resolutions_total",
				Help: "Total number of tool name resolutions",
			},
			[]string{"path"}, // canonical, alias
		)
		t.aliasCalls = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deprecated_alias_calls_total",
				Help: "Tool calls made through a deprecated alias",
			},
			[]string{"alias", "target"},
		)
		reg.MustRegister(t.resolutions, t.aliasCalls)
	}
	return t
}

// Record observes a resolution event. It never panics outward; internal
// failures are swallowed, counted, and logged because telemetry is
// best-effort, not load-bearing.
func (t *Telemetry) Record(res Resolution) {
	defer func() {
		if r := recover(); r != nil {
			t.errors.Add(1)
			t.logger.Error().Interface("panic", r).Msg("migration telemetry recording failed")
		}
	}()

	t.total.Add(1)
	if res.Canonical() {
		t.canonical.Add(1)
		if t.resolutions != nil {
			t.resolutions.WithLabelValues("canonical").Inc()
		}
		return
	}

	t.alias.Add(1)
	t.mu.Lock()
	t.perAlias[res.Alias]++
	t.mu.Unlock()

	if t.resolutions != nil {
		t.resolutions.WithLabelValues("alias").Inc()
	}
	if t.aliasCalls != nil {
		t.aliasCalls.WithLabelValues(res.Alias, res.Target).Inc()
	}

	// Non-fatal side-channel advisory for operators planning alias removal.
	t.logger.Warn().
		Str("alias", res.Alias).
		Str("target", res.Target).
		Str("removed_in", res.RemovedIn).
		Msg("deprecated tool alias used")
}

// Stats returns a snapshot of the counters.
func (t *Telemetry) Stats() Stats {
	t.mu.Lock()
	perAlias := make(map[string]uint64, len(t.perAlias))
	for alias, count := range t.perAlias {
		perAlias[alias] = count
	}
	t.mu.Unlock()

	return Stats{
		TotalCalls:      t.total.Load(),
		CanonicalCalls:  t.canonical.Load(),
		AliasCalls:      t.alias.Load(),
		PerAliasCounts:  perAlias,
		RecordingErrors: t.errors.Load(),
	}
}

// Reset zeroes the internal counters. Prometheus counters are monotonic and
// are intentionally left alone; Reset exists for test isolation.
func (t *Telemetry) Reset() {
	t.total.Store(0)
	t.canonical.Store(0)
	t.alias.Store(0)
	t.errors.Store(0)
	t.mu.Lock()
	t.perAlias = make(map[string]uint64)
	t.mu.Unlock()
}
