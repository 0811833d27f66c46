package app

import (
	"sync/atomic"
	"time"
)

const noMin = 1<<63 - 1

// Metrics accumulates recompute statistics.
type Metrics struct {
	recomputes atomic.Uint64
	skipped    atomic.Uint64
	failed     atomic.Uint64
	totalNs    atomic.Int64
	minNs      atomic.Int64
	maxNs      atomic.Int64
	lastNs     atomic.Int64

	kept     atomic.Uint64
	created  atomic.Uint64
	released atomic.Uint64

	ruleErrors atomic.Uint64
	warnings   atomic.Uint64

	startTime atomic.Int64
}

// NewMetrics creates an empty metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.Reset()
	return m
}

// RecordRecompute records one finished recompute.
func (m *Metrics) RecordRecompute(d time.Duration, rep Report, err error) {
	ns := d.Nanoseconds()

	m.recomputes.Add(1)
	m.totalNs.Add(ns)
	m.lastNs.Store(ns)

	for {
		old := m.minNs.Load()
		if ns >= old || m.minNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.maxNs.Load()
		if ns <= old || m.maxNs.CompareAndSwap(old, ns) {
			break
		}
	}

	if err != nil {
		m.failed.Add(1)
	}
	if rep.Skipped != SkipNone {
		m.skipped.Add(1)
	}
	m.kept.Add(uint64(rep.Result.Kept))
	m.created.Add(uint64(rep.Result.Created))
	m.released.Add(uint64(rep.Result.Released + rep.Refreshed))
	m.ruleErrors.Add(uint64(rep.Failed))
	m.warnings.Add(uint64(len(rep.Warnings)))
}

// Snapshot returns a point-in-time view of the metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	count := m.recomputes.Load()

	var avg int64
	if count > 0 {
		avg = m.totalNs.Load() / int64(count)
	}
	minNs := m.minNs.Load()
	if minNs == noMin {
		minNs = 0
	}

	return MetricsSnapshot{
		Uptime:     time.Since(time.Unix(0, m.startTime.Load())),
		Recomputes: count,
		Skipped:    m.skipped.Load(),
		Failed:     m.failed.Load(),
		AvgNs:      avg,
		MinNs:      minNs,
		MaxNs:      m.maxNs.Load(),
		LastNs:     m.lastNs.Load(),
		Kept:       m.kept.Load(),
		Created:    m.created.Load(),
		Released:   m.released.Load(),
		RuleErrors: m.ruleErrors.Load(),
		Warnings:   m.warnings.Load(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.recomputes.Store(0)
	m.skipped.Store(0)
	m.failed.Store(0)
	m.totalNs.Store(0)
	m.minNs.Store(noMin)
	m.maxNs.Store(0)
	m.lastNs.Store(0)
	m.kept.Store(0)
	m.created.Store(0)
	m.released.Store(0)
	m.ruleErrors.Store(0)
	m.warnings.Store(0)
	m.startTime.Store(time.Now().UnixNano())
}

// MetricsSnapshot is a point-in-time view of Metrics.
type MetricsSnapshot struct {
	Uptime     time.Duration
	Recomputes uint64
	Skipped    uint64
	Failed     uint64
	AvgNs      int64
	MinNs      int64
	MaxNs      int64
	LastNs     int64

	// Decoration traffic; Released includes forced refreshes.
	Kept     uint64
	Created  uint64
	Released uint64

	RuleErrors uint64
	Warnings   uint64
}

// Avg returns the average recompute time.
func (s MetricsSnapshot) Avg() time.Duration {
	return time.Duration(s.AvgNs)
}
