package vbloom

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting filter metrics.
// Implement this interface to integrate with monitoring systems; the prom
// package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordBuild is called after each filter build. keys is the batch size,
	// bytes the encoded filter size and parallel reports whether the build
	// used the parallel path.
	RecordBuild(keys, bytes int, duration time.Duration, parallel bool)

	// RecordProbe is called after each membership test. mayMatch is the
	// probe result; false means a data block read was avoided.
	RecordProbe(mayMatch bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, int, time.Duration, bool) {}
func (NoopMetricsCollector) RecordProbe(bool)                          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	BuildCount      atomic.Int64
	BuildKeys       atomic.Int64
	BuildBytes      atomic.Int64
	BuildTotalNanos atomic.Int64
	ParallelBuilds  atomic.Int64
	ProbeCount      atomic.Int64
	ProbeMayMatch   atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(keys, bytes int, duration time.Duration, parallel bool) {
	b.BuildCount.Add(1)
	b.BuildKeys.Add(int64(keys))
	b.BuildBytes.Add(int64(bytes))
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if parallel {
		b.ParallelBuilds.Add(1)
	}
}

// RecordProbe implements MetricsCollector.
func (b *BasicMetricsCollector) RecordProbe(mayMatch bool) {
	b.ProbeCount.Add(1)
	if mayMatch {
		b.ProbeMayMatch.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		BuildCount:     b.BuildCount.Load(),
		BuildKeys:      b.BuildKeys.Load(),
		BuildBytes:     b.BuildBytes.Load(),
		ParallelBuilds: b.ParallelBuilds.Load(),
		ProbeCount:     b.ProbeCount.Load(),
		ProbeMayMatch:  b.ProbeMayMatch.Load(),
	}
	if s.BuildCount > 0 {
		s.BuildAvgNanos = b.BuildTotalNanos.Load() / s.BuildCount
	}
	if s.BuildKeys > 0 {
		s.BitsPerKey = float64(s.BuildBytes*8) / float64(s.BuildKeys)
	}
	return s
}

// Reset clears all counters.
func (b *BasicMetricsCollector) Reset() {
	b.BuildCount.Store(0)
	b.BuildKeys.Store(0)
	b.BuildBytes.Store(0)
	b.BuildTotalNanos.Store(0)
	b.ParallelBuilds.Store(0)
	b.ProbeCount.Store(0)
	b.ProbeMayMatch.Store(0)
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	BuildCount     int64
	BuildKeys      int64
	BuildBytes     int64
	BuildAvgNanos  int64
	ParallelBuilds int64
	ProbeCount     int64
	ProbeMayMatch  int64
	// BitsPerKey is the observed encoded size per key, trailer included.
	BitsPerKey float64
}

// SkipRatio returns the fraction of probes that answered "definitely absent".
func (s BasicMetricsStats) SkipRatio() float64 {
	if s.ProbeCount == 0 {
		return 0
	}
	return float64(s.ProbeCount-s.ProbeMayMatch) / float64(s.ProbeCount)
}
