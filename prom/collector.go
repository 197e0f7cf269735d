// Package prom exports filter policy metrics to Prometheus.
package prom

import (
	"net/http"
	"time"

	"github.com/hupe1980/vbloom"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ vbloom.MetricsCollector = (*Collector)(nil)

// Collector is a vbloom.MetricsCollector backed by Prometheus metrics.
type Collector struct {
	builds        *prometheus.CounterVec
	buildKeys     prometheus.Counter
	buildBytes    prometheus.Counter
	buildDuration prometheus.Histogram
	probes        *prometheus.CounterVec
}

// NewCollector registers the filter metrics with reg. A nil reg registers
// with prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Collector{
		builds: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vbloom_filter_builds_total",
			Help: "The total number of filters built",
		}, []string{"path"}),
		buildKeys: f.NewCounter(prometheus.CounterOpts{
			Name: "vbloom_filter_build_keys_total",
			Help: "The total number of keys added to filters",
		}),
		buildBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "vbloom_filter_build_bytes_total",
			Help: "The total size of encoded filters",
		}),
		buildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vbloom_filter_build_duration_seconds",
			Help:    "Time spent building one filter",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		probes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vbloom_filter_probes_total",
			Help: "The total number of filter probes by result",
		}, []string{"result"}),
	}
}

// RecordBuild implements vbloom.MetricsCollector.
func (c *Collector) RecordBuild(keys, bytes int, duration time.Duration, parallel bool) {
	path := "sequential"
	if parallel {
		path = "parallel"
	}
	c.builds.WithLabelValues(path).Inc()
	c.buildKeys.Add(float64(keys))
	c.buildBytes.Add(float64(bytes))
	c.buildDuration.Observe(duration.Seconds())
}

// RecordProbe implements vbloom.MetricsCollector.
func (c *Collector) RecordProbe(mayMatch bool) {
	if mayMatch {
		c.probes.WithLabelValues("may_match").Inc()
		return
	}
	c.probes.WithLabelValues("skip").Inc()
}

// Handler returns an HTTP handler serving the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
