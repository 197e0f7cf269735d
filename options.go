package vbloom

import (
	"log/slog"
	"runtime"
)

// DefaultParallelThreshold is the batch size at which CreateFilter switches
// to the parallel build path.
const DefaultParallelThreshold = 1 << 18

type options struct {
	metricsCollector  MetricsCollector
	logger            *Logger
	parallelism       int
	parallelThreshold int
}

// Option configures a BloomPolicy.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for filter builds and
// probes. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vbloom.BasicMetricsCollector{}
//	policy, _ := vbloom.NewBloomPolicy(10, vbloom.WithMetricsCollector(metrics))
//	// ... use policy ...
//	stats := metrics.GetStats()
//	fmt.Printf("Builds: %d, Avg: %dns\n", stats.BuildCount, stats.BuildAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging. Pass nil to disable logging.
//
//	logger := vbloom.NewJSONLogger(slog.LevelDebug)
//	policy, _ := vbloom.NewBloomPolicy(10, vbloom.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithParallelism sets how many goroutines a single large build may use.
// Values <= 1 keep every build on the calling goroutine.
//
// Default: runtime.GOMAXPROCS(0).
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithParallelThreshold sets the minimum number of keys for which a build
// is parallelized. Values <= 0 restore DefaultParallelThreshold.
func WithParallelThreshold(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = DefaultParallelThreshold
		}
		o.parallelThreshold = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector:  NoopMetricsCollector{},
		logger:            NoopLogger(),
		parallelism:       runtime.GOMAXPROCS(0),
		parallelThreshold: DefaultParallelThreshold,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
