package vbloom

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with filter-specific helpers so field names stay
// consistent across the module.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithBitsPerKey adds a bits_per_key field to the logger.
func (l *Logger) WithBitsPerKey(bitsPerKey int) *Logger {
	return &Logger{
		Logger: l.Logger.With("bits_per_key", bitsPerKey),
	}
}

// LogPolicy logs the effective configuration of a new policy.
func (l *Logger) LogPolicy(name string, bitsPerKey, numProbes, parallelism, parallelThreshold int) {
	l.Info("filter policy configured",
		"policy", name,
		"bits_per_key", bitsPerKey,
		"num_probes", numProbes,
		"parallelism", parallelism,
		"parallel_threshold", parallelThreshold,
	)
}

// LogBuild logs a finished filter build. It is emitted at debug level and
// skipped entirely when debug logging is off, since builds run per block.
func (l *Logger) LogBuild(keys, bytes int, duration time.Duration, parallel bool) {
	ctx := context.Background()
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}
	l.DebugContext(ctx, "filter built",
		"keys", keys,
		"bytes", bytes,
		"duration", duration,
		"parallel", parallel,
	)
}
