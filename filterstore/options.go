package filterstore

import (
	"github.com/hupe1980/vbloom"
)

// DefaultCacheCapacity is the default byte budget of the reader cache.
const DefaultCacheCapacity = 32 << 20

type options struct {
	cacheCapacity int64
	memoryLimit   int64
	warmWorkers   int64
	ioLimit       int64
	logger        *vbloom.Logger
}

// Option configures a Store.
type Option func(*options)

// WithCacheCapacity sets the byte budget of the reader cache.
func WithCacheCapacity(bytes int64) Option {
	return func(o *options) {
		if bytes > 0 {
			o.cacheCapacity = bytes
		}
	}
}

// WithMemoryLimit sets a hard limit on cached filter bytes, enforced in
// addition to the cache capacity. 0 disables the limit.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) { o.memoryLimit = bytes }
}

// WithWarmWorkers sets how many tables Warm loads concurrently.
//
// Default: 4.
func WithWarmWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.warmWorkers = int64(n)
		}
	}
}

// WithWarmIOLimit caps the bytes per second Warm reads from the blob store.
// 0 means unlimited.
func WithWarmIOLimit(bytesPerSec int64) Option {
	return func(o *options) { o.ioLimit = bytesPerSec }
}

// WithLogger configures structured logging. Pass nil to disable logging.
func WithLogger(logger *vbloom.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = vbloom.NoopLogger()
		}
		o.logger = logger
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		cacheCapacity: DefaultCacheCapacity,
		warmWorkers:   4,
		logger:        vbloom.NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
