package s3

// Options configures a Store.
type Options struct {
	// Prefix is prepended to every blob name.
	Prefix string

	// Region overrides the region resolved from the environment.
	// Only used by NewStoreFromEnv.
	Region string

	// Endpoint points the client at an S3-compatible service and enables
	// path-style addressing. Only used by NewStoreFromEnv.
	Endpoint string

	// PartSize is the size threshold and part size for multipart uploads.
	// Default: 8MB.
	PartSize int64

	// Concurrency is the number of parts uploaded in parallel.
	// Default: 5.
	Concurrency int
}

const (
	defaultPartSize    = 8 * 1024 * 1024
	defaultConcurrency = 5
)

// Option configures Options.
type Option func(*Options)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(o *Options) { o.Prefix = prefix }
}

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(o *Options) { o.Region = region }
}

// WithEndpoint sets a custom endpoint URL.
func WithEndpoint(endpoint string) Option {
	return func(o *Options) { o.Endpoint = endpoint }
}

// WithPartSize sets the multipart part size. Values below the S3 minimum of
// 5MB are raised to it.
func WithPartSize(size int64) Option {
	return func(o *Options) { o.PartSize = max(size, 5*1024*1024) }
}

// WithConcurrency sets the number of concurrent part uploads.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

func applyOptions(optFns []Option) Options {
	o := Options{
		PartSize:    defaultPartSize,
		Concurrency: defaultConcurrency,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
