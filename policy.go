package vbloom

import (
	"time"

	"github.com/hupe1980/vbloom/internal/bloom"
)

// DefaultBitsPerKey gives a false-positive rate of roughly 1%.
const DefaultBitsPerKey = 10

// PolicyName identifies the filter encoding produced by BloomPolicy. It must
// change whenever the hash function or probe derivation changes, because
// neither is recorded in the filter bytes.
const PolicyName = "vbloom.BuiltinBloomFilter1"

// FilterPolicy is the contract between a table writer/reader and a filter
// implementation.
type FilterPolicy interface {
	// Name identifies the encoding. Tables record it and refuse to use
	// filters written under a different name.
	Name() string

	// CreateFilter appends a filter summarizing keys to dst and returns the
	// extended slice.
	CreateFilter(keys [][]byte, dst []byte) []byte

	// KeyMayMatch reports whether key may be in the set the filter was built
	// from. It must return true for every key passed to CreateFilter.
	KeyMayMatch(key, filter []byte) bool
}

var _ FilterPolicy = (*BloomPolicy)(nil)

// BloomPolicy is a FilterPolicy building Bloom filters with a fixed number of
// bits per key. It is safe for concurrent use.
type BloomPolicy struct {
	bitsPerKey int
	numProbes  int
	opts       options
}

// NewBloomPolicy returns a policy using bitsPerKey bits of filter per key.
// bitsPerKey must be at least 1.
func NewBloomPolicy(bitsPerKey int, optFns ...Option) (*BloomPolicy, error) {
	if bitsPerKey < 1 {
		return nil, &ErrInvalidBitsPerKey{BitsPerKey: bitsPerKey}
	}

	opts := applyOptions(optFns)

	p := &BloomPolicy{
		bitsPerKey: bitsPerKey,
		numProbes:  bloom.NumProbes(bitsPerKey),
		opts:       opts,
	}

	opts.logger.LogPolicy(PolicyName, p.bitsPerKey, p.numProbes, opts.parallelism, opts.parallelThreshold)

	return p, nil
}

// Name implements FilterPolicy.
func (p *BloomPolicy) Name() string { return PolicyName }

// BitsPerKey returns the configured bits per key.
func (p *BloomPolicy) BitsPerKey() int { return p.bitsPerKey }

// NumProbes returns the probe count written into every filter.
func (p *BloomPolicy) NumProbes() int { return p.numProbes }

// CreateFilter implements FilterPolicy. Batches of at least the parallel
// threshold are built on multiple goroutines; the bytes are identical either
// way.
func (p *BloomPolicy) CreateFilter(keys [][]byte, dst []byte) []byte {
	start := time.Now()
	before := len(dst)

	parallel := len(keys) >= p.opts.parallelThreshold &&
		bloom.ParallelWorkers(len(keys), p.opts.parallelism) > 1

	if parallel {
		dst = bloom.BuildParallel(dst, keys, p.bitsPerKey, p.opts.parallelism)
	} else {
		dst = bloom.Build(dst, keys, p.bitsPerKey)
	}

	elapsed := time.Since(start)
	p.opts.metricsCollector.RecordBuild(len(keys), len(dst)-before, elapsed, parallel)
	p.opts.logger.LogBuild(len(keys), len(dst)-before, elapsed, parallel)

	return dst
}

// KeyMayMatch implements FilterPolicy. Malformed filters and filters with a
// reserved probe count match every key.
func (p *BloomPolicy) KeyMayMatch(key, filter []byte) bool {
	ok := bloom.MayContain(filter, key)
	p.opts.metricsCollector.RecordProbe(ok)
	return ok
}

// KeyMayMatchBatch probes all keys against one filter. Results are written
// to dst, which is reused when it has enough capacity.
func (p *BloomPolicy) KeyMayMatchBatch(keys [][]byte, filter []byte, dst []bool) []bool {
	dst = bloom.MayContainBatch(filter, keys, dst)
	for _, ok := range dst {
		p.opts.metricsCollector.RecordProbe(ok)
	}
	return dst
}

// Build returns a new filter for keys using bitsPerKey bits per key.
//
// Build does not validate its input: a bitsPerKey below 1 is built as if it
// were 1. Use NewBloomPolicy to reject such values with
// *ErrInvalidBitsPerKey.
func Build(keys [][]byte, bitsPerKey int) []byte {
	return bloom.Build(nil, keys, max(bitsPerKey, 1))
}

// MayContain reports whether key may be in the set filter was built from.
func MayContain(key, filter []byte) bool {
	return bloom.MayContain(filter, key)
}

// FilterInfo describes an encoded filter.
type FilterInfo struct {
	// Bits is the bit array size.
	Bits int
	// Probes is the stored probe count.
	Probes int
	// SetBits is the number of one bits.
	SetBits int
}

// Density returns the fraction of set bits.
func (fi FilterInfo) Density() float64 {
	if fi.Bits == 0 {
		return 0
	}
	return float64(fi.SetBits) / float64(fi.Bits)
}

// Inspect decodes a filter's header. It returns false when the filter uses a
// reserved probe count or is too short, in which case every probe matches.
func Inspect(filter []byte) (FilterInfo, bool) {
	info, ok := bloom.Inspect(filter)
	if !ok {
		return FilterInfo{}, false
	}
	return FilterInfo{Bits: info.Bits, Probes: info.Probes, SetBits: info.SetBits}, true
}

// EstimateFalsePositiveRate returns the theoretical false-positive rate of a
// filter built with bitsPerKey bits per key.
func EstimateFalsePositiveRate(bitsPerKey int) float64 {
	return bloom.EstimateFalsePositiveRate(bitsPerKey)
}
