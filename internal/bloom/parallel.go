package bloom

import (
	"sync/atomic"

	"github.com/hupe1980/vbloom/internal/hash"
	"golang.org/x/sync/errgroup"
)

// minKeysPerWorker keeps each worker's share large enough to amortize
// goroutine startup and the final word-to-byte copy.
const minKeysPerWorker = 1 << 14

// BuildParallel is Build spread over up to workers goroutines. Small batches
// and workers <= 1 fall back to Build. The output is byte-identical to Build.
func BuildParallel(dst []byte, keys [][]byte, bitsPerKey, workers int) []byte {
	workers = ParallelWorkers(len(keys), workers)
	if workers <= 1 {
		return Build(dst, keys, bitsPerKey)
	}

	hashes := make([]uint32, len(keys))
	chunk := (len(keys) + workers - 1) / workers

	forEachChunk(len(keys), chunk, workers, func(lo, hi int) {
		hash.BloomBatch(keys[lo:hi], hashes[lo:hi])
	})

	nBytes := BitArrayBytes(len(keys), bitsPerKey)
	k := NumProbes(bitsPerKey)

	// Probe sequences of different keys collide on the same byte, so the
	// second pass ORs into 32-bit words atomically.
	words := make([]uint32, (nBytes+3)/4)
	nBits := uint64(nBytes) * 8

	forEachChunk(len(hashes), chunk, workers, func(lo, hi int) {
		setBitsAtomic(words, hashes[lo:hi], k, nBits)
	})

	dst, array := grow(dst, nBytes)
	for i := range array {
		array[i] = byte(words[i>>2] >> (8 * (i & 3)))
	}
	dst[len(dst)-1] = byte(k)
	return dst
}

// ParallelWorkers returns how many goroutines BuildParallel uses for n keys
// when allowed up to workers. A result <= 1 means the sequential path.
func ParallelWorkers(n, workers int) int {
	return min(workers, n/minKeysPerWorker)
}

// forEachChunk runs fn over [0,n) in chunk-sized ranges on at most workers
// goroutines and waits for all of them.
func forEachChunk(n, chunk, workers int, fn func(lo, hi int)) {
	var g errgroup.Group
	g.SetLimit(workers)

	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}

func setBitsAtomic(words []uint32, hashes []uint32, k int, nBits uint64) {
	for _, h := range hashes {
		delta := probeDelta(h)
		for range k {
			bit := uint64(h) % nBits
			atomic.OrUint32(&words[bit>>5], 1<<(bit&31))
			h += delta
		}
	}
}
