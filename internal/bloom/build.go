package bloom

import (
	"slices"
	"sync"

	"github.com/hupe1980/vbloom/internal/hash"
)

var hashScratch = sync.Pool{
	New: func() any {
		s := make([]uint32, 0, 1024)
		return &s
	},
}

func getHashes(n int) *[]uint32 {
	p := hashScratch.Get().(*[]uint32)
	if cap(*p) < n {
		*p = make([]uint32, n)
	}
	*p = (*p)[:n]
	return p
}

func putHashes(p *[]uint32) {
	// Large scratch buffers from one-off huge builds are not retained.
	if cap(*p) > 1<<20 {
		return
	}
	*p = (*p)[:0]
	hashScratch.Put(p)
}

// Build appends the filter for keys to dst and returns the extended slice.
// bitsPerKey must be >= 1; callers validate it once at configuration time.
func Build(dst []byte, keys [][]byte, bitsPerKey int) []byte {
	hp := getHashes(len(keys))
	defer putHashes(hp)

	hashes := hash.BloomBatch(keys, *hp)
	return BuildFromHashes(dst, hashes, bitsPerKey)
}

// BuildFromHashes appends a filter over precomputed hash.Bloom values.
func BuildFromHashes(dst []byte, hashes []uint32, bitsPerKey int) []byte {
	nBytes := BitArrayBytes(len(hashes), bitsPerKey)
	k := NumProbes(bitsPerKey)

	dst, array := grow(dst, nBytes)
	setBits(array, hashes, k)
	dst[len(dst)-1] = byte(k)
	return dst
}

// grow extends dst by nBytes of zeroed bit array plus the probe count byte.
func grow(dst []byte, nBytes int) ([]byte, []byte) {
	start := len(dst)
	dst = slices.Grow(dst, nBytes+1)[:start+nBytes+1]
	clear(dst[start:])
	return dst, dst[start : start+nBytes]
}

func setBits(array []byte, hashes []uint32, k int) {
	nBits := uint64(len(array)) * 8
	for _, h := range hashes {
		delta := probeDelta(h)
		for range k {
			bit := uint64(h) % nBits
			array[bit>>3] |= 1 << (bit & 7)
			h += delta
		}
	}
}
