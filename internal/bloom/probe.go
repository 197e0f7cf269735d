package bloom

import (
	"math/bits"

	"github.com/hupe1980/vbloom/internal/hash"
)

// header splits a filter into its bit array and probe count. ok is false for
// filters that must be treated as "maybe present" for every key.
func header(filter []byte) (array []byte, k int, ok bool) {
	if len(filter) < 1 {
		return nil, 0, false
	}
	k = int(filter[len(filter)-1])
	if k == 0 || k > MaxProbes {
		return nil, 0, false
	}
	array = filter[:len(filter)-1]
	if len(array) == 0 {
		return nil, 0, false
	}
	return array, k, true
}

// MayContain reports whether key may be in the set filter was built from.
// It never returns false for a key that was added.
func MayContain(filter, key []byte) bool {
	return MayContainHash(filter, hash.Bloom(key))
}

// MayContainHash is MayContain for a precomputed hash.Bloom value.
func MayContainHash(filter []byte, h uint32) bool {
	array, k, ok := header(filter)
	if !ok {
		return true
	}
	return testBits(array, h, k)
}

// MayContainBatch probes every key against filter and writes the results
// into dst, reusing it when it has enough capacity.
func MayContainBatch(filter []byte, keys [][]byte, dst []bool) []bool {
	if cap(dst) < len(keys) {
		dst = make([]bool, len(keys))
	}
	dst = dst[:len(keys)]

	array, k, ok := header(filter)
	if !ok {
		for i := range dst {
			dst[i] = true
		}
		return dst
	}

	hp := getHashes(len(keys))
	defer putHashes(hp)

	hashes := hash.BloomBatch(keys, *hp)
	for i, h := range hashes {
		dst[i] = testBits(array, h, k)
	}
	return dst
}

func testBits(array []byte, h uint32, k int) bool {
	nBits := uint64(len(array)) * 8
	delta := probeDelta(h)
	for range k {
		bit := uint64(h) % nBits
		if array[bit>>3]&(1<<(bit&7)) == 0 {
			return false
		}
		h += delta
	}
	return true
}

// Info describes an encoded filter.
type Info struct {
	// Bits is the size of the bit array in bits.
	Bits int
	// Probes is the stored probe count.
	Probes int
	// SetBits is the number of one bits in the array.
	SetBits int
}

// Inspect decodes the filter header. ok is false when the filter uses a
// reserved or malformed encoding.
func Inspect(filter []byte) (Info, bool) {
	array, k, ok := header(filter)
	if !ok {
		return Info{}, false
	}
	info := Info{Bits: len(array) * 8, Probes: k}
	for _, b := range array {
		info.SetBits += bits.OnesCount8(b)
	}
	return info, true
}
