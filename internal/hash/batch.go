package hash

import (
	"encoding/binary"

	"github.com/hupe1980/vbloom/internal/simd"
)

// batchKernel hashes keys into dst; len(dst) == len(keys).
type batchKernel func(keys [][]byte, dst []uint32)

var bloomBatchImpl = selectBatchKernel(simd.ActiveBatchLanes())

func selectBatchKernel(lanes int) batchKernel {
	switch {
	case lanes >= 8:
		return bloomBatchX8
	case lanes >= 4:
		return bloomBatchX4
	default:
		return bloomBatchScalar
	}
}

// BloomBatch hashes every key with Bloom and returns the hashes, reusing dst
// when it has enough capacity.
func BloomBatch(keys [][]byte, dst []uint32) []uint32 {
	if cap(dst) < len(keys) {
		dst = make([]uint32, len(keys))
	}
	dst = dst[:len(keys)]
	bloomBatchImpl(keys, dst)
	return dst
}

func bloomBatchScalar(keys [][]byte, dst []uint32) {
	for i, k := range keys {
		dst[i] = Bloom(k)
	}
}

// bloomBatchX4 runs four independent hash chains in lockstep over the word
// prefix the four keys share, then finishes each key on its own.
func bloomBatchX4(keys [][]byte, dst []uint32) {
	n := len(keys) &^ 3
	for i := 0; i < n; i += 4 {
		k0, k1, k2, k3 := keys[i], keys[i+1], keys[i+2], keys[i+3]

		h0 := BloomSeed ^ (uint32(len(k0)) * murmurM)
		h1 := BloomSeed ^ (uint32(len(k1)) * murmurM)
		h2 := BloomSeed ^ (uint32(len(k2)) * murmurM)
		h3 := BloomSeed ^ (uint32(len(k3)) * murmurM)

		common := min(len(k0), len(k1), len(k2), len(k3)) &^ 3
		for off := 0; off < common; off += 4 {
			h0 += binary.LittleEndian.Uint32(k0[off:])
			h1 += binary.LittleEndian.Uint32(k1[off:])
			h2 += binary.LittleEndian.Uint32(k2[off:])
			h3 += binary.LittleEndian.Uint32(k3[off:])

			h0 *= murmurM
			h1 *= murmurM
			h2 *= murmurM
			h3 *= murmurM

			h0 ^= h0 >> 16
			h1 ^= h1 >> 16
			h2 ^= h2 >> 16
			h3 ^= h3 >> 16
		}

		dst[i] = mix(h0, k0[common:])
		dst[i+1] = mix(h1, k1[common:])
		dst[i+2] = mix(h2, k2[common:])
		dst[i+3] = mix(h3, k3[common:])
	}

	bloomBatchScalar(keys[n:], dst[n:])
}

// bloomBatchX8 is bloomBatchX4 with eight chains, for cores with enough
// registers to keep them all live.
func bloomBatchX8(keys [][]byte, dst []uint32) {
	n := len(keys) &^ 7
	var h [8]uint32
	for i := 0; i < n; i += 8 {
		k := keys[i : i+8 : i+8]

		common := len(k[0])
		for j := range h {
			h[j] = BloomSeed ^ (uint32(len(k[j])) * murmurM)
			common = min(common, len(k[j]))
		}
		common &^= 3

		for off := 0; off < common; off += 4 {
			for j := range h {
				h[j] += binary.LittleEndian.Uint32(k[j][off:])
				h[j] *= murmurM
				h[j] ^= h[j] >> 16
			}
		}

		for j := range h {
			dst[i+j] = mix(h[j], k[j][common:])
		}
	}

	bloomBatchX4(keys[n:], dst[n:])
}
