package hash

import "encoding/binary"

const (
	// BloomSeed is the fixed seed of the filter hash.
	BloomSeed uint32 = 0x35fef00d

	murmurM = 0xc6a4a793
)

// Hash computes the 32-bit Murmur-like hash of data with the given seed.
func Hash(data []byte, seed uint32) uint32 {
	return mix(seed^(uint32(len(data))*murmurM), data)
}

// Bloom hashes a key for filter probing.
func Bloom(key []byte) uint32 {
	return Hash(key, BloomSeed)
}

// mix folds data into the running state h.
func mix(h uint32, data []byte) uint32 {
	for len(data) >= 4 {
		h += binary.LittleEndian.Uint32(data)
		h *= murmurM
		h ^= h >> 16
		data = data[4:]
	}

	switch len(data) {
	case 3:
		h += uint32(data[2]) << 16
		fallthrough
	case 2:
		h += uint32(data[1]) << 8
		fallthrough
	case 1:
		h += uint32(data[0])
		h *= murmurM
		h ^= h >> 24
	}
	return h
}
