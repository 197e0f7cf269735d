// Package hash provides the hash functions behind the filter format and its
// persisted checksums.
//
// # Bloom hash
//
// Bloom is a Murmur-like 32-bit hash over arbitrary bytes with a fixed seed.
// Filters store neither the hash function nor the seed, so builder and prober
// must use exactly this function; changing it is a format change.
//
//	h := hash.Bloom(key)
//
// For batches, BloomBatch hashes many keys into a dense []uint32. It picks an
// interleaved kernel when the CPU can keep several independent multiply
// chains in flight (see internal/simd); every kernel returns bit-identical
// results.
//
//	hashes := hash.BloomBatch(keys, nil)
//
// # CRC32-Castagnoli (CRC32C)
//
// Persisted filter blocks carry a CRC32C trailer. Go's crc32 package uses
// hardware instructions when available:
//
//	Platform          Throughput
//	x86-64 (SSE4.2)   ~20 GB/s
//	ARM64 (CRC)       ~10 GB/s
//	Software          ~2 GB/s
package hash
