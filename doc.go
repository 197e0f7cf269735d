// Package vbloom provides a Bloom filter policy for the per-block filters of a
// log-structured storage engine.
//
// A filter summarizes the keys of one data block. Before reading the block to
// look up a key, the engine probes the filter: false means the key is
// definitely absent and the read can be skipped; true means it may be present.
// There are no false negatives.
//
// # Quick Start
//
//	policy, _ := vbloom.NewBloomPolicy(vbloom.DefaultBitsPerKey)
//	filter := policy.CreateFilter(keys, nil)
//	if policy.KeyMayMatch(key, filter) {
//		// read the block
//	}
//
// # Encoding
//
// A filter is a bit array of at least 64 bits followed by one byte holding the
// number of probes. Each key is hashed once; the probe positions are derived
// from that hash by double hashing. Neither the hash nor the derivation is
// recorded in the filter, so Name must change if either changes.
//
// Filters whose trailing byte is 0 or greater than 30 are reserved for future
// encodings and match every key.
//
// # Performance
//
// Builds run in two passes: all keys are hashed into a dense slice by a
// multi-lane kernel chosen from the CPU's capabilities, then bits are set.
// Batches of at least WithParallelThreshold keys are split across
// WithParallelism goroutines. All paths produce identical bytes. The kernel can
// be pinned through the VBLOOM_SIMD environment variable (generic, neon, sve2,
// avx2, avx512).
//
// # Related Packages
//
//   - filterblock: per-table filter blocks indexing data blocks by offset
//   - filterstore: persisted, checksummed and cached filter blocks
//   - blobstore: local, in-memory, MinIO and S3 storage backends
//   - prom: Prometheus metrics for a policy
package vbloom
