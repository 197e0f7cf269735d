// Package bloom builds and probes immutable block filters.
//
// A filter is a packed bit array followed by a single byte that records the
// number of probes per key:
//
//	+--------------------------------+-------+
//	| bit array (>= 64 bits, n*8)    | k (1) |
//	+--------------------------------+-------+
//
// Bit i lives in byte i/8 under mask 1<<(i%8) (LSB0 numbering).
//
// Every key is hashed once (hash.Bloom). The k probe positions come from
// double hashing: delta = rotr17(h), then h, h+delta, h+2*delta, ... modulo
// the bit count, in 32-bit wrapping arithmetic.
//
// # Construction paths
//
// Build hashes the whole batch into a dense []uint32 first and sets bits in a
// second pass. BuildParallel splits both passes across workers and sets bits
// with atomic 32-bit ORs on a word-backed copy of the array. All paths
// produce identical bytes.
//
// # Compatibility
//
// A trailing probe count of 0 or above MaxProbes is reserved: probers report
// "maybe present" for every key, so a newer encoding can never cause a false
// negative in an older reader. A filter too short to hold a bit array is
// treated the same way.
package bloom
