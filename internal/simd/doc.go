// Package simd detects the CPU features used to pick batch kernels.
//
// # Supported Platforms
//
//   - x86-64: AVX-512, AVX2
//   - ARM64: NEON, SVE2
//
// Runtime CPU feature detection selects the widest batch layout the CPU can
// keep in flight. Build with -tags noasm to force the scalar fallback.
//
// The kernels themselves are plain Go: the batch layout interleaves
// independent per-key hash chains so the compiler and the out-of-order core
// can overlap them. Selecting a kernel never changes results, only
// throughput.
//
// # Override
//
// Set VBLOOM_SIMD=generic|neon|sve2|avx2|avx512 to pin a kernel. An override
// naming an ISA the CPU does not support is ignored.
package simd
