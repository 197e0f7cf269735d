//go:build arm64 && !noasm

package simd

import "golang.org/x/sys/cpu"

func init() {
	supported[NEON] = cpu.ARM64.HasASIMD
	supported[SVE2] = cpu.ARM64.HasSVE2
	detect()
}
