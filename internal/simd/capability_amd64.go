//go:build amd64 && !noasm

package simd

import "golang.org/x/sys/cpu"

func init() {
	supported[AVX2] = cpu.X86.HasAVX2
	supported[AVX512] = cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW
	detect()
}
