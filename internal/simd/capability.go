package simd

import (
	"os"
	"runtime"
	"strings"
)

// ISA identifies a batch kernel tier.
type ISA uint8

const (
	// Generic runs one hash chain at a time.
	Generic ISA = iota
	// NEON is ARM64 ASIMD.
	NEON
	// SVE2 is ARM64 SVE2.
	SVE2
	// AVX2 is x86-64 AVX2.
	AVX2
	// AVX512 is x86-64 AVX-512 F+BW.
	AVX512
)

// OverrideEnv names the environment variable that pins the active ISA.
const OverrideEnv = "VBLOOM_SIMD"

type tier struct {
	name  string
	lanes int
}

// tiers is indexed by ISA. lanes is the number of independent hash chains
// a batch kernel keeps in flight on that tier.
var tiers = [...]tier{
	Generic: {"generic", 1},
	NEON:    {"neon", 4},
	SVE2:    {"sve2", 8},
	AVX2:    {"avx2", 4},
	AVX512:  {"avx512", 8},
}

var (
	// supported is filled by the platform init before detect runs.
	supported  [len(tiers)]bool
	activeISA  ISA
	overridden bool
)

func (i ISA) String() string {
	if int(i) < len(tiers) {
		return tiers[i].name
	}
	return "unknown"
}

// ParseISA parses a tier name, ignoring case and surrounding space.
func ParseISA(s string) (ISA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, t := range tiers {
		if t.name == s {
			return ISA(i), true
		}
	}
	return Generic, false
}

// Supported reports whether the CPU can run the tier.
func Supported(isa ISA) bool {
	return int(isa) < len(supported) && supported[isa]
}

// detect picks the active tier, honoring a supported VBLOOM_SIMD override.
func detect() {
	supported[Generic] = true
	overridden = false

	if v := os.Getenv(OverrideEnv); v != "" {
		if isa, ok := ParseISA(v); ok && Supported(isa) {
			activeISA, overridden = isa, true
			return
		}
	}
	activeISA = best()
}

// best returns the supported tier with the most lanes. Apple cores run SVE2
// slower than NEON, so darwin never picks it.
func best() ISA {
	pick := Generic
	for i := range tiers {
		isa := ISA(i)
		if !supported[isa] || (isa == SVE2 && runtime.GOOS == "darwin") {
			continue
		}
		if tiers[isa].lanes > tiers[pick].lanes {
			pick = isa
		}
	}
	return pick
}

// ActiveISA returns the tier selected at startup.
func ActiveISA() ISA {
	return activeISA
}

// IsOverridden reports whether VBLOOM_SIMD selected the active tier.
func IsOverridden() bool {
	return overridden
}

// BatchLanes returns how many keys a batch kernel hashes in lockstep on isa.
func BatchLanes(isa ISA) int {
	if int(isa) < len(tiers) {
		return tiers[isa].lanes
	}
	return 1
}

// ActiveBatchLanes is BatchLanes(ActiveISA()).
func ActiveBatchLanes() int {
	return BatchLanes(activeISA)
}
