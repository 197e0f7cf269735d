package bloom

import "math"

const (
	// MinBits is the smallest bit array a filter carries.
	MinBits = 64

	// MaxProbes is the largest probe count a prober understands.
	MaxProbes = 30

	// ln2 approximates ln(2), the optimal probes-per-bit ratio.
	ln2 = 0.69314718
)

// NumProbes returns the probe count for bitsPerKey: round(bitsPerKey*ln 2),
// clamped to [1, MaxProbes].
func NumProbes(bitsPerKey int) int {
	k := int(math.Round(float64(bitsPerKey) * ln2))
	return min(max(k, 1), MaxProbes)
}

// BitArrayBytes returns the size of the bit array for n keys. The result is
// at least MinBits/8.
func BitArrayBytes(n, bitsPerKey int) int {
	bits := max(n*bitsPerKey, MinBits)
	return (bits + 7) / 8
}

// FilterLen returns the encoded filter size for n keys including the probe
// count byte.
func FilterLen(n, bitsPerKey int) int {
	return BitArrayBytes(n, bitsPerKey) + 1
}

func probeDelta(h uint32) uint32 {
	return (h >> 17) | (h << 15)
}

// EstimateFalsePositiveRate returns the textbook false positive rate
// (1 - e^(-k/b))^k for b bits per key and the derived probe count k.
func EstimateFalsePositiveRate(bitsPerKey int) float64 {
	if bitsPerKey < 1 {
		return 1
	}
	k := float64(NumProbes(bitsPerKey))
	return math.Pow(1-math.Exp(-k/float64(bitsPerKey)), k)
}
