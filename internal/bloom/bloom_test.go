package bloom

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/hupe1980/vbloom/internal/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed32Key(i int) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(i))
	return buf[:]
}

func keysN(n int) [][]byte {
	keys := make([][]byte, n)
	for i := range keys {
		keys[i] = fixed32Key(i)
	}
	return keys
}

func nextLength(length int) int {
	switch {
	case length < 10:
		return length + 1
	case length < 100:
		return length + 10
	case length < 1000:
		return length + 100
	default:
		return length + 1000
	}
}

func falsePositiveRate(filter []byte) float64 {
	const probes = 10000
	hits := 0
	for i := range probes {
		if MayContain(filter, fixed32Key(i+1000000000)) {
			hits++
		}
	}
	return float64(hits) / probes
}

func TestNumProbes(t *testing.T) {
	tests := []struct {
		bitsPerKey int
		want       int
	}{
		{0, 1},
		{1, 1},
		{2, 1},
		{3, 2},
		{10, 7},
		{16, 11},
		{20, 14},
		{43, 30},
		{100, 30},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, NumProbes(tt.bitsPerKey), "bitsPerKey=%d", tt.bitsPerKey)
	}
}

func TestBitArrayBytes(t *testing.T) {
	assert.Equal(t, 8, BitArrayBytes(0, 10))
	assert.Equal(t, 8, BitArrayBytes(6, 10))
	assert.Equal(t, 9, BitArrayBytes(7, 10))
	assert.Equal(t, 13, BitArrayBytes(10, 10))
	assert.Equal(t, 1250, BitArrayBytes(1000, 10))
	assert.Equal(t, 1251, FilterLen(1000, 10))
}

func TestEmptyFilter(t *testing.T) {
	filter := Build(nil, nil, 10)

	require.Len(t, filter, 9)
	assert.Equal(t, "000000000000000007", hex.EncodeToString(filter))
	assert.False(t, MayContain(filter, []byte("hello")))
	assert.False(t, MayContain(filter, []byte("world")))
}

func TestSmall(t *testing.T) {
	filter := Build(nil, [][]byte{[]byte("hello"), []byte("world")}, 10)

	assert.True(t, MayContain(filter, []byte("hello")))
	assert.True(t, MayContain(filter, []byte("world")))
	assert.False(t, MayContain(filter, []byte("x")))
	assert.False(t, MayContain(filter, []byte("foo")))
}

func TestGoldenEncoding(t *testing.T) {
	// Persisted filters must stay byte-identical across releases.
	filter := Build(nil, [][]byte{[]byte("hello"), []byte("world")}, 10)
	assert.Equal(t, "302025600024602107", hex.EncodeToString(filter))

	filter = Build(nil, [][]byte{[]byte("a")}, 10)
	assert.Equal(t, "004400080011002207", hex.EncodeToString(filter))
}

func TestVaryingLengths(t *testing.T) {
	mediocre, good := 0, 0

	for length := 1; length <= 10000; length = nextLength(length) {
		keys := keysN(length)
		filter := Build(nil, keys, 10)

		require.LessOrEqualf(t, len(filter), length*10/8+40, "length=%d", length)

		for i, k := range keys {
			require.Truef(t, MayContain(filter, k), "length=%d key=%d", length, i)
		}

		rate := falsePositiveRate(filter)
		t.Logf("False positives: %5.2f%% @ length = %6d ; bytes = %6d", rate*100, length, len(filter))
		require.LessOrEqualf(t, rate, 0.02, "length=%d", length)

		if rate > 0.0125 {
			mediocre++
		} else {
			good++
		}
	}

	t.Logf("Filters: %d good, %d mediocre", good, mediocre)
	assert.LessOrEqual(t, mediocre, good/5)
}

func TestDeterministic(t *testing.T) {
	keys := keysN(5000)
	a := Build(nil, keys, 10)
	b := Build(nil, keys, 10)
	assert.Equal(t, a, b)
}

func TestDuplicateKeys(t *testing.T) {
	dupes := append(keysN(100), keysN(100)...)
	filter := Build(nil, dupes, 10)

	require.Len(t, filter, FilterLen(len(dupes), 10))
	for _, k := range dupes {
		assert.True(t, MayContain(filter, k))
	}
}

func TestBuildAppendsToDst(t *testing.T) {
	keys := keysN(50)
	want := Build(nil, keys, 10)

	prefix := []byte("block-bytes")
	got := Build(append([]byte(nil), prefix...), keys, 10)

	require.Len(t, got, len(prefix)+len(want))
	assert.Equal(t, prefix, got[:len(prefix)])
	assert.Equal(t, want, got[len(prefix):])
}

func TestBuildReusesDirtyCapacity(t *testing.T) {
	dst := make([]byte, 0, 64)
	dst = append(dst, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)
	dst = dst[:0]

	got := Build(dst, nil, 10)
	assert.Equal(t, "000000000000000007", hex.EncodeToString(got))
}

func TestBuildFromHashes(t *testing.T) {
	keys := keysN(300)
	hashes := make([]uint32, len(keys))
	for i, k := range keys {
		hashes[i] = hash.Bloom(k)
	}
	assert.Equal(t, Build(nil, keys, 10), BuildFromHashes(nil, hashes, 10))
}

func TestBuildParallelMatchesBuild(t *testing.T) {
	for _, n := range []int{0, 10, minKeysPerWorker*2 - 1, minKeysPerWorker*6 + 123} {
		keys := keysN(n)
		want := Build(nil, keys, 10)
		for _, workers := range []int{0, 1, 2, 4, 8} {
			got := BuildParallel(nil, keys, 10, workers)
			require.Equalf(t, want, got, "n=%d workers=%d", n, workers)
		}
	}
}

func TestBuildParallelOddBitArray(t *testing.T) {
	// 3 bits per key keeps the array length off a 4-byte boundary.
	keys := keysN(minKeysPerWorker*3 + 1)
	require.NotZero(t, BitArrayBytes(len(keys), 3)%4)
	assert.Equal(t, Build(nil, keys, 3), BuildParallel(nil, keys, 3, 3))
}

func TestReservedProbeCounts(t *testing.T) {
	filter := Build(nil, keysN(20), 10)

	for _, k := range []byte{0, MaxProbes + 1, 0xff} {
		forged := append([]byte(nil), filter...)
		clear(forged[:len(forged)-1])
		forged[len(forged)-1] = k

		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			for i := range 100 {
				assert.True(t, MayContain(forged, fixed32Key(i+5000)))
			}
		})
	}
}

func TestMalformedFilters(t *testing.T) {
	assert.True(t, MayContain(nil, []byte("a")))
	assert.True(t, MayContain([]byte{}, []byte("a")))
	assert.True(t, MayContain([]byte{7}, []byte("a")), "a filter without a bit array")

	minimal := make([]byte, MinBits/8+1)
	minimal[len(minimal)-1] = 7
	assert.False(t, MayContain(minimal, []byte("a")))
}

func TestMayContainBatch(t *testing.T) {
	filter := Build(nil, keysN(1000), 10)

	queries := keysN(2000)
	got := MayContainBatch(filter, queries, nil)
	require.Len(t, got, len(queries))
	for i, q := range queries {
		assert.Equal(t, MayContain(filter, q), got[i])
	}
	for i := range 1000 {
		assert.True(t, got[i])
	}

	all := MayContainBatch([]byte{0}, queries[:10], make([]bool, 0, 16))
	for _, v := range all {
		assert.True(t, v)
	}
}

func TestInspect(t *testing.T) {
	filter := Build(nil, [][]byte{[]byte("hello"), []byte("world")}, 10)

	info, ok := Inspect(filter)
	require.True(t, ok)
	assert.Equal(t, 64, info.Bits)
	assert.Equal(t, 7, info.Probes)
	assert.Equal(t, 14, info.SetBits)

	_, ok = Inspect([]byte{0, 0, 0})
	assert.False(t, ok)
}

func TestEstimateFalsePositiveRate(t *testing.T) {
	assert.InDelta(t, 0.0082, EstimateFalsePositiveRate(10), 0.0005)
	assert.Less(t, EstimateFalsePositiveRate(20), EstimateFalsePositiveRate(10))
	assert.Equal(t, 1.0, EstimateFalsePositiveRate(0))
}
