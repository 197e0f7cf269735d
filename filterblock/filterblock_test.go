package filterblock

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/hupe1980/vbloom"
	"github.com/hupe1980/vbloom/internal/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hashPolicy stores one 32-bit hash per key, so matches are exact unless two
// keys collide.
type hashPolicy struct{}

func (hashPolicy) Name() string { return "test.HashFilter" }

func (hashPolicy) CreateFilter(keys [][]byte, dst []byte) []byte {
	for _, k := range keys {
		dst = binary.LittleEndian.AppendUint32(dst, hash.Hash(k, 1))
	}
	return dst
}

func (hashPolicy) KeyMayMatch(key, filter []byte) bool {
	h := hash.Hash(key, 1)
	for i := 0; i+4 <= len(filter); i += 4 {
		if binary.LittleEndian.Uint32(filter[i:]) == h {
			return true
		}
	}
	return false
}

func TestEmptyBuilder(t *testing.T) {
	b := NewBuilder(hashPolicy{})
	block := b.Finish()
	assert.Equal(t, []byte{0, 0, 0, 0, BaseLg}, block)

	r, err := NewReader(hashPolicy{}, block)
	require.NoError(t, err)
	assert.Equal(t, 0, r.NumFilters())
	assert.True(t, r.KeyMayMatch(0, []byte("foo")))
	assert.True(t, r.KeyMayMatch(100000, []byte("foo")))
	assert.True(t, r.CandidateBlocks([]byte("foo")).IsEmpty())
}

func TestSingleChunk(t *testing.T) {
	b := NewBuilder(hashPolicy{})
	b.StartBlock(100)
	b.AddKey([]byte("foo"))
	b.AddKey([]byte("bar"))
	b.AddKey([]byte("box"))
	b.StartBlock(200)
	b.AddKey([]byte("box"))
	b.StartBlock(300)
	b.AddKey([]byte("hello"))

	r, err := NewReader(hashPolicy{}, b.Finish())
	require.NoError(t, err)
	assert.Equal(t, 1, r.NumFilters())

	for _, k := range []string{"foo", "bar", "box", "hello"} {
		assert.Truef(t, r.KeyMayMatch(100, []byte(k)), "key=%s", k)
	}
	assert.True(t, r.KeyMayMatch(100, []byte("foo")))
	assert.False(t, r.KeyMayMatch(100, []byte("missing")))
	assert.False(t, r.KeyMayMatch(100, []byte("other")))
}

func buildMultiChunk(t *testing.T, policy vbloom.FilterPolicy) *Reader {
	t.Helper()

	b := NewBuilder(policy)

	// First filter
	b.StartBlock(0)
	b.AddKey([]byte("foo"))
	b.StartBlock(2000)
	b.AddKey([]byte("bar"))

	// Second filter
	b.StartBlock(3100)
	b.AddKey([]byte("box"))

	// Third filter is empty

	// Last filter
	b.StartBlock(9000)
	b.AddKey([]byte("box"))
	b.AddKey([]byte("hello"))

	r, err := NewReader(policy, b.Finish())
	require.NoError(t, err)
	return r
}

func TestMultiChunk(t *testing.T) {
	r := buildMultiChunk(t, hashPolicy{})
	assert.Equal(t, 5, r.NumFilters())

	// Check first filter
	assert.True(t, r.KeyMayMatch(0, []byte("foo")))
	assert.True(t, r.KeyMayMatch(2000, []byte("bar")))
	assert.False(t, r.KeyMayMatch(0, []byte("box")))
	assert.False(t, r.KeyMayMatch(0, []byte("hello")))

	// Check second filter
	assert.True(t, r.KeyMayMatch(3100, []byte("box")))
	assert.False(t, r.KeyMayMatch(3100, []byte("foo")))
	assert.False(t, r.KeyMayMatch(3100, []byte("bar")))
	assert.False(t, r.KeyMayMatch(3100, []byte("hello")))

	// Check third filter (empty)
	assert.False(t, r.KeyMayMatch(4100, []byte("foo")))
	assert.False(t, r.KeyMayMatch(4100, []byte("bar")))
	assert.False(t, r.KeyMayMatch(4100, []byte("box")))
	assert.False(t, r.KeyMayMatch(4100, []byte("hello")))

	// Check last filter
	assert.True(t, r.KeyMayMatch(9000, []byte("box")))
	assert.True(t, r.KeyMayMatch(9000, []byte("hello")))
	assert.False(t, r.KeyMayMatch(9000, []byte("foo")))
	assert.False(t, r.KeyMayMatch(9000, []byte("bar")))

	// Beyond the last filter
	assert.True(t, r.KeyMayMatch(20000, []byte("anything")))
}

func TestCandidateBlocks(t *testing.T) {
	r := buildMultiChunk(t, hashPolicy{})

	assert.Equal(t, []uint32{1, 4}, r.CandidateBlocks([]byte("box")).ToArray())
	assert.Equal(t, []uint32{0}, r.CandidateBlocks([]byte("foo")).ToArray())
	assert.True(t, r.CandidateBlocks([]byte("missing")).IsEmpty())
	assert.Equal(t, uint64(4), r.FilterIndex(9000))
}

func TestBloomPolicyRoundTrip(t *testing.T) {
	policy, err := vbloom.NewBloomPolicy(vbloom.DefaultBitsPerKey)
	require.NoError(t, err)

	b := NewBuilder(policy)
	const blocks = 50
	for blk := range blocks {
		b.StartBlock(uint64(blk) * 4096)
		for i := range 100 {
			b.AddKey(fmt.Appendf(nil, "key-%03d-%03d", blk, i))
		}
	}

	r, err := NewReader(policy, b.Finish())
	require.NoError(t, err)

	for blk := range blocks {
		for i := range 100 {
			key := fmt.Appendf(nil, "key-%03d-%03d", blk, i)
			require.True(t, r.KeyMayMatch(uint64(blk)*4096, key))
			require.True(t, r.CandidateBlocks(key).Contains(uint32(blk*2)))
		}
		// Odd filters cover ranges without data blocks.
		if blk == blocks-1 {
			continue
		}
		assert.False(t, r.KeyMayMatch(uint64(blk)*4096+filterBase, []byte("key-000-000")))
	}
}

func TestBuilderReset(t *testing.T) {
	b := NewBuilder(hashPolicy{})
	b.StartBlock(0)
	b.AddKey([]byte("foo"))
	first := bytes.Clone(b.Finish())

	b.Reset()
	b.StartBlock(0)
	b.AddKey([]byte("foo"))
	assert.Equal(t, first, b.Finish())
}

func TestAddKeyCopies(t *testing.T) {
	b := NewBuilder(hashPolicy{})
	key := []byte("foo")
	b.StartBlock(0)
	b.AddKey(key)
	copy(key, "bar")

	r, err := NewReader(hashPolicy{}, b.Finish())
	require.NoError(t, err)
	assert.True(t, r.KeyMayMatch(0, []byte("foo")))
	assert.False(t, r.KeyMayMatch(0, []byte("bar")))
}

func TestNewReaderCorrupt(t *testing.T) {
	tests := []struct {
		name     string
		contents []byte
	}{
		{"Nil", nil},
		{"Short", []byte{0, 0, 0, BaseLg}},
		{"ArrayOffsetPastEnd", []byte{9, 0, 0, 0, BaseLg}},
		{"ArrayOffsetPastEndLong", []byte{0, 0, 0, 0, 5, 0, 0, 0, BaseLg}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(hashPolicy{}, tt.contents)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestDamagedOffsetsMatch(t *testing.T) {
	b := NewBuilder(hashPolicy{})
	b.StartBlock(0)
	b.AddKey([]byte("foo"))
	block := bytes.Clone(b.Finish())

	// Point the first filter's start past its limit.
	arrayOffset := binary.LittleEndian.Uint32(block[len(block)-5:])
	binary.LittleEndian.PutUint32(block[arrayOffset:], 1000)

	r, err := NewReader(hashPolicy{}, block)
	require.NoError(t, err)
	assert.True(t, r.KeyMayMatch(0, []byte("missing")))
}

func TestFilter(t *testing.T) {
	r := buildMultiChunk(t, hashPolicy{})

	assert.Len(t, r.Filter(0), 8)
	assert.Len(t, r.Filter(1), 4)
	assert.Nil(t, r.Filter(2))
	assert.Nil(t, r.Filter(3))
	assert.Len(t, r.Filter(4), 8)
	assert.Nil(t, r.Filter(5))
	assert.Nil(t, r.Filter(-1))
}
