package filterblock

import (
	"encoding/binary"
	"errors"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/vbloom"
)

// ErrCorrupt is returned by NewReader for contents that cannot be a filter
// block.
var ErrCorrupt = errors.New("filterblock: corrupt filter block")

// Reader answers membership queries against an encoded filter block. It is
// safe for concurrent use when the policy is.
type Reader struct {
	policy vbloom.FilterPolicy
	data   []byte // filters followed by the offset array
	array  int    // start of the offset array in data
	num    int
	baseLg uint8
}

// NewReader parses contents, which must stay unmodified while the Reader is
// in use.
func NewReader(policy vbloom.FilterPolicy, contents []byte) (*Reader, error) {
	n := len(contents)
	if n < 5 {
		return nil, ErrCorrupt
	}

	baseLg := contents[n-1]
	if baseLg >= 64 {
		return nil, ErrCorrupt
	}
	array := binary.LittleEndian.Uint32(contents[n-5:])
	if uint64(array) > uint64(n-5) {
		return nil, ErrCorrupt
	}

	return &Reader{
		policy: policy,
		data:   contents[:n-1],
		array:  int(array),
		num:    (n - 5 - int(array)) / 4,
		baseLg: baseLg,
	}, nil
}

// NumFilters returns the number of filters in the block.
func (r *Reader) NumFilters() int { return r.num }

// FilterIndex returns the index of the filter covering blockOffset.
func (r *Reader) FilterIndex(blockOffset uint64) uint64 {
	return blockOffset >> r.baseLg
}

// KeyMayMatch reports whether key may be in the data block at blockOffset.
// Offsets beyond the block and damaged offsets report true.
func (r *Reader) KeyMayMatch(blockOffset uint64, key []byte) bool {
	index := r.FilterIndex(blockOffset)
	if index >= uint64(r.num) {
		return true
	}
	return r.filterMayMatch(int(index), key)
}

// bounds returns the byte range of filter index within data. ok is false
// when the offsets are damaged.
func (r *Reader) bounds(index int) (start, limit uint32, ok bool) {
	pos := r.array + index*4
	start = binary.LittleEndian.Uint32(r.data[pos:])
	limit = binary.LittleEndian.Uint32(r.data[pos+4:])
	return start, limit, start <= limit && uint64(limit) <= uint64(r.array)
}

func (r *Reader) filterMayMatch(index int, key []byte) bool {
	start, limit, ok := r.bounds(index)
	if !ok {
		return true
	}
	if start == limit {
		return false
	}
	return r.policy.KeyMayMatch(key, r.data[start:limit])
}

// Filter returns the encoded filter at index. It returns nil for empty
// filters, damaged offsets and out-of-range indexes.
func (r *Reader) Filter(index int) []byte {
	if index < 0 || index >= r.num {
		return nil
	}
	start, limit, ok := r.bounds(index)
	if !ok || start == limit {
		return nil
	}
	return r.data[start:limit:limit]
}

// CandidateBlocks returns the indexes of all filters that may contain key.
// Data blocks whose offset maps to an index outside the result need not be
// read.
func (r *Reader) CandidateBlocks(key []byte) *roaring.Bitmap {
	bm := roaring.New()
	for i := range r.num {
		if r.filterMayMatch(i, key) {
			bm.Add(uint32(i))
		}
	}
	return bm
}
