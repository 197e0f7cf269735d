package filterblock

import (
	"encoding/binary"

	"github.com/hupe1980/vbloom"
)

// BaseLg is the log2 of the data-offset range covered by one filter.
const BaseLg = 11

const filterBase = 1 << BaseLg

// Builder accumulates keys per data block and encodes the filter block of a
// table. Block offsets passed to StartBlock must be non-decreasing.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	policy vbloom.FilterPolicy

	keys   []byte // flattened key contents
	starts []int  // start of each key in keys
	tmp    [][]byte

	result  []byte
	offsets []uint32
}

// NewBuilder returns a Builder creating filters with policy.
func NewBuilder(policy vbloom.FilterPolicy) *Builder {
	return &Builder{policy: policy}
}

// StartBlock announces that the following keys belong to the data block at
// blockOffset.
func (b *Builder) StartBlock(blockOffset uint64) {
	index := blockOffset / filterBase
	for index > uint64(len(b.offsets)) {
		b.generateFilter()
	}
}

// AddKey adds key to the filter of the current range. The key is copied.
func (b *Builder) AddKey(key []byte) {
	b.starts = append(b.starts, len(b.keys))
	b.keys = append(b.keys, key...)
}

// Finish flushes pending keys and returns the encoded block. The returned
// slice is owned by the Builder until the next call to Reset.
func (b *Builder) Finish() []byte {
	if len(b.starts) != 0 {
		b.generateFilter()
	}

	arrayOffset := uint32(len(b.result))
	for _, off := range b.offsets {
		b.result = binary.LittleEndian.AppendUint32(b.result, off)
	}
	b.result = binary.LittleEndian.AppendUint32(b.result, arrayOffset)
	b.result = append(b.result, BaseLg)

	return b.result
}

// Reset clears the Builder for reuse while keeping its buffers.
func (b *Builder) Reset() {
	b.keys = b.keys[:0]
	b.starts = b.starts[:0]
	b.result = b.result[:0]
	b.offsets = b.offsets[:0]
}

func (b *Builder) generateFilter() {
	b.offsets = append(b.offsets, uint32(len(b.result)))
	if len(b.starts) == 0 {
		return
	}

	b.tmp = b.tmp[:0]
	for i, start := range b.starts {
		limit := len(b.keys)
		if i+1 < len(b.starts) {
			limit = b.starts[i+1]
		}
		b.tmp = append(b.tmp, b.keys[start:limit])
	}

	b.result = b.policy.CreateFilter(b.tmp, b.result)

	clear(b.tmp)
	b.keys = b.keys[:0]
	b.starts = b.starts[:0]
}
