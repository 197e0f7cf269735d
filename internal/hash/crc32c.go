package hash

import (
	"hash"
	"hash/crc32"
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// NewCRC32C returns a streaming CRC32-Castagnoli hash.Hash32.
func NewCRC32C() hash.Hash32 {
	return crc32.New(crc32cTable)
}

// MaskCRC32C returns a masked representation of crc. Checksums stored next to
// the data they cover are masked so that computing the CRC of a string that
// already embeds CRCs stays well distributed.
func MaskCRC32C(crc uint32) uint32 {
	return ((crc >> 15) | (crc << 17)) + crc32cMaskDelta
}

// UnmaskCRC32C reverses MaskCRC32C.
func UnmaskCRC32C(masked uint32) uint32 {
	rot := masked - crc32cMaskDelta
	return (rot >> 17) | (rot << 15)
}

const crc32cMaskDelta = 0xa282ead8
