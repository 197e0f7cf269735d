// Package filterblock implements the filter block of a sorted table.
//
// A table's data blocks are grouped by file offset into ranges of
// 1<<BaseLg bytes; each range gets one filter built from the keys of every
// data block that starts inside it. The block layout is:
//
//	[filter 0]
//	[filter 1]
//	...
//	[filter N-1]
//	[offset of filter 0]      : 4 bytes, little-endian
//	...
//	[offset of filter N-1]    : 4 bytes, little-endian
//	[offset of offset array]  : 4 bytes, little-endian
//	[BaseLg]                  : 1 byte
//
// A range without data blocks has an empty filter, which matches no key.
package filterblock
