// Package filterstore persists filter blocks for named tables and serves
// cached readers for them.
//
// Each table's filter block is stored as one blob named "<table>.filter":
//
//	[filter block]
//	[masked crc32c of the block] : 4 bytes, little-endian
//
// Readers are cached in a byte-bounded sharded LRU. Concurrent opens of the
// same table share a single load; a caller that gives up does not cancel it
// for the others. Put and Delete detach loads already in flight, so a reader
// of a replaced block is never cached. Warm preloads many tables in the
// background with bounded concurrency and an optional read rate limit.
//
//	fs := filterstore.New(blobstore.NewLocalStore(dir), policy,
//	    filterstore.WithCacheCapacity(64<<20),
//	)
//	if err := fs.Put(ctx, "000042", builder.Finish()); err != nil {
//	    return err
//	}
//	r, err := fs.Open(ctx, "000042")
package filterstore
