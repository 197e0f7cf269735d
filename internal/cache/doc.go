// Package cache provides byte-bounded LRU caches for decoded filter blocks.
//
// Entries are keyed by string and charged by an explicit size, so a cache
// can hold parsed values (such as a filter block reader) while accounting
// for the bytes they pin. ShardedLRU spreads keys over up to 64 shards
// using xxhash to reduce lock contention; small caches get fewer shards so
// each shard can still admit a large block. Both caches optionally charge their
// size against a resource.Controller memory budget.
package cache
