package cache

import (
	"github.com/cespare/xxhash/v2"
	"github.com/hupe1980/vbloom/internal/resource"
)

const (
	maxShards = 64
	// MinShardCapacity is the smallest per-shard budget. Smaller caches use
	// fewer shards so that a single value may take up to this many bytes.
	MinShardCapacity = 4 << 20
)

// ShardedLRU is a sharded LRU cache for high-concurrency workloads.
// The capacity is divided evenly across up to 64 shards, each holding at
// least MinShardCapacity bytes unless the whole cache is smaller.
type ShardedLRU[V any] struct {
	shards []*LRU[V]
}

// NewShardedLRU creates a new sharded LRU cache.
func NewShardedLRU[V any](capacity int64, rc *resource.Controller) *ShardedLRU[V] {
	n := shardCount(capacity)
	shardCapacity := max(capacity/int64(n), 1)

	s := &ShardedLRU[V]{shards: make([]*LRU[V], n)}
	for i := range s.shards {
		s.shards[i] = NewLRU[V](shardCapacity, rc)
	}
	return s
}

// shardCount returns the largest power of two up to maxShards that keeps
// every shard at MinShardCapacity or more.
func shardCount(capacity int64) int {
	n := maxShards
	for n > 1 && capacity/int64(n) < MinShardCapacity {
		n /= 2
	}
	return n
}

// NumShards returns the number of shards.
func (s *ShardedLRU[V]) NumShards() int {
	return len(s.shards)
}

// MaxValueSize returns the largest size a single value may be charged.
func (s *ShardedLRU[V]) MaxValueSize() int64 {
	return s.shards[0].capacity
}

func (s *ShardedLRU[V]) shard(key string) *LRU[V] {
	return s.shards[xxhash.Sum64String(key)%uint64(len(s.shards))]
}

// Get returns the cached value for key.
func (s *ShardedLRU[V]) Get(key string) (V, bool) {
	return s.shard(key).Get(key)
}

// Set caches value under key, charged as size bytes.
func (s *ShardedLRU[V]) Set(key string, value V, size int64) bool {
	return s.shard(key).Set(key, value, size)
}

// Remove drops key from the cache.
func (s *ShardedLRU[V]) Remove(key string) bool {
	return s.shard(key).Remove(key)
}

// Purge removes all entries.
func (s *ShardedLRU[V]) Purge() {
	for _, sh := range s.shards {
		sh.Purge()
	}
}

// Stats returns aggregated hit/miss statistics.
func (s *ShardedLRU[V]) Stats() (hits, misses int64) {
	for _, sh := range s.shards {
		h, m := sh.Stats()
		hits += h
		misses += m
	}
	return hits, misses
}

// Size returns the total size across all shards.
func (s *ShardedLRU[V]) Size() int64 {
	var total int64
	for _, sh := range s.shards {
		total += sh.Size()
	}
	return total
}

// Len returns the total number of entries.
func (s *ShardedLRU[V]) Len() int {
	var n int
	for _, sh := range s.shards {
		n += sh.Len()
	}
	return n
}

// ShardStats is the state of one shard.
type ShardStats struct {
	ShardID int
	Size    int64
	Hits    int64
	Misses  int64
}

// ShardStats returns per-shard statistics.
func (s *ShardedLRU[V]) ShardStats() []ShardStats {
	stats := make([]ShardStats, len(s.shards))
	for i, sh := range s.shards {
		h, m := sh.Stats()
		stats[i] = ShardStats{ShardID: i, Size: sh.Size(), Hits: h, Misses: m}
	}
	return stats
}
