package filterstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/hupe1980/vbloom"
	"github.com/hupe1980/vbloom/blobstore"
	"github.com/hupe1980/vbloom/filterblock"
	"github.com/hupe1980/vbloom/internal/cache"
	"github.com/hupe1980/vbloom/internal/hash"
	"github.com/hupe1980/vbloom/internal/resource"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	blobSuffix  = ".filter"
	trailerSize = 4
)

var (
	// ErrNotFound is returned when a table has no stored filter block.
	ErrNotFound = errors.New("filterstore: filter block not found")
	// ErrChecksumMismatch is returned when a stored block fails verification.
	ErrChecksumMismatch = errors.New("filterstore: checksum mismatch")
	// ErrTruncated is returned when a stored blob is too short to hold a
	// checksum trailer.
	ErrTruncated = errors.New("filterstore: truncated blob")
	// ErrInvalidTable is returned for empty table names.
	ErrInvalidTable = errors.New("filterstore: invalid table name")
)

// Store persists filter blocks in a blobstore.BlobStore and caches parsed
// readers. It is safe for concurrent use.
type Store struct {
	blobs  blobstore.BlobStore
	policy vbloom.FilterPolicy
	rc     *resource.Controller
	cache  *cache.ShardedLRU[*filterblock.Reader]
	loads  singleflight.Group
	logger *vbloom.Logger

	// mu guards gens and orders cache admission against Put and Delete.
	mu   sync.Mutex
	gens map[string]uint64
	next uint64
}

// New returns a Store reading and writing filter blocks through blobs.
// policy must be the policy the blocks were built with.
func New(blobs blobstore.BlobStore, policy vbloom.FilterPolicy, optFns ...Option) *Store {
	opts := applyOptions(optFns)

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   opts.memoryLimit,
		MaxWorkers:         opts.warmWorkers,
		IOLimitBytesPerSec: opts.ioLimit,
	})

	return &Store{
		blobs:  blobs,
		policy: policy,
		rc:     rc,
		cache:  cache.NewShardedLRU[*filterblock.Reader](opts.cacheCapacity, rc),
		logger: opts.logger,
		gens:   make(map[string]uint64),
	}
}

func blobName(table string) string {
	return table + blobSuffix
}

// Put stores block as the filter block of table, replacing any previous
// block and evicting its cached reader.
func (s *Store) Put(ctx context.Context, table string, block []byte) error {
	if table == "" {
		return ErrInvalidTable
	}

	data := make([]byte, 0, len(block)+trailerSize)
	data = append(data, block...)
	data = binary.LittleEndian.AppendUint32(data, hash.MaskCRC32C(hash.CRC32C(block)))

	if err := s.blobs.Put(ctx, blobName(table), data); err != nil {
		return fmt.Errorf("filterstore: put %q: %w", table, err)
	}

	s.invalidate(table)
	s.logger.Debug("filter block stored", "table", table, "bytes", len(block))
	return nil
}

// Open returns a reader for the filter block of table, loading and caching
// it on a miss. Concurrent opens of the same table share one load.
func (s *Store) Open(ctx context.Context, table string) (*filterblock.Reader, error) {
	return s.open(ctx, table, false)
}

func (s *Store) open(ctx context.Context, table string, throttled bool) (*filterblock.Reader, error) {
	if table == "" {
		return nil, ErrInvalidTable
	}
	if r, ok := s.cache.Get(table); ok {
		return r, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The shared load outlives any single caller; each caller waits on its
	// own ctx.
	ch := s.loads.DoChan(table, func() (any, error) {
		return s.loadReader(context.WithoutCancel(ctx), table, throttled)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*filterblock.Reader), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// loadReader loads and parses the block of table and caches the reader
// unless the table was replaced or deleted while loading.
func (s *Store) loadReader(ctx context.Context, table string, throttled bool) (*filterblock.Reader, error) {
	s.mu.Lock()
	gen := s.gens[table]
	s.mu.Unlock()

	contents, err := s.load(ctx, table, throttled)
	if err != nil {
		return nil, err
	}

	r, err := filterblock.NewReader(s.policy, contents)
	if err != nil {
		return nil, fmt.Errorf("filterstore: open %q: %w", table, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gens[table] != gen {
		s.logger.Debug("stale filter block not cached", "table", table)
		return r, nil
	}
	if !s.cache.Set(table, r, int64(len(contents))) {
		s.logger.Debug("filter block not cached", "table", table, "bytes", len(contents))
	}
	return r, nil
}

// invalidate evicts the cached reader of table and detaches in-flight loads
// so they can no longer populate the cache.
func (s *Store) invalidate(table string) {
	s.mu.Lock()
	s.next++
	s.gens[table] = s.next
	s.cache.Remove(table)
	s.mu.Unlock()

	s.loads.Forget(table)
}

// load reads and verifies the stored block of table.
func (s *Store) load(ctx context.Context, table string, throttled bool) ([]byte, error) {
	blob, err := s.blobs.Open(ctx, blobName(table))
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, table)
		}
		return nil, fmt.Errorf("filterstore: open %q: %w", table, err)
	}
	defer func() { _ = blob.Close() }()

	if throttled {
		if err := s.rc.AcquireIO(ctx, int(blob.Size())); err != nil {
			return nil, err
		}
	}

	data, err := blobstore.ReadAll(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("filterstore: read %q: %w", table, err)
	}

	if len(data) < trailerSize {
		return nil, fmt.Errorf("%w: %q has %d bytes", ErrTruncated, table, len(data))
	}

	n := len(data) - trailerSize
	want := hash.UnmaskCRC32C(binary.LittleEndian.Uint32(data[n:]))
	if got := hash.CRC32C(data[:n]); got != want {
		s.logger.Warn("filter block checksum mismatch", "table", table, "want", want, "got", got)
		return nil, fmt.Errorf("%w: %q", ErrChecksumMismatch, table)
	}

	s.logger.Debug("filter block loaded", "table", table, "bytes", n)
	return data[:n:n], nil
}

// KeyMayMatch reports whether key may be in the data block at blockOffset
// of table.
func (s *Store) KeyMayMatch(ctx context.Context, table string, blockOffset uint64, key []byte) (bool, error) {
	r, err := s.Open(ctx, table)
	if err != nil {
		return false, err
	}
	return r.KeyMayMatch(blockOffset, key), nil
}

// Warm loads the filter blocks of tables into the cache using the configured
// number of workers and read rate. It stops at the first error.
func (s *Store) Warm(ctx context.Context, tables []string) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, table := range tables {
		if err := s.rc.AcquireWorker(gctx); err != nil {
			break
		}
		g.Go(func() error {
			defer s.rc.ReleaseWorker()
			_, err := s.open(gctx, table, true)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.Info("filter blocks warmed", "tables", len(tables))
	return nil
}

// Delete removes the stored block of table and evicts its cached reader.
func (s *Store) Delete(ctx context.Context, table string) error {
	if table == "" {
		return ErrInvalidTable
	}
	err := s.blobs.Delete(ctx, blobName(table))
	s.invalidate(table)
	if err != nil {
		return fmt.Errorf("filterstore: delete %q: %w", table, err)
	}
	return nil
}

// Tables returns the sorted names of all tables with a stored filter block.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	names, err := s.blobs.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("filterstore: list: %w", err)
	}

	tables := make([]string, 0, len(names))
	for _, name := range names {
		if table, ok := strings.CutSuffix(name, blobSuffix); ok && table != "" {
			tables = append(tables, table)
		}
	}
	slices.Sort(tables)
	return tables, nil
}

// Stats describes the reader cache.
type Stats struct {
	Hits        int64
	Misses      int64
	CachedBytes int64
	Cached      int
}

// Stats returns reader cache statistics.
func (s *Store) Stats() Stats {
	hits, misses := s.cache.Stats()
	return Stats{
		Hits:        hits,
		Misses:      misses,
		CachedBytes: s.cache.Size(),
		Cached:      s.cache.Len(),
	}
}
