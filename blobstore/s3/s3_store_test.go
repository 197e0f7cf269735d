package s3

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/hupe1980/vbloom/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_S3Store(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		t.Skip("Skipping S3 integration test: S3_BUCKET not set")
	}

	ctx := context.Background()

	// Create a unique prefix for this test run
	prefix := fmt.Sprintf("test-vbloom-%d/", time.Now().UnixNano())
	store, err := NewStoreFromEnv(ctx, bucket,
		WithPrefix(prefix),
		WithEndpoint(os.Getenv("S3_ENDPOINT")),
	)
	require.NoError(t, err)

	t.Run("PutAndRead", func(t *testing.T) {
		name := "test.filter"
		data := make([]byte, 64*1024)
		_, _ = rand.Read(data)

		require.NoError(t, store.Put(ctx, name, data))

		blobs, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Contains(t, blobs, name)

		r, err := store.Open(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, int64(len(data)), r.Size())

		buf := make([]byte, 100)
		n, err := r.ReadAt(ctx, buf, 1024)
		require.NoError(t, err)
		assert.Equal(t, 100, n)
		assert.Equal(t, data[1024:1124], buf)

		n, err = r.ReadAt(ctx, buf, int64(len(data))-10)
		assert.ErrorIs(t, err, io.EOF)
		assert.Equal(t, 10, n)

		require.NoError(t, r.Close())
		require.NoError(t, store.Delete(ctx, name))
	})

	t.Run("Multipart", func(t *testing.T) {
		data := make([]byte, defaultPartSize+1024)
		_, _ = rand.Read(data)

		require.NoError(t, store.Put(ctx, "large.filter", data))

		got, err := blobstore.Get(ctx, store, "large.filter")
		require.NoError(t, err)
		assert.Equal(t, data, got)
		require.NoError(t, store.Delete(ctx, "large.filter"))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := store.Open(ctx, "nonexistent")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})
}
