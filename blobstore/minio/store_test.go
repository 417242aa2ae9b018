package minio

import (
	"context"
	"os"
	"testing"

	"github.com/hupe1980/psmatch/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	client, err := minio.New(env("MINIO_ENDPOINT", "localhost:9000"), &minio.Options{
		Creds:  credentials.NewStaticV4(env("MINIO_ACCESS_KEY", "minioadmin"), env("MINIO_SECRET_KEY", "minioadmin"), ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	if _, err = client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	store := NewStore(client, "test-psmatch", "test-prefix/")
	require.NoError(t, store.EnsureBucket(ctx))

	data := []byte(`{"unadjusted":10.1}`)
	require.NoError(t, store.Put(ctx, "runs/r1.json", data))

	got, err := blobstore.Get(ctx, store, "runs/r1.json")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "runs/")
	require.NoError(t, err)
	assert.Contains(t, names, "runs/r1.json")

	require.NoError(t, store.Delete(ctx, "runs/r1.json"))
	_, err = store.Open(ctx, "runs/r1.json")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", contentType("runs/a.json"))
	assert.Equal(t, "application/zstd", contentType("runs/a.json.zst"))
	assert.Equal(t, "application/octet-stream", contentType("runs/a.json.lz4"))
}
