package blobstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	ifs "github.com/hupe1980/psmatch/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"local":  NewLocalStore(filepath.Join(t.TempDir(), "artifacts")),
	}
}

func TestStore_Contract(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Open(ctx, "runs/missing.json")
			assert.True(t, errors.Is(err, ErrNotFound))

			names, err := s.List(ctx, "")
			require.NoError(t, err)
			assert.Empty(t, names)

			require.NoError(t, s.Put(ctx, "runs/b.json", []byte(`{"pairs":2}`)))
			require.NoError(t, s.Put(ctx, "runs/a.json", []byte(`{"pairs":1}`)))
			require.NoError(t, s.Put(ctx, "other/c.json", []byte(`{}`)))
			require.NoError(t, s.Put(ctx, "runs/a.json", []byte(`{"pairs":10}`)))

			data, err := Get(ctx, s, "runs/a.json")
			require.NoError(t, err)
			assert.Equal(t, `{"pairs":10}`, string(data))

			names, err = s.List(ctx, "runs/")
			require.NoError(t, err)
			assert.Equal(t, []string{"runs/a.json", "runs/b.json"}, names)

			names, err = s.List(ctx, "")
			require.NoError(t, err)
			assert.Len(t, names, 3)

			blob, err := s.Open(ctx, "runs/b.json")
			require.NoError(t, err)
			assert.Equal(t, int64(11), blob.Size())
			buf := make([]byte, 5)
			n, err := blob.ReadAt(ctx, buf, 1)
			require.NoError(t, err)
			assert.Equal(t, 5, n)
			assert.Equal(t, `"pair`, string(buf))
			require.NoError(t, blob.Close())

			require.NoError(t, s.Delete(ctx, "runs/b.json"))
			require.NoError(t, s.Delete(ctx, "runs/b.json"))
			_, err = s.Open(ctx, "runs/b.json")
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestStore_EmptyBlob(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "empty", nil))
			data, err := Get(ctx, s, "empty")
			require.NoError(t, err)
			assert.Empty(t, data)
		})
	}
}

func TestLocalStore_NoTempFilesLeft(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStore(root)
	require.NoError(t, s.Put(context.Background(), "x/report.json", []byte("{}")))

	entries, err := os.ReadDir(filepath.Join(root, "x"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report.json", entries[0].Name())
}

func TestLocalStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewLocalStore(t.TempDir())
	assert.ErrorIs(t, s.Put(ctx, "a", []byte("x")), context.Canceled)
}

func TestLocalStore_FailedWriteKeepsPreviousBlob(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	ffs := ifs.NewFaultyFS(nil)
	s := NewLocalStore(root, WithFileSystem(ffs))
	require.NoError(t, s.Put(ctx, "runs/a.json", []byte("v1")))

	// Writes to temp files fail after 3 bytes.
	ffs.AddRule(".tmp-", ifs.Fault{FailAfterBytes: 3})
	err := s.Put(ctx, "runs/a.json", []byte("version two"))
	assert.ErrorIs(t, err, ifs.ErrInjected)

	data, err := Get(ctx, s, "runs/a.json")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))

	entries, err := os.ReadDir(filepath.Join(root, "runs"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalStore_FailedRenameCleansUp(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	ffs := ifs.NewFaultyFS(nil)
	ffs.AddRule("b.json", ifs.Fault{FailAfterBytes: -1, FailOnRename: true})
	s := NewLocalStore(root, WithFileSystem(ffs))

	assert.ErrorIs(t, s.Put(ctx, "b.json", []byte("{}")), ifs.ErrInjected)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)

	names, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)
}
