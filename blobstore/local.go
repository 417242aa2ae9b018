package blobstore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	ifs "github.com/hupe1980/psmatch/internal/fs"
	"github.com/hupe1980/psmatch/internal/mmap"
)

const tmpPrefix = ".tmp-"

// LocalStore implements Store using the local file system.
// Blob names use forward slashes and map to paths below the root.
type LocalStore struct {
	root string
	fs   ifs.FileSystem
}

// LocalOption configures a LocalStore.
type LocalOption func(*LocalStore)

// WithFileSystem replaces the file system writes go through.
func WithFileSystem(fsys ifs.FileSystem) LocalOption {
	return func(s *LocalStore) {
		if fsys != nil {
			s.fs = fsys
		}
	}
}

// NewLocalStore creates a new LocalStore rooted at the given directory.
func NewLocalStore(root string, opts ...LocalOption) *LocalStore {
	s := &LocalStore{root: root, fs: ifs.Default}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// Open maps the blob into memory for reading.
func (s *LocalStore) Open(ctx context.Context, name string) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := mmap.Open(s.path(name))
	if err != nil {
		return nil, err
	}
	return &localBlob{m: m}, nil
}

// Put writes data to a temporary file and renames it into place, so readers
// never observe a partial blob.
func (s *LocalStore) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst := s.path(name)
	dir := filepath.Dir(dst)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := filepath.Join(dir, tmpPrefix+uuid.NewString())
	f, err := s.fs.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if err := writeAndSync(f, data); err != nil {
		_ = s.fs.Remove(tmp)
		return err
	}
	if err := s.fs.Rename(tmp, dst); err != nil {
		_ = s.fs.Remove(tmp)
		return err
	}
	return nil
}

func writeAndSync(f ifs.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Delete removes a blob.
func (s *LocalStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.fs.Remove(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// List returns all blobs below the root whose names start with prefix.
func (s *LocalStore) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	if err := s.walk(ctx, "", prefix, &names); err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (s *LocalStore) walk(ctx context.Context, rel, prefix string, names *[]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := s.fs.ReadDir(s.path(rel))
	if err != nil {
		if rel == "" && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), tmpPrefix) {
			continue
		}
		name := path.Join(rel, e.Name())
		if e.IsDir() {
			// Skip subtrees that cannot contain the prefix.
			if !strings.HasPrefix(name+"/", prefix) && !strings.HasPrefix(prefix, name+"/") {
				continue
			}
			if err := s.walk(ctx, name, prefix, names); err != nil {
				return err
			}
			continue
		}
		if strings.HasPrefix(name, prefix) {
			*names = append(*names, name)
		}
	}
	return nil
}

type localBlob struct {
	m *mmap.File
}

func (b *localBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return b.m.ReadAt(p, off)
}

func (b *localBlob) Close() error {
	return b.m.Close()
}

func (b *localBlob) Size() int64 {
	return int64(b.m.Len())
}
