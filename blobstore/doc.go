// Package blobstore provides the storage abstraction exported study artifacts
// are written to.
//
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-memory, for tests and dry runs
//   - LocalStore: local filesystem, reads through mmap
//   - s3.Store: Amazon S3 (multipart upload for large artifacts)
//   - minio.Store: MinIO and other S3-compatible services
//
// # Custom Implementations
//
//	type Store interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
