// Package s3 implements blobstore.Store on Amazon S3.
//
// Small artifacts are written with a single PutObject call. Artifacts larger
// than the configured part size go through the SDK multipart uploader.
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "psmatch/")
package s3
