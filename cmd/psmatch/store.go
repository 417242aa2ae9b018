package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/psmatch"
	"github.com/hupe1980/psmatch/blobstore"
	"github.com/hupe1980/psmatch/blobstore/minio"
	"github.com/hupe1980/psmatch/blobstore/s3"
	"github.com/hupe1980/psmatch/codec"
	"github.com/hupe1980/psmatch/resource"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// destination is a parsed --export value.
type destination struct {
	scheme string
	host   string
	bucket string
	prefix string
	path   string
}

func parseDestination(raw string) (destination, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return destination{}, fmt.Errorf("invalid export destination %q: %w", raw, err)
	}
	d := destination{scheme: u.Scheme}
	rest := strings.Trim(u.Path, "/")

	switch u.Scheme {
	case "file":
		d.path = u.Host + u.Path
		if d.path == "" {
			return destination{}, fmt.Errorf("export destination %q has no directory", raw)
		}
	case "s3":
		if u.Host == "" {
			return destination{}, fmt.Errorf("export destination %q has no bucket", raw)
		}
		d.bucket, d.prefix = u.Host, rest
	case "minio":
		bucket, prefix, _ := strings.Cut(rest, "/")
		if u.Host == "" || bucket == "" {
			return destination{}, fmt.Errorf("export destination %q needs minio://host/bucket[/prefix]", raw)
		}
		d.host, d.bucket, d.prefix = u.Host, bucket, prefix
	default:
		return destination{}, fmt.Errorf("unsupported export scheme %q (want file, s3 or minio)", u.Scheme)
	}
	return d, nil
}

func openStore(ctx context.Context, d destination) (blobstore.Store, error) {
	switch d.scheme {
	case "file":
		return blobstore.NewLocalStore(d.path), nil
	case "s3":
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return s3.NewStore(awss3.NewFromConfig(cfg), d.bucket, ""), nil
	case "minio":
		client, err := miniogo.New(d.host, &miniogo.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: os.Getenv("MINIO_SECURE") == "true",
		})
		if err != nil {
			return nil, fmt.Errorf("create minio client: %w", err)
		}
		store := minio.NewStore(client, d.bucket, "")
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensure bucket %s: %w", d.bucket, err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported export scheme %q", d.scheme)
	}
}

// newExporter builds the exporter for f, or returns nil when no export was
// requested.
func (f *studyFlags) newExporter(ctx context.Context, optFns ...psmatch.Option) (*psmatch.Exporter, error) {
	if f.export == "" {
		return nil, nil
	}
	d, err := parseDestination(f.export)
	if err != nil {
		return nil, err
	}
	comp, err := psmatch.ParseCompression(f.compression)
	if err != nil {
		return nil, err
	}
	c, ok := codec.ByName(f.codec)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", f.codec)
	}
	store, err := openStore(ctx, d)
	if err != nil {
		return nil, err
	}
	if f.ioLimit > 0 {
		optFns = append(optFns, psmatch.WithResourceController(resource.NewController(resource.Config{IOLimitBytesPerSec: f.ioLimit})))
	}
	return psmatch.NewExporter(store, psmatch.ExportConfig{
		Prefix:      d.prefix,
		Codec:       c,
		Compression: comp,
	}, optFns...), nil
}
