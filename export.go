package psmatch

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/psmatch/blobstore"
	"github.com/hupe1980/psmatch/codec"
	"github.com/hupe1980/psmatch/internal/compression"
)

// Compression selects how exported reports are framed.
type Compression = compression.Type

const (
	CompressionNone = compression.None
	CompressionLZ4  = compression.LZ4
	CompressionZSTD = compression.ZSTD
)

// ParseCompression maps "none", "lz4" or "zstd" to a Compression.
func ParseCompression(name string) (Compression, error) {
	t, err := compression.Parse(name)
	if err != nil {
		return CompressionNone, &ConfigError{Field: "compression", Reason: err.Error(), cause: err}
	}
	return t, nil
}

// ExportConfig configures an Exporter.
type ExportConfig struct {
	// Prefix is prepended to every artifact name.
	Prefix string
	// Codec encodes reports. Defaults to codec.Default.
	Codec codec.Codec
	// Compression frames the encoded report.
	Compression Compression
}

// Exporter writes reports to a blob store as
// <prefix>/<run-id>.json[.lz4|.zst].
type Exporter struct {
	store blobstore.Store
	cfg   ExportConfig
	opts  options
}

// NewExporter creates an Exporter. A resource controller set through
// WithResourceController limits the export byte rate.
func NewExporter(store blobstore.Store, cfg ExportConfig, optFns ...Option) *Exporter {
	if cfg.Codec == nil {
		cfg.Codec = codec.Default
	}
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	return &Exporter{store: store, cfg: cfg, opts: o}
}

// Name returns the artifact name of runID.
func (e *Exporter) Name(runID string) string {
	return path.Join(e.cfg.Prefix, runID+".json"+e.cfg.Compression.Extension())
}

// Export stores r and returns its artifact name. A report without a run id
// is assigned a fresh UUID.
func (e *Exporter) Export(ctx context.Context, r *Report) (string, error) {
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
	name := e.Name(r.RunID)
	log := e.opts.logger.WithRunID(r.RunID)

	start := time.Now()
	size, err := e.put(ctx, name, r)
	e.opts.metricsCollector.RecordExport(size, time.Since(start), err)
	log.LogExport(ctx, name, size, err)
	if err != nil {
		return "", fmt.Errorf("export %s: %w", name, err)
	}
	return name, nil
}

func (e *Exporter) put(ctx context.Context, name string, r *Report) (int, error) {
	data, err := e.cfg.Codec.Marshal(r)
	if err != nil {
		return 0, err
	}
	data, err = compression.Compress(data, e.cfg.Compression)
	if err != nil {
		return 0, err
	}
	if err := e.opts.resources.AcquireIO(ctx, len(data)); err != nil {
		return 0, err
	}
	if err := e.store.Put(ctx, name, data); err != nil {
		return 0, err
	}
	return len(data), nil
}

// List returns the names of all exported reports below the prefix.
func (e *Exporter) List(ctx context.Context) ([]string, error) {
	prefix := e.cfg.Prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	names, err := e.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := names[:0]
	for _, n := range names {
		if strings.Contains(path.Base(n), ".json") {
			out = append(out, n)
		}
	}
	return out, nil
}

// Load reads an exported report using the exporter's codec.
func (e *Exporter) Load(ctx context.Context, name string) (*Report, error) {
	return loadReport(ctx, e.store, name, e.cfg.Codec)
}

// LoadReport reads an exported report. The compression is taken from the
// name's extension.
func LoadReport(ctx context.Context, store blobstore.Store, name string) (*Report, error) {
	return loadReport(ctx, store, name, codec.Default)
}

func loadReport(ctx context.Context, store blobstore.Store, name string, c codec.Codec) (*Report, error) {
	data, err := blobstore.Get(ctx, store, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	data, err = compression.Decompress(data, compression.FromExtension(path.Ext(name)))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	var r Report
	if err := c.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return &r, nil
}
