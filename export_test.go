package psmatch

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/psmatch/blobstore"
	"github.com/hupe1980/psmatch/codec"
	"github.com/hupe1980/psmatch/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(t *testing.T) *Report {
	t.Helper()
	cfg := smallConfig()
	cfg.N = 600
	r, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	return r
}

func TestExporter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	report := sampleReport(t)

	stores := map[string]blobstore.Store{
		"memory": blobstore.NewMemoryStore(),
		"local":  blobstore.NewLocalStore(filepath.Join(t.TempDir(), "runs")),
	}
	compressions := []Compression{CompressionNone, CompressionLZ4, CompressionZSTD}
	codecs := []codec.Codec{codec.JSON{}, codec.GoJSON{}}

	for storeName, store := range stores {
		for _, comp := range compressions {
			for _, c := range codecs {
				t.Run(storeName+"/"+comp.String()+"/"+c.Name(), func(t *testing.T) {
					exp := NewExporter(store, ExportConfig{Prefix: "study", Codec: c, Compression: comp})

					r := *report
					r.RunID = ""
					name, err := exp.Export(ctx, &r)
					require.NoError(t, err)
					require.NotEmpty(t, r.RunID)
					assert.Equal(t, "study/"+r.RunID+".json"+comp.Extension(), name)

					loaded, err := exp.Load(ctx, name)
					require.NoError(t, err)
					assert.Equal(t, r.RunID, loaded.RunID)
					assert.Equal(t, r.Seed, loaded.Seed)
					assert.Equal(t, r.Unadjusted, loaded.Unadjusted)
					assert.Equal(t, r.Model, loaded.Model)
					require.Len(t, loaded.Methods, len(r.Methods))
					for i := range r.Methods {
						assert.Equal(t, r.Methods[i].Pairs, loaded.Methods[i].Pairs)
						assert.Equal(t, r.Methods[i].MeanDiff, loaded.Methods[i].MeanDiff)
						assert.Equal(t, r.Methods[i].Balance, loaded.Methods[i].Balance)
						assert.Nil(t, loaded.Methods[i].Result())
					}
					assert.Equal(t, r.String(), loaded.String())
				})
			}
		}
	}
}

func TestExporter_NaNSurvives(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	exp := NewExporter(store, ExportConfig{})

	r := &Report{
		RunID:      "nan",
		Unadjusted: codec.Float(math.NaN()),
		Methods: []MethodReport{{
			Method:    MethodRaw,
			Pairs:     1,
			MeanDiff:  3,
			Statistic: codec.Float(math.NaN()),
			PValue:    codec.Float(math.NaN()),
		}},
	}
	name, err := exp.Export(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, "nan.json", name)

	loaded, err := LoadReport(ctx, store, name)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(float64(loaded.Unadjusted)))
	assert.True(t, math.IsNaN(float64(loaded.Methods[0].PValue)))
	assert.Equal(t, codec.Float(3), loaded.Methods[0].MeanDiff)
}

func TestExporter_ListAndMetrics(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "study/notes.txt", []byte("x")))

	mc := &BasicMetricsCollector{}
	exp := NewExporter(store, ExportConfig{Prefix: "study", Compression: CompressionZSTD},
		WithMetricsCollector(mc),
		WithResourceController(resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})),
	)

	for _, id := range []string{"b", "a"} {
		_, err := exp.Export(ctx, &Report{RunID: id})
		require.NoError(t, err)
	}

	names, err := exp.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"study/a.json.zst", "study/b.json.zst"}, names)

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.ExportCount)
	assert.Greater(t, stats.ExportBytes, int64(0))
}

func TestLoadReport_Errors(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	_, err := LoadReport(ctx, store, "missing.json")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, store.Put(ctx, "bad.json.zst", []byte("xy")))
	_, err = LoadReport(ctx, store, "bad.json.zst")
	assert.Error(t, err)

	require.NoError(t, store.Put(ctx, "bad.json", []byte("{")))
	_, err = LoadReport(ctx, store, "bad.json")
	assert.Error(t, err)
}

func TestParseCompression(t *testing.T) {
	c, err := ParseCompression("zstd")
	require.NoError(t, err)
	assert.Equal(t, CompressionZSTD, c)

	_, err = ParseCompression("brotli")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.True(t, strings.Contains(err.Error(), "compression"))
}
