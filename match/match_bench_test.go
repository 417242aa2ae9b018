package match

import (
	"context"
	"testing"

	"github.com/hupe1980/psmatch/testutil"
)

func BenchmarkMatch(b *testing.B) {
	rng := testutil.NewRNG(4711)
	g := testutil.Group(rng.UniformScores(5000), rng.UniformScores(5000))

	for _, kind := range indexKinds {
		b.Run(kind.String(), func(b *testing.B) {
			m, err := New(0.2, WithIndex(kind))
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			for b.Loop() {
				if _, err := m.Match(context.Background(), g); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
