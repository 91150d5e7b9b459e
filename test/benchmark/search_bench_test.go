package benchmark

import (
	"fmt"
	"testing"

	"github.com/fuzzdex/fuzzdex"
)

func buildEngine(b *testing.B, docs int, opts ...fuzzdex.Option) *fuzzdex.Engine {
	b.Helper()
	eng, err := fuzzdex.New(opts...)
	if err != nil {
		b.Fatal(err)
	}
	for i, line := range syntheticLines(docs) {
		eng.Add(fuzzdex.DocId(i), line)
	}
	return eng
}

// BenchmarkSearch measures full-pipeline query latency at different index
// sizes, with and without fuzzy reranking.
func BenchmarkSearch(b *testing.B) {
	queries := []string{
		"search engine",
		"trigram indx", // typo
		"document score rank",
		"cache",
	}
	for _, docs := range []int{1000, 10000, 100000} {
		for _, preset := range []struct {
			name string
			cfg  fuzzdex.SearchConfig
		}{
			{"exact", fuzzdex.ExactConfig()},
			{"fuzzy", fuzzdex.FuzzyConfig()},
		} {
			b.Run(fmt.Sprintf("docs_%d/%s", docs, preset.name), func(b *testing.B) {
				eng := buildEngine(b, docs, fuzzdex.WithSearchConfig(preset.cfg))
				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					results := eng.Search(queries[i%len(queries)], 10)
					_ = results
				}
			})
		}
	}
}

// BenchmarkSearchLimit measures how the result limit bounds scoring and
// reranking work.
func BenchmarkSearchLimit(b *testing.B) {
	eng := buildEngine(b, 50000)
	for _, limit := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("limit_%d", limit), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				eng.Search("search engine index", limit)
			}
		})
	}
}

// BenchmarkSyncEngineParallel measures concurrent search throughput through
// the synchronized wrapper, cache included.
func BenchmarkSyncEngineParallel(b *testing.B) {
	se, err := fuzzdex.NewSync()
	if err != nil {
		b.Fatal(err)
	}
	lines := syntheticLines(10000)
	for i, line := range lines {
		se.Add(fuzzdex.DocId(i), line)
	}
	queries := []string{
		"search engine", "posting overlap", "fuzzy match score",
		"document title", "batch cache", "trigram index",
	}

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			se.Search(queries[i%len(queries)], 10)
			i++
		}
	})
}
