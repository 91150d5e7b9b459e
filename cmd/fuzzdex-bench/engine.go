package main

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fuzzdex/fuzzdex"
	"github.com/fuzzdex/fuzzdex/pkg/logger"
	"github.com/fuzzdex/fuzzdex/pkg/metrics"
)

var (
	searchConcurrency int
	searchDuration    time.Duration
	searchLimit       int
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Measure index build rate and report index size",
	RunE:  runIndex,
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Measure search latency and throughput under concurrent load",
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchConcurrency, "concurrency", 0, "worker goroutines (default from config)")
	searchCmd.Flags().DurationVar(&searchDuration, "duration", 0, "measurement duration (default from config)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "results per query (default from config)")
	rootCmd.AddCommand(indexCmd, searchCmd)
}

func engineOptions() []fuzzdex.Option {
	opts := []fuzzdex.Option{
		fuzzdex.WithSearchConfig(fuzzdex.SearchConfig{
			MinOverlapRatio: cfg.Search.MinOverlapRatio,
			EnableFuzzy:     cfg.Search.EnableFuzzy,
			MaxEditDistance: cfg.Search.MaxEditDistance,
		}),
		fuzzdex.WithNormalizer(fuzzdex.NormalizerConfig{
			StripDiacritics: cfg.Search.StripDiacritics,
		}),
	}
	if cfg.Search.PaddedTrigrams {
		opts = append(opts, fuzzdex.WithPaddedTrigrams())
	}
	return opts
}

func runIndex(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("bench.index")
	lines, err := loadCorpus(cfg.Corpus)
	if err != nil {
		return err
	}

	eng, err := fuzzdex.New(engineOptions()...)
	if err != nil {
		return err
	}

	start := time.Now()
	for i, line := range lines {
		eng.Add(fuzzdex.DocId(i), line)
	}
	elapsed := time.Since(start)

	st := eng.StatsWithCompression()
	log.Info("index built", "documents", st.Documents, "elapsed", elapsed)

	fmt.Println("=== Index Build ===")
	fmt.Printf("Documents:   %d\n", st.Documents)
	fmt.Printf("Elapsed:     %s\n", elapsed)
	fmt.Printf("Docs/sec:    %.0f\n", float64(st.Documents)/elapsed.Seconds())
	fmt.Printf("Bytes/sec:   %.2f MiB/s\n", float64(corpusBytes(lines))/elapsed.Seconds()/(1<<20))
	fmt.Println()
	fmt.Println("=== Index Size ===")
	fmt.Printf("Trigrams:    %d\n", st.Trigrams)
	fmt.Printf("Postings:    %d\n", st.Postings)
	fmt.Printf("Raw posting bytes:        %d\n", st.RawPostingBytes)
	fmt.Printf("Compressed posting bytes: %d (ratio %.3f)\n", st.CompressedPostingBytes, st.Ratio)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("bench.search")
	lines, err := loadCorpus(cfg.Corpus)
	if err != nil {
		return err
	}

	concurrency := cfg.Bench.Concurrency
	if searchConcurrency > 0 {
		concurrency = searchConcurrency
	}
	duration := cfg.Bench.Duration
	if searchDuration > 0 {
		duration = searchDuration
	}
	limit := cfg.Search.DefaultLimit
	if searchLimit > 0 {
		limit = searchLimit
	}

	se, err := fuzzdex.NewSync(engineOptions()...)
	if err != nil {
		return err
	}
	for i, line := range lines {
		se.Add(fuzzdex.DocId(i), line)
	}
	queries := sampleQueries(lines, 1000)
	log.Info("engine ready", "documents", len(lines), "queries", len(queries),
		"concurrency", concurrency, "duration", duration)

	var m *metrics.Metrics
	var shutdownMetrics func(context.Context) error
	if cfg.Metrics.Enabled {
		m = metrics.New()
		st := se.Stats()
		m.SetIndexSize(st.Documents, st.Trigrams, st.Postings)
		shutdownMetrics = metrics.StartServer(cfg.Metrics.Port)
	}

	fmt.Println("=== Search Load ===")
	fmt.Printf("Documents:   %d\n", len(lines))
	fmt.Printf("Concurrency: %d\n", concurrency)
	fmt.Printf("Duration:    %s\n", duration)
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	var (
		total       atomic.Int64
		zero        atomic.Int64
		latencies   []time.Duration
		latenciesMu sync.Mutex
	)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < concurrency; w++ {
		w := w
		g.Go(func() error {
			local := make([]time.Duration, 0, 65536)
			qi := w
			for ctx.Err() == nil {
				q := queries[qi%len(queries)]
				qi++

				start := time.Now()
				results := se.Search(q, limit)
				took := time.Since(start)

				total.Add(1)
				if len(results) == 0 {
					zero.Add(1)
				}
				local = append(local, took)
				if m != nil {
					m.ObserveSearch(took.Seconds(), len(results))
				}
			}
			latenciesMu.Lock()
			latencies = append(latencies, local...)
			latenciesMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	printSearchReport(total.Load(), zero.Load(), latencies, duration)
	cs := se.CacheStats()
	fmt.Println()
	fmt.Println("=== Cache ===")
	fmt.Printf("Hits:    %d\n", cs.Hits)
	fmt.Printf("Misses:  %d\n", cs.Misses)

	if shutdownMetrics != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownMetrics(shutdownCtx); err != nil {
			log.Warn("metrics server shutdown", "error", err)
		}
	}
	return nil
}

func printSearchReport(total, zero int64, latencies []time.Duration, duration time.Duration) {
	fmt.Println("=== Results ===")
	fmt.Printf("Total Queries:   %d\n", total)
	fmt.Printf("Zero Results:    %d\n", zero)
	if total > 0 {
		fmt.Printf("Queries/sec:     %.2f\n", float64(total)/duration.Seconds())
	}
	if len(latencies) == 0 {
		return
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	avg := sum / time.Duration(len(latencies))

	fmt.Println()
	fmt.Println("=== Latency ===")
	fmt.Printf("Min:    %s\n", latencies[0])
	fmt.Printf("Avg:    %s\n", avg)
	fmt.Printf("P50:    %s\n", percentile(latencies, 50))
	fmt.Printf("P90:    %s\n", percentile(latencies, 90))
	fmt.Printf("P95:    %s\n", percentile(latencies, 95))
	fmt.Printf("P99:    %s\n", percentile(latencies, 99))
	fmt.Printf("Max:    %s\n", latencies[len(latencies)-1])
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
