package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fuzzdex/fuzzdex/internal/analyzer"
	"github.com/fuzzdex/fuzzdex/pkg/logger"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Measure normalizer throughput",
	RunE:  runNormalize,
}

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize",
	Short: "Measure tokenizer throughput over normalized text",
	RunE:  runTokenize,
}

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Measure the full normalize/tokenize/extract pipeline",
	RunE:  runPipeline,
}

func init() {
	rootCmd.AddCommand(normalizeCmd, tokenizeCmd, pipelineCmd)
}

// measure runs fn warmup times unrecorded, then measureRuns times, and
// returns per-run wall times.
func measure(warmup, runs int, fn func()) []time.Duration {
	for i := 0; i < warmup; i++ {
		fn()
	}
	times := make([]time.Duration, runs)
	for i := 0; i < runs; i++ {
		start := time.Now()
		fn()
		times[i] = time.Since(start)
	}
	return times
}

func best(times []time.Duration) time.Duration {
	b := times[0]
	for _, t := range times[1:] {
		if t < b {
			b = t
		}
	}
	return b
}

func reportThroughput(stage string, bytes int64, items int64, itemName string, times []time.Duration) {
	b := best(times)
	secs := b.Seconds()
	fmt.Printf("=== %s ===\n", stage)
	fmt.Printf("Best of %d runs: %s\n", len(times), b)
	if bytes > 0 {
		fmt.Printf("Throughput:      %.3f GiB/s\n", float64(bytes)/secs/(1<<30))
	}
	if items > 0 {
		fmt.Printf("%-16s %.0f/s\n", itemName+":", float64(items)/secs)
	}
	fmt.Println()
}

func runNormalize(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("bench.normalize")
	lines, err := loadCorpus(cfg.Corpus)
	if err != nil {
		return err
	}
	log.Info("corpus loaded", "lines", len(lines), "bytes", corpusBytes(lines))

	norm := analyzer.NewNormalizer(analyzer.NormalizerConfig{
		StripDiacritics: cfg.Search.StripDiacritics,
	})
	buf := make([]byte, 0, 4096)
	times := measure(cfg.Bench.WarmupRuns, cfg.Bench.MeasureRuns, func() {
		for _, line := range lines {
			buf = norm.AppendNormalized(buf[:0], line)
		}
	})
	reportThroughput("Normalize", corpusBytes(lines), int64(len(lines)), "Lines", times)
	return nil
}

func runTokenize(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("bench.tokenize")
	lines, err := loadCorpus(cfg.Corpus)
	if err != nil {
		return err
	}

	norm := analyzer.NewNormalizer(analyzer.NormalizerConfig{})
	normalized := make([]string, len(lines))
	var normBytes int64
	for i, line := range lines {
		normalized[i] = norm.Normalize(line)
		normBytes += int64(len(normalized[i]))
	}
	log.Info("corpus normalized", "lines", len(normalized), "bytes", normBytes)

	var tokens int64
	times := measure(cfg.Bench.WarmupRuns, cfg.Bench.MeasureRuns, func() {
		tokens = 0
		for _, line := range normalized {
			analyzer.Tokenize(line, analyzer.FieldBody,
				func(string, analyzer.Field, uint32) { tokens++ })
		}
	})
	reportThroughput("Tokenize", normBytes, tokens, "Tokens", times)
	return nil
}

func runPipeline(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("bench.pipeline")
	lines, err := loadCorpus(cfg.Corpus)
	if err != nil {
		return err
	}
	log.Info("corpus loaded", "lines", len(lines))

	norm := analyzer.NewNormalizer(analyzer.NormalizerConfig{
		StripDiacritics: cfg.Search.StripDiacritics,
	})
	ext := analyzer.Extractor{Padded: cfg.Search.PaddedTrigrams}

	var trigrams int64
	buf := make([]byte, 0, 4096)
	times := measure(cfg.Bench.WarmupRuns, cfg.Bench.MeasureRuns, func() {
		trigrams = 0
		for _, line := range lines {
			buf = norm.AppendNormalized(buf[:0], line)
			analyzer.Tokenize(string(buf), analyzer.FieldBody,
				func(token string, _ analyzer.Field, _ uint32) {
					ext.Extract(token, func(analyzer.Trigram, int) { trigrams++ })
				})
		}
	})
	reportThroughput("Pipeline", corpusBytes(lines), trigrams, "Trigrams", times)
	return nil
}
