package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/fuzzdex/fuzzdex/pkg/config"
)

// corpusWords seeds the synthetic corpus generator. Real-looking short
// tokens keep the trigram distribution closer to natural text than random
// bytes would.
var corpusWords = []string{
	"search", "engine", "index", "query", "token", "trigram", "fuzzy",
	"match", "score", "rank", "document", "title", "body", "field",
	"posting", "overlap", "distance", "boost", "cache", "batch",
	"stream", "buffer", "memory", "latency", "throughput", "vector",
	"filter", "merge", "shard", "replica", "compress", "encode",
}

// loadCorpus reads one document per line from cfg.Path, or generates
// cfg.Documents synthetic lines when no path is configured.
func loadCorpus(cfg config.CorpusConfig) ([]string, error) {
	if cfg.Path == "" {
		return generateCorpus(cfg.Documents), nil
	}

	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus %s: %w", cfg.Path, err)
	}
	defer f.Close()

	lines := make([]string, 0, cfg.Documents)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if cfg.MaxLine > 0 && len(line) > cfg.MaxLine {
			line = line[:cfg.MaxLine]
		}
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if cfg.Documents > 0 && len(lines) >= cfg.Documents {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus %s: %w", cfg.Path, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("corpus %s is empty", cfg.Path)
	}
	return lines, nil
}

func generateCorpus(n int) []string {
	if n <= 0 {
		n = 10000
	}
	rng := rand.New(rand.NewSource(42))
	lines := make([]string, n)
	var sb strings.Builder
	for i := range lines {
		sb.Reset()
		words := 3 + rng.Intn(10)
		for w := 0; w < words; w++ {
			if w > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(corpusWords[rng.Intn(len(corpusWords))])
		}
		lines[i] = sb.String()
	}
	return lines
}

// corpusBytes sums the byte length of all lines, for throughput reporting.
func corpusBytes(lines []string) int64 {
	var total int64
	for _, l := range lines {
		total += int64(len(l))
	}
	return total
}

// sampleQueries derives realistic queries from corpus lines by taking the
// first couple of words, occasionally with a typo injected.
func sampleQueries(lines []string, n int) []string {
	rng := rand.New(rand.NewSource(7))
	queries := make([]string, 0, n)
	for len(queries) < n {
		line := lines[rng.Intn(len(lines))]
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		take := 1 + rng.Intn(2)
		if take > len(words) {
			take = len(words)
		}
		q := strings.Join(words[:take], " ")
		if rng.Intn(4) == 0 && len(q) > 3 {
			// Swap one interior character to simulate a typo.
			pos := 1 + rng.Intn(len(q)-2)
			b := []byte(q)
			b[pos] = byte('a' + rng.Intn(26))
			q = string(b)
		}
		queries = append(queries, q)
	}
	return queries
}
