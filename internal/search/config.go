// Package search implements the query side of the pipeline: candidate
// retrieval by trigram-overlap tally, coarse scoring with positional and
// field boosts, and optional precise reranking of the top-K candidates.
package search

import (
	"errors"
	"fmt"

	"github.com/fuzzdex/fuzzdex/internal/index"
)

// Signaled failures are limited to configuration values outside their valid
// ranges; everything else in the pipeline is a total function.
var (
	ErrOverlapRatioRange    = errors.New("min overlap ratio outside [0, 1]")
	ErrNegativeEditDistance = errors.New("max edit distance is negative")
)

// Config controls retrieval admission and reranking. It is immutable for
// the duration of a query.
type Config struct {
	// MinOverlapRatio is the fraction of distinct query trigrams a
	// document must contain to qualify as a candidate.
	MinOverlapRatio float64
	// EnableFuzzy gates the precise edit-distance/Jaro-Winkler reranking
	// pass over the top-K coarsely scored candidates.
	EnableFuzzy bool
	// MaxEditDistance discards reranked candidates whose distance to the
	// query exceeds it. Ignored when EnableFuzzy is false.
	MaxEditDistance int
}

// Fuzzy returns the canonical typo-tolerant preset.
func Fuzzy() Config {
	return Config{MinOverlapRatio: 0.2, EnableFuzzy: true, MaxEditDistance: 2}
}

// Exact returns the canonical exact-matching preset.
func Exact() Config {
	return Config{MinOverlapRatio: 0.5, EnableFuzzy: false, MaxEditDistance: 0}
}

// Validate rejects out-of-range values. It must be called at configuration
// time so a bad config is never discovered mid-search.
func (c Config) Validate() error {
	if c.MinOverlapRatio < 0 || c.MinOverlapRatio > 1 {
		return fmt.Errorf("validating search config: %w: %v", ErrOverlapRatioRange, c.MinOverlapRatio)
	}
	if c.MaxEditDistance < 0 {
		return fmt.Errorf("validating search config: %w: %d", ErrNegativeEditDistance, c.MaxEditDistance)
	}
	return nil
}

// Result is one ranked hit. Results order by descending score with ties
// broken by ascending DocId for determinism.
type Result struct {
	Doc   index.DocId
	Score float64
}
