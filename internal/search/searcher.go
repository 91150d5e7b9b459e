package search

import (
	"sort"

	"github.com/fuzzdex/fuzzdex/internal/analyzer"
	"github.com/fuzzdex/fuzzdex/internal/index"
)

const (
	// MaxQueryLength bounds the raw query size in bytes; longer queries
	// return no results rather than an error.
	MaxQueryLength = 1000
	// MaxQueryTrigrams caps how many distinct query trigrams are
	// considered. Queries rarely need more to discriminate, and the cap
	// bounds tally cost for pathological inputs.
	MaxQueryTrigrams = 30
)

// Searcher runs the retrieval/scoring/reranking stages against an index.
// It owns reusable scratch buffers (query trigram set, candidate tally,
// result set) which are cleared, not reallocated, at the start of each call.
// A Searcher must not be shared across concurrently executing calls.
type Searcher struct {
	norm *analyzer.Normalizer
	ext  analyzer.Extractor

	normBuf     []byte
	qtri        []analyzer.Trigram
	qseen       map[analyzer.Trigram]struct{}
	tally       map[index.DocId]uint16
	results     []Result
	queryTokens []string
	docTokens   []string
	docBuf      []byte
}

// NewSearcher creates a searcher sharing the engine's normalizer and
// extractor, guaranteeing query-time preprocessing matches index time.
func NewSearcher(norm *analyzer.Normalizer, ext analyzer.Extractor) *Searcher {
	return &Searcher{
		norm:  norm,
		ext:   ext,
		qseen: make(map[analyzer.Trigram]struct{}, MaxQueryTrigrams),
		tally: make(map[index.DocId]uint16),
	}
}

// Search runs the full query pipeline and returns at most limit results in
// final rank order. The returned slice is freshly allocated and safe to
// retain.
func (s *Searcher) Search(ix *index.Index, cfg Config, query string, limit int) []Result {
	if limit <= 0 || ix.DocumentCount() == 0 || len(query) > MaxQueryLength {
		return nil
	}

	s.normBuf = s.norm.AppendNormalized(s.normBuf[:0], query)
	normQuery := string(s.normBuf)

	s.collectQueryTrigrams(normQuery)
	if len(s.qtri) == 0 {
		// Fewer than 3 usable characters: no candidates, not all docs.
		return nil
	}

	s.tallyCandidates(ix, cfg)
	if len(s.results) == 0 {
		return nil
	}

	sort.Slice(s.results, func(i, j int) bool {
		if s.results[i].Score != s.results[j].Score {
			return s.results[i].Score > s.results[j].Score
		}
		return s.results[i].Doc < s.results[j].Doc
	})
	if len(s.results) > limit {
		s.results = s.results[:limit]
	}

	if cfg.EnableFuzzy {
		s.rerank(ix, normQuery, cfg.MaxEditDistance)
	}

	out := make([]Result, len(s.results))
	copy(out, s.results)
	return out
}

// collectQueryTrigrams fills s.qtri with the distinct trigrams of the
// normalized query, capped at MaxQueryTrigrams.
func (s *Searcher) collectQueryTrigrams(normQuery string) {
	s.qtri = s.qtri[:0]
	clear(s.qseen)
	analyzer.Tokenize(normQuery, analyzer.FieldBody, func(tok string, _ analyzer.Field, _ uint32) {
		if len(s.qtri) >= MaxQueryTrigrams {
			return
		}
		s.ext.Extract(tok, func(t analyzer.Trigram, _ int) {
			if len(s.qtri) >= MaxQueryTrigrams {
				return
			}
			if _, dup := s.qseen[t]; dup {
				return
			}
			s.qseen[t] = struct{}{}
			s.qtri = append(s.qtri, t)
		})
	})
}

// tallyCandidates counts, per document, how many distinct query trigrams it
// contains, admits documents meeting the overlap-ratio threshold, and coarse
// scores them into s.results. Posting lists are typically short, so a plain
// tally beats a sorted merge here.
func (s *Searcher) tallyCandidates(ix *index.Index, cfg Config) {
	clear(s.tally)
	for _, t := range s.qtri {
		for _, e := range ix.Lookup(t) {
			s.tally[e.Doc]++
		}
	}

	total := len(s.qtri)
	s.results = s.results[:0]
	for id, matched := range s.tally {
		if float64(matched)/float64(total) < cfg.MinOverlapRatio {
			continue
		}
		doc := ix.Document(id)
		if doc == nil {
			continue
		}
		s.results = append(s.results, Result{
			Doc:   id,
			Score: scoreDocument(doc, s.qtri),
		})
	}
}
