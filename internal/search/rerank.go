package search

import (
	"sort"

	"github.com/xrash/smetrics"

	"github.com/fuzzdex/fuzzdex/internal/analyzer"
	"github.com/fuzzdex/fuzzdex/internal/index"
)

// Jaro-Winkler parameters: the customary 0.7 boost threshold and 4-character
// prefix scale, favoring candidates that share the query's prefix.
const (
	jwBoostThreshold = 0.7
	jwPrefixSize     = 4

	// Blend of the two precise similarity signals in the combined score.
	editSimWeight = 0.6
	jaroSimWeight = 0.4
)

// rerank rescores the current top-K results in s.results in place. Only the
// already-truncated top-K set is touched, which bounds reranking cost
// independent of corpus and candidate-set size.
//
// Distance between a query and a document is computed token-wise: each query
// token is aligned with its closest document token by edit distance, and the
// candidate's distance is the worst of those alignments. A candidate whose
// distance exceeds maxDist is a false positive of the coarse overlap filter
// and is discarded. Survivors reorder by the combined precise similarity
// (bounded edit similarity blended with Jaro-Winkler) descending, then by
// ascending DocId.
func (s *Searcher) rerank(ix *index.Index, normQuery string, maxDist int) {
	s.queryTokens = appendTokens(s.queryTokens[:0], normQuery)
	if len(s.queryTokens) == 0 {
		return
	}

	kept := s.results[:0]
	for _, r := range s.results {
		doc := ix.Document(r.Doc)
		if doc == nil {
			continue
		}
		s.docBuf = s.norm.AppendNormalized(s.docBuf[:0], doc.Raw())
		s.docTokens = appendTokens(s.docTokens[:0], string(s.docBuf))

		dist, sim := s.alignTokens()
		if dist > maxDist {
			continue
		}
		kept = append(kept, Result{Doc: r.Doc, Score: sim})
	}
	s.results = kept

	sort.Slice(s.results, func(i, j int) bool {
		if s.results[i].Score != s.results[j].Score {
			return s.results[i].Score > s.results[j].Score
		}
		return s.results[i].Doc < s.results[j].Doc
	})
}

// alignTokens matches every query token against its closest document token.
// It returns the worst per-token edit distance and the mean combined
// similarity across query tokens.
func (s *Searcher) alignTokens() (int, float64) {
	worst := 0
	simSum := 0.0
	for _, qt := range s.queryTokens {
		bestDist := len(qt) + 1
		bestTok := ""
		for _, dt := range s.docTokens {
			d := smetrics.Ukkonen(qt, dt, 1, 1, 1)
			if d < bestDist {
				bestDist = d
				bestTok = dt
				if d == 0 {
					break
				}
			}
		}
		if bestDist > worst {
			worst = bestDist
		}
		simSum += combinedSimilarity(qt, bestTok, bestDist)
	}
	return worst, simSum / float64(len(s.queryTokens))
}

func combinedSimilarity(query, token string, dist int) float64 {
	longest := len(query)
	if len(token) > longest {
		longest = len(token)
	}
	editSim := 0.0
	if longest > 0 && dist <= longest {
		editSim = 1.0 - float64(dist)/float64(longest)
	}
	return editSimWeight*editSim + jaroSimWeight*smetrics.JaroWinkler(query, token, jwBoostThreshold, jwPrefixSize)
}

func appendTokens(dst []string, normalized string) []string {
	analyzer.Tokenize(normalized, analyzer.FieldBody, func(tok string, _ analyzer.Field, _ uint32) {
		dst = append(dst, tok)
	})
	return dst
}
