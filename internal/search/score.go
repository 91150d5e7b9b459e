package search

import (
	"github.com/fuzzdex/fuzzdex/internal/analyzer"
	"github.com/fuzzdex/fuzzdex/internal/index"
)

// Positional boost for a trigram first seen at window offset d from a token
// start: 1 + 1/(1+d). Prefix matches are stronger typo-tolerance signals
// than mid-token matches, so offset 0 doubles the contribution and the boost
// decays toward 1 further into the token. The factor is bounded by
// maxPositionalBoost, so a field's score never exceeds that multiple of its
// base overlap score.
const maxPositionalBoost = 2.0

func positionalBoost(minOffset uint8) float64 {
	return 1.0 + 1.0/(1.0+float64(minOffset))
}

// scoreDocument computes the coarse ranking score for one candidate: the sum
// over matched fields of overlap fraction x mean positional boost x field
// weight. Cost is proportional to len(qtri) per field, independent of corpus
// size.
func scoreDocument(doc *index.Document, qtri []analyzer.Trigram) float64 {
	total := len(qtri)
	if total == 0 {
		return 0
	}
	var score float64
	for f := analyzer.Field(0); f < analyzer.NumFields; f++ {
		fs := doc.Field(f)
		if fs == nil {
			continue
		}
		matched := 0
		boostSum := 0.0
		for _, t := range qtri {
			stat, ok := fs[t]
			if !ok {
				continue
			}
			matched++
			boostSum += positionalBoost(stat.MinOffset)
		}
		if matched == 0 {
			continue
		}
		overlap := float64(matched) / float64(total)
		score += overlap * (boostSum / float64(matched)) * f.Weight()
	}
	return score
}
