package index

import "github.com/fuzzdex/fuzzdex/internal/analyzer"

// BuildFieldSummary tokenizes one normalized field and folds its trigrams
// into a summary: per distinct trigram, the occurrence count and the
// smallest window offset from a token start. Returns nil for text that
// yields no trigrams, so absent fields cost nothing in the store.
func BuildFieldSummary(ext analyzer.Extractor, field analyzer.Field, normalized string) FieldSummary {
	var fs FieldSummary
	analyzer.Tokenize(normalized, field, func(tok string, _ analyzer.Field, _ uint32) {
		ext.Extract(tok, func(t analyzer.Trigram, off int) {
			if fs == nil {
				fs = make(FieldSummary)
			}
			stat, seen := fs[t]
			if stat.Count < ^uint16(0) {
				stat.Count++
			}
			o := clampOffset(off)
			if !seen || o < stat.MinOffset {
				stat.MinOffset = o
			}
			fs[t] = stat
		})
	})
	return fs
}

func clampOffset(off int) uint8 {
	if off > 255 {
		return 255
	}
	return uint8(off)
}
