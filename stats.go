package fuzzdex

import (
	"github.com/fuzzdex/fuzzdex/internal/analyzer"
	"github.com/fuzzdex/fuzzdex/internal/index"
	"github.com/fuzzdex/fuzzdex/pkg/varint"
)

// Stats is a point-in-time snapshot of index size.
type Stats struct {
	// Documents is the number of indexed documents.
	Documents int
	// Trigrams is the number of distinct trigrams with a posting list.
	Trigrams int
	// Postings is the total posting count, i.e. the sum of posting-list
	// lengths across all trigrams.
	Postings int
}

// CompressionStats extends Stats with an estimate of how much space the
// posting lists would occupy under delta plus varint coding. Posting lists
// are kept uncompressed in memory; this reports what a serialized index
// would save.
type CompressionStats struct {
	Stats
	// RawPostingBytes is the in-memory posting payload, 4 bytes per DocId.
	RawPostingBytes int
	// CompressedPostingBytes is the delta varint encoding size.
	CompressedPostingBytes int
	// Ratio is CompressedPostingBytes / RawPostingBytes, 0 when empty.
	Ratio float64
}

// EngineMetrics reports cumulative operation counters since construction or
// the last Clear.
type EngineMetrics struct {
	DocumentsIndexed uint64
	QueriesExecuted  uint64
	CurrentDocuments int
}

// Stats returns current index size counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Documents: e.idx.DocumentCount(),
		Trigrams:  e.idx.TrigramCount(),
		Postings:  e.idx.PostingCount(),
	}
}

// StatsWithCompression walks every posting list and sizes its delta varint
// encoding. It is O(postings) and intended for diagnostics, not hot paths.
func (e *Engine) StatsWithCompression() CompressionStats {
	cs := CompressionStats{Stats: e.Stats()}
	ids := make([]uint32, 0, 64)
	e.idx.Trigrams(func(_ analyzer.Trigram, entries []index.PostingEntry) bool {
		ids = ids[:0]
		for _, pe := range entries {
			ids = append(ids, uint32(pe.Doc))
		}
		// Posting lists are sorted by DocId, so sizing cannot fail.
		n, err := varint.CompressedSize(ids)
		if err != nil {
			return false
		}
		cs.CompressedPostingBytes += n
		return true
	})
	cs.RawPostingBytes = cs.Postings * 4
	if cs.RawPostingBytes > 0 {
		cs.Ratio = float64(cs.CompressedPostingBytes) / float64(cs.RawPostingBytes)
	}
	return cs
}

// Metrics returns cumulative engine counters.
func (e *Engine) Metrics() EngineMetrics {
	return EngineMetrics{
		DocumentsIndexed: e.documentsAdded,
		QueriesExecuted:  e.queriesExecuted,
		CurrentDocuments: e.idx.DocumentCount(),
	}
}
