// Package index implements the in-memory inverted index and its parallel
// document store. It maps trigrams to sorted posting lists of document IDs
// and keeps, per document, the raw text plus the compact per-field trigram
// summaries the scorer consumes. The index is presence-based at the posting
// level: one entry per document per trigram regardless of how often the
// trigram occurs, with the occurrence count carried as auxiliary data.
//
// The index is not internally synchronized; it assumes a single logical
// owner performing sequential operations.
package index

import "github.com/fuzzdex/fuzzdex/internal/analyzer"

// TrigramStat is the per-trigram scoring summary kept for each document
// field: how often the trigram occurs in that field and the smallest window
// offset from a token start at which it was seen. Position-level detail is
// held here, in the document store, so posting lists stay compact.
type TrigramStat struct {
	Count     uint16
	MinOffset uint8
}

// FieldSummary maps each distinct trigram of one document field to its stat.
type FieldSummary map[analyzer.Trigram]TrigramStat

// Document is a stored document: the original pre-normalization text and the
// per-field summaries derived from it at indexing time. Documents are
// immutable once added; re-adding under the same DocId replaces wholesale.
type Document struct {
	raw    string
	fields [analyzer.NumFields]FieldSummary
}

// Raw returns the original document text.
func (d *Document) Raw() string { return d.raw }

// Field returns the trigram summary for one field; nil when the field was
// absent from the document.
func (d *Document) Field(f analyzer.Field) FieldSummary { return d.fields[f] }

// Index is the inverted index plus document store.
//
// Invariants: a trigram key exists iff its posting list is non-empty; every
// posting list is sorted ascending by DocId with no duplicates.
type Index struct {
	postings map[analyzer.Trigram]*postingList
	docs     map[DocId]*Document

	postingCount int
}

// New creates an empty index.
func New() *Index {
	return &Index{
		postings: make(map[analyzer.Trigram]*postingList),
		docs:     make(map[DocId]*Document),
	}
}

// Add stores a document and indexes every distinct trigram across its field
// summaries. An existing document under the same id is removed first, so the
// call is an atomic replace from the caller's perspective.
func (ix *Index) Add(id DocId, raw string, fields [analyzer.NumFields]FieldSummary) {
	if _, exists := ix.docs[id]; exists {
		ix.Remove(id)
	}

	doc := &Document{raw: raw, fields: fields}
	ix.docs[id] = doc

	for _, fs := range fields {
		for t, stat := range fs {
			pl := ix.postings[t]
			if pl == nil {
				pl = &postingList{}
				ix.postings[t] = pl
			}
			es := pl.entries()
			if i := findEntry(es, id); i >= 0 {
				// Trigram already seen in another field of this
				// document: accumulate the count.
				es[i].Count = satAdd(es[i].Count, stat.Count)
				continue
			}
			pl.insert(PostingEntry{Doc: id, Count: stat.Count})
			ix.postingCount++
		}
	}
}

// Remove deletes a document from the store and from every posting list that
// references it, pruning lists that become empty. Removing an absent id is
// a no-op.
func (ix *Index) Remove(id DocId) {
	doc, ok := ix.docs[id]
	if !ok {
		return
	}
	for _, fs := range doc.fields {
		for t := range fs {
			pl := ix.postings[t]
			if pl == nil {
				continue
			}
			if pl.remove(id) {
				ix.postingCount--
			}
			if pl.len() == 0 {
				delete(ix.postings, t)
			}
		}
	}
	delete(ix.docs, id)
}

// Lookup returns the posting list for a trigram, or an empty slice when the
// trigram is unknown. The returned slice aliases index storage and is
// invalidated by the next Add or Remove; it must not be retained.
func (ix *Index) Lookup(t analyzer.Trigram) []PostingEntry {
	pl := ix.postings[t]
	if pl == nil {
		return nil
	}
	return pl.entries()
}

// Document returns the stored document for id, or nil when unknown.
func (ix *Index) Document(id DocId) *Document {
	return ix.docs[id]
}

// Clear removes every document and trigram.
func (ix *Index) Clear() {
	ix.postings = make(map[analyzer.Trigram]*postingList)
	ix.docs = make(map[DocId]*Document)
	ix.postingCount = 0
}

// DocumentCount returns the number of stored documents.
func (ix *Index) DocumentCount() int { return len(ix.docs) }

// TrigramCount returns the number of distinct indexed trigrams.
func (ix *Index) TrigramCount() int { return len(ix.postings) }

// PostingCount returns the total number of posting entries.
func (ix *Index) PostingCount() int { return ix.postingCount }

// Trigrams calls fn for every indexed trigram and its posting list until fn
// returns false. Iteration order is unspecified.
func (ix *Index) Trigrams(fn func(t analyzer.Trigram, entries []PostingEntry) bool) {
	for t, pl := range ix.postings {
		if !fn(t, pl.entries()) {
			return
		}
	}
}

func findEntry(es []PostingEntry, id DocId) int {
	lo, hi := 0, len(es)
	for lo < hi {
		mid := (lo + hi) / 2
		if es[mid].Doc < id {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(es) && es[lo].Doc == id {
		return lo
	}
	return -1
}

func satAdd(a, b uint16) uint16 {
	if s := a + b; s >= a {
		return s
	}
	return ^uint16(0)
}
