package index

import (
	"fmt"
	"testing"

	"github.com/fuzzdex/fuzzdex/internal/analyzer"
)

// summarize builds the per-field summary for a single body-field text the
// way the engine does: input already normalized, unpadded extraction.
func summarize(text string) [analyzer.NumFields]FieldSummary {
	var fields [analyzer.NumFields]FieldSummary
	fields[analyzer.FieldBody] = BuildFieldSummary(analyzer.Extractor{}, analyzer.FieldBody, text)
	return fields
}

func addText(ix *Index, id DocId, text string) {
	ix.Add(id, text, summarize(text))
}

func lookupDocs(ix *Index, s string) []DocId {
	t := analyzer.TrigramFromBytes(s[0], s[1], s[2])
	var ids []DocId
	for _, e := range ix.Lookup(t) {
		ids = append(ids, e.Doc)
	}
	return ids
}

func TestAddAndLookup(t *testing.T) {
	ix := New()
	addText(ix, 1, "hello world")
	addText(ix, 2, "hello there")

	if got := lookupDocs(ix, "hel"); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("lookup(hel) = %v, want [1 2]", got)
	}
	if got := lookupDocs(ix, "wor"); len(got) != 1 || got[0] != 1 {
		t.Errorf("lookup(wor) = %v, want [1]", got)
	}
	if got := lookupDocs(ix, "xyz"); got != nil {
		t.Errorf("lookup(xyz) = %v, want empty", got)
	}
}

func TestPostingOrderAndUniqueness(t *testing.T) {
	ix := New()
	// Insert out of DocId order.
	for _, id := range []DocId{40, 7, 99, 13, 2, 55, 1, 80} {
		addText(ix, id, "shared trigram text")
	}
	ix.Trigrams(func(tr analyzer.Trigram, entries []PostingEntry) bool {
		for i := 1; i < len(entries); i++ {
			if entries[i-1].Doc >= entries[i].Doc {
				t.Errorf("trigram %v: posting list not sorted unique: %v", tr, entries)
				return false
			}
		}
		return true
	})
}

func TestRepeatedOccurrencesSingleEntry(t *testing.T) {
	ix := New()
	addText(ix, 9, "abcabc abcabc abc")

	entries := ix.Lookup(analyzer.TrigramFromBytes('a', 'b', 'c'))
	if len(entries) != 1 {
		t.Fatalf("got %d entries for doc with repeated trigram, want 1", len(entries))
	}
	if entries[0].Doc != 9 {
		t.Errorf("entry doc = %d, want 9", entries[0].Doc)
	}
	if entries[0].Count < 2 {
		t.Errorf("entry count = %d, want occurrence count >= 2", entries[0].Count)
	}
}

func TestRemove(t *testing.T) {
	ix := New()
	addText(ix, 5, "foo bar")
	addText(ix, 6, "foo baz")

	ix.Remove(5)

	if ix.Document(5) != nil {
		t.Error("document 5 still present after removal")
	}
	ix.Trigrams(func(tr analyzer.Trigram, entries []PostingEntry) bool {
		for _, e := range entries {
			if e.Doc == 5 {
				t.Errorf("trigram %v still references removed doc 5", tr)
			}
		}
		return true
	})
	if got := lookupDocs(ix, "foo"); len(got) != 1 || got[0] != 6 {
		t.Errorf("lookup(foo) = %v, want [6]", got)
	}
}

func TestRemovePrunesEmptyLists(t *testing.T) {
	ix := New()
	addText(ix, 1, "unique")
	before := ix.TrigramCount()
	if before == 0 {
		t.Fatal("expected trigrams after add")
	}

	ix.Remove(1)

	if got := ix.TrigramCount(); got != 0 {
		t.Errorf("trigram count after removing only doc = %d, want 0", got)
	}
	if got := ix.PostingCount(); got != 0 {
		t.Errorf("posting count after removing only doc = %d, want 0", got)
	}
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	ix := New()
	addText(ix, 1, "hello")
	ix.Remove(42)
	if ix.DocumentCount() != 1 {
		t.Errorf("document count = %d, want 1", ix.DocumentCount())
	}
}

func TestReplaceSemantics(t *testing.T) {
	fresh := New()
	addText(fresh, 1, "second version")

	replaced := New()
	addText(replaced, 1, "first version")
	addText(replaced, 1, "second version")

	if replaced.DocumentCount() != fresh.DocumentCount() {
		t.Errorf("doc count %d != %d", replaced.DocumentCount(), fresh.DocumentCount())
	}
	if replaced.TrigramCount() != fresh.TrigramCount() {
		t.Errorf("trigram count %d != %d", replaced.TrigramCount(), fresh.TrigramCount())
	}
	if replaced.PostingCount() != fresh.PostingCount() {
		t.Errorf("posting count %d != %d", replaced.PostingCount(), fresh.PostingCount())
	}
	if got := replaced.Document(1).Raw(); got != "second version" {
		t.Errorf("stored raw = %q", got)
	}
	// No trigram from the first version may survive.
	if got := lookupDocs(replaced, "fir"); got != nil {
		t.Errorf("stale trigram from replaced version: %v", got)
	}
}

func TestStats(t *testing.T) {
	ix := New()
	addText(ix, 1, "abc")
	addText(ix, 2, "abc")
	addText(ix, 3, "xyz")

	if got := ix.DocumentCount(); got != 3 {
		t.Errorf("DocumentCount = %d, want 3", got)
	}
	if got := ix.TrigramCount(); got != 2 {
		t.Errorf("TrigramCount = %d, want 2", got)
	}
	if got := ix.PostingCount(); got != 3 {
		t.Errorf("PostingCount = %d, want 3", got)
	}

	ix.Clear()
	if ix.DocumentCount() != 0 || ix.TrigramCount() != 0 || ix.PostingCount() != 0 {
		t.Error("Clear did not reset all counters")
	}
}

func TestLookupDoesNotAllocate(t *testing.T) {
	ix := New()
	for i := DocId(0); i < 100; i++ {
		addText(ix, i, fmt.Sprintf("document number %d payload", i))
	}
	tr := analyzer.TrigramFromBytes('d', 'o', 'c')
	allocs := testing.AllocsPerRun(100, func() {
		_ = ix.Lookup(tr)
	})
	if allocs != 0 {
		t.Errorf("Lookup allocated %v times per call, want 0", allocs)
	}
}
