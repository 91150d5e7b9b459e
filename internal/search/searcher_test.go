package search

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fuzzdex/fuzzdex/internal/analyzer"
	"github.com/fuzzdex/fuzzdex/internal/index"
)

func newTestSearcher() *Searcher {
	return NewSearcher(analyzer.NewNormalizer(analyzer.NormalizerConfig{}), analyzer.Extractor{})
}

// addFielded runs the indexing pipeline the way the engine does: normalize
// per field, summarize, store the raw concatenation.
func addFielded(s *Searcher, ix *index.Index, id index.DocId, title, tag, body string) {
	var fields [analyzer.NumFields]index.FieldSummary
	var rawParts []string
	for f, text := range map[analyzer.Field]string{
		analyzer.FieldTitle: title,
		analyzer.FieldTag:   tag,
		analyzer.FieldBody:  body,
	} {
		if text == "" {
			continue
		}
		fields[f] = index.BuildFieldSummary(s.ext, f, s.norm.Normalize(text))
	}
	for _, text := range []string{title, tag, body} {
		if text != "" {
			rawParts = append(rawParts, text)
		}
	}
	ix.Add(id, strings.Join(rawParts, " "), fields)
}

func addBody(s *Searcher, ix *index.Index, id index.DocId, body string) {
	addFielded(s, ix, id, "", "", body)
}

func TestOverlapThresholdBoundary(t *testing.T) {
	s := newTestSearcher()
	ix := index.New()

	// Query "abcdef" has exactly 4 distinct trigrams: abc bcd cde def.
	addBody(s, ix, 1, "abcd xyzw") // shares abc, bcd: 2/4 = 0.5
	addBody(s, ix, 2, "abcz qrst") // shares abc only: 1/4 = 0.25

	cfg := Config{MinOverlapRatio: 0.5}
	results := s.Search(ix, cfg, "abcdef", 10)

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (only the 2/4 candidate): %v", len(results), results)
	}
	if results[0].Doc != 1 {
		t.Errorf("qualified doc = %d, want 1", results[0].Doc)
	}
}

func TestEmptyQueryYieldsNoCandidates(t *testing.T) {
	s := newTestSearcher()
	ix := index.New()
	addBody(s, ix, 1, "hello world")

	for _, q := range []string{"", "hi", "  a  "} {
		if got := s.Search(ix, Fuzzy(), q, 10); len(got) != 0 {
			t.Errorf("Search(%q) = %v, want no results", q, got)
		}
	}
}

func TestOversizedQueryYieldsNothing(t *testing.T) {
	s := newTestSearcher()
	ix := index.New()
	addBody(s, ix, 1, "hello world")

	long := strings.Repeat("x", MaxQueryLength+1)
	if got := s.Search(ix, Fuzzy(), long, 10); len(got) != 0 {
		t.Errorf("oversized query returned %d results, want 0", len(got))
	}
}

func TestFieldWeightMonotonicity(t *testing.T) {
	s := newTestSearcher()
	ix := index.New()

	// Identical documents except for which field holds the match.
	addFielded(s, ix, 1, "magnolia", "", "unrelated filler text")
	addFielded(s, ix, 2, "", "", "magnolia unrelated filler text")

	results := s.Search(ix, Exact(), "magnolia", 10)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Doc != 1 {
		t.Fatalf("title match ranked %v, want doc 1 first", results)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("title score %v not strictly above body score %v",
			results[0].Score, results[1].Score)
	}
}

func TestPositionalBoostFavorsTokenStart(t *testing.T) {
	s := newTestSearcher()
	ix := index.New()

	addBody(s, ix, 1, "lloxxx") // "llo" at token start
	addBody(s, ix, 2, "xxxllo") // "llo" mid-token

	results := s.Search(ix, Config{MinOverlapRatio: 0.2}, "llo", 10)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Doc != 1 || results[0].Score <= results[1].Score {
		t.Errorf("prefix match not favored: %v", results)
	}
}

func TestTieBrokenByAscendingDocId(t *testing.T) {
	s := newTestSearcher()
	ix := index.New()
	for _, id := range []index.DocId{30, 10, 20} {
		addBody(s, ix, id, "identical content")
	}
	results := s.Search(ix, Exact(), "identical content", 10)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, want := range []index.DocId{10, 20, 30} {
		if results[i].Doc != want {
			t.Errorf("result %d = doc %d, want %d", i, results[i].Doc, want)
		}
	}
}

func TestLimitBoundsResults(t *testing.T) {
	s := newTestSearcher()
	ix := index.New()
	for i := index.DocId(1); i <= 20; i++ {
		addBody(s, ix, i, fmt.Sprintf("common subject entry %d", i))
	}
	results := s.Search(ix, Exact(), "common subject", 5)
	if len(results) != 5 {
		t.Errorf("got %d results, want 5", len(results))
	}
	if got := s.Search(ix, Exact(), "common subject", 0); got != nil {
		t.Errorf("limit 0 returned %v, want nil", got)
	}
}

func TestRerankCapExcludesFalsePositives(t *testing.T) {
	s := newTestSearcher()
	ix := index.New()

	// Shares the leading trigrams so it passes the coarse overlap filter,
	// but needs 3 edits: beyond the fuzzy preset's cap of 2.
	addBody(s, ix, 1, "abcdzzz")
	addBody(s, ix, 2, "abcdefg")

	results := s.Search(ix, Fuzzy(), "abcdefg", 10)
	for _, r := range results {
		if r.Doc == 1 {
			t.Errorf("doc 1 (edit distance 3 > cap 2) present in results: %v", results)
		}
	}
	if len(results) != 1 || results[0].Doc != 2 {
		t.Errorf("results = %v, want exactly doc 2", results)
	}
}

func TestRerankOrdersByPreciseSimilarity(t *testing.T) {
	s := newTestSearcher()
	ix := index.New()
	addBody(s, ix, 1, "hello world")
	addBody(s, ix, 2, "hallo world")

	results := s.Search(ix, Fuzzy(), "hello world", 10)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: %v", len(results), results)
	}
	if results[0].Doc != 1 {
		t.Errorf("exact text not ranked first: %v", results)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("precise similarity not descending: %v", results)
	}
}

func TestExactPresetSkipsReranking(t *testing.T) {
	s := newTestSearcher()
	ix := index.New()
	// Distance 3 from the query, admitted by overlap; the exact preset
	// must keep it since reranking is disabled.
	addBody(s, ix, 1, "abcdzzz")

	results := s.Search(ix, Config{MinOverlapRatio: 0.2}, "abcdefg", 10)
	if len(results) != 1 || results[0].Doc != 1 {
		t.Errorf("results = %v, want doc 1 retained without reranking", results)
	}
}

func TestScratchReuseAcrossCalls(t *testing.T) {
	s := newTestSearcher()
	ix := index.New()
	addBody(s, ix, 1, "hello world")
	addBody(s, ix, 2, "other content")

	first := s.Search(ix, Fuzzy(), "hello world", 10)
	second := s.Search(ix, Fuzzy(), "other content", 10)
	// Returned slices must be independent of the searcher's scratch.
	if len(first) == 0 || first[0].Doc != 1 {
		t.Errorf("first results corrupted by later call: %v", first)
	}
	if len(second) == 0 || second[0].Doc != 2 {
		t.Errorf("second results wrong: %v", second)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"fuzzy preset", Fuzzy(), true},
		{"exact preset", Exact(), true},
		{"ratio low", Config{MinOverlapRatio: -0.1}, false},
		{"ratio high", Config{MinOverlapRatio: 1.1}, false},
		{"boundary zero", Config{MinOverlapRatio: 0}, true},
		{"boundary one", Config{MinOverlapRatio: 1}, true},
		{"negative distance", Config{MinOverlapRatio: 0.5, MaxEditDistance: -1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tc.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
