// Package fuzzdex is an embeddable fuzzy-search engine. It indexes short
// text documents by overlapping 3-character sequences (trigrams) and answers
// typo-tolerant queries with ranked results, entirely in memory.
//
// Documents and queries run through the same normalize/tokenize/extract
// pipeline, so index-time and query-time trigrams are directly comparable.
// The engine is not internally synchronized: it assumes a single logical
// owner performing sequential operations. Hosts that need concurrent access
// can wrap it in a SyncEngine or shard across independent instances.
package fuzzdex

import (
	"strings"

	"github.com/fuzzdex/fuzzdex/internal/analyzer"
	"github.com/fuzzdex/fuzzdex/internal/index"
	"github.com/fuzzdex/fuzzdex/internal/search"
)

// Core types re-exported from the pipeline packages.
type (
	// DocId is an opaque caller-supplied 32-bit document identifier.
	// The engine never generates IDs and replaces on duplicate insertion.
	DocId = index.DocId
	// Field identifies which part of a document a token came from.
	Field = analyzer.Field
	// SearchConfig controls candidate admission and fuzzy reranking.
	SearchConfig = search.Config
	// SearchResult is one ranked hit: DocId plus score, ordered by
	// descending score with ties broken by ascending DocId.
	SearchResult = search.Result
	// NormalizerConfig controls optional text-canonicalization behaviour.
	NormalizerConfig = analyzer.NormalizerConfig
)

// Document fields and their fixed scoring weights.
const (
	FieldTitle = analyzer.FieldTitle // weight 3.0
	FieldTag   = analyzer.FieldTag   // weight 2.0
	FieldBody  = analyzer.FieldBody  // weight 1.0
)

// Configuration validation errors, surfaced by New and SetConfig.
var (
	ErrOverlapRatioRange    = search.ErrOverlapRatioRange
	ErrNegativeEditDistance = search.ErrNegativeEditDistance
)

// FuzzyConfig returns the default typo-tolerant preset:
// overlap ratio 0.2, reranking enabled, edit-distance cap 2.
func FuzzyConfig() SearchConfig { return search.Fuzzy() }

// ExactConfig returns the exact-matching preset:
// overlap ratio 0.5, no reranking.
func ExactConfig() SearchConfig { return search.Exact() }

// Document is a field-aware unit of indexing. Empty fields are skipped.
type Document struct {
	Title string
	Tag   string
	Body  string
}

func (d Document) raw() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{d.Title, d.Tag, d.Body} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Option configures an Engine at construction.
type Option func(*engineOptions)

type engineOptions struct {
	search search.Config
	norm   analyzer.NormalizerConfig
	padded bool
}

// WithSearchConfig replaces the default fuzzy preset.
func WithSearchConfig(cfg SearchConfig) Option {
	return func(o *engineOptions) { o.search = cfg }
}

// WithNormalizer sets normalization options (diacritic stripping is off by
// default).
func WithNormalizer(cfg NormalizerConfig) Option {
	return func(o *engineOptions) { o.norm = cfg }
}

// WithPaddedTrigrams enables boundary padding during trigram extraction:
// a sentinel is conceptually wrapped around each token so trigrams capture
// token-start/token-end context, improving precision for short tokens. The
// setting applies identically to documents and queries.
func WithPaddedTrigrams() Option {
	return func(o *engineOptions) { o.padded = true }
}

// Engine is the fuzzy-search engine: inverted trigram index, document store,
// and the query pipeline with its reusable scratch buffers. Indexing and
// searching are synchronous in-memory operations with no I/O.
type Engine struct {
	idx      *index.Index
	cfg      search.Config
	norm     *analyzer.Normalizer
	ext      analyzer.Extractor
	searcher *search.Searcher

	normBuf []byte

	documentsAdded  uint64
	queriesExecuted uint64
}

// New constructs an empty engine. Without options it uses the fuzzy search
// preset and default normalization. Configuration outside valid ranges is
// rejected here, never mid-search.
func New(opts ...Option) (*Engine, error) {
	o := engineOptions{search: search.Fuzzy()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.search.Validate(); err != nil {
		return nil, err
	}
	norm := analyzer.NewNormalizer(o.norm)
	ext := analyzer.Extractor{Padded: o.padded}
	return &Engine{
		idx:      index.New(),
		cfg:      o.search,
		norm:     norm,
		ext:      ext,
		searcher: search.NewSearcher(norm, ext),
	}, nil
}

// Add indexes text under id, treating the whole text as the Body field.
// An existing document under the same id is replaced atomically.
func (e *Engine) Add(id DocId, text string) {
	e.AddDocument(id, Document{Body: text})
}

// AddDocument indexes a field-aware document under id with replace
// semantics.
func (e *Engine) AddDocument(id DocId, doc Document) {
	var fields [analyzer.NumFields]index.FieldSummary
	e.summarizeField(&fields, FieldTitle, doc.Title)
	e.summarizeField(&fields, FieldTag, doc.Tag)
	e.summarizeField(&fields, FieldBody, doc.Body)
	e.idx.Add(id, doc.raw(), fields)
	e.documentsAdded++
}

func (e *Engine) summarizeField(fields *[analyzer.NumFields]index.FieldSummary, f Field, text string) {
	if text == "" {
		return
	}
	e.normBuf = e.norm.AppendNormalized(e.normBuf[:0], text)
	fields[f] = index.BuildFieldSummary(e.ext, f, string(e.normBuf))
}

// AddBatch indexes many documents in one call and returns the number added.
// It is plain repeated sequential insertion; callers wanting a consistent
// snapshot should not interleave searches with a large batch.
func (e *Engine) AddBatch(docs map[DocId]string) int {
	for id, text := range docs {
		e.Add(id, text)
	}
	return len(docs)
}

// Remove deletes a document from the store and every posting list.
// Removing an unknown id is a no-op.
func (e *Engine) Remove(id DocId) {
	e.idx.Remove(id)
}

// Get returns the stored raw text for id.
func (e *Engine) Get(id DocId) (string, bool) {
	doc := e.idx.Document(id)
	if doc == nil {
		return "", false
	}
	return doc.Raw(), true
}

// Search runs the full pipeline for query and returns at most limit results
// in rank order. When fuzzy reranking is enabled, limit also bounds the
// top-K set the reranker rescores. Empty and sub-trigram queries return no
// results.
func (e *Engine) Search(query string, limit int) []SearchResult {
	e.queriesExecuted++
	return e.searcher.Search(e.idx, e.cfg, query, limit)
}

// SetConfig swaps the search configuration. The new configuration is
// validated and applies to subsequent searches only.
func (e *Engine) SetConfig(cfg SearchConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.cfg = cfg
	return nil
}

// Config returns the active search configuration.
func (e *Engine) Config() SearchConfig { return e.cfg }

// Clear removes every document and resets operational counters.
func (e *Engine) Clear() {
	e.idx.Clear()
	e.documentsAdded = 0
	e.queriesExecuted = 0
}
