package fuzzdex

import (
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/fuzzdex/fuzzdex/internal/search"
)

// defaultCacheCap bounds the query result cache. The cache is dropped
// wholesale when full and on every write, so a small bound is enough to
// absorb repeated hot queries between index mutations.
const defaultCacheCap = 1024

// SyncEngine wraps an Engine for shared use from multiple goroutines.
// Searches run concurrently under a read lock with per-goroutine scratch
// state drawn from a pool; writes take the lock exclusively. Identical
// in-flight queries are coalesced, and results are cached until the next
// mutation.
type SyncEngine struct {
	mu  sync.RWMutex
	eng *Engine

	searchers sync.Pool
	flight    singleflight.Group

	cacheMu  sync.Mutex
	cache    map[string][]SearchResult
	cacheCap int

	hits    atomic.Uint64
	misses  atomic.Uint64
	queries atomic.Uint64
}

// NewSync constructs a SyncEngine with the same options as New.
func NewSync(opts ...Option) (*SyncEngine, error) {
	eng, err := New(opts...)
	if err != nil {
		return nil, err
	}
	se := &SyncEngine{
		eng:      eng,
		cache:    make(map[string][]SearchResult),
		cacheCap: defaultCacheCap,
	}
	se.searchers.New = func() any {
		return search.NewSearcher(eng.norm, eng.ext)
	}
	return se, nil
}

// Add indexes text under id as the Body field, replacing any existing
// document.
func (se *SyncEngine) Add(id DocId, text string) {
	se.mu.Lock()
	defer se.mu.Unlock()
	se.eng.Add(id, text)
	se.invalidate()
}

// AddDocument indexes a field-aware document under id.
func (se *SyncEngine) AddDocument(id DocId, doc Document) {
	se.mu.Lock()
	defer se.mu.Unlock()
	se.eng.AddDocument(id, doc)
	se.invalidate()
}

// AddBatch indexes many documents under one lock acquisition.
func (se *SyncEngine) AddBatch(docs map[DocId]string) int {
	se.mu.Lock()
	defer se.mu.Unlock()
	n := se.eng.AddBatch(docs)
	se.invalidate()
	return n
}

// Remove deletes id from the index.
func (se *SyncEngine) Remove(id DocId) {
	se.mu.Lock()
	defer se.mu.Unlock()
	se.eng.Remove(id)
	se.invalidate()
}

// Clear removes all documents and resets counters, including cache
// statistics.
func (se *SyncEngine) Clear() {
	se.mu.Lock()
	defer se.mu.Unlock()
	se.eng.Clear()
	se.invalidate()
	se.hits.Store(0)
	se.misses.Store(0)
	se.queries.Store(0)
}

// SetConfig swaps the search configuration after validating it.
func (se *SyncEngine) SetConfig(cfg SearchConfig) error {
	se.mu.Lock()
	defer se.mu.Unlock()
	if err := se.eng.SetConfig(cfg); err != nil {
		return err
	}
	se.invalidate()
	return nil
}

// Config returns the active search configuration.
func (se *SyncEngine) Config() SearchConfig {
	se.mu.RLock()
	defer se.mu.RUnlock()
	return se.eng.Config()
}

// Get returns the stored raw text for id.
func (se *SyncEngine) Get(id DocId) (string, bool) {
	se.mu.RLock()
	defer se.mu.RUnlock()
	return se.eng.Get(id)
}

// Search runs a query, serving repeats from the result cache and coalescing
// concurrent identical lookups into a single execution.
func (se *SyncEngine) Search(query string, limit int) []SearchResult {
	se.queries.Add(1)
	key := strconv.Itoa(limit) + "\x00" + query

	se.cacheMu.Lock()
	cached, ok := se.cache[key]
	se.cacheMu.Unlock()
	if ok {
		se.hits.Add(1)
		return cloneResults(cached)
	}
	se.misses.Add(1)

	v, _, _ := se.flight.Do(key, func() (any, error) {
		se.mu.RLock()
		s := se.searchers.Get().(*search.Searcher)
		results := s.Search(se.eng.idx, se.eng.cfg, query, limit)
		se.searchers.Put(s)

		// Cache while still holding the read lock so a concurrent write
		// cannot invalidate between computing and storing.
		se.cacheMu.Lock()
		if len(se.cache) >= se.cacheCap {
			clear(se.cache)
		}
		se.cache[key] = results
		se.cacheMu.Unlock()

		se.mu.RUnlock()
		return results, nil
	})
	return cloneResults(v.([]SearchResult))
}

// Stats returns current index size counters.
func (se *SyncEngine) Stats() Stats {
	se.mu.RLock()
	defer se.mu.RUnlock()
	return se.eng.Stats()
}

// StatsWithCompression sizes the posting lists under delta varint coding.
func (se *SyncEngine) StatsWithCompression() CompressionStats {
	se.mu.RLock()
	defer se.mu.RUnlock()
	return se.eng.StatsWithCompression()
}

// CacheStats reports query cache effectiveness.
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// CacheStats returns a snapshot of cache hit and miss counters.
func (se *SyncEngine) CacheStats() CacheStats {
	se.cacheMu.Lock()
	entries := len(se.cache)
	se.cacheMu.Unlock()
	return CacheStats{
		Hits:    se.hits.Load(),
		Misses:  se.misses.Load(),
		Entries: entries,
	}
}

// Metrics returns cumulative engine counters. Queries are counted here
// rather than in the wrapped engine so cache hits are included.
func (se *SyncEngine) Metrics() EngineMetrics {
	se.mu.RLock()
	m := se.eng.Metrics()
	se.mu.RUnlock()
	m.QueriesExecuted = se.queries.Load()
	return m
}

// invalidate drops the result cache. Callers hold the write lock.
func (se *SyncEngine) invalidate() {
	se.cacheMu.Lock()
	clear(se.cache)
	se.cacheMu.Unlock()
}

func cloneResults(in []SearchResult) []SearchResult {
	if len(in) == 0 {
		return nil
	}
	out := make([]SearchResult, len(in))
	copy(out, in)
	return out
}
