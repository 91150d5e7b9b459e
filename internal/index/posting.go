package index

// DocId is an opaque caller-supplied document identifier. The index never
// generates IDs; re-adding an existing ID replaces the document.
type DocId uint32

// PostingEntry records one document containing a trigram, with the number of
// occurrences of that trigram inside the document. There is at most one
// entry per document per list.
type PostingEntry struct {
	Doc   DocId
	Count uint16
}

// inlineCap is the number of entries a posting list holds without a heap
// allocation. The trigram frequency distribution is heavily skewed toward
// rare trigrams, so most lists never spill.
const inlineCap = 4

// postingList keeps entries sorted ascending by DocId with no duplicates.
// Up to inlineCap entries live in the struct itself; larger lists
// transparently promote to a heap-backed slice. Callers only ever see the
// sorted entry slice, never which representation is active.
type postingList struct {
	inline [inlineCap]PostingEntry
	n      uint16
	spill  []PostingEntry
}

// entries returns the live entries as a slice. The slice aliases internal
// storage and is invalidated by the next mutation.
func (p *postingList) entries() []PostingEntry {
	if p.spill != nil {
		return p.spill
	}
	return p.inline[:p.n]
}

func (p *postingList) len() int {
	if p.spill != nil {
		return len(p.spill)
	}
	return int(p.n)
}

// insert adds an entry preserving sort order. If the DocId is already
// present its count is overwritten. Reports whether a new entry was added.
func (p *postingList) insert(e PostingEntry) bool {
	es := p.entries()
	lo, hi := 0, len(es)
	for lo < hi {
		mid := (lo + hi) / 2
		if es[mid].Doc < e.Doc {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(es) && es[lo].Doc == e.Doc {
		es[lo].Count = e.Count
		return false
	}

	if p.spill != nil {
		p.spill = append(p.spill, PostingEntry{})
		copy(p.spill[lo+1:], p.spill[lo:])
		p.spill[lo] = e
		return true
	}
	if int(p.n) < inlineCap {
		copy(p.inline[lo+1:p.n+1], p.inline[lo:p.n])
		p.inline[lo] = e
		p.n++
		return true
	}

	// Promote to heap storage.
	spill := make([]PostingEntry, 0, inlineCap*2)
	spill = append(spill, p.inline[:lo]...)
	spill = append(spill, e)
	spill = append(spill, p.inline[lo:]...)
	p.spill = spill
	p.n = 0
	return true
}

// remove deletes the entry for id, reporting whether it was present.
func (p *postingList) remove(id DocId) bool {
	es := p.entries()
	lo, hi := 0, len(es)
	for lo < hi {
		mid := (lo + hi) / 2
		if es[mid].Doc < id {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo >= len(es) || es[lo].Doc != id {
		return false
	}
	if p.spill != nil {
		p.spill = append(p.spill[:lo], p.spill[lo+1:]...)
		return true
	}
	copy(p.inline[lo:p.n-1], p.inline[lo+1:p.n])
	p.n--
	return true
}
