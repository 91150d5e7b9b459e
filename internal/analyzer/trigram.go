package analyzer

// Trigram is a 3-byte sequence of normalized text packed into a uint32 as
// (b0<<16 | b1<<8 | b2). The packed form is a compact map key with exact
// byte equality; multi-byte UTF-8 sequences participate byte-wise, which
// keeps document and query trigrams comparable as long as both sides run
// through the same normalizer.
type Trigram uint32

// TrigramMax is the largest possible packed value.
const TrigramMax Trigram = 0xFFFFFF

// PadByte is the sentinel prepended/appended by padded extraction so that
// trigrams capture token-start and token-end context.
const PadByte byte = '#'

// TrigramFromBytes packs three bytes into a Trigram.
func TrigramFromBytes(b0, b1, b2 byte) Trigram {
	return Trigram(uint32(b0)<<16 | uint32(b1)<<8 | uint32(b2))
}

// Bytes unpacks the trigram into its three bytes.
func (t Trigram) Bytes() [3]byte {
	return [3]byte{byte(t >> 16), byte(t >> 8), byte(t)}
}

// String renders the trigram's bytes, for diagnostics.
func (t Trigram) String() string {
	b := t.Bytes()
	return string(b[:])
}

// Extractor slides a 3-byte window over a token to produce its trigrams.
// The same extractor instance must serve both indexing and querying;
// mismatched padding between the two silently destroys recall.
type Extractor struct {
	// Padded conceptually wraps each token in PadByte sentinels before
	// sliding the window, so "cat" yields "#ca","cat","at#". Tokens
	// shorter than 3 bytes then yield len(token) trigrams instead of none.
	Padded bool
}

// Extract emits every trigram of token in order, together with its 0-based
// window offset from the token start. Offsets count padded windows too, so
// offset 0 always marks a token-start trigram.
func (e Extractor) Extract(token string, emit func(t Trigram, offset int)) {
	if e.Padded {
		e.extractPadded(token, emit)
		return
	}
	if len(token) < 3 {
		return
	}
	for i := 0; i+3 <= len(token); i++ {
		emit(TrigramFromBytes(token[i], token[i+1], token[i+2]), i)
	}
}

// extractPadded slides over the virtual string PadByte+token+PadByte.
// A token of length n yields n+2-2 = n trigrams for n >= 1.
func (e Extractor) extractPadded(token string, emit func(t Trigram, offset int)) {
	n := len(token)
	if n == 0 {
		return
	}
	at := func(i int) byte {
		if i < 0 || i >= n {
			return PadByte
		}
		return token[i]
	}
	for i := -1; i+3 <= n+1; i++ {
		emit(TrigramFromBytes(at(i), at(i+1), at(i+2)), i+1)
	}
}

// CountTrigrams returns the number of trigrams Extract would emit for token.
func (e Extractor) CountTrigrams(token string) int {
	if e.Padded {
		return len(token)
	}
	if len(token) < 3 {
		return 0
	}
	return len(token) - 2
}
