// Package analyzer implements the text-processing front end of the search
// pipeline: normalization, whitespace tokenization, and trigram extraction.
// Documents and queries pass through the same three stages so that trigrams
// produced at index time and at query time are directly comparable.
package analyzer

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// NormalizerConfig controls optional normalization behaviour.
type NormalizerConfig struct {
	// StripDiacritics maps accented characters to their unaccented base
	// form ("café" -> "cafe") by dropping combining marks after NFD
	// decomposition.
	StripDiacritics bool
}

// Normalizer canonicalizes raw text: lowercase folding, whitespace
// collapsing, and optional diacritic stripping. It holds no per-call state
// and is safe to share.
//
// Output contract: all characters lowercase, no leading or trailing
// whitespace, no two consecutive whitespace characters, and every whitespace
// run replaced by a single ASCII space. Normalization is idempotent.
// Malformed bytes above the 7-bit range pass through unchanged.
type Normalizer struct {
	cfg NormalizerConfig
}

// NewNormalizer creates a normalizer with the given configuration.
func NewNormalizer(cfg NormalizerConfig) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Normalize returns the normalized form of s.
// Hot paths should prefer AppendNormalized to reuse a buffer.
func (n *Normalizer) Normalize(s string) string {
	return string(n.AppendNormalized(nil, s))
}

// AppendNormalized appends the normalized form of s to dst and returns the
// extended buffer. Passing dst[:0] across calls amortizes allocation.
func (n *Normalizer) AppendNormalized(dst []byte, s string) []byte {
	if isASCII(s) {
		return n.appendASCII(dst, s)
	}
	return n.appendUnicode(dst, s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// appendASCII is the bulk fast path: byte-wise lowercasing and whitespace
// folding. It must produce output byte-identical to appendUnicode for any
// ASCII input.
func (n *Normalizer) appendASCII(dst []byte, s string) []byte {
	start := len(dst)
	pendingSpace := false
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f':
			if len(dst) > start {
				pendingSpace = true
			}
		default:
			if pendingSpace {
				dst = append(dst, ' ')
				pendingSpace = false
			}
			if b >= 'A' && b <= 'Z' {
				b += 'a' - 'A'
			}
			dst = append(dst, b)
		}
	}
	return dst
}

// appendUnicode is the general decode-aware path. Input is composed to NFC,
// case-folded per rune, optionally NFD-decomposed with combining marks
// dropped, and whitespace runs collapsed to single spaces. Invalid UTF-8
// bytes are copied through unchanged.
func (n *Normalizer) appendUnicode(dst []byte, s string) []byte {
	if utf8.ValidString(s) {
		s = norm.NFC.String(s)
	}
	start := len(dst)
	pendingSpace := false
	var runeBuf [utf8.UTFMax]byte

	emit := func(r rune) {
		if unicode.IsSpace(r) {
			if len(dst) > start {
				pendingSpace = true
			}
			return
		}
		if pendingSpace {
			dst = append(dst, ' ')
			pendingSpace = false
		}
		w := utf8.EncodeRune(runeBuf[:], r)
		dst = append(dst, runeBuf[:w]...)
	}

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			// Malformed byte: pass through as-is.
			if pendingSpace {
				dst = append(dst, ' ')
				pendingSpace = false
			}
			dst = append(dst, s[i])
			i++
			continue
		}
		r = unicode.ToLower(r)
		if n.cfg.StripDiacritics && r >= utf8.RuneSelf {
			for _, d := range norm.NFD.String(string(r)) {
				if unicode.Is(unicode.Mn, d) {
					continue
				}
				emit(d)
			}
		} else {
			emit(r)
		}
		i += size
	}
	return dst
}
