// Package varint implements delta plus varint compression for sorted
// document-id posting lists. Consecutive ids in a posting list are close
// together, so storing first-order deltas as unsigned varints shrinks the
// common case to one or two bytes per id.
package varint

import (
	"encoding/binary"
	"errors"
)

var (
	// ErrNotSorted is returned when the input ids are not strictly
	// ascending.
	ErrNotSorted = errors.New("varint: ids not strictly ascending")
	// ErrMalformed is returned when compressed bytes cannot be decoded.
	ErrMalformed = errors.New("varint: malformed compressed data")
)

// CompressSorted encodes strictly ascending ids as delta-coded varints,
// appending to dst. The first id is stored as-is, each subsequent id as the
// difference from its predecessor.
func CompressSorted(dst []byte, ids []uint32) ([]byte, error) {
	prev := uint32(0)
	for i, id := range ids {
		if i > 0 && id <= prev {
			return dst, ErrNotSorted
		}
		delta := id - prev
		if i == 0 {
			delta = id
		}
		dst = binary.AppendUvarint(dst, uint64(delta))
		prev = id
	}
	return dst, nil
}

// DecompressSorted decodes a buffer produced by CompressSorted, appending
// the recovered ids to dst.
func DecompressSorted(dst []uint32, data []byte) ([]uint32, error) {
	prev := uint64(0)
	first := true
	for len(data) > 0 {
		delta, n := binary.Uvarint(data)
		if n <= 0 {
			return dst, ErrMalformed
		}
		data = data[n:]
		if first {
			prev = delta
			first = false
		} else {
			prev += delta
		}
		if prev > 1<<32-1 {
			return dst, ErrMalformed
		}
		dst = append(dst, uint32(prev))
	}
	return dst, nil
}

// CompressedSize reports how many bytes CompressSorted would emit for ids
// without allocating the output.
func CompressedSize(ids []uint32) (int, error) {
	size := 0
	prev := uint32(0)
	for i, id := range ids {
		if i > 0 && id <= prev {
			return 0, ErrNotSorted
		}
		delta := id - prev
		if i == 0 {
			delta = id
		}
		size += uvarintLen(uint64(delta))
		prev = id
	}
	return size, nil
}

func uvarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}
