package varint

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	cases := [][]uint32{
		nil,
		{0},
		{1},
		{1, 2, 3, 4, 5},
		{0, 127, 128, 16383, 16384, 1 << 31, 1<<32 - 1},
		{42, 1000000, 1000001},
	}
	for _, ids := range cases {
		buf, err := CompressSorted(nil, ids)
		if err != nil {
			t.Fatalf("CompressSorted(%v): %v", ids, err)
		}
		got, err := DecompressSorted(nil, buf)
		if err != nil {
			t.Fatalf("DecompressSorted(%v): %v", ids, err)
		}
		if len(ids) == 0 && len(got) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, ids) {
			t.Errorf("round trip = %v, want %v", got, ids)
		}
	}
}

func TestRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 50; iter++ {
		ids := make([]uint32, 0, 200)
		next := uint32(0)
		for len(ids) < 200 {
			next += uint32(rng.Intn(1000)) + 1
			ids = append(ids, next)
		}
		buf, err := CompressSorted(nil, ids)
		if err != nil {
			t.Fatal(err)
		}
		got, err := DecompressSorted(nil, buf)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, ids) {
			t.Fatalf("iter %d: round trip mismatch", iter)
		}
	}
}

func TestDenseListsCompressWell(t *testing.T) {
	ids := make([]uint32, 1000)
	for i := range ids {
		ids[i] = uint32(i) + 5
	}
	buf, err := CompressSorted(nil, ids)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) > len(ids)+1 {
		t.Errorf("dense list compressed to %d bytes, want about 1 byte per id", len(buf))
	}
	size, err := CompressedSize(ids)
	if err != nil {
		t.Fatal(err)
	}
	if size != len(buf) {
		t.Errorf("CompressedSize = %d, CompressSorted emitted %d", size, len(buf))
	}
}

func TestNotSorted(t *testing.T) {
	for _, ids := range [][]uint32{{2, 1}, {1, 1}, {5, 9, 9}} {
		if _, err := CompressSorted(nil, ids); err != ErrNotSorted {
			t.Errorf("CompressSorted(%v) err = %v, want ErrNotSorted", ids, err)
		}
		if _, err := CompressedSize(ids); err != ErrNotSorted {
			t.Errorf("CompressedSize(%v) err = %v, want ErrNotSorted", ids, err)
		}
	}
}

func TestMalformed(t *testing.T) {
	// A lone continuation byte never terminates a varint.
	if _, err := DecompressSorted(nil, []byte{0x80}); err != ErrMalformed {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
	// Overflows uint64 varint encoding.
	bad := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}
	if _, err := DecompressSorted(nil, bad); err != ErrMalformed {
		t.Errorf("overflow err = %v, want ErrMalformed", err)
	}
}

func TestAppendsToDst(t *testing.T) {
	buf := []byte{0xAA}
	buf, err := CompressSorted(buf, []uint32{3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0xAA {
		t.Error("CompressSorted clobbered existing dst bytes")
	}
	ids := []uint32{99}
	ids, err = DecompressSorted(ids, buf[1:])
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{99, 3, 4}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("DecompressSorted = %v, want %v", ids, want)
	}
}
