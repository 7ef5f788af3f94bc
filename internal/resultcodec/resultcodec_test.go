package resultcodec

import (
	"reflect"
	"testing"

	"github.com/diffcore-io/diffcore/internal/differ"
)

func TestEncodeEmpty(t *testing.T) {
	buf := Encode(nil, nil)
	if len(buf) != headerSize {
		t.Fatalf("empty result length = %d, want %d", len(buf), headerSize)
	}
	h, entries, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if h.MajorVersion != MajorVersion || h.MinorVersion != MinorVersion {
		t.Fatalf("version = %d.%d, want %d.%d", h.MajorVersion, h.MinorVersion, MajorVersion, MinorVersion)
	}
	if h.EntryCount != 0 || len(entries) != 0 {
		t.Fatalf("expected 0 entries, got %d/%d", h.EntryCount, len(entries))
	}
	if h.TotalLength != uint64(headerSize) {
		t.Fatalf("TotalLength = %d, want %d", h.TotalLength, headerSize)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	entries := []differ.DiffEntry{
		{Op: differ.Modified, PathID: 3, LeftOffset: 10, LeftLen: 2, RightOffset: 20, RightLen: 1},
		{Op: differ.Added, PathID: 7, RightOffset: 5, RightLen: 4},
		{Op: differ.Removed, PathID: 9, LeftOffset: 1, LeftLen: 3},
	}

	buf := Encode(nil, entries)
	wantLen := headerSize + entrySize*len(entries)
	if len(buf) != wantLen {
		t.Fatalf("encoded length = %d, want %d", len(buf), wantLen)
	}

	h, decoded, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if int(h.EntryCount) != len(entries) {
		t.Fatalf("EntryCount = %d, want %d", h.EntryCount, len(entries))
	}

	// Decode doesn't round-trip the Go-level IsString conveniences (not
	// part of the wire format), so compare only the wire-carried fields.
	for i := range entries {
		entries[i].LeftIsString = false
		entries[i].RightIsString = false
	}
	if !reflect.DeepEqual(entries, decoded) {
		t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", decoded, entries)
	}
}

func TestEncodeReusesCapacity(t *testing.T) {
	dst := make([]byte, 0, 1024)
	entries := []differ.DiffEntry{{Op: differ.Added, PathID: 1, RightOffset: 0, RightLen: 1}}
	out := Encode(dst[:0], entries)
	if &out[0] != &dst[:1][0] {
		t.Fatal("Encode should reuse the provided backing array when capacity allows")
	}
}

func TestDecodeRejectsTruncatedBuffer(t *testing.T) {
	entries := []differ.DiffEntry{{Op: differ.Added, PathID: 1, RightOffset: 0, RightLen: 1}}
	buf := Encode(nil, entries)
	if _, _, err := Decode(buf[:headerSize+entrySize-1]); err == nil {
		t.Fatal("expected an error decoding a truncated entry record")
	}
}
