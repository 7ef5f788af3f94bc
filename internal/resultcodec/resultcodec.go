// Package resultcodec encodes the DiffEntry list produced by internal/differ
// into the binary result buffer layout that is the engine's sole output
// contract: a 16-byte header followed by fixed 32-byte entry records,
// little-endian throughout, format v2.1.
package resultcodec

import (
	"encoding/binary"
	"fmt"

	"github.com/diffcore-io/diffcore/internal/differ"
	"github.com/diffcore-io/diffcore/internal/patharena"
)

const (
	// MajorVersion and MinorVersion identify the v2.1 entry layout.
	MajorVersion uint16 = 2
	MinorVersion uint16 = 1

	headerSize = 16
	entrySize  = 32
)

// Encode appends the header and every entry record onto dst (passed with
// length 0 but ideally retained capacity, to keep a warmed engine's steady
// state allocation-free) and returns the resulting slice.
func Encode(dst []byte, entries []differ.DiffEntry) []byte {
	total := headerSize + entrySize*len(entries)
	if cap(dst) < total {
		dst = make([]byte, 0, total)
	}
	dst = dst[:headerSize]

	binary.LittleEndian.PutUint16(dst[0:2], MajorVersion)
	binary.LittleEndian.PutUint16(dst[2:4], MinorVersion)
	binary.LittleEndian.PutUint32(dst[4:8], uint32(len(entries)))
	binary.LittleEndian.PutUint64(dst[8:16], uint64(total))

	var rec [entrySize]byte
	for _, e := range entries {
		rec = [entrySize]byte{}
		rec[0] = byte(e.Op)
		binary.LittleEndian.PutUint64(rec[8:16], uint64(e.PathID))
		binary.LittleEndian.PutUint32(rec[16:20], e.LeftOffset)
		binary.LittleEndian.PutUint32(rec[20:24], e.LeftLen)
		binary.LittleEndian.PutUint32(rec[24:28], e.RightOffset)
		binary.LittleEndian.PutUint32(rec[28:32], e.RightLen)
		dst = append(dst, rec[:]...)
	}
	return dst
}

// Header is the decoded form of the 16-byte result header.
type Header struct {
	MajorVersion uint16
	MinorVersion uint16
	EntryCount   uint32
	TotalLength  uint64
}

// Decode parses a result buffer produced by Encode back into a Header and
// DiffEntry slice. It exists for tests and for hosts that want a pure-Go
// reference decoder rather than parsing the wire format themselves.
func Decode(buf []byte) (Header, []differ.DiffEntry, error) {
	if len(buf) < headerSize {
		return Header{}, nil, fmt.Errorf("resultcodec: buffer too short for header: %d bytes", len(buf))
	}
	h := Header{
		MajorVersion: binary.LittleEndian.Uint16(buf[0:2]),
		MinorVersion: binary.LittleEndian.Uint16(buf[2:4]),
		EntryCount:   binary.LittleEndian.Uint32(buf[4:8]),
		TotalLength:  binary.LittleEndian.Uint64(buf[8:16]),
	}
	want := headerSize + entrySize*int(h.EntryCount)
	if len(buf) < want {
		return h, nil, fmt.Errorf("resultcodec: buffer holds %d bytes, header declares %d", len(buf), want)
	}

	entries := make([]differ.DiffEntry, h.EntryCount)
	for i := range entries {
		rec := buf[headerSize+i*entrySize : headerSize+(i+1)*entrySize]
		entries[i] = differ.DiffEntry{
			Op:          differ.Op(rec[0]),
			PathID:      patharena.PathId(binary.LittleEndian.Uint64(rec[8:16])),
			LeftOffset:  binary.LittleEndian.Uint32(rec[16:20]),
			LeftLen:     binary.LittleEndian.Uint32(rec[20:24]),
			RightOffset: binary.LittleEndian.Uint32(rec[24:28]),
			RightLen:    binary.LittleEndian.Uint32(rec[28:32]),
		}
	}
	return h, entries, nil
}
