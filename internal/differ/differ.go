// Package differ joins two completed tokenizer streams by path identity
// and produces the ordered DiffEntry list: the structural result of one
// diff job.
package differ

import (
	"bytes"

	"github.com/diffcore-io/diffcore/internal/patharena"
	"github.com/diffcore-io/diffcore/internal/tokenizer"
	"github.com/diffcore-io/diffcore/internal/valueindex"
)

// Op discriminates the kind of change a DiffEntry records.
type Op uint8

const (
	Added Op = iota
	Removed
	Modified
)

// DiffEntry describes one structural difference between the left and
// right documents. For Added, the left fields are zero; for Removed, the
// right fields are zero. LeftIsString/RightIsString are Go-level
// conveniences (not part of the wire record) recording whether the
// corresponding span came from a quoted string, so a consumer re-decoding
// the raw bytes knows whether to re-wrap them in quotes first.
type DiffEntry struct {
	Op            Op
	PathID        patharena.PathId
	LeftOffset    uint32
	LeftLen       uint32
	RightOffset   uint32
	RightLen      uint32
	LeftIsString  bool
	RightIsString bool
}

// Diff joins the right token stream (Added/Modified, in right's emission
// order) then the left token stream (Removed, in left's emission order)
// against each side's ValueIndex, appending results onto dst (which the
// caller should pass with length 0 but retained capacity to keep the hot
// loop allocation-free). leftBytes/rightBytes are the raw committed bytes
// for each side, consulted only to break a hash collision when two value
// spans hash equal but may still differ.
func Diff(dst []DiffEntry, left, right []tokenizer.Token, leftIndex, rightIndex *valueindex.Index, leftBytes, rightBytes []byte) []DiffEntry {
	dst = dst[:0]

	for _, rt := range right {
		if rt.Event != tokenizer.Value {
			continue
		}
		li, ok := leftIndex.Get(rt.PathID)
		if !ok {
			dst = append(dst, DiffEntry{
				Op:            Added,
				PathID:        rt.PathID,
				RightOffset:   rt.Offset,
				RightLen:      rt.Len,
				RightIsString: rt.IsString,
			})
			continue
		}
		lt := left[li]
		if valuesEqual(lt, rt, leftBytes, rightBytes) {
			continue
		}
		dst = append(dst, DiffEntry{
			Op:            Modified,
			PathID:        rt.PathID,
			LeftOffset:    lt.Offset,
			LeftLen:       lt.Len,
			RightOffset:   rt.Offset,
			RightLen:      rt.Len,
			LeftIsString:  lt.IsString,
			RightIsString: rt.IsString,
		})
	}

	for _, lt := range left {
		if lt.Event != tokenizer.Value {
			continue
		}
		if _, ok := rightIndex.Get(lt.PathID); ok {
			continue
		}
		dst = append(dst, DiffEntry{
			Op:           Removed,
			PathID:       lt.PathID,
			LeftOffset:   lt.Offset,
			LeftLen:      lt.Len,
			LeftIsString: lt.IsString,
		})
	}

	return dst
}

// valuesEqual implements the hash-only comparison plus the length/byte
// verification step: equal hashes with unequal lengths are still a
// mismatch, and equal hashes with equal lengths are confirmed byte-for-byte
// before the entry is suppressed, since an FNV-1a collision is rare but not
// impossible.
func valuesEqual(lt, rt tokenizer.Token, leftBytes, rightBytes []byte) bool {
	if lt.ValueHash != rt.ValueHash {
		return false
	}
	if lt.Len != rt.Len {
		return false
	}
	lspan := leftBytes[lt.Offset : lt.Offset+lt.Len]
	rspan := rightBytes[rt.Offset : rt.Offset+rt.Len]
	return bytes.Equal(lspan, rspan)
}
