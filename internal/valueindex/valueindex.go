// Package valueindex implements the dense PathId -> token-index lookup the
// differ uses to join the left and right token streams in O(1) per token.
package valueindex

import "github.com/diffcore-io/diffcore/internal/patharena"

// Index is a dense vector indexed by PathId. Entry i stores token_index+1
// for the last Value token seen at path i on one side, or 0 meaning "no
// value at this path". The +1 offset is required because token index 0 is
// a legitimate position, so a stored 0 could not otherwise mean "absent".
type Index struct {
	entries []uint32
}

// New returns an empty Index.
func New() *Index {
	return &Index{}
}

// Set records that path id's most recent Value token on this side is at
// tokenIdx, growing the backing vector as needed.
func (ix *Index) Set(id patharena.PathId, tokenIdx int) {
	need := int(id) + 1
	if need > len(ix.entries) {
		grown := make([]uint32, need)
		copy(grown, ix.entries)
		ix.entries = grown
	}
	ix.entries[id] = uint32(tokenIdx) + 1
}

// Get reports the most recent value-token index at path id on this side,
// and whether any value was ever recorded there.
func (ix *Index) Get(id patharena.PathId) (tokenIdx int, ok bool) {
	if int(id) >= len(ix.entries) {
		return 0, false
	}
	v := ix.entries[id]
	if v == 0 {
		return 0, false
	}
	return int(v - 1), true
}

// Clear zeroes every recorded entry, keeping the backing vector's capacity
// for reuse across diff jobs.
func (ix *Index) Clear() {
	for i := range ix.entries {
		ix.entries[i] = 0
	}
}
