// Package patharena assigns stable PathIds to every JSON location visited
// during tokenization, keyed by (parent PathId, SegmentId) rather than by
// parent pointers, so two visits to the same location always compare equal
// in O(1).
package patharena

import "github.com/diffcore-io/diffcore/internal/pathintern"

// PathId is a dense identifier for a JSON location. PathId 0 is reserved
// for the document root ("$").
type PathId uint32

// Root is the reserved PathId for the document root.
const Root PathId = 0

type edge struct {
	parent  PathId
	segment pathintern.SegmentId
}

func key(parent PathId, segment pathintern.SegmentId) uint64 {
	return uint64(parent)<<32 | uint64(segment)
}

// Arena maps (parent, segment) pairs to dense PathIds and keeps a reverse
// vector for on-demand path string reconstruction. A one-entry L1 cache
// short-circuits the common case of repeated sequential sibling lookups
// sharing the same parent.
type Arena struct {
	table map[uint64]PathId
	rev   []edge

	cacheValid bool
	cacheKey   uint64
	cacheID    PathId
}

// New returns an Arena with only the root entry present.
func New() *Arena {
	a := &Arena{table: make(map[uint64]PathId)}
	a.rev = append(a.rev, edge{}) // index 0 is the unused root slot
	return a
}

// Child returns the PathId for (parent, segment), interning a new one if
// this pair has never been seen in the current generation.
func (a *Arena) Child(parent PathId, segment pathintern.SegmentId) PathId {
	k := key(parent, segment)
	if a.cacheValid && a.cacheKey == k {
		return a.cacheID
	}
	if id, ok := a.table[k]; ok {
		a.cacheValid, a.cacheKey, a.cacheID = true, k, id
		return id
	}
	id := PathId(len(a.rev))
	a.rev = append(a.rev, edge{parent: parent, segment: segment})
	a.table[k] = id
	a.cacheValid, a.cacheKey, a.cacheID = true, k, id
	return id
}

// PathString reconstructs the human-readable path for id by walking the
// reverse vector back to root, emitting "$" then each segment: "." before
// key segments, concatenated verbatim for index segments (already bracketed
// by the interner).
func (a *Arena) PathString(id PathId, interner *pathintern.Interner) string {
	if int(id) >= len(a.rev) {
		return ""
	}
	var segs []pathintern.SegmentId
	cur := id
	for cur != Root {
		e := a.rev[cur]
		segs = append(segs, e.segment)
		cur = e.parent
	}

	out := make([]byte, 0, 2+8*len(segs))
	out = append(out, '$')
	for i := len(segs) - 1; i >= 0; i-- {
		text := interner.SegmentText(segs[i])
		if len(text) > 0 && text[0] == '[' {
			out = append(out, text...)
		} else {
			out = append(out, '.')
			out = append(out, text...)
		}
	}
	return string(out)
}

// Clear drops every interned path except root, retaining the backing map
// and slice capacity for reuse across diff jobs.
func (a *Arena) Clear() {
	for k := range a.table {
		delete(a.table, k)
	}
	a.rev = a.rev[:1]
	a.cacheValid = false
}
