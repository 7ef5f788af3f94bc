// Package pathintern assigns dense SegmentId identities to object keys and
// array indices so the path arena can key on integers instead of strings.
package pathintern

import "strconv"

// SegmentId identifies a single path step: an object key or an array index.
// Both flavors share one numbering space. Segment 0 is the reserved
// empty/root placeholder.
type SegmentId uint32

// RootSegment is the reserved sentinel segment at id 0.
const RootSegment SegmentId = 0

// Interner maps key bytes and array indices to dense SegmentIds, with a
// reverse text store for on-demand path string reconstruction.
type Interner struct {
	keys  map[string]SegmentId
	idxs  map[int]SegmentId
	texts []string
}

// New returns an Interner with the sentinel already seated at id 0.
func New() *Interner {
	in := &Interner{
		keys: make(map[string]SegmentId),
		idxs: make(map[int]SegmentId),
	}
	in.texts = append(in.texts, "")
	return in
}

// InternKey returns the SegmentId for an object key, interning it on first
// use. b is copied into the text store; the caller's slice may be reused.
func (in *Interner) InternKey(b []byte) SegmentId {
	// avoid the map-allocation-on-miss path allocating twice: probe with a
	// cheap string conversion (Go optimizes map[string] lookups against a
	// []byte-derived string without copying), only materialize a real
	// string on insert.
	if id, ok := in.keys[string(b)]; ok {
		return id
	}
	text := string(b)
	id := SegmentId(len(in.texts))
	in.texts = append(in.texts, text)
	in.keys[text] = id
	return id
}

// InternIndex returns the SegmentId for an array index, interning the
// "[n]" text on first use.
func (in *Interner) InternIndex(n int) SegmentId {
	if id, ok := in.idxs[n]; ok {
		return id
	}
	text := "[" + strconv.Itoa(n) + "]"
	id := SegmentId(len(in.texts))
	in.texts = append(in.texts, text)
	in.idxs[n] = id
	return id
}

// SegmentText returns the interned text for id, or "" for the sentinel.
func (in *Interner) SegmentText(id SegmentId) string {
	if int(id) >= len(in.texts) {
		return ""
	}
	return in.texts[id]
}

// Clear empties both maps and re-seats the sentinel at id 0, retaining the
// backing array capacity for reuse across diff jobs.
func (in *Interner) Clear() {
	for k := range in.keys {
		delete(in.keys, k)
	}
	for k := range in.idxs {
		delete(in.idxs, k)
	}
	in.texts = in.texts[:1]
}
