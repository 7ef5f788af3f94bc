// Package tokenizer implements the single-pass structural scanner that
// turns raw committed JSON bytes into path-tagged CompactTokens without
// building a materialized object tree.
//
// A Tokenizer is fed byte chunks across one or more calls to Feed; state
// that spans a chunk boundary (an open string, a number still being
// scanned, the container nesting stack) is carried forward so a value can
// legally straddle two commits.
package tokenizer

import (
	"github.com/diffcore-io/diffcore/internal/hashcore"
	"github.com/diffcore-io/diffcore/internal/patharena"
	"github.com/diffcore-io/diffcore/internal/pathintern"
)

// Event discriminates the kind of CompactToken emitted.
type Event uint8

const (
	StartObject Event = iota
	EndObject
	StartArray
	EndArray
	Value
)

// Token is the fixed-layout record the tokenizer emits, one per structural
// or scalar event. ValueHash, Offset and Len are only meaningful for Value
// events. IsString records whether a Value token's span came from a quoted
// string (quotes excluded from the span, per the offset-soundness property)
// or a bare literal/number; it rides along on the Go-level token only, not
// the wire format, so callers that need to re-decode a raw span (the
// jsonpatch bridge) know whether to re-wrap it in quotes before parsing.
type Token struct {
	PathID    patharena.PathId
	Event     Event
	ValueHash uint64
	Offset    uint32
	Len       uint32
	IsString  bool
}

type scanState uint8

const (
	stateIdle scanState = iota
	stateKeyString
	stateValueString
	stateScalar
)

type frame struct {
	path     patharena.PathId
	kind     byte // '{' or '['
	index    int  // current array index, meaningful only when kind == '['
	keyCount int  // keys seen so far (a repeated key counts again), meaningful only when kind == '{'
}

// ErrObjectKeyLimitExceeded is returned by Feed when a key would push an
// object's key count past the configured maximum. It is a
// capacity violation: the caller may Reset and retry, it does not indicate
// a malformed document.
type ErrObjectKeyLimitExceeded struct{}

func (ErrObjectKeyLimitExceeded) Error() string {
	return "tokenizer: object key count exceeds configured maximum"
}

// ErrUnterminated is returned by Flush when the committed bytes end mid
// container, mid string, or otherwise leave the scanner unable to produce
// a well-formed token stream.
type ErrUnterminated struct{}

func (ErrUnterminated) Error() string {
	return "tokenizer: unterminated document at finalize"
}

// Tokenizer scans one committed side (left or right) of a diff job.
type Tokenizer struct {
	arena    *patharena.Arena
	interner *pathintern.Interner

	maxObjectKeys int

	tokens []Token
	total  uint32 // running offset base across Feed calls

	state        scanState
	escapeNext   bool
	valueBuf     []byte
	valueStart   uint32
	currentPath  patharena.PathId
	expectingKey bool
	stack        []frame
}

// New returns a Tokenizer sharing arena and interner with its counterpart
// on the other side of the diff (both sides must share identity so the
// same JSON location maps to the same PathId regardless of which side
// visited it first).
func New(arena *patharena.Arena, interner *pathintern.Interner, maxObjectKeys int) *Tokenizer {
	return &Tokenizer{
		arena:         arena,
		interner:      interner,
		maxObjectKeys: maxObjectKeys,
		currentPath:   patharena.Root,
	}
}

// Tokens returns the tokens emitted so far in this generation.
func (t *Tokenizer) Tokens() []Token {
	return t.tokens
}

// Feed scans data as a continuation of whatever this side has already
// committed, appending newly produced tokens to Tokens().
func (t *Tokenizer) Feed(data []byte) error {
	base := t.total
	for i := 0; i < len(data); i++ {
		if err := t.step(data, &i, base); err != nil {
			return err
		}
	}
	t.total += uint32(len(data))
	return nil
}

// step consumes data[*i] (and possibly reprocesses it once, for the
// value-scan-then-redispatch-the-delimiter case). It does not move *i;
// Feed's loop advances it.
func (t *Tokenizer) step(data []byte, i *int, base uint32) error {
	b := data[*i]
	offset := base + uint32(*i)

	switch t.state {
	case stateKeyString, stateValueString:
		return t.stepString(b, offset)
	case stateScalar:
		if isScalarDelimiter(b) {
			t.finishScalar()
			// reprocess the delimiter byte through the idle dispatcher.
			return t.stepIdle(b, offset)
		}
		t.valueBuf = append(t.valueBuf, b)
		return nil
	default:
		return t.stepIdle(b, offset)
	}
}

func isScalarDelimiter(b byte) bool {
	switch b {
	case ',', '}', ']', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

func (t *Tokenizer) stepString(b byte, offset uint32) error {
	if t.escapeNext {
		t.escapeNext = false
		t.valueBuf = append(t.valueBuf, b)
		return nil
	}
	switch b {
	case '\\':
		t.escapeNext = true
		t.valueBuf = append(t.valueBuf, b)
		return nil
	case '"':
		return t.finishString(offset)
	default:
		t.valueBuf = append(t.valueBuf, b)
		return nil
	}
}

func (t *Tokenizer) finishString(endOffset uint32) error {
	isKey := t.state == stateKeyString
	length := uint32(len(t.valueBuf))

	if isKey {
		parent := t.parentOnStack()
		segment := t.interner.InternKey(t.valueBuf)
		t.currentPath = t.arena.Child(parent, segment)
		if top := len(t.stack) - 1; top >= 0 {
			t.stack[top].keyCount++
			if t.stack[top].keyCount > t.maxObjectKeys {
				return ErrObjectKeyLimitExceeded{}
			}
		}
		t.expectingKey = false
	} else {
		hash := hashcore.Sum64(t.valueBuf)
		t.tokens = append(t.tokens, Token{
			PathID:    t.currentPath,
			Event:     Value,
			ValueHash: hash,
			Offset:    t.valueStart,
			Len:       length,
			IsString:  true,
		})
	}

	t.valueBuf = t.valueBuf[:0]
	t.state = stateIdle
	return nil
}

func (t *Tokenizer) finishScalar() {
	hash := hashcore.Sum64(t.valueBuf)
	t.tokens = append(t.tokens, Token{
		PathID:    t.currentPath,
		Event:     Value,
		ValueHash: hash,
		Offset:    t.valueStart,
		Len:       uint32(len(t.valueBuf)),
		IsString:  false,
	})
	t.valueBuf = t.valueBuf[:0]
	t.state = stateIdle

	if top, ok := t.topFrame(); ok && top.kind == '{' {
		t.currentPath = top.path
	}
}

// parentOnStack returns the path of the innermost enclosing container, or
// Root when at the top level.
func (t *Tokenizer) parentOnStack() patharena.PathId {
	if top, ok := t.topFrame(); ok {
		return top.path
	}
	return patharena.Root
}

func (t *Tokenizer) topFrame() (frame, bool) {
	if len(t.stack) == 0 {
		return frame{}, false
	}
	return t.stack[len(t.stack)-1], true
}

func (t *Tokenizer) stepIdle(b byte, offset uint32) error {
	switch {
	case b <= 0x20:
		return nil
	case b == '{':
		t.stack = append(t.stack, frame{path: t.currentPath, kind: '{'})
		t.tokens = append(t.tokens, Token{PathID: t.currentPath, Event: StartObject})
		t.expectingKey = true
		return nil
	case b == '}':
		t.tokens = append(t.tokens, Token{PathID: t.currentPath, Event: EndObject})
		if len(t.stack) > 0 {
			f := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.currentPath = f.path
		}
		t.expectingKey = false
		return nil
	case b == '[':
		parent := t.currentPath
		t.stack = append(t.stack, frame{path: parent, kind: '[', index: 0})
		t.tokens = append(t.tokens, Token{PathID: parent, Event: StartArray})
		t.currentPath = t.arena.Child(parent, t.interner.InternIndex(0))
		return nil
	case b == ']':
		t.tokens = append(t.tokens, Token{PathID: t.currentPath, Event: EndArray})
		if len(t.stack) > 0 {
			f := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.currentPath = f.path
		}
		return nil
	case b == '"':
		if t.expectingKey {
			t.state = stateKeyString
		} else {
			t.state = stateValueString
			t.valueStart = offset + 1 // span excludes the opening quote
		}
		t.valueBuf = t.valueBuf[:0]
		return nil
	case b == ':':
		t.expectingKey = false
		return nil
	case b == ',':
		if top, ok := t.topFrame(); ok && top.kind == '[' {
			top.index++
			t.stack[len(t.stack)-1] = top
			t.currentPath = t.arena.Child(top.path, t.interner.InternIndex(top.index))
		} else {
			t.expectingKey = true
		}
		return nil
	default:
		t.state = stateScalar
		t.valueStart = offset
		t.valueBuf = append(t.valueBuf[:0], b)
		return nil
	}
}

// Flush finalizes any value still mid-scan at end of input, treating the
// end of the committed stream as an implicit delimiter. It returns
// ErrUnterminated if the document is left with open containers or an
// unterminated string, since no further bytes are coming.
func (t *Tokenizer) Flush() error {
	switch t.state {
	case stateScalar:
		t.finishScalar()
	case stateKeyString, stateValueString:
		return ErrUnterminated{}
	}
	if len(t.stack) != 0 {
		return ErrUnterminated{}
	}
	return nil
}

// Reset clears all scan state for reuse by the next diff job, retaining
// the backing slice capacities.
func (t *Tokenizer) Reset() {
	t.tokens = t.tokens[:0]
	t.total = 0
	t.state = stateIdle
	t.escapeNext = false
	t.valueBuf = t.valueBuf[:0]
	t.valueStart = 0
	t.currentPath = patharena.Root
	t.expectingKey = false
	t.stack = t.stack[:0]
}
