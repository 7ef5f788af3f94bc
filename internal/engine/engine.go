// Package engine implements the Engine lifecycle: create, commit_left,
// commit_right, finalize, clear, destroy. It owns the two ingestion
// buffers, the two tokenizer states, the shared arena/interner, and the
// differ/result-codec pipeline that finalize drives.
package engine

import (
	"go.uber.org/zap"

	"github.com/diffcore-io/diffcore/internal/differ"
	"github.com/diffcore-io/diffcore/internal/patharena"
	"github.com/diffcore-io/diffcore/internal/pathintern"
	"github.com/diffcore-io/diffcore/internal/resultcodec"
	"github.com/diffcore-io/diffcore/internal/tokenizer"
	"github.com/diffcore-io/diffcore/internal/valueindex"
	diffcoreerrors "github.com/diffcore-io/diffcore/pkg/errors"
)

// side bundles the per-side state duplicated between left and right.
type side struct {
	buf       []byte
	committed int
	tok       *tokenizer.Tokenizer
	index     *valueindex.Index
	processed int // tokens already folded into index
}

func newSide(cap int, arena *patharena.Arena, interner *pathintern.Interner, maxObjectKeys int) *side {
	return &side{
		buf:   make([]byte, cap),
		tok:   tokenizer.New(arena, interner, maxObjectKeys),
		index: valueindex.New(),
	}
}

func (s *side) reset() {
	s.committed = 0
	s.processed = 0
	s.tok.Reset()
	s.index.Clear()
}

// Engine is the core ingestion-commit-finalize state machine, §4.7.
type Engine struct {
	maxInputSize uint32
	log          *zap.SugaredLogger

	arena    *patharena.Arena
	interner *pathintern.Interner
	left     *side
	right    *side

	sealed     bool
	destroyed  bool
	generation uint64

	entries []differ.DiffEntry
	result  []byte
	lastErr error
}

// New allocates an Engine with both ingestion buffers sized from
// maxInputSize (split evenly left/right, §4.7) and maxObjectKeys applied
// to both tokenizers. A nil logger falls back to a no-op logger.
func New(maxInputSize, maxObjectKeys uint32, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	arena := patharena.New()
	interner := pathintern.New()
	sideCap := int(maxInputSize / 2)

	e := &Engine{
		maxInputSize: maxInputSize,
		log:          log,
		arena:        arena,
		interner:     interner,
		left:         newSide(sideCap, arena, interner, int(maxObjectKeys)),
		right:        newSide(sideCap, arena, interner, int(maxObjectKeys)),
	}
	e.log.Infow("engine created", "max_input_size", maxInputSize, "max_object_keys", maxObjectKeys)
	return e
}

// LeftBuffer returns a slice of length n from the left ingestion buffer
// for the caller to write directly into (the zero-copy ingress analog of
// §4.7's get_left_input_ptr), growing the backing array if the configured
// capacity wasn't enough. The caller must not mutate the returned slice
// after calling CommitLeft until the next Clear.
func (e *Engine) LeftBuffer(n int) ([]byte, error) {
	return e.sideBuffer(e.left, n)
}

// RightBuffer is LeftBuffer's counterpart for the right ingestion side.
func (e *Engine) RightBuffer(n int) ([]byte, error) {
	return e.sideBuffer(e.right, n)
}

func (e *Engine) sideBuffer(s *side, n int) ([]byte, error) {
	if err := e.checkLive(); err != nil {
		return nil, err
	}
	end := s.committed + n
	if end > len(s.buf) {
		grown := make([]byte, end)
		copy(grown, s.buf)
		s.buf = grown
	}
	return s.buf[s.committed:end], nil
}

// CommitLeft feeds the n bytes last returned by LeftBuffer into the left
// tokenizer.
func (e *Engine) CommitLeft(n int) (diffcoreerrors.StatusCode, error) {
	return e.commit("left", e.left, n)
}

// CommitRight is CommitLeft's counterpart for the right side.
func (e *Engine) CommitRight(n int) (diffcoreerrors.StatusCode, error) {
	return e.commit("right", e.right, n)
}

func (e *Engine) commit(name string, s *side, n int) (diffcoreerrors.StatusCode, error) {
	if e.destroyed {
		err := diffcoreerrors.NewEngineError(diffcoreerrors.CodeInvalidHandle, "commit on a destroyed engine").
			WithGeneration(e.generation)
		return diffcoreerrors.CodeInvalidHandle, err
	}
	if e.sealed {
		err := diffcoreerrors.NewEngineError(diffcoreerrors.CodeEngineSealed, "commit after finalize or parser failure").
			WithState("sealed")
		return diffcoreerrors.CodeEngineSealed, err
	}
	if uint32(s.committed+n) > e.maxInputSize/2 {
		err := diffcoreerrors.NewTokenizeError(diffcoreerrors.CodeInputLimitExceeded, "commit would exceed max_input_size").
			WithSide(name)
		return diffcoreerrors.CodeInputLimitExceeded, err
	}

	chunk := s.buf[s.committed : s.committed+n]
	if err := s.tok.Feed(chunk); err != nil {
		if _, ok := err.(tokenizer.ErrObjectKeyLimitExceeded); ok {
			e.log.Infow("object key limit exceeded", "side", name)
			return diffcoreerrors.CodeObjectKeyLimitExceeded,
				diffcoreerrors.NewTokenizeError(diffcoreerrors.CodeObjectKeyLimitExceeded, err.Error()).WithSide(name)
		}
		e.sealed = true
		e.lastErr = err
		e.log.Errorw("parser failure", "side", name, "error", err)
		return diffcoreerrors.CodeParseFailure,
			diffcoreerrors.NewTokenizeError(diffcoreerrors.CodeParseFailure, "parser failure").WithCause(err).WithSide(name)
	}

	s.committed += n
	e.foldValueIndex(s)
	return diffcoreerrors.CodeOk, nil
}

// foldValueIndex records every Value token produced since the last fold
// into s's ValueIndex, so repeated commits stay O(new tokens).
func (e *Engine) foldValueIndex(s *side) {
	tokens := s.tok.Tokens()
	for i := s.processed; i < len(tokens); i++ {
		if tokens[i].Event == tokenizer.Value {
			s.index.Set(tokens[i].PathID, i)
		}
	}
	s.processed = len(tokens)
}

// Finalize flushes both tokenizers, runs the differ, encodes the result
// buffer, and seals the engine.
func (e *Engine) Finalize() (diffcoreerrors.StatusCode, error) {
	if e.destroyed {
		return diffcoreerrors.CodeInvalidHandle,
			diffcoreerrors.NewEngineError(diffcoreerrors.CodeInvalidHandle, "finalize on a destroyed engine")
	}
	if e.sealed {
		return diffcoreerrors.CodeEngineSealed,
			diffcoreerrors.NewEngineError(diffcoreerrors.CodeEngineSealed, "finalize called twice").WithState("sealed")
	}

	if err := e.left.tok.Flush(); err != nil {
		return e.sealWithParseFailure("left", err)
	}
	e.foldValueIndex(e.left)
	if err := e.right.tok.Flush(); err != nil {
		return e.sealWithParseFailure("right", err)
	}
	e.foldValueIndex(e.right)

	e.entries = differ.Diff(
		e.entries, e.left.tok.Tokens(), e.right.tok.Tokens(),
		e.left.index, e.right.index,
		e.left.buf[:e.left.committed], e.right.buf[:e.right.committed],
	)
	e.result = resultcodec.Encode(e.result, e.entries)
	e.sealed = true
	e.log.Infow("engine finalized", "entry_count", len(e.entries), "result_bytes", len(e.result))
	return diffcoreerrors.CodeOk, nil
}

func (e *Engine) sealWithParseFailure(side string, err error) (diffcoreerrors.StatusCode, error) {
	e.sealed = true
	e.lastErr = err
	e.log.Errorw("parser failure at finalize", "side", side, "error", err)
	return diffcoreerrors.CodeParseFailure,
		diffcoreerrors.NewTokenizeError(diffcoreerrors.CodeParseFailure, "unterminated document").WithCause(err).WithSide(side)
}

// Result returns the encoded result buffer from the most recent Finalize,
// valid until the next Clear, Finalize, or Destroy.
func (e *Engine) Result() []byte {
	return e.result
}

// Entries returns the DiffEntry list from the most recent Finalize.
func (e *Engine) Entries() []differ.DiffEntry {
	return e.entries
}

// ResolvePath reconstructs the human-readable path string for id. It is
// DiffCore's first-class symbol-resolution entry point (§6, SPEC_FULL's
// supplemented feature 1), backed by PathArena.PathString.
func (e *Engine) ResolvePath(id patharena.PathId) (string, error) {
	if err := e.checkLive(); err != nil {
		return "", err
	}
	return e.arena.PathString(id, e.interner), nil
}

// Clear resets tokenizers, arena, interner, value indices, entries and
// result buffer, retaining all backing capacity, and un-seals the engine
// for another job.
func (e *Engine) Clear() error {
	if e.destroyed {
		return diffcoreerrors.NewEngineError(diffcoreerrors.CodeInvalidHandle, "clear on a destroyed engine")
	}
	e.left.reset()
	e.right.reset()
	e.arena.Clear()
	e.interner.Clear()
	e.entries = e.entries[:0]
	e.result = e.result[:0]
	e.lastErr = nil
	e.sealed = false
	e.generation++
	e.log.Debugw("engine cleared", "generation", e.generation)
	return nil
}

// Destroy releases the engine's storage. It is idempotent only in the
// sense described by §4.7: the first call succeeds, every call after it
// reports CodeInvalidHandle.
func (e *Engine) Destroy() (diffcoreerrors.StatusCode, error) {
	if e.destroyed {
		return diffcoreerrors.CodeInvalidHandle,
			diffcoreerrors.NewEngineError(diffcoreerrors.CodeInvalidHandle, "destroy called on an already-destroyed engine").
				WithGeneration(e.generation)
	}
	e.destroyed = true
	e.left = nil
	e.right = nil
	e.arena = nil
	e.interner = nil
	e.entries = nil
	e.result = nil
	e.log.Infow("engine destroyed")
	return diffcoreerrors.CodeOk, nil
}

// LastError returns the diagnostic recorded by the most recent parser
// failure, or nil if none.
func (e *Engine) LastError() error {
	return e.lastErr
}

func (e *Engine) checkLive() error {
	if e.destroyed {
		return diffcoreerrors.NewEngineError(diffcoreerrors.CodeInvalidHandle, "operation on a destroyed engine").
			WithGeneration(e.generation)
	}
	return nil
}
