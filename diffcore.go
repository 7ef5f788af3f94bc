// Package diffcore compares two JSON documents streamed in as byte
// chunks and produces a compact binary record of what changed between
// them, without materializing either document as a parsed tree.
//
// A typical one-shot comparison uses the Diff convenience function; a
// long-lived worker that processes many diff jobs back to back should
// construct an *Engine directly and call Clear between jobs to reuse its
// internal capacity with zero further allocation.
package diffcore

import (
	"fmt"

	"github.com/diffcore-io/diffcore/internal/differ"
	"github.com/diffcore-io/diffcore/internal/engine"
	"github.com/diffcore-io/diffcore/internal/patharena"
	"github.com/diffcore-io/diffcore/pkg/config"
	"github.com/diffcore-io/diffcore/pkg/errors"
	"github.com/diffcore-io/diffcore/pkg/jsonpatch"
	"github.com/diffcore-io/diffcore/pkg/logger"

	"go.uber.org/zap"
)

// Re-exported domain types so callers don't need to import the internal
// packages directly.
type (
	PathID     = patharena.PathId
	Op         = differ.Op
	DiffEntry  = differ.DiffEntry
	StatusCode = errors.StatusCode
	Config     = config.Config
)

const (
	Added    = differ.Added
	Removed  = differ.Removed
	Modified = differ.Modified
)

const (
	CodeOk                     = errors.CodeOk
	CodeNeedFlush              = errors.CodeNeedFlush
	CodeInputLimitExceeded     = errors.CodeInputLimitExceeded
	CodeEngineSealed           = errors.CodeEngineSealed
	CodeInvalidHandle          = errors.CodeInvalidHandle
	CodeObjectKeyLimitExceeded = errors.CodeObjectKeyLimitExceeded
	CodeArrayTooLarge          = errors.CodeArrayTooLarge
	CodeParseFailure           = errors.CodeParseFailure
)

// Option configures an Engine at construction time.
type Option func(*engineOptions)

type engineOptions struct {
	log *zap.SugaredLogger
}

// WithLogger attaches a structured logger to the engine's lifecycle and
// capacity-violation diagnostics. Omitting this option leaves logging as
// a no-op.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *engineOptions) { o.log = log }
}

// Engine is the public handle around the ingestion-commit-finalize
// lifecycle described in the component design: two ingestion buffers, two
// tokenizers, one shared path arena, and the differ/result-codec pipeline
// that Finalize drives.
type Engine struct {
	inner *engine.Engine
}

// New constructs an Engine from cfg (see config.New / config.Decode for
// ways to build one).
func New(cfg Config, opts ...Option) *Engine {
	o := engineOptions{log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{inner: engine.New(cfg.MaxInputSize, cfg.MaxObjectKeys, o.log)}
}

// LeftBuffer returns n bytes of scratch space for the caller to write the
// left document's next chunk into before calling CommitLeft.
func (e *Engine) LeftBuffer(n int) ([]byte, error) { return e.inner.LeftBuffer(n) }

// RightBuffer is LeftBuffer's counterpart for the right document.
func (e *Engine) RightBuffer(n int) ([]byte, error) { return e.inner.RightBuffer(n) }

// CommitLeft feeds the n bytes most recently written into LeftBuffer's
// return value to the left tokenizer. Re-committing is supported and
// appends logically onto whatever was committed before.
func (e *Engine) CommitLeft(n int) (StatusCode, error) { return e.inner.CommitLeft(n) }

// CommitRight is CommitLeft's counterpart for the right document.
func (e *Engine) CommitRight(n int) (StatusCode, error) { return e.inner.CommitRight(n) }

// CommitLeftBytes is a convenience wrapper that copies data into a fresh
// LeftBuffer slice and commits it in one call, for callers that don't
// need the zero-copy ingress path.
func (e *Engine) CommitLeftBytes(data []byte) (StatusCode, error) {
	buf, err := e.LeftBuffer(len(data))
	if err != nil {
		return CodeParseFailure, err
	}
	copy(buf, data)
	return e.CommitLeft(len(data))
}

// CommitRightBytes is CommitLeftBytes's counterpart for the right document.
func (e *Engine) CommitRightBytes(data []byte) (StatusCode, error) {
	buf, err := e.RightBuffer(len(data))
	if err != nil {
		return CodeParseFailure, err
	}
	copy(buf, data)
	return e.CommitRight(len(data))
}

// Finalize runs the differ over both committed sides, encodes the result
// buffer, and seals the engine against further commits.
func (e *Engine) Finalize() (StatusCode, error) { return e.inner.Finalize() }

// Result returns the encoded binary result buffer from the most recent
// Finalize: a 16-byte header followed by fixed 32-byte entry records
// (§6). Valid until the next Clear, Finalize, or Destroy.
func (e *Engine) Result() []byte { return e.inner.Result() }

// Entries returns the DiffEntry list from the most recent Finalize.
func (e *Engine) Entries() []DiffEntry { return e.inner.Entries() }

// ResolvePath reconstructs the human-readable path string ("$.xs[1]") for
// a PathID carried by a DiffEntry.
func (e *Engine) ResolvePath(id PathID) (string, error) { return e.inner.ResolvePath(id) }

// Clear resets all per-job state (tokenizers, arena, value indices,
// entries, result buffer) while retaining backing capacity, and un-seals
// the engine for the next job.
func (e *Engine) Clear() error { return e.inner.Clear() }

// Destroy releases the engine's storage. Idempotent only in the sense
// that every call after the first reports CodeInvalidHandle.
func (e *Engine) Destroy() (StatusCode, error) { return e.inner.Destroy() }

// LastError returns the diagnostic recorded by the most recent parser
// failure, or nil if none.
func (e *Engine) LastError() error { return e.inner.LastError() }

// ToJSONPatch resolves every entry's PathID to a path string, converts it
// to an RFC 6901 pointer, decodes its value span(s) against the same
// leftBytes/rightBytes the entries were produced from, and assembles the
// result into an RFC 6902 Patch via pkg/jsonpatch. leftBytes/rightBytes
// should be the exact committed buffers for the job that produced
// entries (for an Engine built through this package, the slices passed
// to CommitLeftBytes/CommitRightBytes).
func (e *Engine) ToJSONPatch(entries []DiffEntry, leftBytes, rightBytes []byte) (jsonpatch.Patch, error) {
	records := make([]jsonpatch.DiffRecord, 0, len(entries))
	for _, entry := range entries {
		pathStr, err := e.ResolvePath(entry.PathID)
		if err != nil {
			return nil, fmt.Errorf("resolve path for entry: %w", err)
		}
		pointer, err := jsonpatch.PathToPointer(pathStr)
		if err != nil {
			return nil, fmt.Errorf("convert path %q to pointer: %w", pathStr, err)
		}

		rec := jsonpatch.DiffRecord{Path: pointer}
		switch entry.Op {
		case Added:
			rec.Op = jsonpatch.DiffAdded
			rec.After, err = jsonpatch.DecodeValueBytes(rightBytes[entry.RightOffset:entry.RightOffset+entry.RightLen], entry.RightIsString)
		case Removed:
			rec.Op = jsonpatch.DiffRemoved
			rec.Before, err = jsonpatch.DecodeValueBytes(leftBytes[entry.LeftOffset:entry.LeftOffset+entry.LeftLen], entry.LeftIsString)
		case Modified:
			rec.Op = jsonpatch.DiffModified
			rec.Before, err = jsonpatch.DecodeValueBytes(leftBytes[entry.LeftOffset:entry.LeftOffset+entry.LeftLen], entry.LeftIsString)
			if err == nil {
				rec.After, err = jsonpatch.DecodeValueBytes(rightBytes[entry.RightOffset:entry.RightOffset+entry.RightLen], entry.RightIsString)
			}
		default:
			return nil, fmt.Errorf("unsupported diff op %v for path %q", entry.Op, pointer)
		}
		if err != nil {
			return nil, fmt.Errorf("decode value for path %q: %w", pointer, err)
		}
		records = append(records, rec)
	}
	return jsonpatch.ToPatch(records)
}

// Diff is a one-shot convenience wrapper: it builds a throwaway Engine,
// commits both documents in full, finalizes, and returns the entries and
// encoded result buffer. cfg defaults to config.DefaultConfig() if
// omitted.
func Diff(left, right []byte, cfg ...Config) ([]DiffEntry, []byte, error) {
	c := config.DefaultConfig()
	if len(cfg) > 0 {
		c = cfg[0]
	}
	e := New(c)
	defer e.Destroy()

	if _, err := e.CommitLeftBytes(left); err != nil {
		return nil, nil, err
	}
	if _, err := e.CommitRightBytes(right); err != nil {
		return nil, nil, err
	}
	if _, err := e.Finalize(); err != nil {
		return nil, nil, err
	}
	return e.Entries(), e.Result(), nil
}
