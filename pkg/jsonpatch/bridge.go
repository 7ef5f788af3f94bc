package jsonpatch

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DiffOp mirrors the three-way classification a streaming diff entry
// carries (added / removed / modified), kept independent from the
// internal differ package so this bridge has no dependency on it.
type DiffOp uint8

const (
	DiffAdded DiffOp = iota
	DiffRemoved
	DiffModified
)

// DiffRecord is the plain-data shape a caller extracts from a DiffCore
// DiffEntry before handing it to ToPatch: a resolved path string, the
// classification, and the decoded value(s) involved. Removed records
// carry only Before; Added records carry only After; Modified carries
// both.
type DiffRecord struct {
	Op     DiffOp
	Path   string
	Before any
	After  any
}

// escapeToken applies RFC 6901 escaping for '~' and '/' characters.
func escapeToken(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

// PathToPointer converts a DiffCore path string such as "$.xs[0].name"
// into an RFC 6901 JSON Pointer such as "/xs/0/name". The leading "$" is
// required; bracketed segments are treated as array indices and emitted
// without escaping since RFC 6901 escaping only applies to "~" and "/"
// inside token text, never to digit indices.
func PathToPointer(path string) (string, error) {
	if !strings.HasPrefix(path, "$") {
		return "", fmt.Errorf("jsonpatch: path %q does not start with '$'", path)
	}
	rest := path[1:]
	if rest == "" {
		return "", nil
	}

	var b strings.Builder
	i := 0
	for i < len(rest) {
		switch rest[i] {
		case '.':
			j := i + 1
			for j < len(rest) && rest[j] != '.' && rest[j] != '[' {
				j++
			}
			if j == i+1 {
				return "", fmt.Errorf("jsonpatch: empty key segment in path %q", path)
			}
			b.WriteByte('/')
			b.WriteString(escapeToken(rest[i+1 : j]))
			i = j
		case '[':
			j := i + 1
			for j < len(rest) && rest[j] != ']' {
				j++
			}
			if j >= len(rest) {
				return "", fmt.Errorf("jsonpatch: unterminated '[' in path %q", path)
			}
			b.WriteByte('/')
			b.WriteString(rest[i+1 : j])
			i = j + 1
		default:
			return "", fmt.Errorf("jsonpatch: unexpected character %q at offset %d in path %q", rest[i], i, path)
		}
	}
	return b.String(), nil
}

// DecodeValueBytes unmarshals a raw DiffCore value span into a Go value.
// String spans exclude their surrounding quotes (they are not standalone
// valid JSON), so when isString is true the span is re-wrapped in quotes
// before decoding; number/bool/null spans decode as-is.
func DecodeValueBytes(raw []byte, isString bool) (any, error) {
	var src []byte
	if isString {
		src = make([]byte, 0, len(raw)+2)
		src = append(src, '"')
		src = append(src, raw...)
		src = append(src, '"')
	} else {
		src = raw
	}

	var v any
	if err := json.Unmarshal(src, &v); err != nil {
		return nil, fmt.Errorf("jsonpatch: decode value span: %w", err)
	}
	return v, nil
}

// ToPatch converts a list of resolved diff records into an RFC 6902
// Patch: Added becomes add, Removed becomes remove, Modified becomes
// replace. Records are translated in the order given; callers that need
// a specific apply order (e.g. array removals high-to-low index) are
// responsible for sorting records before calling ToPatch.
func ToPatch(records []DiffRecord) (Patch, error) {
	patch := make(Patch, 0, len(records))
	for _, rec := range records {
		switch rec.Op {
		case DiffAdded:
			patch = append(patch, Operation{Op: Add, Path: rec.Path, Value: rec.After})
		case DiffRemoved:
			patch = append(patch, Operation{Op: Remove, Path: rec.Path})
		case DiffModified:
			patch = append(patch, Operation{Op: Replace, Path: rec.Path, Value: rec.After})
		default:
			return nil, fmt.Errorf("jsonpatch: unsupported DiffOp %d for path %q", rec.Op, rec.Path)
		}
	}
	return patch, nil
}

// ParseArrayIndexToken parses a bracketed DiffCore array segment
// ("[12]" or its already-unwrapped form "12") into an int, used by
// callers reordering DiffRecords before ToPatch.
func ParseArrayIndexToken(token string) (int, error) {
	token = strings.TrimPrefix(token, "[")
	token = strings.TrimSuffix(token, "]")
	return strconv.Atoi(token)
}
