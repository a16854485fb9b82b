// Package econet talks to a Plum ecoNET heat-pump controller and
// resolves values out of its semi-structured regParams documents.
//
// The controller's JSON is inconsistently shaped: most values live in a
// flat "curr" object, but some are only exposed through "tilesParams",
// an array of arrays of arrays whose innermost arrays hold positional
// fields. [Resolve] walks a fixed [Path] through either shape and
// normalizes every failure mode (missing key, bad index, type mismatch)
// to a plain "absent" result, so callers never need error recovery for
// malformed documents.
package econet

import (
	"fmt"
	"strings"
)

// Document is one decoded regParams snapshot. Numbers are decoded as
// [encoding/json.Number] so their textual form survives republishing
// without float round-tripping.
type Document = map[string]any

// Segment addresses one step into a document: either an object key or
// an array index. The zero value is an index of 0.
type Segment struct {
	key   string
	index int
	isKey bool
}

// Key returns a Segment that descends into an object member.
func Key(name string) Segment { return Segment{key: name, isKey: true} }

// Index returns a Segment that descends into an array element.
func Index(i int) Segment { return Segment{index: i} }

func (s Segment) String() string {
	if s.isKey {
		return s.key
	}
	return fmt.Sprintf("[%d]", s.index)
}

// Path is an ordered sequence of segments, fixed at startup and never
// mutated. One Path exists per metric.
type Path []Segment

// String renders the path for log output, e.g. "tilesParams[29][0][0]"
// or "curr.AxenOutdoorTemp".
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if seg.isKey && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.String())
	}
	return b.String()
}

// Resolve walks path against doc and returns the addressed value. The
// boolean reports presence; false covers every failure mode alike —
// missing key, out-of-range index, or a segment/value type mismatch —
// which is intentional: callers treat all extraction misses the same
// way. Resolve never panics, regardless of document shape.
//
// If the fully-resolved value is a non-empty array, its first element
// is returned instead. The controller nests single values inside
// singleton or triplet arrays (tilesParams[i][0] is ["21.0", 1, 0]),
// and this unwrap convention reads the value slot. A terminal value
// that is still an object or array after unwrapping is not a scalar
// and counts as absent.
func Resolve(doc any, path Path) (any, bool) {
	cur := doc
	for _, seg := range path {
		switch v := cur.(type) {
		case map[string]any:
			if !seg.isKey {
				return nil, false
			}
			next, ok := v[seg.key]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			if seg.isKey {
				return nil, false
			}
			if seg.index < 0 || seg.index >= len(v) {
				return nil, false
			}
			cur = v[seg.index]
		default:
			return nil, false
		}
	}

	if arr, ok := cur.([]any); ok {
		if len(arr) == 0 {
			return nil, false
		}
		cur = arr[0]
	}

	switch cur.(type) {
	case map[string]any, []any:
		return nil, false
	}
	return cur, true
}
