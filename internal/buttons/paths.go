package buttons

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yyyup/panelkit/internal/conditional"
)

// Segment is one component of a property path: an attribute name, a
// bracketed string key, or a bracketed integer index.
type Segment struct {
	Attr  string
	Key   string
	Index int

	IsKey   bool
	IsIndex bool
}

// PropertyRef is a resolved property path, split into the object holding
// the property, the final attribute name, and an optional trailing index.
// The excluded renderer binds sliders against exactly this triple.
type PropertyRef struct {
	Object any
	Attr   string
	Index  int
	HasIdx bool
}

// ParsePropertyPath parses a dotted/bracketed path such as
// `scene.objects["Cube"].location[2]` into segments. Malformed paths
// return nil.
func ParsePropertyPath(path string) []Segment {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	var segs []Segment
	pos := 0
	for pos < len(path) {
		switch path[pos] {
		case '.':
			if pos == 0 || pos == len(path)-1 {
				return nil
			}
			pos++
		case '[':
			end := strings.IndexByte(path[pos:], ']')
			if end < 0 {
				return nil
			}
			inner := path[pos+1 : pos+end]
			pos += end + 1
			seg, ok := bracketSegment(inner)
			if !ok {
				return nil
			}
			segs = append(segs, seg)
		default:
			start := pos
			for pos < len(path) && identChar(path[pos]) {
				pos++
			}
			if pos == start {
				return nil
			}
			segs = append(segs, Segment{Attr: path[start:pos]})
		}
	}
	if len(segs) == 0 || segs[0].Attr == "" {
		return nil
	}
	return segs
}

// ResolveProperty walks a parsed path from the recognized roots down to the
// owning object. It returns nil when the path is malformed, starts at an
// unknown root, or any intermediate lookup fails.
func ResolveProperty(roots map[string]any, path string) *PropertyRef {
	segs := ParsePropertyPath(path)
	if len(segs) == 0 {
		return nil
	}
	obj, ok := roots[segs[0].Attr]
	if !ok {
		return nil
	}
	segs = segs[1:]
	if len(segs) == 0 {
		return nil
	}

	// An optional trailing index stays with the final attribute.
	last := segs[len(segs)-1]
	idx, hasIdx := -1, false
	if last.IsIndex {
		if len(segs) < 2 {
			return nil
		}
		idx, hasIdx = last.Index, true
		segs = segs[:len(segs)-1]
		last = segs[len(segs)-1]
	}
	if last.IsKey || last.IsIndex {
		return nil
	}

	for _, seg := range segs[:len(segs)-1] {
		next, ok := step(obj, seg)
		if !ok {
			return nil
		}
		obj = next
	}
	if _, ok := step(obj, last); !ok {
		return nil
	}
	return &PropertyRef{Object: obj, Attr: last.Attr, Index: idx, HasIdx: hasIdx}
}

// ParseOperatorCall extracts the bare command name from a call-shaped
// string such as `anim.bake(step=2)`. The full string is forwarded to the
// execution collaborator untouched; only the name is needed for display.
func ParseOperatorCall(call string) string {
	call = strings.TrimSpace(call)
	if i := strings.IndexByte(call, '('); i >= 0 {
		call = call[:i]
	}
	call = strings.TrimSpace(call)
	if call == "" {
		return ""
	}
	for _, part := range strings.Split(call, ".") {
		if part == "" {
			return ""
		}
		for i, c := range part {
			if !identChar(byte(c)) || (i == 0 && unicode.IsDigit(c)) {
				return ""
			}
		}
	}
	return call
}

func bracketSegment(inner string) (Segment, bool) {
	inner = strings.TrimSpace(inner)
	if len(inner) >= 2 && (inner[0] == '"' || inner[0] == '\'') {
		if inner[len(inner)-1] != inner[0] {
			return Segment{}, false
		}
		return Segment{Key: inner[1 : len(inner)-1], IsKey: true}, true
	}
	n, err := strconv.Atoi(inner)
	if err != nil || n < 0 {
		return Segment{}, false
	}
	return Segment{Index: n, IsIndex: true}, true
}

func step(obj any, seg Segment) (any, bool) {
	switch {
	case seg.IsKey:
		return conditional.Lookup(obj, seg.Key)
	case seg.IsIndex:
		return conditional.Element(obj, seg.Index)
	default:
		return conditional.Lookup(obj, seg.Attr)
	}
}

func identChar(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
