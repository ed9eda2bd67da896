// Package jsonpath walks canonical JSON trees and reports the paths of the
// nodes that match a target.
//
// A [Finder] does a pre-order, depth-first traversal. Mapping pairs are
// visited in insertion order and array elements by index; each node is
// checked before its children, so results come out in document order.
// Matching is either exact (deep equality) or fuzzy, where strings are scored
// with [Ratio] against a threshold.
package jsonpath

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	dberrors "github.com/maruel/jsondb/internal/errors"
	"github.com/maruel/jsondb/internal/jsonvalue"
)

// Path addresses a node from the root of a tree. Elements are string keys
// into mappings or int indices into arrays.
type Path []any

// String renders the path as a JSON array.
func (p Path) String() string {
	data, err := json.Marshal([]any(p))
	if err != nil {
		return fmt.Sprintf("%v", []any(p))
	}
	return string(data)
}

// Parent returns the path without its last segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1:len(p)-1]
}

// Last returns the final segment, or nil for the empty path.
func (p Path) Last() any {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// ParsePath decodes a JSON array such as ["users",0,"name"] into a Path.
func ParsePath(s string) (Path, error) {
	v, err := jsonvalue.Parse([]byte(s))
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, dberrors.Value(fmt.Sprintf("path must be a JSON array, got %s", jsonvalue.KindOf(v)))
	}
	p := make(Path, len(list))
	for i, seg := range list {
		switch x := seg.(type) {
		case string:
			p[i] = x
		case json.Number:
			n, err := strconv.Atoi(string(x))
			if err != nil {
				return nil, dberrors.Value(fmt.Sprintf("path index %s is not an integer", x))
			}
			p[i] = n
		default:
			return nil, dberrors.Value(fmt.Sprintf("path segment %d must be a string or an integer", i))
		}
	}
	return p, nil
}

// Step resolves one path segment on node.
func Step(node any, seg any) (any, bool) {
	switch x := node.(type) {
	case *jsonvalue.Object:
		k, ok := seg.(string)
		if !ok || x == nil {
			return nil, false
		}
		return x.Get(k)
	case []any:
		i, ok := seg.(int)
		if !ok || i < 0 || i >= len(x) {
			return nil, false
		}
		return x[i], true
	default:
		return nil, false
	}
}

// Resolve follows p from root.
func Resolve(root any, p Path) (any, error) {
	node := root
	for i, seg := range p {
		next, ok := Step(node, seg)
		if !ok {
			return nil, dberrors.Path(p[:i+1], seg)
		}
		node = next
	}
	return node, nil
}

// Format renders a segment for messages, quoting keys.
func Format(seg any) string {
	if s, ok := seg.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprint(seg)
}

// Join renders p with dots, for logs.
func (p Path) Join() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = Format(seg)
	}
	return strings.Join(parts, ".")
}
