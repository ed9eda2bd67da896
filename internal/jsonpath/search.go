// Recursive key and value scans returning the mappings that hold a match.

package jsonpath

import (
	"github.com/maruel/jsondb/internal/jsonvalue"
)

// Hit is one result of SearchKey or SearchValue.
type Hit struct {
	// Object is the mapping holding the matched key.
	Object *jsonvalue.Object
	// Key is the matched key within Object.
	Key string
	// Score is 1 for exact matches, the Ratio for fuzzy ones.
	Score float64
}

// Value returns the value stored under the matched key.
func (h Hit) Value() any {
	v, _ := h.Object.Get(h.Key)
	return v
}

// SearchOptions configures SearchKey and SearchValue.
type SearchOptions struct {
	Options
	// IncludeEmpty also reports keys whose value is null. Key search only.
	IncludeEmpty bool
}

// SearchKey returns every mapping in the tree holding key.
//
// An exact hit does not look inside the matched value. Fuzzy search scores
// every string key against key instead.
func SearchKey(root any, key string, opts SearchOptions) []Hit {
	th := opts.Threshold
	var hits []Hit
	scan(root, func(o *jsonvalue.Object, k string, v any) bool {
		if v == nil && !opts.IncludeEmpty {
			return false
		}
		if !opts.Fuzzy {
			if k == key {
				hits = append(hits, Hit{Object: o, Key: k, Score: 1})
				return true
			}
			return false
		}
		if score := Ratio(k, key); score >= th {
			hits = append(hits, Hit{Object: o, Key: k, Score: score})
			return true
		}
		return false
	})
	return hits
}

// SearchValue returns every mapping in the tree holding key with a value
// equal to value. Fuzzy search scores string values of key against value,
// which must then be a string.
func SearchValue(root any, key string, value any, opts SearchOptions) []Hit {
	th := opts.Threshold
	target, isString := value.(string)
	var hits []Hit
	scan(root, func(o *jsonvalue.Object, k string, v any) bool {
		if k != key {
			return false
		}
		if !opts.Fuzzy {
			if jsonvalue.Equal(v, value) {
				hits = append(hits, Hit{Object: o, Key: k, Score: 1})
				return true
			}
			return false
		}
		if s, ok := v.(string); ok && isString {
			if score := Ratio(s, target); score >= th {
				hits = append(hits, Hit{Object: o, Key: k, Score: score})
			}
		}
		return true
	})
	return hits
}

// scan calls fn for every mapping member in the tree. When fn returns true
// the member's value is not descended into.
func scan(node any, fn func(o *jsonvalue.Object, k string, v any) bool) {
	switch x := node.(type) {
	case *jsonvalue.Object:
		if x == nil {
			return
		}
		for pair := x.Oldest(); pair != nil; pair = pair.Next() {
			if fn(x, pair.Key, pair.Value) {
				continue
			}
			scan(pair.Value, fn)
		}
	case []any:
		for _, item := range x {
			scan(item, fn)
		}
	}
}
