// Package match implements entry matching and recursive merging over
// canonical JSON values.
//
// All functions are pure except Merge, which mutates its target in place.
package match

import (
	"github.com/maruel/jsondb/internal/jsonvalue"
)

// Strict reports whether a and b are deeply equal.
func Strict(a, b any) bool {
	return jsonvalue.Equal(a, b)
}

// Subset reports whether every key-value pair of needle is present and
// equal in haystack.
//
// Both must be mappings; anything else never matches. Values are compared
// with deep equality, so nested arrays and mappings inside needle are
// supported. An empty needle matches every mapping.
func Subset(needle, haystack any) bool {
	n, ok := needle.(*jsonvalue.Object)
	if !ok || n == nil {
		return false
	}
	h, ok := haystack.(*jsonvalue.Object)
	if !ok || h == nil {
		return false
	}
	for pair := n.Oldest(); pair != nil; pair = pair.Next() {
		v, ok := h.Get(pair.Key)
		if !ok || !jsonvalue.Equal(pair.Value, v) {
			return false
		}
	}
	return true
}

// Entry matches an entry against a query with either Strict or Subset.
func Entry(query, entry any, strictly bool) bool {
	if strictly {
		return Strict(entry, query)
	}
	return Subset(query, entry)
}

// MergeOptions toggles the merge policies. The zero value replaces lists,
// writes empty values, allows duplicates and overwrites existing keys.
type MergeOptions struct {
	// MergeLists concatenates lists found at the same key instead of replacing.
	MergeLists bool `json:"merge_lists,omitempty"`
	// SkipEmpty ignores source values that are null, false, 0, "" or empty.
	SkipEmpty bool `json:"skip_empty,omitempty"`
	// NoDupes omits source list elements already present in the target list.
	NoDupes bool `json:"no_dupes,omitempty"`
	// NewOnly only adds keys absent from the target.
	NewOnly bool `json:"new_only,omitempty"`
}

var (
	// EntryMergeDefaults is used when merging into a single entry.
	EntryMergeDefaults = MergeOptions{NoDupes: true}
	// StorageMergeDefaults is used when merging into a whole store.
	StorageMergeDefaults = MergeOptions{MergeLists: true, SkipEmpty: true, NoDupes: true}
)

// Merge recursively merges source into target and returns target.
//
// Mappings at the same key are merged recursively regardless of the other
// options. Source values are copied, never shared with target.
func Merge(target, source *jsonvalue.Object, opts MergeOptions) *jsonvalue.Object {
	for pair := source.Oldest(); pair != nil; pair = pair.Next() {
		k, sv := pair.Key, pair.Value
		tv, present := target.Get(k)
		if so, ok := sv.(*jsonvalue.Object); ok {
			if to, ok := tv.(*jsonvalue.Object); ok {
				Merge(to, so, opts)
				continue
			}
		}
		if opts.MergeLists {
			sl, sok := sv.([]any)
			tl, tok := tv.([]any)
			if sok && tok {
				for _, item := range sl {
					if opts.NoDupes && jsonvalue.Contains(tl, item) {
						continue
					}
					tl = append(tl, jsonvalue.Clone(item))
				}
				target.Set(k, tl)
				continue
			}
		}
		if opts.SkipEmpty && !jsonvalue.Truthy(sv) {
			continue
		}
		if opts.NewOnly && present {
			continue
		}
		target.Set(k, jsonvalue.Clone(sv))
	}
	return target
}
