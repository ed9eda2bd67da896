// Package jsonvalue is the JSON value model shared by the store, the matcher
// and the path search engine.
//
// # Representation
//
// A value is one of the following dynamic types, referred to as canonical:
//
//	nil          null
//	bool         true / false
//	json.Number  number, kept as its literal text
//	string       string
//	[]any        array of canonical values
//	*Object      mapping of string to canonical value, insertion ordered
//
// Values coming from callers (Go ints, maps, structs...) are converted with
// [Normalize] before they enter a tree. Functions in this package assume
// canonical input unless documented otherwise.
package jsonvalue

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a JSON mapping that preserves key insertion order.
type Object = orderedmap.OrderedMap[string, any]

// NewObject returns an empty Object.
func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// Kind is the JSON type of a canonical value.
type Kind int

const (
	Invalid Kind = iota
	Null
	Bool
	Number
	String
	Array
	Mapping
)

var kindNames = [...]string{
	Invalid: "invalid",
	Null:    "null",
	Bool:    "boolean",
	Number:  "number",
	String:  "string",
	Array:   "array",
	Mapping: "object",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// KindOf returns the JSON type of v, or Invalid if v is not canonical.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return Null
	case bool:
		return Bool
	case json.Number:
		return Number
	case string:
		return String
	case []any:
		return Array
	case *Object:
		return Mapping
	default:
		return Invalid
	}
}

// Keys returns the keys of o in insertion order.
func Keys(o *Object) []string {
	keys := make([]string, 0, o.Len())
	for pair := o.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Update copies every pair of src into dst, like a shallow dict update.
func Update(dst, src *Object) {
	for pair := src.Oldest(); pair != nil; pair = pair.Next() {
		dst.Set(pair.Key, pair.Value)
	}
}

// ObjectOf builds an Object from alternating keys and values. Values are
// passed through Normalize. It panics on an odd argument count, a non-string
// key or a value Normalize rejects, so it is meant for literals.
func ObjectOf(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("jsonvalue.ObjectOf: odd argument count")
	}
	o := NewObject()
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("jsonvalue.ObjectOf: key %v is not a string", kv[i]))
		}
		v, err := Normalize(kv[i+1])
		if err != nil {
			panic(fmt.Sprintf("jsonvalue.ObjectOf: %q: %v", k, err))
		}
		o.Set(k, v)
	}
	return o
}
