package jsonvalue

import (
	"encoding/json"
	"math/big"
	"reflect"
)

// Equal reports whether a and b are structurally equal.
//
// Numbers compare by value, so 12 equals 12.0. Mappings compare as sets of
// pairs; key order does not matter.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case json.Number:
		y, ok := b.(json.Number)
		return ok && numberEqual(x, y)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Object:
		y, ok := b.(*Object)
		if !ok {
			return false
		}
		if x == nil || y == nil {
			return x == y
		}
		if x.Len() != y.Len() {
			return false
		}
		for pair := x.Oldest(); pair != nil; pair = pair.Next() {
			v, ok := y.Get(pair.Key)
			if !ok || !Equal(pair.Value, v) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

func numberEqual(x, y json.Number) bool {
	if x == y {
		return true
	}
	a, ok := new(big.Rat).SetString(string(x))
	if !ok {
		return false
	}
	b, ok := new(big.Rat).SetString(string(y))
	if !ok {
		return false
	}
	return a.Cmp(b) == 0
}

// Truthy reports whether v would count as a non-empty value: null, false,
// zero, "" and empty containers are falsy.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case json.Number:
		r, ok := new(big.Rat).SetString(string(x))
		return ok && r.Sign() != 0
	case string:
		return x != ""
	case []any:
		return len(x) != 0
	case *Object:
		return x != nil && x.Len() != 0
	default:
		return v != nil
	}
}

// Contains reports whether list holds an element equal to v.
func Contains(list []any, v any) bool {
	for _, item := range list {
		if Equal(item, v) {
			return true
		}
	}
	return false
}
