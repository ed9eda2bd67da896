package jsonvalue

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"

	dberrors "github.com/maruel/jsondb/internal/errors"
)

// Normalize converts v into a freshly allocated canonical tree.
//
// Go integers and floats become json.Number, map[string]any keys are sorted
// since Go maps carry no order, and anything else the encoding/json package
// can marshal (structs, typed slices and maps) goes through a JSON round trip.
// The result never shares containers with v.
func Normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool, string:
		return x, nil
	case json.Number:
		if !isNumber(x) {
			return nil, dberrors.Value(fmt.Sprintf("invalid number literal %q", string(x)))
		}
		return x, nil
	case int:
		return json.Number(strconv.FormatInt(int64(x), 10)), nil
	case int8:
		return json.Number(strconv.FormatInt(int64(x), 10)), nil
	case int16:
		return json.Number(strconv.FormatInt(int64(x), 10)), nil
	case int32:
		return json.Number(strconv.FormatInt(int64(x), 10)), nil
	case int64:
		return json.Number(strconv.FormatInt(x, 10)), nil
	case uint:
		return json.Number(strconv.FormatUint(uint64(x), 10)), nil
	case uint8:
		return json.Number(strconv.FormatUint(uint64(x), 10)), nil
	case uint16:
		return json.Number(strconv.FormatUint(uint64(x), 10)), nil
	case uint32:
		return json.Number(strconv.FormatUint(uint64(x), 10)), nil
	case uint64:
		return json.Number(strconv.FormatUint(x, 10)), nil
	case float32:
		return float(float64(x))
	case float64:
		return float(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			n, err := Normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case *Object:
		if x == nil {
			return nil, nil
		}
		out := NewObject()
		for pair := x.Oldest(); pair != nil; pair = pair.Next() {
			n, err := Normalize(pair.Value)
			if err != nil {
				return nil, err
			}
			out.Set(pair.Key, n)
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		out := NewObject()
		for _, k := range keys {
			n, err := Normalize(x[k])
			if err != nil {
				return nil, err
			}
			out.Set(k, n)
		}
		return out, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, dberrors.Value(fmt.Sprintf("cannot represent %T as JSON", v)).Wrap(err)
		}
		return Parse(data)
	}
}

func float(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, dberrors.Value(fmt.Sprintf("%v is not a valid JSON number", f))
	}
	data, err := json.Marshal(f)
	if err != nil {
		return nil, dberrors.Value(fmt.Sprintf("%v is not a valid JSON number", f)).Wrap(err)
	}
	return json.Number(data), nil
}

// Clone returns a deep copy of a canonical value.
func Clone(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Clone(item)
		}
		return out
	case *Object:
		if x == nil {
			return x
		}
		out := NewObject()
		for pair := x.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, Clone(pair.Value))
		}
		return out
	default:
		return v
	}
}
