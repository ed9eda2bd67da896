// Decodes JSON text into canonical values without losing key order.

package jsonvalue

import (
	"encoding/json"
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/tailscale/hujson"
)

// Parse decodes a single JSON document.
//
// Objects keep their key order and numbers keep their literal text, so
// encoding the result again reproduces the document modulo whitespace.
func Parse(data []byte) (any, error) {
	// jsonparser is permissive; reject malformed input up front.
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	value, dataType, _, err := jsonparser.Get(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return decode(value, dataType)
}

// ParseCommented is like Parse but also accepts // and /* */ comments and
// trailing commas. They are dropped; encoding the result gives plain JSON.
func ParseCommented(data []byte) (any, error) {
	// A trailing // comment must end with a newline.
	if len(data) != 0 && data[len(data)-1] != '\n' {
		data = append(data[:len(data):len(data)], '\n')
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return Parse(std)
}

// MustParse is like Parse but panics on malformed input. It is meant for
// literals in code and tests.
func MustParse(s string) any {
	v, err := Parse([]byte(s))
	if err != nil {
		panic(err)
	}
	return v
}

func decode(value []byte, dataType jsonparser.ValueType) (any, error) {
	switch dataType {
	case jsonparser.Null:
		return nil, nil
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(value)
	case jsonparser.Number:
		return json.Number(string(value)), nil
	case jsonparser.String:
		str, err := jsonparser.ParseString(value)
		if err != nil {
			// jsonparser rejects lone surrogate escapes; encoding/json turns
			// them into U+FFFD.
			quoted := make([]byte, 0, len(value)+2)
			quoted = append(append(append(quoted, '"'), value...), '"')
			if err := json.Unmarshal(quoted, &str); err != nil {
				return nil, fmt.Errorf("failed to decode string: %w", err)
			}
		}
		return str, nil
	case jsonparser.Array:
		return decodeArray(value)
	case jsonparser.Object:
		return decodeObject(value)
	default:
		return nil, fmt.Errorf("unexpected JSON value %q", value)
	}
}

func decodeArray(value []byte) ([]any, error) {
	items := make([]any, 0)
	var inner error
	_, err := jsonparser.ArrayEach(value, func(v []byte, dataType jsonparser.ValueType, _ int, err error) {
		if inner != nil {
			return
		}
		if err != nil {
			inner = err
			return
		}
		item, err := decode(v, dataType)
		if err != nil {
			inner = err
			return
		}
		items = append(items, item)
	})
	if inner != nil {
		return nil, inner
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode array: %w", err)
	}
	return items, nil
}

func decodeObject(value []byte) (*Object, error) {
	obj := NewObject()
	err := jsonparser.ObjectEach(value, func(key, v []byte, dataType jsonparser.ValueType, _ int) error {
		item, err := decode(v, dataType)
		if err != nil {
			return err
		}
		// Keys arrive unescaped; string() copies out of the parser's buffer.
		obj.Set(string(key), item)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode object: %w", err)
	}
	return obj, nil
}
