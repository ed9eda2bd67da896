// Encodes canonical values back to JSON text.

package jsonvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// FileIndent is the indentation used for the backing file.
const FileIndent = "    "

// Marshal encodes a canonical value. An empty indent produces compact output.
//
// Object keys are written in insertion order. HTML characters and non-ASCII
// text are written literally rather than escaped.
func Marshal(v any, indent string) ([]byte, error) {
	e := newEncoder()
	if err := e.value(v); err != nil {
		return nil, err
	}
	if indent == "" {
		return e.buf.Bytes(), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, e.buf.Bytes(), "", indent); err != nil {
		return nil, fmt.Errorf("failed to indent JSON: %w", err)
	}
	return out.Bytes(), nil
}

// Encode writes v to w, see Marshal.
func Encode(w io.Writer, v any, indent string) error {
	data, err := Marshal(v, indent)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Compact returns the one-line JSON form of v, or a placeholder when v is not
// canonical. It is meant for logs and String methods.
func Compact(v any) string {
	data, err := Marshal(v, "")
	if err != nil {
		return fmt.Sprintf("!(%v)", err)
	}
	return string(data)
}

type encoder struct {
	buf bytes.Buffer
	str bytes.Buffer
	enc *json.Encoder
}

func newEncoder() *encoder {
	e := &encoder{}
	e.enc = json.NewEncoder(&e.str)
	e.enc.SetEscapeHTML(false)
	return e
}

func (e *encoder) value(v any) error {
	switch x := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case bool:
		if x {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
	case json.Number:
		if !isNumber(x) {
			return fmt.Errorf("invalid number literal %q", string(x))
		}
		e.buf.WriteString(string(x))
	case string:
		return e.string(x)
	case []any:
		e.buf.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			if err := e.value(item); err != nil {
				return err
			}
		}
		e.buf.WriteByte(']')
	case *Object:
		if x == nil {
			e.buf.WriteString("null")
			return nil
		}
		e.buf.WriteByte('{')
		for pair := x.Oldest(); pair != nil; pair = pair.Next() {
			if pair != x.Oldest() {
				e.buf.WriteByte(',')
			}
			if err := e.string(pair.Key); err != nil {
				return err
			}
			e.buf.WriteByte(':')
			if err := e.value(pair.Value); err != nil {
				return err
			}
		}
		e.buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode %T: not a canonical JSON value", v)
	}
	return nil
}

func (e *encoder) string(s string) error {
	e.str.Reset()
	if err := e.enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates each value with a newline.
	e.buf.Write(literalSeparators(bytes.TrimSuffix(e.str.Bytes(), []byte{'\n'})))
	return nil
}

// literalSeparators turns the \u2028 and \u2029 escapes encoding/json always
// emits back into the raw runes. Escaped backslashes are skipped over so a
// literal "\\u2028" is left alone.
func literalSeparators(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u202`)) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 == len(b) {
			out = append(out, b[i])
			continue
		}
		if rest := b[i+1:]; len(rest) >= 5 && rest[0] == 'u' && string(rest[1:4]) == "202" && (rest[4] == '8' || rest[4] == '9') {
			if rest[4] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			continue
		}
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}

// isNumber reports whether n is a valid JSON number literal.
func isNumber(n json.Number) bool {
	if n == "" {
		return false
	}
	c := n[0]
	if c != '-' && (c < '0' || c > '9') {
		return false
	}
	return json.Valid([]byte(n))
}
