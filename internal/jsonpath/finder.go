package jsonpath

import (
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"strconv"

	dberrors "github.com/maruel/jsondb/internal/errors"
	"github.com/maruel/jsondb/internal/jsonvalue"
)

// Mode selects what a Finder compares against the target.
type Mode int

const (
	// ModeKey compares mapping keys and array indices.
	ModeKey Mode = iota
	// ModeValue compares node values.
	ModeValue
	// ModeKeyValue compares {key: value} pairs against a single-pair target.
	ModeKeyValue
)

func (m Mode) String() string {
	switch m {
	case ModeKey:
		return "key"
	case ModeValue:
		return "value"
	case ModeKeyValue:
		return "key_value"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "key", "value" or "key_value".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "key":
		return ModeKey, nil
	case "value":
		return ModeValue, nil
	case "key_value", "kv":
		return ModeKeyValue, nil
	default:
		return 0, dberrors.Mode(fmt.Sprintf("invalid mode %q, should be one of key, value, key_value", s))
	}
}

// Options configures fuzzy matching.
type Options struct {
	// Fuzzy enables string similarity matching.
	Fuzzy bool
	// Threshold is the minimum Ratio for a fuzzy match, in [0, 1]. It is
	// used as is: 0 accepts any string.
	Threshold float64
}

// DefaultOptions returns exact matching with Threshold set to
// DefaultThreshold, ready to flip Fuzzy on.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold}
}

// Finder searches a tree for nodes matching a target.
type Finder struct {
	root      any
	mode      Mode
	fuzzy     bool
	threshold float64
}

// New returns a Finder over root. The tree is read, never modified.
func New(root any, mode Mode, opts Options) *Finder {
	return &Finder{
		root:      root,
		mode:      mode,
		fuzzy:     opts.Fuzzy,
		threshold: opts.Threshold,
	}
}

// Walk returns an iterator over the paths of every node matching target.
//
// The mode and target are validated before anything is visited: key_value
// needs a single-pair mapping target, and fuzzy matching needs a string to
// compare against.
func (f *Finder) Walk(target any) (iter.Seq[Path], error) {
	m, err := f.matcher(target)
	if err != nil {
		return nil, err
	}
	return func(yield func(Path) bool) {
		walk(f.root, nil, m, yield)
	}, nil
}

// FindAll returns the paths of every matching node in document order.
func (f *Finder) FindAll(target any) ([]Path, error) {
	seq, err := f.Walk(target)
	if err != nil {
		return nil, err
	}
	paths := slices.Collect(seq)
	if paths == nil {
		paths = []Path{}
	}
	return paths, nil
}

// FindOne returns the first matching path, or an empty path.
func (f *Finder) FindOne(target any) (Path, error) {
	seq, err := f.Walk(target)
	if err != nil {
		return nil, err
	}
	for p := range seq {
		return p, nil
	}
	return Path{}, nil
}

// matchFunc reports whether the pair (key, value) is a hit. key is a string
// for mapping members and an int for array elements.
type matchFunc func(key, value any) bool

func (f *Finder) matcher(target any) (matchFunc, error) {
	switch f.mode {
	case ModeKey:
		if !f.fuzzy {
			return func(key, _ any) bool {
				return jsonvalue.Equal(keyValue(key), target)
			}, nil
		}
		t, ok := target.(string)
		if !ok {
			return nil, dberrors.Mode(fmt.Sprintf("fuzzy key search needs a string target, got %s", jsonvalue.KindOf(target)))
		}
		return func(key, _ any) bool {
			k, ok := key.(string)
			return ok && Ratio(k, t) >= f.threshold
		}, nil
	case ModeValue:
		if !f.fuzzy {
			return func(_, value any) bool {
				return jsonvalue.Equal(value, target)
			}, nil
		}
		t, ok := target.(string)
		if !ok {
			return nil, dberrors.Mode(fmt.Sprintf("fuzzy value search needs a string target, got %s", jsonvalue.KindOf(target)))
		}
		return func(_, value any) bool {
			v, ok := value.(string)
			return ok && Ratio(v, t) >= f.threshold
		}, nil
	case ModeKeyValue:
		o, ok := target.(*jsonvalue.Object)
		if !ok || o == nil || o.Len() != 1 {
			return nil, dberrors.Mode("the target should be a single-pair mapping when mode is key_value")
		}
		tk, tv := o.Oldest().Key, o.Oldest().Value
		if !f.fuzzy {
			return func(key, value any) bool {
				k, ok := key.(string)
				return ok && k == tk && jsonvalue.Equal(value, tv)
			}, nil
		}
		ts, ok := tv.(string)
		if !ok {
			return nil, dberrors.Mode(fmt.Sprintf("fuzzy key_value search needs a string value, got %s", jsonvalue.KindOf(tv)))
		}
		return func(key, value any) bool {
			k, ok := key.(string)
			if !ok || k != tk {
				return false
			}
			v, ok := value.(string)
			return ok && Ratio(v, ts) >= f.threshold
		}, nil
	default:
		return nil, dberrors.Mode(fmt.Sprintf("invalid mode %s, should be one of key, value, key_value", f.mode))
	}
}

// keyValue turns an array index into a number so it compares with numeric
// targets.
func keyValue(key any) any {
	if i, ok := key.(int); ok {
		return json.Number(strconv.Itoa(i))
	}
	return key
}

// walk visits the children of node. It returns false once yield asked to stop.
func walk(node any, parent Path, m matchFunc, yield func(Path) bool) bool {
	switch x := node.(type) {
	case *jsonvalue.Object:
		if x == nil {
			return true
		}
		for pair := x.Oldest(); pair != nil; pair = pair.Next() {
			if !visit(pair.Key, pair.Value, parent, m, yield) {
				return false
			}
		}
	case []any:
		for i, item := range x {
			if !visit(i, item, parent, m, yield) {
				return false
			}
		}
	}
	return true
}

func visit(key, value any, parent Path, m matchFunc, yield func(Path) bool) bool {
	p := make(Path, len(parent)+1)
	copy(p, parent)
	p[len(parent)] = key
	if m(key, value) && !yield(p) {
		return false
	}
	return walk(value, p, m, yield)
}
