package jsondb

import (
	dberrors "github.com/maruel/jsondb/internal/errors"
	"github.com/maruel/jsondb/internal/jsonpath"
	"github.com/maruel/jsondb/internal/jsonvalue"
)

// GetValueByPath returns the node at p. The empty path is the whole store.
func (d *Database) GetValueByPath(p jsonpath.Path) (any, error) {
	return jsonpath.Resolve(d.store.root, p)
}

// GetObjectByPath returns the container holding the last segment of p, so
// the caller can mutate that node in place. It returns nil for the empty
// path.
func (d *Database) GetObjectByPath(p jsonpath.Path) (any, error) {
	if len(p) == 0 {
		return nil, nil
	}
	return jsonpath.Resolve(d.store.root, p.Parent())
}

// UpdateValueByPath stores value at p. The parent of p must exist; a missing
// final key is created, a final index must be in range.
func (d *Database) UpdateValueByPath(p jsonpath.Path, value any) error {
	if len(p) == 0 {
		return dberrors.Value("can't replace the store root")
	}
	v, err := jsonvalue.Normalize(value)
	if err != nil {
		return err
	}
	parent, err := d.GetObjectByPath(p)
	if err != nil {
		return err
	}
	last := p.Last()
	switch x := parent.(type) {
	case *jsonvalue.Object:
		if k, ok := last.(string); ok {
			x.Set(k, v)
			return nil
		}
	case []any:
		if i, ok := last.(int); ok && i >= 0 && i < len(x) {
			x[i] = v
			return nil
		}
	}
	return dberrors.Path(p, jsonpath.Format(last)).WithDetail("container", jsonvalue.KindOf(parent).String())
}
