package jsondb

import (
	"fmt"

	dberrors "github.com/maruel/jsondb/internal/errors"
	"github.com/maruel/jsondb/internal/jsonpath"
	"github.com/maruel/jsondb/internal/jsonvalue"
)

// Child methods take a child name; "" means the database default.

func (d *Database) child(name string) string {
	if name == "" {
		return d.childName
	}
	return name
}

// GetChildOfEntry returns the child of the entry at id.
func (d *Database) GetChildOfEntry(id int, name string) (any, error) {
	e, err := d.entryObject(id)
	if err != nil {
		return nil, err
	}
	return getChild(e, d.child(name))
}

// AddChildToEntry sets the child of the entry at id, replacing any existing
// one.
func (d *Database) AddChildToEntry(id int, data any, name string) error {
	e, err := d.entryObject(id)
	if err != nil {
		return err
	}
	return setChild(e, d.child(name), data)
}

// UpdateChildOfEntry replaces the child of the entry at id, or with
// overwrite unset copies the pairs of data into the existing child.
func (d *Database) UpdateChildOfEntry(id int, data any, overwrite bool, name string) error {
	e, err := d.entryObject(id)
	if err != nil {
		return err
	}
	return updateChild(e, d.child(name), data, overwrite)
}

// DeleteChildOfEntry removes the child of the entry at id.
func (d *Database) DeleteChildOfEntry(id int, name string) error {
	e, err := d.entryObject(id)
	if err != nil {
		return err
	}
	return deleteChild(e, d.child(name))
}

// GetChildPathOfEntry returns the path of the child of the entry at id.
func (d *Database) GetChildPathOfEntry(id int, name string) jsonpath.Path {
	return jsonpath.Path{d.table, id, d.child(name)}
}

// The path variants operate on the mapping holding the last segment of the
// path, as returned by GetObjectByPath, so a path found by key search
// addresses the children of the node holding that key.

// GetChildOfPath returns the child of the node holding the last segment of p.
func (d *Database) GetChildOfPath(p jsonpath.Path, name string) (any, error) {
	o, err := d.pathObject(p)
	if err != nil {
		return nil, err
	}
	return getChild(o, d.child(name))
}

// AddChildToPath sets the child of the node holding the last segment of p.
func (d *Database) AddChildToPath(p jsonpath.Path, data any, name string) error {
	o, err := d.pathObject(p)
	if err != nil {
		return err
	}
	return setChild(o, d.child(name), data)
}

// UpdateChildOfPath replaces or updates the child of the node holding the
// last segment of p, like UpdateChildOfEntry.
func (d *Database) UpdateChildOfPath(p jsonpath.Path, data any, overwrite bool, name string) error {
	o, err := d.pathObject(p)
	if err != nil {
		return err
	}
	return updateChild(o, d.child(name), data, overwrite)
}

// DeleteChildOfPath removes the child of the node holding the last segment
// of p.
func (d *Database) DeleteChildOfPath(p jsonpath.Path, name string) error {
	o, err := d.pathObject(p)
	if err != nil {
		return err
	}
	return deleteChild(o, d.child(name))
}

func (d *Database) pathObject(p jsonpath.Path) (*jsonvalue.Object, error) {
	if len(p) == 0 {
		return nil, dberrors.Value("child operations need a non-empty path")
	}
	v, err := d.GetObjectByPath(p)
	if err != nil {
		return nil, err
	}
	o, ok := v.(*jsonvalue.Object)
	if !ok {
		return nil, dberrors.Value(fmt.Sprintf("node at %s is %s, not an object", p.Parent(), jsonvalue.KindOf(v)))
	}
	return o, nil
}

func getChild(o *jsonvalue.Object, name string) (any, error) {
	v, ok := o.Get(name)
	if !ok {
		return nil, dberrors.Child(name)
	}
	return v, nil
}

func setChild(o *jsonvalue.Object, name string, data any) error {
	v, err := jsonvalue.Normalize(data)
	if err != nil {
		return err
	}
	o.Set(name, v)
	return nil
}

func updateChild(o *jsonvalue.Object, name string, data any, overwrite bool) error {
	if overwrite {
		return setChild(o, name, data)
	}
	v, err := jsonvalue.Normalize(data)
	if err != nil {
		return err
	}
	if _, ok := v.(*jsonvalue.Object); !ok {
		return dberrors.Overwrite(jsonvalue.KindOf(v).String())
	}
	cur, err := getChild(o, name)
	if err != nil {
		return err
	}
	return update(cur, v)
}

func deleteChild(o *jsonvalue.Object, name string) error {
	if _, ok := o.Delete(name); !ok {
		return dberrors.Child(name)
	}
	return nil
}
