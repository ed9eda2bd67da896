package jsondb

import (
	"fmt"

	dberrors "github.com/maruel/jsondb/internal/errors"
	"github.com/maruel/jsondb/internal/jsonpath"
	"github.com/maruel/jsondb/internal/jsonvalue"
)

// SearchByKey returns the mappings anywhere in the store holding key.
func (d *Database) SearchByKey(key string, opts jsonpath.SearchOptions) []jsonpath.Hit {
	return jsonpath.SearchKey(d.store.root, key, opts)
}

// SearchByValue returns the mappings anywhere in the store holding key with
// the given value. Fuzzy search needs a string value.
func (d *Database) SearchByValue(key string, value any, opts jsonpath.SearchOptions) ([]jsonpath.Hit, error) {
	v, err := jsonvalue.Normalize(value)
	if err != nil {
		return nil, err
	}
	if _, ok := v.(string); opts.Fuzzy && !ok {
		return nil, dberrors.Mode(fmt.Sprintf("fuzzy value search needs a string value, got %s", jsonvalue.KindOf(v)))
	}
		return jsonpath.SearchValue(d.store.root, key, v, opts), nil
}

// GetPathByKey returns the paths of every member named key. An integer key
// matches list indices.
func (d *Database) GetPathByKey(key any, opts jsonpath.Options) ([]jsonpath.Path, error) {
	k, err := jsonvalue.Normalize(key)
	if err != nil {
		return nil, err
	}
	return jsonpath.New(d.store.root, jsonpath.ModeKey, opts).FindAll(k)
}

// GetPathByValue returns the paths of every node equal to value.
func (d *Database) GetPathByValue(value any, opts jsonpath.Options) ([]jsonpath.Path, error) {
	v, err := jsonvalue.Normalize(value)
	if err != nil {
		return nil, err
	}
	return jsonpath.New(d.store.root, jsonpath.ModeValue, opts).FindAll(v)
}

// GetPathByKeyValue returns the paths of every member named key holding
// value.
func (d *Database) GetPathByKeyValue(key string, value any, opts jsonpath.Options) ([]jsonpath.Path, error) {
	v, err := jsonvalue.Normalize(value)
	if err != nil {
		return nil, err
	}
	target := jsonvalue.NewObject()
	target.Set(key, v)
	return jsonpath.New(d.store.root, jsonpath.ModeKeyValue, opts).FindAll(target)
}
