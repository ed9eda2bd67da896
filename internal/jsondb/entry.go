package jsondb

import (
	"fmt"
	"strconv"

	dberrors "github.com/maruel/jsondb/internal/errors"
	"github.com/maruel/jsondb/internal/jsonpath"
	"github.com/maruel/jsondb/internal/jsonvalue"
	"github.com/maruel/jsondb/internal/match"
)

// EntryMatch is an entry found by MatchEntry.
type EntryMatch struct {
	Entry any
	ID    int
}

// EntryID is the result of an ID lookup: zero, one or several positions.
type EntryID []int

// Found reports whether at least one entry matched.
func (e EntryID) Found() bool {
	return len(e) != 0
}

// Int returns the first ID, or -1 when nothing matched.
func (e EntryID) Int() int {
	if len(e) == 0 {
		return -1
	}
	return e[0]
}

// Value collapses the result: -1 when nothing matched, the ID for a single
// match, the list of IDs otherwise.
func (e EntryID) Value() any {
	switch len(e) {
	case 0:
		return -1
	case 1:
		return e[0]
	default:
		return []int(e)
	}
}

func (e EntryID) String() string {
	return fmt.Sprint(e.Value())
}

func (d *Database) checkID(list []any, id int) error {
	if id < 0 || id >= len(list) {
		return dberrors.EntryID(d.table, id)
	}
	return nil
}

// Get returns an entry by reference: an int ID, a string holding an int ID,
// or an entry value matched strictly, which must match exactly one entry.
func (d *Database) Get(ref any) (any, error) {
	id, err := d.resolveRef(ref)
	if err != nil {
		return nil, err
	}
	return d.GetEntryByID(id)
}

func (d *Database) resolveRef(ref any) (int, error) {
	if id, ok := ref.(int); ok {
		return id, nil
	}
	if s, ok := ref.(string); ok {
		if id, err := strconv.Atoi(s); err == nil {
			return id, nil
		}
	}
	ids, err := d.GetEntryID(ref, true)
	if err != nil {
		return 0, err
	}
	if len(ids) != 1 {
		return 0, dberrors.EntryID(d.table, describe(ref))
	}
	return ids[0], nil
}

// Set replaces the entry at id.
func (d *Database) Set(id int, value any) error {
	return d.UpdateEntry(id, value, true)
}

// Contains reports whether an entry equal to entry exists.
func (d *Database) Contains(entry any) bool {
	v, err := jsonvalue.Normalize(entry)
	if err != nil {
		return false
	}
	list, _ := d.entries()
	return jsonvalue.Contains(list, v)
}

// AddEntry appends entry to the current table.
//
// Unless allowDuplicates is set, an entry strictly equal to an existing one
// is not added and the existing ID is returned instead. After an append the
// new table length is returned, which is the new entry's ID plus one.
func (d *Database) AddEntry(entry any, allowDuplicates bool) (int, error) {
	v, err := jsonvalue.Normalize(entry)
	if err != nil {
		return 0, err
	}
	list, err := d.entries()
	if err != nil {
		return 0, err
	}
	if !allowDuplicates {
		for i, e := range list {
			if match.Strict(e, v) {
				return i, nil
			}
		}
	}
	list = append(list, v)
	d.setEntries(list)
	return len(list), nil
}

// MatchEntry returns the entries equal to entry when strictly is set, or
// holding all of entry's pairs otherwise, in table order.
func (d *Database) MatchEntry(entry any, strictly bool) ([]EntryMatch, error) {
	query, err := jsonvalue.Normalize(entry)
	if err != nil {
		return nil, err
	}
	list, err := d.entries()
	if err != nil {
		return nil, err
	}
	var matches []EntryMatch
	for i, e := range list {
		if match.Entry(query, e, strictly) {
			matches = append(matches, EntryMatch{Entry: e, ID: i})
		}
	}
	return matches, nil
}

// GetEntryID returns the IDs of the entries matching entry.
func (d *Database) GetEntryID(entry any, strictly bool) (EntryID, error) {
	matches, err := d.MatchEntry(entry, strictly)
	if err != nil {
		return nil, err
	}
	ids := make(EntryID, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	return ids, nil
}

// GetEntryIDByKeyValue returns the IDs of the entries matching {key: value}.
func (d *Database) GetEntryIDByKeyValue(key string, value any, strictly bool) (EntryID, error) {
	v, err := jsonvalue.Normalize(value)
	if err != nil {
		return nil, err
	}
	query := jsonvalue.NewObject()
	query.Set(key, v)
	return d.GetEntryID(query, strictly)
}

// MergeEntry merges entry into the first entry it matches and returns that
// entry's ID. It fails with MatchError when nothing matches.
func (d *Database) MergeEntry(entry any, strictly bool, opts match.MergeOptions) (int, error) {
	matches, err := d.MatchEntry(entry, strictly)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, dberrors.NoMatch(d.table)
	}
	id := matches[0].ID
	return id, d.MergeEntryByID(id, entry, opts)
}

// MergeEntryByID merges entry into the entry at id. Both must be mappings.
func (d *Database) MergeEntryByID(id int, entry any, opts match.MergeOptions) error {
	target, err := d.entryObject(id)
	if err != nil {
		return err
	}
	src, err := normalizeObject(entry)
	if err != nil {
		return err
	}
	match.Merge(target, src, opts)
	return nil
}

// GetEntryByID returns the entry at id.
func (d *Database) GetEntryByID(id int) (any, error) {
	list, err := d.entries()
	if err != nil {
		return nil, err
	}
	if err := d.checkID(list, id); err != nil {
		return nil, err
	}
	return list[id], nil
}

// GetEntryPathByID returns the path of the entry at id.
func (d *Database) GetEntryPathByID(id int) jsonpath.Path {
	return jsonpath.Path{d.table, id}
}

// UpdateEntry replaces the entry at id with value. With overwrite unset the
// pairs of value are copied into the existing entry instead; both must then
// be mappings.
func (d *Database) UpdateEntry(id int, value any, overwrite bool) error {
	list, err := d.entries()
	if err != nil {
		return err
	}
	if err := d.checkID(list, id); err != nil {
		return err
	}
	v, err := jsonvalue.Normalize(value)
	if err != nil {
		return err
	}
	if overwrite {
		list[id] = v
		return nil
	}
	return update(list[id], v)
}

// RemoveEntry removes the entry at id and returns it. Later entries shift
// down by one.
func (d *Database) RemoveEntry(id int) (any, error) {
	list, err := d.entries()
	if err != nil {
		return nil, err
	}
	if err := d.checkID(list, id); err != nil {
		return nil, err
	}
	removed := list[id]
	d.setEntries(append(list[:id], list[id+1:]...))
	return removed, nil
}

// entryObject returns the entry at id, which must be a mapping.
func (d *Database) entryObject(id int) (*jsonvalue.Object, error) {
	e, err := d.GetEntryByID(id)
	if err != nil {
		return nil, err
	}
	o, ok := e.(*jsonvalue.Object)
	if !ok {
		return nil, dberrors.Value(fmt.Sprintf("entry %d of table %q is %s, not an object", id, d.table, jsonvalue.KindOf(e)))
	}
	return o, nil
}

// update copies the pairs of src into dst. Both must be mappings.
func update(dst, src any) error {
	s, ok := src.(*jsonvalue.Object)
	if !ok {
		return dberrors.Overwrite(jsonvalue.KindOf(src).String())
	}
	t, ok := dst.(*jsonvalue.Object)
	if !ok {
		return dberrors.Overwrite(jsonvalue.KindOf(dst).String())
	}
	jsonvalue.Update(t, s)
	return nil
}

func normalizeObject(v any) (*jsonvalue.Object, error) {
	n, err := jsonvalue.Normalize(v)
	if err != nil {
		return nil, err
	}
	o, ok := n.(*jsonvalue.Object)
	if !ok {
		return nil, dberrors.Value(fmt.Sprintf("expected an object, got %s", jsonvalue.KindOf(n)))
	}
	return o, nil
}

// describe renders a caller value for error messages.
func describe(v any) string {
	n, err := jsonvalue.Normalize(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return jsonvalue.Compact(n)
}
