package jsondb

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"

	dberrors "github.com/maruel/jsondb/internal/errors"
	"github.com/maruel/jsondb/internal/jsonpath"
	"github.com/maruel/jsondb/internal/jsonvalue"
	"github.com/maruel/jsondb/internal/match"
	"github.com/maruel/jsondb/internal/xdg"
)

func openTest(t *testing.T, table string) *Database {
	t.Helper()
	dir := t.TempDir()
	d, err := Open(table, &Options{Path: filepath.Join(dir, "db.json"), LockDir: dir})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return d
}

// seed adds bob, jones and bobby to the current table.
func seed(t *testing.T, d *Database) {
	t.Helper()
	for _, e := range []string{
		`{"name":"bob","age":12}`,
		`{"name":"jones","age":12}`,
		`{"name":"bobby","children":{"name":"small","children":{"hahaha":"123"}}}`,
	} {
		if _, err := d.AddEntry(jsonvalue.MustParse(e), false); err != nil {
			t.Fatal(err)
		}
	}
}

func TestOpen(t *testing.T) {
	t.Run("path resolution", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_DATA_HOME", home)
		xdg.Reload()
		t.Cleanup(xdg.Reload)
		tests := []struct {
			name string
			opts Options
			want string
		}{
			{"explicit", Options{Path: "/a/b.db", BaseDir: xdg.Data}, "/a/b.db"},
			{"working directory", Options{}, "users.json"},
			{"extension", Options{Extension: "db"}, "users.db"},
			{"xdg", Options{BaseDir: xdg.Data}, filepath.Join(home, xdg.DefaultSubfolder, "users.jsondb")},
			{"xdg subfolder", Options{BaseDir: xdg.Data, Subfolder: "app", Extension: "json"}, filepath.Join(home, "app", "users.json")},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := resolvePath("users", &tt.opts)
				if err != nil {
					t.Fatal(err)
				}
				if got != tt.want {
					t.Errorf("resolvePath() = %q, want %q", got, tt.want)
				}
			})
		}
	})

	t.Run("creates the current table", func(t *testing.T) {
		d := openTest(t, "users")
		if d.Table() != "users" || d.Len() != 0 {
			t.Errorf("Table() = %q, Len() = %d", d.Table(), d.Len())
		}
		if d.ChildName() != DefaultChildName {
			t.Errorf("ChildName() = %q", d.ChildName())
		}
		if _, err := d.GetTables(); !errors.Is(err, dberrors.NotCommitted) {
			t.Errorf("GetTables() before save error = %v, want NotCommitted", err)
		}
	})

	t.Run("empty table name", func(t *testing.T) {
		if _, err := Open("", &Options{Path: filepath.Join(t.TempDir(), "x.json")}); !errors.Is(err, dberrors.InvalidValue) {
			t.Errorf("Open(\"\") error = %v, want InvalidValue", err)
		}
	})

	t.Run("close and reopen", func(t *testing.T) {
		dir := t.TempDir()
		opts := &Options{Path: filepath.Join(dir, "db.json"), LockDir: dir}
		d, err := Open("users", opts)
		if err != nil {
			t.Fatal(err)
		}
		seed(t, d)
		if err := d.Close(); err != nil {
			t.Fatal(err)
		}
		d2, err := Open("users", opts)
		if err != nil {
			t.Fatal(err)
		}
		if !jsonvalue.Equal(d.Storage().Root(), d2.Storage().Root()) {
			t.Errorf("reopened = %s, want %s", d2.Storage(), d.Storage())
		}
		if d2.String() != d.String() {
			t.Errorf("String() = %s, want %s", d2, d)
		}
	})

	t.Run("close failure", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		if err := os.WriteFile(blocker, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		d, err := Open("users", &Options{Path: filepath.Join(blocker, "db.json"), LockDir: dir})
		if err != nil {
			t.Fatal(err)
		}
		if err := d.Close(); !errors.Is(err, dberrors.SessionError) {
			t.Errorf("Close() error = %v, want SessionError", err)
		}
	})
}

func TestTables(t *testing.T) {
	d := openTest(t, "users")
	seed(t, d)

	if err := d.DeleteTable("users"); !errors.Is(err, dberrors.TableCanNotBeEmpty) {
		t.Fatalf("DeleteTable(last) error = %v, want TableCanNotBeEmpty", err)
	}
	if err := d.UseTable("pets"); !errors.Is(err, dberrors.TableNotFound) {
		t.Fatalf("UseTable(unknown) error = %v, want TableNotFound", err)
	}
	if err := d.DeleteTable("pets"); !errors.Is(err, dberrors.TableNotFound) {
		t.Fatalf("DeleteTable(unknown) error = %v, want TableNotFound", err)
	}

	if err := d.AddTable("pets"); err != nil {
		t.Fatal(err)
	}
	if d.Table() != "pets" || d.Len() != 0 {
		t.Errorf("after AddTable: Table() = %q, Len() = %d", d.Table(), d.Len())
	}
	tables, err := d.GetTables()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"users", "pets"}; !reflect.DeepEqual(tables, want) {
		t.Errorf("GetTables() = %v, want %v", tables, want)
	}

	t.Run("existing table is a no-op", func(t *testing.T) {
		if err := d.AddTable("users"); err != nil {
			t.Fatal(err)
		}
		if d.Table() != "pets" {
			t.Errorf("Table() = %q, want pets", d.Table())
		}
		if err := d.UseTable("users"); err != nil {
			t.Fatal(err)
		}
		if d.Len() != 3 {
			t.Errorf("users Len() = %d, want 3", d.Len())
		}
	})

	t.Run("delete current table", func(t *testing.T) {
		if err := d.DeleteTable("users"); err != nil {
			t.Fatal(err)
		}
		if d.Table() != "pets" {
			t.Errorf("Table() = %q, want pets", d.Table())
		}
		tables, err := d.GetTables()
		if err != nil {
			t.Fatal(err)
		}
		if slices.Contains(tables, "users") {
			t.Errorf("GetTables() = %v still lists users", tables)
		}
	})
}

func TestEntries(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		d := openTest(t, "users")
		bob := map[string]any{"name": "bob", "age": 12}
		n, err := d.AddEntry(bob, false)
		if err != nil {
			t.Fatal(err)
		}
		if n != 1 {
			t.Errorf("AddEntry() = %d, want the new length 1", n)
		}
		n, err = d.AddEntry(map[string]any{"name": "jones"}, false)
		if err != nil || n != 2 {
			t.Errorf("AddEntry() = %d, %v; want 2", n, err)
		}
		id, err := d.AddEntry(bob, false)
		if err != nil {
			t.Fatal(err)
		}
		if id != 0 || d.Len() != 2 {
			t.Errorf("AddEntry(duplicate) = %d with Len() %d; want 0 and 2", id, d.Len())
		}
		n, err = d.AddEntry(bob, true)
		if err != nil || n != 3 {
			t.Errorf("AddEntry(allow duplicates) = %d, %v; want 3", n, err)
		}
		if id, _ := d.AddEntry(bob, false); id != 0 {
			t.Errorf("AddEntry(duplicate) = %d, want the first id 0", id)
		}
		if _, err := d.AddEntry(func() {}, false); !errors.Is(err, dberrors.InvalidValue) {
			t.Errorf("AddEntry(func) error = %v, want InvalidValue", err)
		}
	})

	t.Run("ids", func(t *testing.T) {
		d := openTest(t, "users")
		seed(t, d)
		tests := []struct {
			name     string
			entry    any
			strictly bool
			want     any
		}{
			{"subset of two", map[string]any{"age": 12}, false, []int{0, 1}},
			{"subset of one", map[string]any{"name": "jones"}, false, 1},
			{"strict partial", map[string]any{"age": 12}, true, -1},
			{"strict", map[string]any{"name": "bob", "age": 12}, true, 0},
			{"nested subset", jsonvalue.MustParse(`{"children":{"name":"small","children":{"hahaha":"123"}}}`), false, 2},
			{"none", map[string]any{"age": 13}, false, -1},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := d.GetEntryID(tt.entry, tt.strictly)
				if err != nil {
					t.Fatal(err)
				}
				if !reflect.DeepEqual(got.Value(), tt.want) {
					t.Errorf("GetEntryID() = %v, want %v", got.Value(), tt.want)
				}
			})
		}
		ids, err := d.GetEntryIDByKeyValue("name", "bob", false)
		if err != nil {
			t.Fatal(err)
		}
		if ids.Int() != 0 || !ids.Found() {
			t.Errorf("GetEntryIDByKeyValue() = %v, want 0", ids)
		}
		ids, _ = d.GetEntryIDByKeyValue("age", 12, false)
		if ids.String() != "[0 1]" {
			t.Errorf("GetEntryIDByKeyValue(age) = %v, want [0 1]", ids)
		}
		matches, err := d.MatchEntry(map[string]any{"age": 12}, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(matches) != 2 || matches[1].ID != 1 || !jsonvalue.Equal(matches[1].Entry, jsonvalue.MustParse(`{"name":"jones","age":12}`)) {
			t.Errorf("MatchEntry() = %v", matches)
		}
	})

	t.Run("get", func(t *testing.T) {
		d := openTest(t, "users")
		seed(t, d)
		bob := jsonvalue.MustParse(`{"name":"bob","age":12}`)
		for _, ref := range []any{0, "0", bob} {
			got, err := d.Get(ref)
			if err != nil {
				t.Fatalf("Get(%v) error = %v", ref, err)
			}
			if !jsonvalue.Equal(got, bob) {
				t.Errorf("Get(%v) = %s", ref, jsonvalue.Compact(got))
			}
		}
		for _, ref := range []any{3, -1, "7", map[string]any{"name": "nobody"}, map[string]any{"age": 12}} {
			if _, err := d.Get(ref); !errors.Is(err, dberrors.InvalidEntryID) {
				t.Errorf("Get(%v) error = %v, want InvalidEntryID", ref, err)
			}
		}
		if err := d.Set(5, "x"); !errors.Is(err, dberrors.InvalidEntryID) {
			t.Errorf("Set(5) error = %v, want InvalidEntryID", err)
		}
		if err := d.Set(1, map[string]any{"name": "smith"}); err != nil {
			t.Fatal(err)
		}
		if !d.Contains(map[string]any{"name": "smith"}) || d.Contains(map[string]any{"name": "jones", "age": 12}) {
			t.Error("Set() did not replace the entry")
		}
		var ids []int
		for i := range d.All() {
			ids = append(ids, i)
		}
		if !reflect.DeepEqual(ids, []int{0, 1, 2}) {
			t.Errorf("All() ids = %v", ids)
		}
		if p := d.GetEntryPathByID(2); !reflect.DeepEqual(p, jsonpath.Path{"users", 2}) {
			t.Errorf("GetEntryPathByID() = %v", p)
		}
	})

	t.Run("merge", func(t *testing.T) {
		d := openTest(t, "users")
		if _, err := d.AddEntry(jsonvalue.MustParse(`{"name":"bob","tags":["a","b"]}`), false); err != nil {
			t.Fatal(err)
		}
		if err := d.MergeEntryByID(0, map[string]any{"tags": []string{"b", "c"}}, match.MergeOptions{MergeLists: true, NoDupes: true}); err != nil {
			t.Fatal(err)
		}
		if got := d.String(); got != `[{"name":"bob","tags":["a","b","c"]}]` {
			t.Errorf("MergeEntryByID() = %s", got)
		}
		id, err := d.MergeEntry(map[string]any{"name": "bob"}, false, match.EntryMergeDefaults)
		if err != nil || id != 0 {
			t.Errorf("MergeEntry() = %d, %v; want 0", id, err)
		}
		if _, err := d.MergeEntry(map[string]any{"name": "jones"}, false, match.EntryMergeDefaults); !errors.Is(err, dberrors.MatchError) {
			t.Errorf("MergeEntry(no match) error = %v, want MatchError", err)
		}
		if err := d.MergeEntryByID(0, []any{1}, match.EntryMergeDefaults); !errors.Is(err, dberrors.InvalidValue) {
			t.Errorf("MergeEntryByID(list) error = %v, want InvalidValue", err)
		}
	})

	t.Run("update and remove", func(t *testing.T) {
		d := openTest(t, "users")
		seed(t, d)
		if err := d.UpdateEntry(0, map[string]any{"age": 13, "city": "x"}, false); err != nil {
			t.Fatal(err)
		}
		got, _ := d.GetEntryByID(0)
		if s := jsonvalue.Compact(got); s != `{"name":"bob","age":13,"city":"x"}` {
			t.Errorf("UpdateEntry(no overwrite) = %s", s)
		}
		if err := d.UpdateEntry(0, "scalar", false); !errors.Is(err, dberrors.InvalidOverwrite) {
			t.Errorf("UpdateEntry(scalar, no overwrite) error = %v, want InvalidOverwrite", err)
		}
		if err := d.UpdateEntry(0, "scalar", true); err != nil {
			t.Fatal(err)
		}
		removed, err := d.RemoveEntry(0)
		if err != nil || removed != "scalar" {
			t.Errorf("RemoveEntry() = %v, %v", removed, err)
		}
		if d.Len() != 2 {
			t.Errorf("Len() = %d, want 2", d.Len())
		}
		if first, _ := d.GetEntryByID(0); !jsonvalue.Equal(first, jsonvalue.MustParse(`{"name":"jones","age":12}`)) {
			t.Errorf("ids did not shift: %s", jsonvalue.Compact(first))
		}
		if _, err := d.RemoveEntry(2); !errors.Is(err, dberrors.InvalidEntryID) {
			t.Errorf("RemoveEntry(2) error = %v, want InvalidEntryID", err)
		}
	})
}

func TestChildren(t *testing.T) {
	d := openTest(t, "users")
	seed(t, d)

	child, err := d.GetChildOfEntry(2, "")
	if err != nil {
		t.Fatal(err)
	}
	if s := jsonvalue.Compact(child); s != `{"name":"small","children":{"hahaha":"123"}}` {
		t.Errorf("GetChildOfEntry() = %s", s)
	}
	if _, err := d.GetChildOfEntry(0, ""); !errors.Is(err, dberrors.ChildNotFound) {
		t.Errorf("GetChildOfEntry(no child) error = %v, want ChildNotFound", err)
	}
	if p := d.GetChildPathOfEntry(2, ""); !reflect.DeepEqual(p, jsonpath.Path{"users", 2, "children"}) {
		t.Errorf("GetChildPathOfEntry() = %v", p)
	}

	if err := d.AddChildToEntry(0, map[string]any{"pet": "cat"}, "family"); err != nil {
		t.Fatal(err)
	}
	if err := d.UpdateChildOfEntry(0, map[string]any{"car": "red"}, false, "family"); err != nil {
		t.Fatal(err)
	}
	if c, _ := d.GetChildOfEntry(0, "family"); jsonvalue.Compact(c) != `{"pet":"cat","car":"red"}` {
		t.Errorf("UpdateChildOfEntry(no overwrite) = %s", jsonvalue.Compact(c))
	}
	if err := d.UpdateChildOfEntry(0, []any{1}, false, "family"); !errors.Is(err, dberrors.InvalidOverwrite) {
		t.Errorf("UpdateChildOfEntry(list, no overwrite) error = %v, want InvalidOverwrite", err)
	}
	if err := d.UpdateChildOfEntry(0, map[string]any{"x": 1}, false, "missing"); !errors.Is(err, dberrors.ChildNotFound) {
		t.Errorf("UpdateChildOfEntry(missing) error = %v, want ChildNotFound", err)
	}
	if err := d.UpdateChildOfEntry(0, "none", true, "family"); err != nil {
		t.Fatal(err)
	}
	if err := d.DeleteChildOfEntry(0, "family"); err != nil {
		t.Fatal(err)
	}
	if err := d.DeleteChildOfEntry(0, "family"); !errors.Is(err, dberrors.ChildNotFound) {
		t.Errorf("DeleteChildOfEntry(twice) error = %v, want ChildNotFound", err)
	}
	if _, err := d.GetChildOfEntry(9, ""); !errors.Is(err, dberrors.InvalidEntryID) {
		t.Errorf("GetChildOfEntry(9) error = %v, want InvalidEntryID", err)
	}

	t.Run("custom default name", func(t *testing.T) {
		dir := t.TempDir()
		d, err := Open("users", &Options{Path: filepath.Join(dir, "db.json"), LockDir: dir, ChildName: "kids"})
		if err != nil {
			t.Fatal(err)
		}
		_, _ = d.AddEntry(map[string]any{"kids": []any{"a"}}, false)
		if c, err := d.GetChildOfEntry(0, ""); err != nil || jsonvalue.Compact(c) != `["a"]` {
			t.Errorf("GetChildOfEntry() = %v, %v", c, err)
		}
	})

	t.Run("on path", func(t *testing.T) {
		paths, err := d.GetPathByKeyValue("name", "small", jsonpath.Options{})
		if err != nil || len(paths) != 1 {
			t.Fatalf("GetPathByKeyValue() = %v, %v", paths, err)
		}
		p := paths[0]
		c, err := d.GetChildOfPath(p, "")
		if err != nil {
			t.Fatal(err)
		}
		if s := jsonvalue.Compact(c); s != `{"hahaha":"123"}` {
			t.Errorf("GetChildOfPath() = %s", s)
		}
		if err := d.UpdateChildOfPath(p, map[string]any{"hihi": 1}, false, ""); err != nil {
			t.Fatal(err)
		}
		if err := d.AddChildToPath(p, true, "flag"); err != nil {
			t.Fatal(err)
		}
		node, _ := d.GetValueByPath(p.Parent())
		if s := jsonvalue.Compact(node); s != `{"name":"small","children":{"hahaha":"123","hihi":1},"flag":true}` {
			t.Errorf("node = %s", s)
		}
		if err := d.DeleteChildOfPath(p, "flag"); err != nil {
			t.Fatal(err)
		}
		if _, err := d.GetChildOfPath(p, "flag"); !errors.Is(err, dberrors.ChildNotFound) {
			t.Errorf("GetChildOfPath(deleted) error = %v, want ChildNotFound", err)
		}
		if err := d.AddChildToPath(jsonpath.Path{"users", 0}, 1, ""); !errors.Is(err, dberrors.InvalidValue) {
			t.Errorf("AddChildToPath(list container) error = %v, want InvalidValue", err)
		}
		if _, err := d.GetChildOfPath(nil, ""); !errors.Is(err, dberrors.InvalidValue) {
			t.Errorf("GetChildOfPath(empty) error = %v, want InvalidValue", err)
		}
	})
}

func TestPaths(t *testing.T) {
	d := openTest(t, "users")
	seed(t, d)

	paths, err := d.GetPathByKey("hahaha", jsonpath.Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := []jsonpath.Path{{"users", 2, "children", "children", "hahaha"}}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("GetPathByKey() = %v, want %v", paths, want)
	}
	v, err := d.GetValueByPath(paths[0])
	if err != nil || v != "123" {
		t.Errorf("GetValueByPath() = %v, %v; want 123", v, err)
	}
	obj, err := d.GetObjectByPath(paths[0])
	if err != nil || jsonvalue.Compact(obj) != `{"hahaha":"123"}` {
		t.Errorf("GetObjectByPath() = %v, %v", obj, err)
	}
	if obj, err := d.GetObjectByPath(nil); obj != nil || err != nil {
		t.Errorf("GetObjectByPath(empty) = %v, %v; want nil", obj, err)
	}
	if _, err := d.GetValueByPath(jsonpath.Path{"users", 7}); !errors.Is(err, dberrors.PathNotFound) {
		t.Errorf("GetValueByPath(bad) error = %v, want PathNotFound", err)
	}

	t.Run("update then get", func(t *testing.T) {
		for _, p := range []jsonpath.Path{
			{"users", 2, "children", "children", "hahaha"},
			{"users", 0, "age"},
			{"users", 1},
			{"users", 0, "new"},
		} {
			v := jsonvalue.ObjectOf("set", p.String())
			if err := d.UpdateValueByPath(p, v); err != nil {
				t.Fatalf("UpdateValueByPath(%v) error = %v", p, err)
			}
			got, err := d.GetValueByPath(p)
			if err != nil {
				t.Fatal(err)
			}
			if !jsonvalue.Equal(got, v) {
				t.Errorf("GetValueByPath(%v) = %s, want %s", p, jsonvalue.Compact(got), jsonvalue.Compact(v))
			}
		}
		for _, p := range []jsonpath.Path{nil, {"users", 5}, {"users", "x"}, {"nope", "x"}} {
			if err := d.UpdateValueByPath(p, 1); err == nil {
				t.Errorf("UpdateValueByPath(%v) succeeded", p)
			}
		}
	})
}

func TestSearch(t *testing.T) {
	d := openTest(t, "users")
	seed(t, d)

	hits := d.SearchByKey("hahaha", jsonpath.SearchOptions{})
	if len(hits) != 1 || hits[0].Value() != "123" {
		t.Errorf("SearchByKey() = %v", hits)
	}
	hits, err := d.SearchByValue("age", 12, jsonpath.SearchOptions{})
	if err != nil || len(hits) != 2 {
		t.Errorf("SearchByValue() = %v, %v; want 2 hits", hits, err)
	}
	hits, err = d.SearchByValue("name", "bob", jsonpath.SearchOptions{Options: jsonpath.Options{Fuzzy: true, Threshold: jsonpath.DefaultThreshold}})
	if err != nil || len(hits) != 2 {
		t.Errorf("SearchByValue(fuzzy) = %v, %v; want bob and bobby", hits, err)
	}
	fuzzy := jsonpath.SearchOptions{Options: jsonpath.DefaultOptions()}
	fuzzy.Fuzzy = true
	for _, v := range []any{12, nil, true, []any{"bob"}} {
		if _, err := d.SearchByValue("name", v, fuzzy); !errors.Is(err, dberrors.InvalidMode) {
			t.Errorf("SearchByValue(fuzzy, %v) error = %v, want InvalidMode", v, err)
		}
	}

	t.Run("exact paths resolve to the target", func(t *testing.T) {
		for _, target := range []any{"bob", 12, "123", map[string]any{"hahaha": "123"}} {
			paths, err := d.GetPathByValue(target, jsonpath.Options{})
			if err != nil {
				t.Fatal(err)
			}
			if len(paths) == 0 {
				t.Fatalf("GetPathByValue(%v) found nothing", target)
			}
			want, _ := jsonvalue.Normalize(target)
			for _, p := range paths {
				got, err := d.GetValueByPath(p)
				if err != nil {
					t.Fatal(err)
				}
				if !jsonvalue.Equal(got, want) {
					t.Errorf("GetValueByPath(%v) = %s, want %s", p, jsonvalue.Compact(got), jsonvalue.Compact(want))
				}
			}
		}
	})

	t.Run("key value", func(t *testing.T) {
		paths, err := d.GetPathByKeyValue("age", 12, jsonpath.Options{})
		if err != nil {
			t.Fatal(err)
		}
		want := []jsonpath.Path{{"users", 0, "age"}, {"users", 1, "age"}}
		if !reflect.DeepEqual(paths, want) {
			t.Errorf("GetPathByKeyValue() = %v, want %v", paths, want)
		}
		if _, err := d.GetPathByKeyValue("age", 12, jsonpath.Options{Fuzzy: true}); !errors.Is(err, dberrors.InvalidMode) {
			t.Errorf("GetPathByKeyValue(fuzzy number) error = %v, want InvalidMode", err)
		}
	})

	t.Run("index key", func(t *testing.T) {
		paths, err := d.GetPathByKey(1, jsonpath.Options{})
		if err != nil {
			t.Fatal(err)
		}
		if want := []jsonpath.Path{{"users", 1}}; !reflect.DeepEqual(paths, want) {
			t.Errorf("GetPathByKey(1) = %v, want %v", paths, want)
		}
		paths, err = d.GetPathByKey("1", jsonpath.Options{})
		if err != nil || len(paths) != 0 {
			t.Errorf("GetPathByKey(\"1\") = %v, %v; want no match", paths, err)
		}
	})

	t.Run("fuzzy threshold zero matches every string", func(t *testing.T) {
		paths, err := d.GetPathByValue("bob", jsonpath.Options{Fuzzy: true, Threshold: 0})
		if err != nil {
			t.Fatal(err)
		}
		// bob, jones, bobby, small and "123".
		if len(paths) != 5 {
			t.Errorf("GetPathByValue() = %v, want 5 paths", paths)
		}
	})

	t.Run("fuzzy threshold one is exact", func(t *testing.T) {
		for _, s := range []string{"bob", "bobb", "small"} {
			exact, _ := d.GetPathByValue(s, jsonpath.Options{})
			fuzzy, _ := d.GetPathByValue(s, jsonpath.Options{Fuzzy: true, Threshold: 1})
			if !reflect.DeepEqual(exact, fuzzy) {
				t.Errorf("%q: fuzzy = %v, exact = %v", s, fuzzy, exact)
			}
		}
	})
}

func TestPersistence(t *testing.T) {
	d := openTest(t, "users")
	seed(t, d)
	if err := d.Reload(); !errors.Is(err, dberrors.NotCommitted) {
		t.Fatalf("Reload() before save error = %v, want NotCommitted", err)
	}
	if err := d.Save(); err != nil {
		t.Fatal(err)
	}
	if _, err := d.RemoveEntry(0); err != nil {
		t.Fatal(err)
	}
	if err := d.Reload(); err != nil {
		t.Fatal(err)
	}
	if d.Len() != 3 {
		t.Errorf("Reload() Len() = %d, want 3", d.Len())
	}
	if err := d.DeleteDatabase(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(d.Path()); !os.IsNotExist(err) {
		t.Errorf("DeleteDatabase() left the file: %v", err)
	}
	if d.Len() != 3 {
		t.Errorf("DeleteDatabase() cleared memory")
	}
}
