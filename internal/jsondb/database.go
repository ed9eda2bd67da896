package jsondb

import (
	"fmt"
	"iter"
	"log/slog"

	dberrors "github.com/maruel/jsondb/internal/errors"
	"github.com/maruel/jsondb/internal/jsonvalue"
	"github.com/maruel/jsondb/internal/xdg"
)

// DefaultChildName is the key holding an entry's nested sub-document.
const DefaultChildName = "children"

// Options configures Open. The zero value stores table "name" in ./name.json.
type Options struct {
	// Path is the backing file. It takes precedence over BaseDir.
	Path string
	// BaseDir places the file under an XDG base directory as
	// <base>/<Subfolder>/<table>.<Extension>. Zero means the working directory.
	BaseDir xdg.Kind
	// Subfolder is used with BaseDir. Empty means xdg.DefaultSubfolder.
	Subfolder string
	// Extension of the backing file when Path is empty. Defaults to "jsondb"
	// with BaseDir and "json" without.
	Extension string
	// DisableLock skips the cross-process lock.
	DisableLock bool
	// LockDir is the directory holding the lock file. Empty means os.TempDir().
	LockDir string
	// ChildName is the default child key. Empty means DefaultChildName.
	ChildName string
}

// Database is a set of tables of JSON entries.
type Database struct {
	table     string
	childName string
	store     *Storage
}

// Open loads the database holding table and makes it the current table. The
// table is created in memory when the file doesn't have it yet.
func Open(table string, opts *Options) (*Database, error) {
	if opts == nil {
		opts = &Options{}
	}
	if table == "" {
		return nil, dberrors.Value("table name must not be empty")
	}
	path, err := resolvePath(table, opts)
	if err != nil {
		return nil, err
	}
	s, err := NewStorage(path, StorageOptions{DisableLock: opts.DisableLock, LockDir: opts.LockDir})
	if err != nil {
		return nil, err
	}
	d := &Database{
		table:     table,
		childName: opts.ChildName,
		store:     s,
	}
	if d.childName == "" {
		d.childName = DefaultChildName
	}
	d.ensureTable()
	return d, nil
}

func resolvePath(table string, opts *Options) (string, error) {
	if opts.Path != "" {
		return opts.Path, nil
	}
	ext := opts.Extension
	if opts.BaseDir != 0 {
		if ext == "" {
			ext = "jsondb"
		}
		return xdg.ResolvePath(opts.BaseDir, table, opts.Subfolder, ext)
	}
	if ext == "" {
		ext = "json"
	}
	return table + "." + ext, nil
}

// ensureTable creates the current table in memory if it's missing.
func (d *Database) ensureTable() {
	if !d.store.Has(d.table) {
		d.store.root.Set(d.table, []any{})
	}
}

// Close saves the database. A failure is returned as a SessionError wrapping
// the cause.
func (d *Database) Close() error {
	return d.store.Close()
}

// Storage returns the underlying store.
func (d *Database) Storage() *Storage {
	return d.store
}

// Path returns the backing file path.
func (d *Database) Path() string {
	return d.store.Path()
}

// ChildName returns the default child key.
func (d *Database) ChildName() string {
	return d.childName
}

// Save writes the database to its backing file.
func (d *Database) Save() error {
	return d.store.Save("")
}

// Reload discards in-memory changes and loads the backing file again. It
// fails with NotCommitted if the database was never saved.
func (d *Database) Reload() error {
	if err := d.store.Reload(); err != nil {
		return err
	}
	d.ensureTable()
	return nil
}

// DeleteDatabase removes the backing file. The in-memory content is kept, so
// a later Save recreates it.
func (d *Database) DeleteDatabase() error {
	return d.store.Remove()
}

// Tables

// Table returns the current table name.
func (d *Database) Table() string {
	return d.table
}

// AddTable creates an empty table, saves the database and makes it the
// current table. It does nothing if the table already exists.
func (d *Database) AddTable(name string) error {
	if name == "" {
		return dberrors.Value("table name must not be empty")
	}
	if d.store.Has(name) {
		return nil
	}
	d.store.root.Set(name, []any{})
	if err := d.Save(); err != nil {
		return err
	}
	d.table = name
	_, err := d.GetTables()
	return err
}

// UseTable makes name the current table.
func (d *Database) UseTable(name string) error {
	if !d.store.Has(name) {
		return dberrors.Table(name)
	}
	d.table = name
	return nil
}

// GetTables reloads the database from disk and returns the table names.
func (d *Database) GetTables() ([]string, error) {
	if err := d.Reload(); err != nil {
		return nil, err
	}
	return d.store.Keys(), nil
}

// DeleteTable removes a table and saves the database. Deleting the current
// table switches to the first remaining one. The last table can't be
// deleted.
func (d *Database) DeleteTable(name string) error {
	if !d.store.Has(name) {
		return dberrors.Table(name)
	}
	if d.store.Len() == 1 {
		return dberrors.LastTable(name)
	}
	d.store.Delete(name)
	if d.table == name {
		d.table = d.store.Keys()[0]
		slog.Debug("Current table deleted", "table", name, "current", d.table)
	}
	if err := d.Save(); err != nil {
		return err
	}
	_, err := d.GetTables()
	return err
}

// entries returns the current table.
func (d *Database) entries() ([]any, error) {
	v, ok := d.store.Get(d.table)
	if !ok {
		return nil, dberrors.Table(d.table)
	}
	list, ok := v.([]any)
	if !ok {
		return nil, dberrors.BadTable(d.table)
	}
	return list, nil
}

func (d *Database) setEntries(list []any) {
	d.store.root.Set(d.table, list)
}

// Len returns the number of entries in the current table.
func (d *Database) Len() int {
	list, _ := d.entries()
	return len(list)
}

// All iterates over the entries of the current table with their IDs.
func (d *Database) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		list, _ := d.entries()
		for i, e := range list {
			if !yield(i, e) {
				return
			}
		}
	}
}

// String returns the current table as compact JSON.
func (d *Database) String() string {
	list, err := d.entries()
	if err != nil {
		return fmt.Sprintf("!(%v)", err)
	}
	return jsonvalue.Compact(list)
}
