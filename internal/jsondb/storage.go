package jsondb

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	dberrors "github.com/maruel/jsondb/internal/errors"
	"github.com/maruel/jsondb/internal/filelock"
	"github.com/maruel/jsondb/internal/jsonvalue"
	"github.com/maruel/jsondb/internal/match"
	"github.com/maruel/jsondb/internal/xdg"
)

// StorageOptions configures a Storage. The zero value uses a real lock in
// os.TempDir().
type StorageOptions struct {
	// DisableLock replaces the file lock with one that grants no exclusivity.
	// Concurrent processes may then corrupt the file.
	DisableLock bool
	// LockDir is the directory holding lock files. Empty means os.TempDir().
	LockDir string
	// Subfolder is the directory under the XDG base used by NewStorageXDG.
	// Empty means xdg.DefaultSubfolder.
	Subfolder string
	// Extension is the file suffix used by NewStorageXDG. Empty means "json".
	Extension string
}

// Storage is an ordered mapping persisted as a single JSON object.
//
// Load, Save and Remove hold the lock for the duration of the file access.
// In-memory access is not synchronized.
type Storage struct {
	path string
	lock filelock.Locker
	root *jsonvalue.Object
}

// NewStorage creates a Storage backed by path and loads it. An empty path
// gives a memory-only store that Save refuses to write.
func NewStorage(path string, opts StorageOptions) (*Storage, error) {
	path = expandHome(path)
	s := &Storage{
		path: path,
		root: jsonvalue.NewObject(),
	}
	lockPath := filelock.PathFor(opts.LockDir, path)
	if opts.DisableLock {
		slog.Warn("Lock is disabled, the database may get corrupted if several processes use it at the same time", "path", path)
		s.lock = filelock.NewNop()
	} else {
		s.lock = filelock.New(lockPath)
	}
	if path != "" {
		if err := s.Load(path); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewStorageXDG creates a Storage named name under the XDG base directory
// kind, e.g. $XDG_CONFIG_HOME/json_database/name.json.
func NewStorageXDG(name string, kind xdg.Kind, opts StorageOptions) (*Storage, error) {
	ext := opts.Extension
	if ext == "" {
		ext = "json"
	}
	path, err := xdg.ResolvePath(kind, name, opts.Subfolder, ext)
	if err != nil {
		return nil, err
	}
	return NewStorage(path, opts)
}

// Load replaces the content with the JSON object stored at path.
//
// A missing path, or one that is not a regular file, is ignored. When the
// file exists the store is cleared first; a file that can't be read or parsed
// is logged and leaves the store empty without returning an error.
func (s *Storage) Load(path string) error {
	path = expandHome(path)
	return filelock.With(s.lock, func() error {
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			slog.Debug("Json file not found, skipping", "path", path)
			return nil
		}
		s.Clear()
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Error("Error loading json", "path", path, "error", err)
			return nil
		}
		v, err := jsonvalue.ParseCommented(data)
		if err != nil {
			slog.Error("Error loading json", "path", path, "error", err)
			return nil
		}
		o, ok := v.(*jsonvalue.Object)
		if !ok {
			slog.Error("Error loading json", "path", path, "error", fmt.Sprintf("top level is %s, not an object", jsonvalue.KindOf(v)))
			return nil
		}
		jsonvalue.Update(s.root, o)
		slog.Debug("Json loaded", "path", path, "keys", s.root.Len())
		return nil
	})
}

// Save writes the store to path, or to the backing path when path is empty.
// Missing parent directories are created. Without any path, Save logs a
// warning and does nothing.
func (s *Storage) Save(path string) error {
	if path == "" {
		path = s.path
	}
	if path == "" {
		slog.Warn("Json db path not set, nothing saved")
		return nil
	}
	path = expandHome(path)
	data, err := jsonvalue.Marshal(s.root, jsonvalue.FileIndent)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return filelock.With(s.lock, func() error {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return dberrors.Storage("failed to create directory for "+path, err)
		}
		f, err := os.Create(path)
		if err != nil {
			return dberrors.Storage("failed to create database file", err).WithDetail("path", path)
		}
		w := bufio.NewWriter(f)
		if _, err := w.Write(data); err != nil {
			_ = f.Close()
			return dberrors.Storage("failed to write database file", err).WithDetail("path", path)
		}
		if err := w.Flush(); err != nil {
			_ = f.Close()
			return dberrors.Storage("failed to flush writer", err).WithDetail("path", path)
		}
		if err := f.Close(); err != nil {
			return dberrors.Storage("failed to close database file", err).WithDetail("path", path)
		}
		slog.Debug("Json saved", "path", path, "bytes", len(data))
		return nil
	})
}

// Remove deletes the backing file if it exists. The in-memory content is
// kept.
func (s *Storage) Remove() error {
	return filelock.With(s.lock, func() error {
		fi, err := os.Stat(s.path)
		if err != nil || !fi.Mode().IsRegular() {
			return nil
		}
		if err := os.Remove(s.path); err != nil {
			return dberrors.Storage("failed to remove database file", err).WithDetail("path", s.path)
		}
		return nil
	})
}

// Reload loads the backing file again. It fails with NotCommitted when the
// file was never saved.
func (s *Storage) Reload() error {
	fi, err := os.Stat(s.path)
	if s.path == "" || err != nil || !fi.Mode().IsRegular() {
		return dberrors.NotSaved(s.path)
	}
	return s.Load(s.path)
}

// Merge merges src into the store with opts, see match.Merge.
func (s *Storage) Merge(src *jsonvalue.Object, opts match.MergeOptions) *Storage {
	match.Merge(s.root, src, opts)
	return s
}

// Close ends a session by saving the store. A failure is reported as a
// SessionError wrapping the cause.
func (s *Storage) Close() error {
	if err := s.Save(""); err != nil {
		slog.Error("Failed to commit database", "path", s.path, "error", err)
		return dberrors.Session(err)
	}
	return nil
}

// Get returns the value stored under key.
func (s *Storage) Get(key string) (any, bool) {
	return s.root.Get(key)
}

// Set stores a copy of value under key.
func (s *Storage) Set(key string, value any) error {
	v, err := jsonvalue.Normalize(value)
	if err != nil {
		return err
	}
	s.root.Set(key, v)
	return nil
}

// Delete removes key and reports whether it was present.
func (s *Storage) Delete(key string) bool {
	_, ok := s.root.Delete(key)
	return ok
}

// Has reports whether key is present.
func (s *Storage) Has(key string) bool {
	_, ok := s.root.Get(key)
	return ok
}

// Keys returns the top-level keys in order.
func (s *Storage) Keys() []string {
	return jsonvalue.Keys(s.root)
}

// Len returns the number of top-level keys.
func (s *Storage) Len() int {
	return s.root.Len()
}

// Root returns the live root mapping.
func (s *Storage) Root() *jsonvalue.Object {
	return s.root
}

// Path returns the backing file path.
func (s *Storage) Path() string {
	return s.path
}

// Locker returns the lock guarding the backing file.
func (s *Storage) Locker() filelock.Locker {
	return s.lock
}

// Clear removes every key.
func (s *Storage) Clear() {
	for _, k := range jsonvalue.Keys(s.root) {
		s.root.Delete(k)
	}
}

func (s *Storage) String() string {
	return jsonvalue.Compact(s.root)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
