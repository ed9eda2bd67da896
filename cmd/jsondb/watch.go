package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/maruel/jsondb/internal/jsondb"
	"github.com/maruel/jsondb/internal/jsonvalue"
)

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reload the database whenever its file changes and print the table sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.open()
			if err != nil {
				return err
			}
			return a.watch(cmd.Context(), db)
		},
	}
}

// watch blocks until ctx is canceled.
func (a *app) watch(ctx context.Context, db *jsondb.Database) error {
	path, err := filepath.Abs(db.Path())
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()
	// Watch the directory since editors and Save replace the file.
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	slog.Info("Watching", "path", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			a.onChange(db, path, event)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "err", err)
		}
	}
}

// onChange reloads db when event touches path. It reports whether a reload
// happened.
func (a *app) onChange(db *jsondb.Database, path string, event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != path {
		return false
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if err := db.Reload(); err != nil {
		slog.Warn("Reload failed", "path", path, "err", err)
		return false
	}
	s := summary(db)
	slog.Info("Reloaded", "path", path, "tables", s.Len())
	if _, err := fmt.Fprintf(a.out, "%s\n", jsonvalue.Compact(s)); err != nil {
		slog.Warn("Failed to print", "err", err)
	}
	return true
}
