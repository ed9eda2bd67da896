package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/maruel/jsondb/internal/export"
	"github.com/maruel/jsondb/internal/history"
	"github.com/maruel/jsondb/internal/jsondb"
	"github.com/maruel/jsondb/internal/jsonpath"
	"github.com/maruel/jsondb/internal/jsonvalue"
	"github.com/maruel/jsondb/internal/match"
)

type app struct {
	out        io.Writer
	ll         *slog.LevelVar
	configPath string
	flags      Config
	cfg        *Config
}

func newRootCmd(out io.Writer, ll *slog.LevelVar) *cobra.Command {
	a := &app{out: out, ll: ll}
	root := &cobra.Command{
		Use:   "jsondb",
		Short: "Query and edit a JSON document database",
		Long: `Query and edit a JSON document database.

Values given as arguments are parsed as JSON; anything that isn't valid JSON
is taken as a string. Entry references are zero-based IDs, which shift when
entries are removed. Paths are JSON arrays such as '["users",0,"name"]'.`,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(out)
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", defaultConfigPath(), "config file")
	pf.StringVar(&a.flags.Path, "db", "", "database file")
	pf.StringVar(&a.flags.Table, "table", defaultTable, "current table")
	pf.StringVar(&a.flags.BaseDir, "base-dir", "", "XDG base directory used when --db is not set: cache, data or config")
	pf.StringVar(&a.flags.Subfolder, "subfolder", "", "directory under the base directory")
	pf.StringVar(&a.flags.Extension, "extension", "", "database file extension used when --db is not set")
	pf.BoolVar(&a.flags.DisableLock, "no-lock", false, "skip the cross-process lock; concurrent writers may corrupt the file")
	pf.StringVar(&a.flags.LockDir, "lock-dir", "", "directory holding the lock file (default: temporary directory)")
	pf.StringVar(&a.flags.ChildName, "child-name", "", "key holding child nodes (default: children)")
	pf.BoolVar(&a.flags.History, "history", false, "commit a git snapshot of the database after each change")
	pf.StringVar(&a.flags.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		a.tablesCmd(),
		a.tableCmd(),
		a.addCmd(),
		a.getCmd(),
		a.matchCmd(),
		a.idCmd(),
		a.updateCmd(),
		a.mergeCmd(),
		a.removeCmd(),
		a.childCmd(),
		a.pathCmd(),
		a.searchCmd(),
		a.findCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.historyCmd(),
		a.watchCmd(),
		a.configCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version and exit",
			Args:  cobra.NoArgs,
			Run: func(*cobra.Command, []string) {
				printVersion(a.out)
			},
		},
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	cfg.override(cmd.Flags(), &a.flags)
	a.cfg = cfg
	if a.ll != nil {
		return setLogLevel(a.ll, cfg.LogLevel)
	}
	return nil
}

func (a *app) open() (*jsondb.Database, error) {
	opts, err := a.cfg.options()
	if err != nil {
		return nil, err
	}
	return jsondb.Open(a.cfg.Table, opts)
}

// view runs fn on a freshly loaded database without saving it.
func (a *app) view(fn func(db *jsondb.Database) error) error {
	db, err := a.open()
	if err != nil {
		return err
	}
	return fn(db)
}

// update runs fn, saves the database and records a snapshot when history is
// enabled.
func (a *app) update(ctx context.Context, msg string, fn func(db *jsondb.Database) error) error {
	db, err := a.open()
	if err != nil {
		return err
	}
	if err := fn(db); err != nil {
		return err
	}
	if err := db.Close(); err != nil {
		return err
	}
	return a.snapshot(ctx, db.Path(), msg)
}

func (a *app) snapshot(ctx context.Context, path, msg string) error {
	if !a.cfg.History {
		return nil
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	r, err := history.OpenFor(path)
	if err != nil {
		return err
	}
	committed, err := r.Commit(ctx, path, msg)
	if err != nil {
		return err
	}
	if committed {
		slog.Debug("Snapshot committed", "path", path, "msg", msg)
	}
	return nil
}

// print writes v as indented JSON.
func (a *app) print(v any) error {
	n, err := jsonvalue.Normalize(v)
	if err != nil {
		return err
	}
	data, err := jsonvalue.Marshal(n, jsonvalue.FileIndent)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "%s\n", data)
	return err
}

// parseValue parses s as JSON, falling back to the string itself.
func parseValue(s string) any {
	v, err := jsonvalue.Parse([]byte(s))
	if err != nil {
		return s
	}
	return v
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid entry id %q", s)
	}
	return id, nil
}

// isPath reports whether a reference argument is a JSON path rather than an
// entry ID.
func isPath(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "[")
}

func paths(ps []jsonpath.Path) []any {
	out := make([]any, len(ps))
	for i, p := range ps {
		out[i] = []any(p)
	}
	return out
}

func hits(hs []jsonpath.Hit) []any {
	out := make([]any, len(hs))
	for i, h := range hs {
		out[i] = jsonvalue.ObjectOf("key", h.Key, "value", h.Value(), "score", h.Score, "object", h.Object)
	}
	return out
}

// Tables

func (a *app) tablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables with their entry count",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.view(func(db *jsondb.Database) error {
				return a.print(summary(db))
			})
		},
	}
}

// summary maps each table name to its entry count.
func summary(db *jsondb.Database) *jsonvalue.Object {
	out := jsonvalue.NewObject()
	s := db.Storage()
	for _, k := range s.Keys() {
		v, _ := s.Get(k)
		n := 0
		if list, ok := v.([]any); ok {
			n = len(list)
		}
		out.Set(k, json.Number(strconv.Itoa(n)))
	}
	return out
}

func (a *app) tableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Manage tables",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add NAME",
			Short: "Create an empty table",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.update(cmd.Context(), "add table "+args[0], func(db *jsondb.Database) error {
					return db.AddTable(args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "use NAME",
			Short: "Make NAME the default table in the config file",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return a.useTable(args[0])
			},
		},
		&cobra.Command{
			Use:   "delete NAME",
			Short: "Delete a table; the last table can't be deleted",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.update(cmd.Context(), "delete table "+args[0], func(db *jsondb.Database) error {
					return db.DeleteTable(args[0])
				})
			},
		},
	)
	return cmd
}

func (a *app) useTable(name string) error {
	db, err := a.open()
	if err != nil {
		return err
	}
	if err := db.UseTable(name); err != nil {
		return err
	}
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	cfg.Table = name
	if err := saveConfig(a.configPath, cfg); err != nil {
		return err
	}
	slog.Info("Default table changed", "table", name, "config", a.configPath)
	return nil
}

// Entries

func (a *app) addCmd() *cobra.Command {
	allowDups := false
	cmd := &cobra.Command{
		Use:   "add ENTRY",
		Short: "Append an entry to the current table and print the table length",
		Long:  "Append an entry to the current table and print the new table length, which is the entry's ID plus one. When an equal entry is already present, nothing is added and its ID is printed instead.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.update(cmd.Context(), "add entry", func(db *jsondb.Database) error {
				id, err := db.AddEntry(parseValue(args[0]), allowDups)
				if err != nil {
					return err
				}
				return a.print(id)
			})
		},
	}
	cmd.Flags().BoolVar(&allowDups, "allow-duplicates", false, "append even when an equal entry exists")
	return cmd
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [REF]",
		Short: "Print an entry by ID or by value, or the whole table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.view(func(db *jsondb.Database) error {
				if len(args) == 0 {
					v, _ := db.Storage().Get(db.Table())
					return a.print(v)
				}
				var ref any = args[0]
				if _, err := strconv.Atoi(args[0]); err != nil {
					ref = parseValue(args[0])
				}
				v, err := db.Get(ref)
				if err != nil {
					return err
				}
				return a.print(v)
			})
		},
	}
}

func (a *app) matchCmd() *cobra.Command {
	strict := false
	cmd := &cobra.Command{
		Use:   "match ENTRY",
		Short: "Print the entries matching ENTRY with their IDs",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.view(func(db *jsondb.Database) error {
				ms, err := db.MatchEntry(parseValue(args[0]), strict)
				if err != nil {
					return err
				}
				out := make([]any, len(ms))
				for i, m := range ms {
					out[i] = jsonvalue.ObjectOf("id", m.ID, "entry", m.Entry)
				}
				return a.print(out)
			})
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "require deep equality instead of a subset match")
	return cmd
}

func (a *app) idCmd() *cobra.Command {
	strict := false
	cmd := &cobra.Command{
		Use:   "id ENTRY | id KEY VALUE",
		Short: "Print the ID of the entries matching ENTRY, or holding KEY set to VALUE",
		Long:  "Print the ID of the matching entries: -1 when none match, the ID for a single match, a list otherwise.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.view(func(db *jsondb.Database) error {
				var id jsondb.EntryID
				var err error
				if len(args) == 2 {
					id, err = db.GetEntryIDByKeyValue(args[0], parseValue(args[1]), strict)
				} else {
					id, err = db.GetEntryID(parseValue(args[0]), strict)
				}
				if err != nil {
					return err
				}
				return a.print(id.Value())
			})
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "require deep equality instead of a subset match")
	return cmd
}

func (a *app) updateCmd() *cobra.Command {
	merge := false
	cmd := &cobra.Command{
		Use:   "update ID VALUE",
		Short: "Replace an entry, or update its keys with --merge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.update(cmd.Context(), "update entry "+args[0], func(db *jsondb.Database) error {
				return db.UpdateEntry(id, parseValue(args[1]), !merge)
			})
		},
	}
	cmd.Flags().BoolVar(&merge, "merge", false, "update the entry's keys instead of replacing it")
	return cmd
}

func (a *app) mergeCmd() *cobra.Command {
	var (
		id     int
		strict bool
		opts   = match.EntryMergeDefaults
	)
	cmd := &cobra.Command{
		Use:   "merge ENTRY",
		Short: "Merge ENTRY into the entry it matches, or into --id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := parseValue(args[0])
			return a.update(cmd.Context(), "merge entry", func(db *jsondb.Database) error {
				if cmd.Flags().Changed("id") {
					if err := db.MergeEntryByID(id, entry, opts); err != nil {
						return err
					}
					return a.print(id)
				}
				got, err := db.MergeEntry(entry, strict, opts)
				if err != nil {
					return err
				}
				return a.print(got)
			})
		},
	}
	f := cmd.Flags()
	f.IntVar(&id, "id", 0, "merge into this entry instead of the first match")
	f.BoolVar(&strict, "strict", false, "require deep equality to find the target")
	f.BoolVar(&opts.MergeLists, "merge-lists", opts.MergeLists, "append list items instead of replacing lists")
	f.BoolVar(&opts.SkipEmpty, "skip-empty", opts.SkipEmpty, "ignore null, false, zero and empty source values")
	f.BoolVar(&opts.NoDupes, "no-dupes", opts.NoDupes, "don't append list items already present")
	f.BoolVar(&opts.NewOnly, "new-only", opts.NewOnly, "only add keys missing from the target")
	return cmd
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove an entry and print it; later IDs shift down by one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.update(cmd.Context(), "remove entry "+args[0], func(db *jsondb.Database) error {
				v, err := db.RemoveEntry(id)
				if err != nil {
					return err
				}
				return a.print(v)
			})
		},
	}
}

// Children

func (a *app) childCmd() *cobra.Command {
	name := ""
	cmd := &cobra.Command{
		Use:   "child",
		Short: "Manage the child node of an entry or of the object at a path",
		Long:  "Manage the child node of an entry or of the object at a path. REF is an entry ID or a JSON path such as '[\"default\",0,\"children\"]'; a path addresses the object holding its last key.",
	}
	cmd.PersistentFlags().StringVar(&name, "name", "", "child key (default: --child-name)")

	merge := false
	set := &cobra.Command{
		Use:   "set REF DATA",
		Short: "Set the child node, or update its keys with --merge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := parseValue(args[1])
			return a.update(cmd.Context(), "set child of "+args[0], func(db *jsondb.Database) error {
				if isPath(args[0]) {
					p, err := jsonpath.ParsePath(args[0])
					if err != nil {
						return err
					}
					if merge {
						return db.UpdateChildOfPath(p, data, false, name)
					}
					return db.AddChildToPath(p, data, name)
				}
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if merge {
					return db.UpdateChildOfEntry(id, data, false, name)
				}
				return db.AddChildToEntry(id, data, name)
			})
		},
	}
	set.Flags().BoolVar(&merge, "merge", false, "update the child's keys instead of replacing it")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get REF",
			Short: "Print the child node",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return a.view(func(db *jsondb.Database) error {
					var v any
					var err error
					if isPath(args[0]) {
						var p jsonpath.Path
						if p, err = jsonpath.ParsePath(args[0]); err != nil {
							return err
						}
						v, err = db.GetChildOfPath(p, name)
					} else {
						var id int
						if id, err = parseID(args[0]); err != nil {
							return err
						}
						v, err = db.GetChildOfEntry(id, name)
					}
					if err != nil {
						return err
					}
					return a.print(v)
				})
			},
		},
		set,
		&cobra.Command{
			Use:   "delete REF",
			Short: "Delete the child node",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.update(cmd.Context(), "delete child of "+args[0], func(db *jsondb.Database) error {
					if isPath(args[0]) {
						p, err := jsonpath.ParsePath(args[0])
						if err != nil {
							return err
						}
						return db.DeleteChildOfPath(p, name)
					}
					id, err := parseID(args[0])
					if err != nil {
						return err
					}
					return db.DeleteChildOfEntry(id, name)
				})
			},
		},
	)
	return cmd
}

// Paths and search

func (a *app) pathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Read and write values by JSON path",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get PATH",
			Short: "Print the value at PATH",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				p, err := jsonpath.ParsePath(args[0])
				if err != nil {
					return err
				}
				return a.view(func(db *jsondb.Database) error {
					v, err := db.GetValueByPath(p)
					if err != nil {
						return err
					}
					return a.print(v)
				})
			},
		},
		&cobra.Command{
			Use:   "parent PATH",
			Short: "Print the container holding the value at PATH",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				p, err := jsonpath.ParsePath(args[0])
				if err != nil {
					return err
				}
				return a.view(func(db *jsondb.Database) error {
					v, err := db.GetObjectByPath(p)
					if err != nil {
						return err
					}
					return a.print(v)
				})
			},
		},
		&cobra.Command{
			Use:   "set PATH VALUE",
			Short: "Replace the value at PATH",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := jsonpath.ParsePath(args[0])
				if err != nil {
					return err
				}
				return a.update(cmd.Context(), "set "+p.Join(), func(db *jsondb.Database) error {
					return db.UpdateValueByPath(p, parseValue(args[1]))
				})
			},
		},
	)
	return cmd
}

func (a *app) searchCmd() *cobra.Command {
	var opts jsonpath.SearchOptions
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Print the objects holding a key, or a key set to a value",
	}
	pf := cmd.PersistentFlags()
	pf.BoolVar(&opts.Fuzzy, "fuzzy", false, "match by string similarity")
	pf.Float64Var(&opts.Threshold, "threshold", jsonpath.DefaultThreshold, "minimum similarity for fuzzy matches")
	pf.BoolVar(&opts.IncludeEmpty, "include-empty", false, "also report keys whose value is null")
	cmd.AddCommand(
		&cobra.Command{
			Use:   "key KEY",
			Short: "Search by key",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return a.view(func(db *jsondb.Database) error {
					return a.print(hits(db.SearchByKey(args[0], opts)))
				})
			},
		},
		&cobra.Command{
			Use:   "value KEY VALUE",
			Short: "Search by key and value",
			Args:  cobra.ExactArgs(2),
			RunE: func(_ *cobra.Command, args []string) error {
				value := parseValue(args[1])
				if opts.Fuzzy {
					value = args[1]
				}
				return a.view(func(db *jsondb.Database) error {
					hs, err := db.SearchByValue(args[0], value, opts)
					if err != nil {
						return err
					}
					return a.print(hits(hs))
				})
			},
		},
	)
	return cmd
}

func (a *app) findCmd() *cobra.Command {
	var opts jsonpath.Options
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Print the paths of matching keys, values or pairs",
	}
	pf := cmd.PersistentFlags()
	pf.BoolVar(&opts.Fuzzy, "fuzzy", false, "match by string similarity")
	pf.Float64Var(&opts.Threshold, "threshold", jsonpath.DefaultThreshold, "minimum similarity for fuzzy matches")
	cmd.AddCommand(
		&cobra.Command{
			Use:   "key KEY",
			Short: "Find keys; an integer KEY matches list indices, quote it as JSON to match a mapping key",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				key := parseValue(args[0])
				if _, ok := key.(string); !ok && opts.Fuzzy {
					key = args[0]
				}
				return a.view(func(db *jsondb.Database) error {
					ps, err := db.GetPathByKey(key, opts)
					if err != nil {
						return err
					}
					return a.print(paths(ps))
				})
			},
		},
		&cobra.Command{
			Use:   "value VALUE",
			Short: "Find values",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return a.view(func(db *jsondb.Database) error {
					ps, err := db.GetPathByValue(parseValue(args[0]), opts)
					if err != nil {
						return err
					}
					return a.print(paths(ps))
				})
			},
		},
		&cobra.Command{
			Use:   "kv KEY VALUE",
			Short: "Find keys set to VALUE",
			Args:  cobra.ExactArgs(2),
			RunE: func(_ *cobra.Command, args []string) error {
				return a.view(func(db *jsondb.Database) error {
					ps, err := db.GetPathByKeyValue(args[0], parseValue(args[1]), opts)
					if err != nil {
						return err
					}
					return a.print(paths(ps))
				})
			},
		},
	)
	return cmd
}

// Export, history and config

func (a *app) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the database",
	}
	output := ""
	y := &cobra.Command{
		Use:   "yaml",
		Short: "Write the database as YAML",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.view(func(db *jsondb.Database) error {
				return a.writeTo(output, func(w io.Writer) error {
					return export.YAML(w, db.Storage().Root())
				})
			})
		},
	}
	y.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	l := &cobra.Command{
		Use:   "jsonl",
		Short: "Write the entries of the current table, one per line",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.view(func(db *jsondb.Database) error {
				var entries []any
				for _, e := range db.All() {
					entries = append(entries, e)
				}
				return a.writeTo(output, func(w io.Writer) error {
					return export.JSONL(w, entries)
				})
			})
		},
	}
	l.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.AddCommand(
		y,
		l,
		&cobra.Command{
			Use:   "sqlite FILE",
			Short: "Write each table to a SQLite table of the same name",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.view(func(db *jsondb.Database) error {
					return export.SQLite(cmd.Context(), args[0], db.Storage().Root())
				})
			},
		},
	)
	return cmd
}

// writeTo runs fn on the file named output, or on stdout when output is
// empty.
func (a *app) writeTo(output string, fn func(w io.Writer) error) error {
	if output == "" {
		return fn(a.out)
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (a *app) importCmd() *cobra.Command {
	allowDups := false
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Add the entries of a JSONL file to the current table and print how many were added",
		Long:  "Add the entries of a JSONL file, one entry per line, to the current table. Use - to read stdin. Entries already present are skipped unless --allow-duplicates is set.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				r = f
			}
			entries, err := export.ReadJSONL(r)
			if err != nil {
				return err
			}
			return a.update(cmd.Context(), "import "+filepath.Base(args[0]), func(db *jsondb.Database) error {
				added := 0
				for _, e := range entries {
					before := db.Len()
					if _, err := db.AddEntry(e, allowDups); err != nil {
						return err
					}
					if db.Len() != before {
						added++
					}
				}
				return a.print(added)
			})
		},
	}
	cmd.Flags().BoolVar(&allowDups, "allow-duplicates", false, "add entries even when an equal one exists")
	return cmd
}

func (a *app) historyCmd() *cobra.Command {
	n := 0
	show := ""
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the snapshots of the database file, or print one with --show",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.open()
			if err != nil {
				return err
			}
			path, err := filepath.Abs(db.Path())
			if err != nil {
				return err
			}
			r, err := history.OpenFor(path)
			if err != nil {
				return err
			}
			if show != "" {
				data, err := r.FileAt(cmd.Context(), show, path)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(a.out, "%s\n", data)
				return err
			}
			commits, err := r.Log(cmd.Context(), path, n)
			if err != nil {
				return err
			}
			for _, c := range commits {
				if _, err := fmt.Fprintf(a.out, "%s %s %s\n", c.Hash[:min(len(c.Hash), 12)], c.When.Format("2006-01-02 15:04:05"), c.Message); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "limit", "n", 0, "show at most this many snapshots (default 100)")
	cmd.Flags().StringVar(&show, "show", "", "print the database file as of this snapshot")
	return cmd
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as YAML",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				enc := yaml.NewEncoder(a.out)
				enc.SetIndent(4)
				if err := enc.Encode(a.cfg); err != nil {
					return err
				}
				return enc.Close()
			},
		},
		&cobra.Command{
			Use:   "schema",
			Short: "Print the JSON schema of the config file",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return writeConfigSchema(a.out)
			},
		},
	)
	return cmd
}
