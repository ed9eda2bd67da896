// Package export writes the content of a store to other formats.
package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	dberrors "github.com/maruel/jsondb/internal/errors"
	"github.com/maruel/jsondb/internal/jsonvalue"
)

// YAML writes root as a YAML document indented by 4 spaces. Key order is
// kept.
func YAML(w io.Writer, root any) error {
	n, err := yamlNode(root)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(4)
	if err := enc.Encode(n); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

func yamlNode(v any) (*yaml.Node, error) {
	switch x := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case bool:
		s := "false"
		if x {
			s = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: s}, nil
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(string(x), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(x)}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: x}, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if len(x) == 0 {
			n.Style = yaml.FlowStyle
		}
		for _, item := range x {
			c, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil
	case *jsonvalue.Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if x == nil || x.Len() == 0 {
			n.Style = yaml.FlowStyle
			return n, nil
		}
		for pair := x.Oldest(); pair != nil; pair = pair.Next() {
			c, err := yamlNode(pair.Value)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: pair.Key}, c)
		}
		return n, nil
	default:
		return nil, dberrors.Value(fmt.Sprintf("cannot export %T", v))
	}
}

// SQLite writes every table of root into the SQLite database at dbPath, one
// SQL table per store table with columns entry_id and data, the entry as
// compact JSON. Existing tables of the same name are replaced. Everything is
// written in a single transaction.
//
// SQLite table names are case insensitive for ASCII letters, so store tables
// differing only in that case are refused before anything is written.
func SQLite(ctx context.Context, dbPath string, root *jsonvalue.Object) error {
	seen := map[string]string{}
	for pair := root.Oldest(); pair != nil; pair = pair.Next() {
		k := foldASCII(pair.Key)
		if prev, ok := seen[k]; ok {
			return dberrors.Value(fmt.Sprintf("tables %q and %q have the same SQLite name", prev, pair.Key)).
				WithDetail("table", pair.Key)
		}
		seen[k] = pair.Key
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for pair := root.Oldest(); pair != nil; pair = pair.Next() {
		entries, ok := pair.Value.([]any)
		if !ok {
			return dberrors.BadTable(pair.Key)
		}
		name := quoteIdent(pair.Key)
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, "CREATE TABLE "+name+" (entry_id INTEGER PRIMARY KEY, data TEXT NOT NULL)"); err != nil {
			return fmt.Errorf("failed to create table %s: %w", name, err)
		}
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO "+name+" (entry_id, data) VALUES (?, ?)")
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		for i, e := range entries {
			data, err := jsonvalue.Marshal(e, "")
			if err != nil {
				_ = stmt.Close()
				return err
			}
			if _, err := stmt.ExecContext(ctx, i, string(data)); err != nil {
				_ = stmt.Close()
				return fmt.Errorf("failed to insert entry %d of %s: %w", i, name, err)
			}
		}
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// foldASCII lowercases ASCII letters only, matching how SQLite compares
// identifiers.
func foldASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + 'a' - 'A'
		}
		return r
	}, s)
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
