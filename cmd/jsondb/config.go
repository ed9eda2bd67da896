package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/maruel/jsondb/internal/jsondb"
	"github.com/maruel/jsondb/internal/xdg"
)

const defaultTable = "default"

// Config is the content of the config file.
type Config struct {
	Path        string `yaml:"path,omitempty" json:"path,omitempty" jsonschema:"description=Database file. Takes precedence over base_dir."`
	Table       string `yaml:"table,omitempty" json:"table,omitempty" jsonschema:"description=Current table,default=default"`
	BaseDir     string `yaml:"base_dir,omitempty" json:"base_dir,omitempty" jsonschema:"description=XDG base directory holding the database when path is not set,enum=cache,enum=data,enum=config"`
	Subfolder   string `yaml:"subfolder,omitempty" json:"subfolder,omitempty" jsonschema:"description=Directory under the base directory,default=json_database"`
	Extension   string `yaml:"extension,omitempty" json:"extension,omitempty" jsonschema:"description=Database file extension when path is not set"`
	DisableLock bool   `yaml:"disable_lock,omitempty" json:"disable_lock,omitempty" jsonschema:"description=Skip the cross-process lock"`
	LockDir     string `yaml:"lock_dir,omitempty" json:"lock_dir,omitempty" jsonschema:"description=Directory holding the lock file. Defaults to the temporary directory."`
	ChildName   string `yaml:"child_name,omitempty" json:"child_name,omitempty" jsonschema:"description=Key holding child nodes,default=children"`
	History     bool   `yaml:"history,omitempty" json:"history,omitempty" jsonschema:"description=Commit a git snapshot of the database after each change"`
	LogLevel    string `yaml:"log_level,omitempty" json:"log_level,omitempty" jsonschema:"description=Log level,enum=debug,enum=info,enum=warn,enum=error,default=info"`
}

// defaultConfigPath returns $XDG_CONFIG_HOME/jsondb/config.yaml.
func defaultConfigPath() string {
	home, err := xdg.Home(xdg.Config)
	if err != nil || home == "" {
		return "jsondb.yaml"
	}
	return filepath.Join(home, "jsondb", "config.yaml")
}

// loadConfig reads the config file. A missing file gives the zero Config.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// saveConfig writes cfg to path.
func saveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// override replaces the fields of cfg whose flag was explicitly set.
func (cfg *Config) override(fs *pflag.FlagSet, flags *Config) {
	set := map[string]bool{}
	fs.Visit(func(f *pflag.Flag) {
		set[f.Name] = true
	})
	if set["db"] {
		cfg.Path = flags.Path
	}
	if set["table"] {
		cfg.Table = flags.Table
	}
	if set["base-dir"] {
		cfg.BaseDir = flags.BaseDir
	}
	if set["subfolder"] {
		cfg.Subfolder = flags.Subfolder
	}
	if set["extension"] {
		cfg.Extension = flags.Extension
	}
	if set["no-lock"] {
		cfg.DisableLock = flags.DisableLock
	}
	if set["lock-dir"] {
		cfg.LockDir = flags.LockDir
	}
	if set["child-name"] {
		cfg.ChildName = flags.ChildName
	}
	if set["history"] {
		cfg.History = flags.History
	}
	if set["log-level"] {
		cfg.LogLevel = flags.LogLevel
	}
	if cfg.Table == "" {
		cfg.Table = defaultTable
	}
}

// options converts cfg to database options.
func (cfg *Config) options() (*jsondb.Options, error) {
	opts := &jsondb.Options{
		Path:        cfg.Path,
		Subfolder:   cfg.Subfolder,
		Extension:   cfg.Extension,
		DisableLock: cfg.DisableLock,
		LockDir:     cfg.LockDir,
		ChildName:   cfg.ChildName,
	}
	if cfg.BaseDir != "" {
		k, err := xdg.ParseKind(cfg.BaseDir)
		if err != nil {
			return nil, err
		}
		opts.BaseDir = k
	}
	return opts, nil
}

func writeConfigSchema(w io.Writer) error {
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	schema := r.Reflect(&Config{})
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
