// Package xdg resolves database file locations under the XDG base
// directories.
package xdg

import (
	"fmt"
	"path/filepath"

	basedir "github.com/adrg/xdg"
)

// DefaultSubfolder is the directory created under the base directory.
const DefaultSubfolder = "json_database"

// Kind selects an XDG base directory.
type Kind int

const (
	Cache Kind = iota + 1
	Data
	Config
)

func (k Kind) String() string {
	switch k {
	case Cache:
		return "cache"
	case Data:
		return "data"
	case Config:
		return "config"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses "cache", "data" or "config".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "cache":
		return Cache, nil
	case "data":
		return Data, nil
	case "config":
		return Config, nil
	default:
		return 0, fmt.Errorf("unknown base directory %q, should be one of cache, data, config", s)
	}
}

// Home returns the base directory for k, honoring the XDG environment
// variables at the time of the last basedir reload.
func Home(k Kind) (string, error) {
	switch k {
	case Cache:
		return basedir.CacheHome, nil
	case Data:
		return basedir.DataHome, nil
	case Config:
		return basedir.ConfigHome, nil
	default:
		return "", fmt.Errorf("unknown base directory %s", k)
	}
}

// ResolvePath returns <base>/<subfolder>/<name>.<extension>. An empty
// subfolder means DefaultSubfolder.
func ResolvePath(k Kind, name, subfolder, extension string) (string, error) {
	home, err := Home(k)
	if err != nil {
		return "", err
	}
	if subfolder == "" {
		subfolder = DefaultSubfolder
	}
	return filepath.Join(home, subfolder, name+"."+extension), nil
}

// Reload re-reads the XDG environment variables.
func Reload() {
	basedir.Reload()
}
