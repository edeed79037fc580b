// Package paths provides centralized path handling for devstrap.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/types"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for devstrap
	EnvConfigDir = "DEVSTRAP_CONFIG_DIR"

	// EnvDataDir overrides the XDG data directory for devstrap
	EnvDataDir = "DEVSTRAP_DATA_DIR"

	// EnvStateDir overrides the XDG state directory for devstrap
	EnvStateDir = "DEVSTRAP_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name used below every XDG base directory
	AppDirName = "devstrap"

	// ConfigFileName is the base name of the user configuration file
	ConfigFileName = "devstrap"

	// BackupsDirName is the state subdirectory holding backup snapshots
	BackupsDirName = "backups"

	// MCPDirName is the data subdirectory for the MCP package.json
	MCPDirName = "mcp"

	// RepoDirName is the data subdirectory the dotfiles repository is cloned into
	RepoDirName = "dotfiles"

	// LogFileName is the name of the log file
	LogFileName = "devstrap.log"
)

// ConfigExtensions lists the user config file extensions in lookup order
var ConfigExtensions = []string{".toml", ".yaml", ".yml"}

// Paths provides centralized path management for devstrap
type Paths interface {
	types.Pather
	ConfigFile() string
	MCPDir() string
	RepoDir() string
	LogFilePath() string
}

type paths struct {
	home      string
	xdgConfig string
	xdgData   string
	xdgState  string
}

// New creates a new Paths instance. Each directory honours its DEVSTRAP_*
// override first and the XDG base directory second.
func New() (Paths, error) {
	home, err := GetHomeDirectory()
	if err != nil {
		return nil, err
	}

	p := &paths{home: home}
	p.xdgConfig = dirFromEnv(EnvConfigDir, xdg.ConfigHome)
	p.xdgData = dirFromEnv(EnvDataDir, xdg.DataHome)
	p.xdgState = dirFromEnv(EnvStateDir, xdg.StateHome)

	return p, nil
}

func dirFromEnv(envName, xdgBase string) string {
	if dir := os.Getenv(envName); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdgBase, AppDirName)
}

// HomeDir returns the user's home directory
func (p *paths) HomeDir() string {
	return p.home
}

// ConfigDir returns the XDG config directory for devstrap
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// DataDir returns the XDG data directory for devstrap
func (p *paths) DataDir() string {
	return p.xdgData
}

// StateDir returns the XDG state directory for devstrap
func (p *paths) StateDir() string {
	return p.xdgState
}

// BackupsDir returns the directory holding backup snapshots
func (p *paths) BackupsDir() string {
	return filepath.Join(p.xdgState, BackupsDirName)
}

// ConfigFile returns the first existing user config file, or the TOML
// location when none exists yet.
func (p *paths) ConfigFile() string {
	for _, ext := range ConfigExtensions {
		candidate := filepath.Join(p.xdgConfig, ConfigFileName+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return filepath.Join(p.xdgConfig, ConfigFileName+ConfigExtensions[0])
}

// MCPDir returns the default directory for the MCP package.json
func (p *paths) MCPDir() string {
	return filepath.Join(p.xdgData, MCPDirName)
}

// RepoDir returns the default clone location for the dotfiles repository
func (p *paths) RepoDir() string {
	return filepath.Join(p.xdgData, RepoDirName)
}

// LogFilePath returns the path to the devstrap log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// GetHomeDirectory returns the user's home directory.
// It prefers the HOME environment variable so tests and sudo sessions
// can redirect it, then falls back to os.UserHomeDir.
func GetHomeDirectory() (string, error) {
	if homeDir := os.Getenv(EnvHome); homeDir != "" {
		return homeDir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err == nil && homeDir != "" {
		return homeDir, nil
	}

	return "", errors.New(errors.ErrFileAccess, "unable to determine home directory: neither HOME nor os.UserHomeDir() are available")
}

// ExpandHome expands a leading ~ to the home directory.
// Paths it cannot expand are returned unchanged.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := GetHomeDirectory()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~user is not supported
	return path
}

// ExpandHomeIn is ExpandHome against an explicit home directory
func ExpandHomeIn(home, path string) string {
	switch {
	case path == "~":
		return home
	case strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~"+string(filepath.Separator)):
		return filepath.Join(home, path[2:])
	default:
		return path
	}
}

// ContractHome replaces a leading home directory with ~ for display
func ContractHome(home, path string) string {
	if home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if rel, err := filepath.Rel(home, path); err == nil && !strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel) {
		return filepath.Join("~", rel)
	}
	return path
}
