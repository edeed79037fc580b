package types

import (
	"io/fs"
)

// FS is the filesystem interface every mutating devstrap component writes through.
// Production code uses the OS implementation; tests swap in an in-memory one.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Chmod(name string, mode fs.FileMode) error
	Rename(oldpath, newpath string) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error

	// For in-memory filesystems Lstat can fall back to Stat
	Lstat(name string) (fs.FileInfo, error)
	Readlink(name string) (string, error)
}

// Pather provides the directories devstrap reads from and writes to
type Pather interface {
	// HomeDir returns the user's home directory
	HomeDir() string

	// ConfigDir returns the XDG config directory for devstrap
	ConfigDir() string

	// DataDir returns the XDG data directory for devstrap
	DataDir() string

	// StateDir returns the XDG state directory for devstrap
	StateDir() string

	// BackupsDir returns the directory holding dotfile backup snapshots
	BackupsDir() string
}
