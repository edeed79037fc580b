// Package types holds the small interfaces shared across devstrap packages.
//
// Keeping them here lets filesync, dotfiles and the test helpers agree on a
// filesystem and path abstraction without importing each other.
package types
