// Package dotfiles syncs files from the dotfiles directory into the home
// directory and keeps timestamped backups of everything it replaces.
//
// A backup snapshot is a directory below <state>/backups named after its
// creation time (YYYYMMDD-HHMMSS, with a -n suffix on collisions). It holds
// the saved files under their home-relative path plus a manifest.yaml that
// lists every entry with its original location, digest and mode.
package dotfiles
