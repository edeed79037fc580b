// Package repo keeps the dotfiles git repository checked out.
package repo
