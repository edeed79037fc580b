// Package templates renders configuration templates into the home directory.
//
// Sources are either files below the dotfiles directory or built-ins named
// embedded:<name>. Templates use text/template with missingkey=error and see
// the configured vars, the detected platform and the home directory.
package templates
