// Package pkgmgr drives system package managers.
//
// Every supported manager is one entry in a data table: its binary, whether
// it needs sudo, and the argument lists for install, installed-check and index
// refresh. All invocations go through an executor.Runner.
package pkgmgr
