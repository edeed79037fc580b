// Package executor runs external commands for devstrap.
//
// Every package-manager invocation goes through the Runner interface so the
// drivers in pkg/pkgmgr can be exercised against a scripted fake. The
// production implementation shells out with os/exec, logs the command line at
// DEBUG level and returns the combined output.
package executor
