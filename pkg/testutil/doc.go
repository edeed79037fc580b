// Package testutil provides utilities for testing devstrap components.
//
// Key components:
//   - TestEnvironment: an isolated home, XDG directories and dotfiles root,
//     on the real filesystem under t.TempDir() or fully in memory
//   - FakeRunner: a scripted executor.Runner that records every command so
//     package-manager code never touches the host
//
// Usage guidelines:
//   - Prefer EnvMemoryOnly for writer and sync logic
//   - Use EnvIsolated when the code under test talks to os or go-git directly
//   - Define test data inline
package testutil
