// Package filesync is devstrap's idempotent writer.
//
// Every file devstrap touches (dotfiles, shell RC blocks, rendered templates,
// the MCP package.json) is written through a Writer. The writer compares the
// desired content with what is on disk and only writes when they differ, so
// every operation is safe to re-run. Writes are atomic: content goes to a
// temporary file in the destination directory which is then renamed over the
// destination.
//
// In dry-run mode nothing is touched; operations that would change a file
// report OutcomeWritten with DryRun set.
package filesync
