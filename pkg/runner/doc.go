// Package runner installs an ordered list of package steps through a
// pkgmgr.Manager.
//
// Steps run strictly in order. A failing optional step is recorded and the run
// continues; a failing required step stops the run, marks the remaining steps
// not-run and returns STEP_REQUIRED_FAILED together with the report. In
// dry-run mode nothing is installed and every installable step is reported as
// planned.
package runner
