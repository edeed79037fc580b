// Package shell renders devstrap's shell configuration into RC blocks.
//
// One block, id "devstrap", is kept in the startup file of every configured
// shell. It carries PATH entries, environment variables, aliases, sourced
// files and raw lines, each in the syntax of the target shell.
package shell
