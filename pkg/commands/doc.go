// Package commands provides the command implementations behind the devstrap
// CLI.
//
// Every command takes an Env holding its dependencies plus an options struct,
// and returns a result struct that the ui package renders as terminal
// output, plain text or JSON. Commands never print; progress goes to the
// logger and to optional callbacks.
package commands
