package testutil

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/arthur-debert/devstrap/pkg/executor"
)

// Call is one command recorded by FakeRunner
type Call struct {
	Name string
	Args []string
	// Quiet is set when the caller asked for output not to be streamed
	Quiet bool
}

// String returns the command line
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

type response struct {
	prefix string
	output string
	code   int
}

// FakeRunner is a scripted executor.Runner. Commands match responses by
// command-line prefix in registration order; unmatched commands succeed with
// no output.
type FakeRunner struct {
	mu        sync.Mutex
	calls     []Call
	responses []response
	binaries  map[string]bool
}

var _ executor.Runner = (*FakeRunner)(nil)

// NewFakeRunner creates a FakeRunner with no binaries on PATH
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{binaries: map[string]bool{}}
}

// WithBinaries marks names as resolvable by LookPath
func (f *FakeRunner) WithBinaries(names ...string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, name := range names {
		f.binaries[name] = true
	}
	return f
}

// RemoveBinary makes LookPath fail for name
func (f *FakeRunner) RemoveBinary(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.binaries, name)
}

// On scripts output for commands starting with prefix
func (f *FakeRunner) On(prefix, output string) *FakeRunner {
	return f.respond(prefix, output, 0)
}

// Fail makes commands starting with prefix exit with code
func (f *FakeRunner) Fail(prefix string, code int) *FakeRunner {
	return f.respond(prefix, "", code)
}

func (f *FakeRunner) respond(prefix, output string, code int) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, response{prefix: prefix, output: output, code: code})
	return f
}

// Run records the call and returns the scripted response
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	call := Call{Name: name, Args: append([]string(nil), args...), Quiet: executor.IsQuiet(ctx)}
	f.calls = append(f.calls, call)

	line := call.String()
	for _, r := range f.responses {
		if !strings.HasPrefix(line, r.prefix) {
			continue
		}
		if r.code != 0 {
			return []byte(r.output), &executor.CommandError{
				Command: name,
				Args:    args,
				Code:    r.code,
				Output:  r.output,
				Err:     fmt.Errorf("exit status %d", r.code),
			}
		}
		return []byte(r.output), nil
	}
	return nil, nil
}

// LookPath resolves binaries registered with WithBinaries
func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.binaries[name] {
		if strings.Contains(name, "/") {
			return name, nil
		}
		return "/usr/bin/" + name, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// Calls returns the recorded calls
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Commands returns the recorded command lines
func (f *FakeRunner) Commands() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}

// Reset forgets recorded calls
func (f *FakeRunner) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}
