package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/arthur-debert/devstrap/pkg/logging"
	"github.com/rs/zerolog"
)

// Runner executes external commands
type Runner interface {
	// Run executes name with args and returns its combined output
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// LookPath resolves name in PATH
	LookPath(name string) (string, error)
}

type quietKey struct{}

// Quiet returns a context under which Run captures output without streaming
// it. Used for checks whose output is only parsed.
func Quiet(ctx context.Context) context.Context {
	return context.WithValue(ctx, quietKey{}, true)
}

// IsQuiet reports whether ctx was derived from Quiet
func IsQuiet(ctx context.Context) bool {
	quiet, _ := ctx.Value(quietKey{}).(bool)
	return quiet
}

// Options configures an ExecRunner
type Options struct {
	// Stream, when set, receives command output as it is produced
	Stream io.Writer

	// Env entries appended to the inherited environment
	Env []string

	Logger zerolog.Logger
}

// ExecRunner implements Runner with os/exec
type ExecRunner struct {
	stream io.Writer
	env    []string
	logger zerolog.Logger
}

// New creates an ExecRunner
func New(opts Options) *ExecRunner {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("executor")
	}
	return &ExecRunner{
		stream: opts.Stream,
		env:    opts.Env,
		logger: logger,
	}
}

// Run executes the command and waits for it to finish
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	start := time.Now()
	logging.LogCommand(name, args)

	cmd := exec.CommandContext(ctx, name, args...)
	if len(r.env) > 0 {
		cmd.Env = append(cmd.Environ(), r.env...)
	}

	var buf bytes.Buffer
	if r.stream != nil && !IsQuiet(ctx) {
		// one writer for both streams so os/exec serializes the copies
		w := io.MultiWriter(&buf, r.stream)
		cmd.Stdout, cmd.Stderr = w, w
	} else {
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	}

	err := cmd.Run()
	output := buf.Bytes()

	r.logger.Debug().
		Str("command", name).
		Strs("args", args).
		Dur("duration", time.Since(start)).
		Bool("success", err == nil).
		Msg("Command finished")

	if err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return output, &CommandError{
			Command: name,
			Args:    args,
			Code:    code,
			Output:  strings.TrimSpace(string(output)),
			Err:     err,
		}
	}
	return output, nil
}

// LookPath resolves name in PATH
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// CommandError is returned by Run when a command fails to start or exits
// non-zero
type CommandError struct {
	Command string
	Args    []string
	// Code is the exit status, or -1 when the command did not exit normally
	Code   int
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	line := strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " "))
	if e.Output != "" {
		return fmt.Sprintf("%s: %v: %s", line, e.Err, lastLine(e.Output))
	}
	return fmt.Sprintf("%s: %v", line, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit status carried by err. The second value is false
// when the command did not run to completion (not found, killed, cancelled).
func ExitCode(err error) (int, bool) {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code >= 0 {
		return cmdErr.Code, true
	}
	return 0, false
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
