package cli

import (
	stderrors "errors"
	"io"
	"os"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/devstrap/pkg/commands"
	"github.com/arthur-debert/devstrap/pkg/config"
	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/logging"
	"github.com/arthur-debert/devstrap/pkg/paths"
	"github.com/arthur-debert/devstrap/pkg/ui"
)

// Deps are the process level dependencies of the CLI
type Deps struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// NewEnv builds the command environment; defaults to commands.NewEnv
	NewEnv func(cfg *config.Config, p paths.Paths, stream io.Writer) commands.Env
}

func (d Deps) withDefaults() Deps {
	if d.Stdin == nil {
		d.Stdin = os.Stdin
	}
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}
	if d.Getenv == nil {
		d.Getenv = os.Getenv
	}
	if d.NewEnv == nil {
		d.NewEnv = commands.NewEnv
	}
	return d
}

// globalOptions are the persistent flags
type globalOptions struct {
	verbosity  int
	dryRun     bool
	configFile string
	format     string
	yes        bool
}

// errFailures ends a command whose result already reported failures; it sets
// the exit code without printing anything else
var errFailures = stderrors.New("command reported failures")

// app is what a command needs once flags are parsed
type app struct {
	env      commands.Env
	renderer ui.Renderer
	dialog   *ui.ConsoleDialog
	opts     *globalOptions
}

func (o *globalOptions) newApp(cmd *cobra.Command, deps Deps) (*app, error) {
	format, err := ui.ParseFormat(o.format)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid --format")
	}

	p, err := paths.New()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, MsgErrPaths)
	}

	cfg, err := config.Load(config.LoadOptions{ConfigFile: o.configFile, Paths: p})
	if err != nil {
		var invalid *config.ValidationError
		if stderrors.As(err, &invalid) {
			return nil, errors.New(errors.ErrConfigValid, invalid.Error()).WithDetail("problems", invalid.Problems)
		}
		return nil, errors.Wrap(err, errors.ErrConfigLoad, MsgErrConfig)
	}

	if format == ui.FormatAuto {
		format = ui.DetectFormat(deps.Stdout, deps.Getenv)
	}
	renderer, err := ui.NewRenderer(format, deps.Stdout, ui.Options{Home: p.HomeDir(), Getenv: deps.Getenv})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid --format")
	}

	// package manager output would corrupt JSON on stdout
	stream := deps.Stdout
	if format == ui.FormatJSON {
		stream = deps.Stderr
	}

	logger := logging.GetLogger("cli")
	logger.Debug().
		Str("command", cmd.CommandPath()).
		Str("format", format.String()).
		Bool("dry_run", o.dryRun).
		Msg("Command environment ready")

	return &app{
		env:      deps.NewEnv(cfg, p, stream),
		renderer: renderer,
		dialog:   ui.NewConsoleDialog(deps.Stdin, deps.Stderr, o.yes),
		opts:     o,
	}, nil
}

type failureReporter interface {
	HasFailures() bool
}

// finish renders result (also the partial result that comes with an error)
// and maps reported failures to errFailures
func (a *app) finish(result interface{}, err error) error {
	if !isNil(result) {
		if rerr := a.renderer.RenderResult(result); rerr != nil && err == nil {
			return rerr
		}
	}
	if err != nil {
		return err
	}
	if fr, ok := result.(failureReporter); ok && !isNil(result) && fr.HasFailures() {
		return errFailures
	}
	return nil
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
