package commands

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/arthur-debert/devstrap/pkg/config"
	"github.com/arthur-debert/devstrap/pkg/dotfiles"
	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/executor"
	"github.com/arthur-debert/devstrap/pkg/filesync"
	"github.com/arthur-debert/devstrap/pkg/filesystem"
	"github.com/arthur-debert/devstrap/pkg/logging"
	"github.com/arthur-debert/devstrap/pkg/paths"
	"github.com/arthur-debert/devstrap/pkg/pkgmgr"
	"github.com/arthur-debert/devstrap/pkg/platform"
	"github.com/arthur-debert/devstrap/pkg/shell"
	"github.com/arthur-debert/devstrap/pkg/types"
)

// Env carries the dependencies shared by all commands
type Env struct {
	Config *config.Config
	Paths  paths.Paths
	FS     types.FS
	Runner executor.Runner
	Probe  platform.Probe

	// Now and Hostname stamp backup manifests
	Now      func() time.Time
	Hostname string

	// Privileged reports whether devstrap runs as root; nil checks the euid
	Privileged func() bool

	// Progress receives git transfer progress; nil discards it
	Progress io.Writer
}

// NewEnv returns an Env backed by the host: the OS filesystem, os/exec and
// the real platform probe
func NewEnv(cfg *config.Config, p paths.Paths, stream io.Writer) Env {
	return Env{
		Config: cfg,
		Paths:  p,
		FS:     filesystem.NewOS(),
		Runner: executor.New(executor.Options{
			Stream: stream,
			Logger: logging.GetLogger("executor"),
		}),
		Probe:    platform.NewHostProbe(),
		Now:      time.Now,
		Progress: stream,
	}
}

func (e Env) home() string {
	return e.Paths.HomeDir()
}

func (e Env) writer(dryRun bool) *filesync.Writer {
	return filesync.NewWriter(e.FS, dryRun)
}

func (e Env) detect(ctx context.Context) (platform.Info, error) {
	return platform.Detect(ctx, e.Probe)
}

// manager detects the platform and returns the driver for its package
// manager, honouring platform.manager
func (e Env) manager(ctx context.Context) (platform.Info, *pkgmgr.Driver, error) {
	info, err := e.detect(ctx)
	if err != nil {
		return info, nil, err
	}
	target, err := platform.Resolve(info, e.Config.Platform.Manager)
	if err != nil {
		return info, nil, err
	}
	driver, err := pkgmgr.New(target, e.Runner, pkgmgr.Options{Privileged: e.Privileged})
	if err != nil {
		return info, nil, err
	}
	return info, driver, nil
}

func (e Env) dotfiles(dryRun bool) *dotfiles.Manager {
	hostname := e.Hostname
	if hostname == "" {
		hostname, _ = os.Hostname()
	}
	return dotfiles.New(e.writer(dryRun), dotfiles.Options{
		Home:       e.home(),
		Source:     e.Config.Dotfiles.Source,
		BackupsDir: e.Paths.BackupsDir(),
		Config:     e.Config.Dotfiles,
		Now:        e.Now,
		Hostname:   hostname,
	})
}

// shells returns the shells to configure: explicit ones, else the
// configured list, else the login shell
func (e Env) shells(explicit []string) []string {
	if len(explicit) > 0 {
		return explicit
	}
	if len(e.Config.Shell.Shells) > 0 {
		return e.Config.Shell.Shells
	}
	if detected := shell.DetectShell(e.Probe.Getenv, e.Probe.GOOS()); detected != "" {
		return []string{detected}
	}
	return nil
}

func (e Env) validate() error {
	if e.Config == nil {
		return errors.New(errors.ErrInternal, "commands: configuration not loaded")
	}
	if e.Paths == nil {
		return errors.New(errors.ErrInternal, "commands: paths not set")
	}
	return nil
}
