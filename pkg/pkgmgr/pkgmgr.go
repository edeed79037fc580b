package pkgmgr

import (
	"context"
	"os"
	"strings"

	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/executor"
	"github.com/arthur-debert/devstrap/pkg/logging"
	"github.com/arthur-debert/devstrap/pkg/platform"
	"github.com/rs/zerolog"
)

// Manager is a system package manager
type Manager interface {
	Name() string
	Available(ctx context.Context) bool
	IsInstalled(ctx context.Context, pkg string) (bool, error)
	Install(ctx context.Context, pkg string) error
	// Refresh updates the package index; a no-op for managers that do it implicitly
	Refresh(ctx context.Context) error
	// Bootstrap installs the manager itself when its binary is missing
	Bootstrap(ctx context.Context) error
	// InstallCommand returns the command line Install would run
	InstallCommand(pkg string) []string
}

// Options configures a Driver
type Options struct {
	// Privileged reports whether devstrap runs as root. Defaults to checking
	// the effective uid.
	Privileged func() bool
}

// Driver implements Manager from a data-table entry
type Driver struct {
	name       string
	spec       spec
	installer  *platform.Installer
	runner     executor.Runner
	privileged func() bool
	logger     zerolog.Logger
}

var _ Manager = (*Driver)(nil)

// New returns the driver for target's manager
func New(target platform.Target, runner executor.Runner, opts Options) (*Driver, error) {
	s, ok := drivers[target.Manager]
	if !ok {
		return nil, errors.Newf(errors.ErrUnsupportedPlatform, "no driver for package manager %q", target.Manager)
	}

	privileged := opts.Privileged
	if privileged == nil {
		privileged = func() bool { return os.Geteuid() == 0 }
	}

	return &Driver{
		name:       target.Manager,
		spec:       s,
		installer:  target.Installer,
		runner:     runner,
		privileged: privileged,
		logger:     logging.GetLogger("pkgmgr").With().Str("manager", target.Manager).Logger(),
	}, nil
}

// Name returns the manager name
func (d *Driver) Name() string {
	return d.name
}

// Available reports whether the manager binary can be found
func (d *Driver) Available(ctx context.Context) bool {
	_, ok := d.binary()
	return ok
}

func (d *Driver) binary() (string, bool) {
	if _, err := d.runner.LookPath(d.spec.binary); err == nil {
		return d.spec.binary, true
	}
	for _, candidate := range d.spec.fallbacks {
		if path, err := d.runner.LookPath(candidate); err == nil {
			return path, true
		}
	}
	return "", false
}

// IsInstalled runs the manager's installed-check for pkg
func (d *Driver) IsInstalled(ctx context.Context, pkg string) (bool, error) {
	pkgs := strings.Fields(pkg)
	name, args := d.spec.check[0], expand(d.spec.check[1:], pkgs)
	if name == d.spec.binary {
		if bin, ok := d.binary(); ok {
			name = bin
		}
	}

	output, err := d.runner.Run(executor.Quiet(ctx), name, args...)
	if err != nil {
		if _, exited := executor.ExitCode(err); exited {
			return false, nil
		}
		return false, err
	}
	if d.spec.checkOutput {
		return strings.TrimSpace(string(output)) != "", nil
	}
	return true, nil
}

// Install installs pkg. pkg may carry extra arguments, e.g. "--cask wezterm".
func (d *Driver) Install(ctx context.Context, pkg string) error {
	cmd := d.InstallCommand(pkg)
	d.logger.Info().Str("package", pkg).Msg("Installing package")

	if _, err := d.runner.Run(ctx, cmd[0], cmd[1:]...); err != nil {
		return errors.Wrapf(err, errors.ErrPackageInstall, "%s failed to install %s", d.name, pkg)
	}
	return nil
}

// InstallCommand returns the full command line used to install pkg
func (d *Driver) InstallCommand(pkg string) []string {
	return d.command(d.spec.install, strings.Fields(pkg))
}

// Refresh updates the package index
func (d *Driver) Refresh(ctx context.Context) error {
	if len(d.spec.refresh) == 0 {
		return nil
	}
	cmd := d.command(d.spec.refresh, nil)
	d.logger.Info().Msg("Refreshing package index")
	if _, err := d.runner.Run(ctx, cmd[0], cmd[1:]...); err != nil {
		return errors.Wrapf(err, errors.ErrCommandExecute, "%s index refresh failed", d.name)
	}
	return nil
}

// Bootstrap runs the installer routine when the manager binary is missing
func (d *Driver) Bootstrap(ctx context.Context) error {
	if d.Available(ctx) {
		return nil
	}
	if d.installer == nil || len(d.installer.Command) == 0 {
		return errors.Newf(errors.ErrManagerMissing, "%s is not installed and cannot be installed automatically", d.name).
			WithDetail("manager", d.name)
	}

	d.logger.Info().Str("installer", d.installer.Description).Msg("Installing package manager")
	cmd := d.installer.Command
	if _, err := d.runner.Run(ctx, cmd[0], cmd[1:]...); err != nil {
		return errors.Wrapf(err, errors.ErrManagerBootstrap, "failed to install %s", d.name)
	}

	if !d.Available(ctx) {
		return errors.Newf(errors.ErrManagerBootstrap, "%s installer finished but %s is still not found", d.name, d.spec.binary)
	}
	return nil
}

// BootstrapCommand returns the installer command line, nil when the manager
// cannot be bootstrapped
func (d *Driver) BootstrapCommand() []string {
	if d.installer == nil {
		return nil
	}
	return d.installer.Command
}

func (d *Driver) command(args []string, pkgs []string) []string {
	bin, ok := d.binary()
	if !ok {
		bin = d.spec.binary
	}
	cmd := append([]string{bin}, expand(args, pkgs)...)
	if d.spec.sudo && !d.privileged() {
		if _, err := d.runner.LookPath("sudo"); err == nil {
			cmd = append([]string{"sudo"}, cmd...)
		}
	}
	return cmd
}
