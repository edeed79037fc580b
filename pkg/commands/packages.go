package commands

import (
	"context"

	"github.com/arthur-debert/devstrap/pkg/logging"
	"github.com/arthur-debert/devstrap/pkg/platform"
	"github.com/arthur-debert/devstrap/pkg/runner"
)

// InstallPackagesOptions holds options for InstallPackages
type InstallPackagesOptions struct {
	DryRun bool
	// IDs restricts the run to these steps
	IDs []string
	// OnStep is called as each step completes
	OnStep func(runner.StepResult)
}

// InstallPackagesResult is the outcome of a package run
type InstallPackagesResult struct {
	Platform platform.Info `json:"platform"`
	Report   runner.Report `json:"report"`
}

// HasFailures reports whether any step failed
func (r *InstallPackagesResult) HasFailures() bool {
	return len(r.Report.Failed()) > 0
}

// InstallPackages installs the configured packages in order. A failed
// required step stops the run; the partial result is returned with the error.
func InstallPackages(ctx context.Context, env Env, opts InstallPackagesOptions) (*InstallPackagesResult, error) {
	logger := logging.GetLogger("commands.packages")
	if err := env.validate(); err != nil {
		return nil, err
	}

	steps, err := runner.Filter(runner.StepsFromConfig(env.Config.Packages), opts.IDs)
	if err != nil {
		return nil, err
	}

	info, driver, err := env.manager(ctx)
	if err != nil {
		return &InstallPackagesResult{Platform: info}, err
	}

	logger.Info().
		Str("manager", driver.Name()).
		Int("steps", len(steps)).
		Bool("dry_run", opts.DryRun).
		Msg("Installing packages")

	r := runner.New(driver, runner.Options{DryRun: opts.DryRun, Info: info, OnStep: opts.OnStep})
	report, err := r.Run(ctx, steps)
	return &InstallPackagesResult{Platform: info, Report: report}, err
}

// PackageEntry is one row of ListPackages
type PackageEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Package  string `json:"package,omitempty"`
	Optional bool   `json:"optional"`
	GUI      bool   `json:"gui"`
	// Available is false when the step maps to "-" for the manager
	Available bool `json:"available"`
}

// PackageListResult lists the configured steps for the host's manager
type PackageListResult struct {
	Manager  string         `json:"manager"`
	Packages []PackageEntry `json:"packages"`
}

// ListPackages resolves the package name of every configured step without
// touching the system
func ListPackages(ctx context.Context, env Env) (*PackageListResult, error) {
	if err := env.validate(); err != nil {
		return nil, err
	}

	info, err := env.detect(ctx)
	if err != nil {
		return nil, err
	}
	target, err := platform.Resolve(info, env.Config.Platform.Manager)
	if err != nil {
		return nil, err
	}

	result := &PackageListResult{Manager: target.Manager}
	for _, step := range runner.StepsFromConfig(env.Config.Packages) {
		pkg, ok := step.PackageFor(target.Manager)
		result.Packages = append(result.Packages, PackageEntry{
			ID:        step.ID,
			Name:      step.Name,
			Package:   pkg,
			Optional:  step.Optional,
			GUI:       step.GUI,
			Available: ok,
		})
	}
	return result, nil
}
