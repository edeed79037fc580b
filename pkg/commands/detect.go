package commands

import (
	"context"

	"github.com/arthur-debert/devstrap/pkg/logging"
	"github.com/arthur-debert/devstrap/pkg/pkgmgr"
	"github.com/arthur-debert/devstrap/pkg/platform"
)

// DetectResult describes the host and the package manager devstrap would use
type DetectResult struct {
	Platform  platform.Info       `json:"platform"`
	Manager   string              `json:"manager,omitempty"`
	Installer *platform.Installer `json:"installer,omitempty"`
	// Available reports whether the manager binary is on PATH
	Available bool     `json:"available"`
	Shells    []string `json:"shells,omitempty"`
	// Unsupported is set when no package manager fits the host
	Unsupported string `json:"unsupported,omitempty"`
}

// Detect reports the platform, its package manager and the shells devstrap
// would configure. An unsupported platform is reported, not returned as an
// error.
func Detect(ctx context.Context, env Env) (*DetectResult, error) {
	logger := logging.GetLogger("commands.detect")
	if err := env.validate(); err != nil {
		return nil, err
	}

	info, err := env.detect(ctx)
	if err != nil {
		return nil, err
	}
	result := &DetectResult{Platform: info, Shells: env.shells(nil)}

	target, err := platform.Resolve(info, env.Config.Platform.Manager)
	if err != nil {
		logger.Warn().Err(err).Msg("No package manager for this platform")
		result.Unsupported = err.Error()
		return result, nil
	}
	driver, err := pkgmgr.New(target, env.Runner, pkgmgr.Options{Privileged: env.Privileged})
	if err != nil {
		return result, err
	}

	result.Manager = driver.Name()
	result.Installer = target.Installer
	result.Available = driver.Available(ctx)
	return result, nil
}
