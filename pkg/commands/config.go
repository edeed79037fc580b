package commands

import (
	"github.com/arthur-debert/devstrap/pkg/config"
	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/filesync"
	"github.com/arthur-debert/devstrap/pkg/logging"
)

// InitConfigOptions holds options for InitConfig
type InitConfigOptions struct {
	DryRun bool
	// Path defaults to the user config file
	Path  string
	Force bool
}

// InitConfigResult reports where the config was written
type InitConfigResult struct {
	Path   string          `json:"path"`
	Result filesync.Result `json:"result"`
}

// InitConfig writes the default configuration to the user config file. An
// existing file is only replaced with Force.
func InitConfig(env Env, opts InitConfigOptions) (*InitConfigResult, error) {
	logger := logging.GetLogger("commands.config")

	path := opts.Path
	if path == "" {
		path = env.Paths.ConfigFile()
	}

	if _, err := env.FS.Stat(path); err == nil && !opts.Force {
		return nil, errors.Newf(errors.ErrAlreadyExists, "%s already exists; use --force to overwrite", path).
			WithDetail("path", path)
	}

	res := env.writer(opts.DryRun).WriteFile(path, config.DefaultsContent(), 0)
	if res.Failed() {
		return nil, res.Err
	}
	logger.Info().Str("path", path).Str("outcome", string(res.Outcome)).Msg("Config initialized")
	return &InitConfigResult{Path: path, Result: res}, nil
}

// ShowConfigResult is the merged configuration
type ShowConfigResult struct {
	Config *config.Config `json:"config"`
	// TOML is the configuration rendered as TOML
	TOML string `json:"-"`
}

// ShowConfig returns the merged configuration
func ShowConfig(env Env) (*ShowConfigResult, error) {
	if err := env.validate(); err != nil {
		return nil, err
	}
	content, err := config.Marshal(env.Config)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot render configuration")
	}
	return &ShowConfigResult{Config: env.Config, TOML: string(content)}, nil
}
