package commands

import (
	"context"

	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/repo"
)

// FetchOptions holds options for Fetch
type FetchOptions struct {
	DryRun bool
}

// Fetch clones or pulls the dotfiles repository
func Fetch(ctx context.Context, env Env, opts FetchOptions) (*repo.Result, error) {
	if err := env.validate(); err != nil {
		return nil, err
	}
	if env.Config.Repo.URL == "" {
		return nil, errors.New(errors.ErrInvalidInput, "repo.url is not configured; set it in the config file or DEVSTRAP_REPO_URL")
	}

	result, err := repo.Fetch(ctx, env.FS, repo.Options{
		URL:      env.Config.Repo.URL,
		Ref:      env.Config.Repo.Ref,
		Dir:      env.Config.Repo.Dir,
		DryRun:   opts.DryRun,
		Progress: env.Progress,
	})
	return &result, err
}
