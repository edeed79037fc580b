package commands

import (
	"context"

	"github.com/arthur-debert/devstrap/pkg/dotfiles"
	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/filesync"
	"github.com/arthur-debert/devstrap/pkg/logging"
	"github.com/arthur-debert/devstrap/pkg/mcp"
	"github.com/arthur-debert/devstrap/pkg/shell"
	"github.com/arthur-debert/devstrap/pkg/templates"
)

// FilesResult is the outcome of a command that syncs files
type FilesResult struct {
	Command string            `json:"command"`
	DryRun  bool              `json:"dry_run"`
	Results []filesync.Result `json:"results"`
	Summary filesync.Summary  `json:"summary"`
	// Backup is the snapshot taken before dotfiles were replaced
	Backup *dotfiles.Manifest `json:"backup,omitempty"`
	// Pruned lists snapshots removed to honour dotfiles.backup.keep
	Pruned []string `json:"pruned,omitempty"`
	// Skipped explains why nothing was done
	Skipped string `json:"skipped,omitempty"`
}

// HasFailures reports whether any file failed
func (r *FilesResult) HasFailures() bool {
	return r.Summary.Failed > 0
}

func newFilesResult(command string, dryRun bool, results []filesync.Result) *FilesResult {
	return &FilesResult{
		Command: command,
		DryRun:  dryRun,
		Results: results,
		Summary: filesync.Summarize(results),
	}
}

// SyncDotfilesOptions holds options for SyncDotfiles
type SyncDotfilesOptions struct {
	DryRun bool
}

// SyncDotfiles copies the configured dotfiles into the home directory,
// backing up files it replaces and pruning old snapshots
func SyncDotfiles(ctx context.Context, env Env, opts SyncDotfilesOptions) (*FilesResult, error) {
	logger := logging.GetLogger("commands.dotfiles")
	if err := env.validate(); err != nil {
		return nil, err
	}

	if len(env.Config.Dotfiles.Files) == 0 {
		result := newFilesResult("dotfiles", opts.DryRun, nil)
		result.Skipped = "no dotfiles configured"
		return result, nil
	}

	m := env.dotfiles(opts.DryRun)
	report, err := m.Sync(ctx)
	result := newFilesResult("dotfiles", opts.DryRun, report.Results)
	result.Backup = report.Backup
	if err != nil {
		return result, err
	}

	if report.Backup != nil {
		keep := env.Config.Dotfiles.Backup.Keep
		if opts.DryRun && keep > 0 {
			// the snapshot a real run writes is not on disk but still counts
			keep--
		}
		pruned, err := m.Prune(keep)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to prune old backups")
		}
		if opts.DryRun && env.Config.Dotfiles.Backup.Keep == 0 {
			pruned = append(pruned, report.Backup.ID)
		}
		result.Pruned = pruned
	}
	return result, nil
}

// ApplyShellOptions holds options for ApplyShell
type ApplyShellOptions struct {
	DryRun bool
	// Shells overrides shell.shells
	Shells []string
	Remove bool
}

// ApplyShell writes (or removes) the devstrap RC block of every shell
func ApplyShell(ctx context.Context, env Env, opts ApplyShellOptions) (*FilesResult, error) {
	if err := env.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCancelled, "shell configuration cancelled")
	}

	results, err := shell.Apply(env.writer(opts.DryRun), env.Config.Shell, shell.Options{
		Shells: env.shells(opts.Shells),
		OS:     env.Probe.GOOS(),
		Home:   env.home(),
		Remove: opts.Remove,
	})
	return newFilesResult("shell", opts.DryRun, results), err
}

// RenderTemplatesOptions holds options for RenderTemplates
type RenderTemplatesOptions struct {
	DryRun bool
}

// RenderTemplates materializes the configured templates
func RenderTemplates(ctx context.Context, env Env, opts RenderTemplatesOptions) (*FilesResult, error) {
	if err := env.validate(); err != nil {
		return nil, err
	}
	if len(env.Config.Templates) == 0 {
		result := newFilesResult("templates", opts.DryRun, nil)
		result.Skipped = "no templates configured"
		return result, nil
	}

	info, err := env.detect(ctx)
	if err != nil {
		return nil, err
	}

	r := templates.New(env.writer(opts.DryRun), env.Config.Dotfiles.Source, env.home())
	results := r.Apply(env.Config.Templates, templates.Data{
		Vars:     env.Config.Vars,
		Platform: info,
		Home:     env.home(),
	})
	return newFilesResult("templates", opts.DryRun, results), nil
}

// ScaffoldMCPOptions holds options for ScaffoldMCP
type ScaffoldMCPOptions struct {
	DryRun bool
}

// ScaffoldMCP writes the package.json pinning the configured MCP servers
func ScaffoldMCP(ctx context.Context, env Env, opts ScaffoldMCPOptions) (*FilesResult, error) {
	if err := env.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCancelled, "mcp scaffolding cancelled")
	}
	if len(env.Config.MCP.Servers) == 0 {
		result := newFilesResult("mcp", opts.DryRun, nil)
		result.Skipped = "no MCP servers configured"
		return result, nil
	}

	res := mcp.Scaffold(env.writer(opts.DryRun), env.Config.MCP)
	return newFilesResult("mcp", opts.DryRun, []filesync.Result{res}), nil
}
