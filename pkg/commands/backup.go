package commands

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"

	"github.com/arthur-debert/devstrap/pkg/dotfiles"
	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/filesync"
	"github.com/arthur-debert/devstrap/pkg/logging"
)

// BackupOptions holds options for CreateBackup
type BackupOptions struct {
	DryRun bool
}

// BackupResult is the snapshot CreateBackup took
type BackupResult struct {
	DryRun bool `json:"dry_run"`
	// Backup is nil when none of the dotfile destinations exist
	Backup *dotfiles.Manifest `json:"backup,omitempty"`
}

// CreateBackup snapshots every existing dotfile destination
func CreateBackup(ctx context.Context, env Env, opts BackupOptions) (*BackupResult, error) {
	if err := env.validate(); err != nil {
		return nil, err
	}
	m := env.dotfiles(opts.DryRun)
	manifest, err := m.Backup(ctx, m.Targets())
	if err != nil {
		return nil, err
	}
	return &BackupResult{DryRun: opts.DryRun, Backup: manifest}, nil
}

// BackupListResult lists snapshots, newest first
type BackupListResult struct {
	Dir     string              `json:"dir"`
	Backups []dotfiles.Manifest `json:"backups"`
}

// ListBackups returns every snapshot, newest first
func ListBackups(ctx context.Context, env Env) (*BackupListResult, error) {
	if err := env.validate(); err != nil {
		return nil, err
	}
	backups, err := env.dotfiles(false).List()
	if err != nil {
		return nil, err
	}
	return &BackupListResult{Dir: env.Paths.BackupsDir(), Backups: backups}, nil
}

// PruneOptions holds options for PruneBackups
type PruneOptions struct {
	DryRun bool
	// Keep overrides dotfiles.backup.keep when set; zero removes every
	// snapshot
	Keep *int
}

// PruneResult lists the snapshots removed
type PruneResult struct {
	DryRun  bool     `json:"dry_run"`
	Keep    int      `json:"keep"`
	Removed []string `json:"removed"`
}

// PruneBackups deletes the oldest snapshots beyond the keep limit
func PruneBackups(ctx context.Context, env Env, opts PruneOptions) (*PruneResult, error) {
	if err := env.validate(); err != nil {
		return nil, err
	}
	keep := env.Config.Dotfiles.Backup.Keep
	if opts.Keep != nil {
		keep = *opts.Keep
	}
	removed, err := env.dotfiles(opts.DryRun).Prune(keep)
	if err != nil {
		return nil, err
	}
	return &PruneResult{DryRun: opts.DryRun, Keep: keep, Removed: removed}, nil
}

// RestoreOptions holds options for Restore
type RestoreOptions struct {
	DryRun bool
	// ID is a snapshot id or "latest"
	ID string
	// Only restricts the restore to these original paths
	Only []string
	// Confirm is asked before existing files are overwritten. Nil approves.
	Confirm func(question string) bool
}

// RestoreResult is the outcome of Restore
type RestoreResult struct {
	ID       string            `json:"id"`
	DryRun   bool              `json:"dry_run"`
	Declined bool              `json:"declined,omitempty"`
	Results  []filesync.Result `json:"results"`
	Summary  filesync.Summary  `json:"summary"`
}

// HasFailures reports whether any file failed to restore
func (r *RestoreResult) HasFailures() bool {
	return r.Summary.Failed > 0
}

// Restore copies a snapshot's files back to their original locations
func Restore(ctx context.Context, env Env, opts RestoreOptions) (*RestoreResult, error) {
	logger := logging.GetLogger("commands.restore")
	if err := env.validate(); err != nil {
		return nil, err
	}
	id := opts.ID
	if id == "" {
		id = dotfiles.Latest
	}

	m := env.dotfiles(opts.DryRun)
	manifest, err := m.Find(id)
	if err != nil {
		return nil, err
	}
	result := &RestoreResult{ID: manifest.ID, DryRun: opts.DryRun}

	if !opts.DryRun && opts.Confirm != nil {
		existing := 0
		for _, entry := range m.Select(manifest, opts.Only) {
			if _, err := env.FS.Stat(entry.Original); err == nil {
				existing++
			} else if !stderrors.Is(err, fs.ErrNotExist) {
				return result, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", entry.Original)
			}
		}
		if existing > 0 {
			question := fmt.Sprintf("Restore backup %s over %d existing file(s)?", manifest.ID, existing)
			if !opts.Confirm(question) {
				logger.Info().Str("id", manifest.ID).Msg("Restore declined")
				result.Declined = true
				return result, nil
			}
		}
	}

	results, err := m.Restore(ctx, manifest.ID, opts.Only)
	result.Results = results
	result.Summary = filesync.Summarize(results)
	return result, err
}
