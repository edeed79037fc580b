package dotfiles

import (
	"bytes"
	"context"
	"os"
	"time"

	"github.com/arthur-debert/devstrap/pkg/config"
	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/filesync"
	"github.com/arthur-debert/devstrap/pkg/logging"
	"github.com/arthur-debert/devstrap/pkg/types"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/rs/zerolog"
)

// Options configures a Manager
type Options struct {
	Home       string
	Source     string
	BackupsDir string
	Config     config.DotfilesConfig

	// Now and Hostname are stamped into backup manifests
	Now      func() time.Time
	Hostname string
}

// Manager syncs, backs up and restores dotfiles
type Manager struct {
	fs         types.FS
	writer     *filesync.Writer
	home       string
	source     string
	backupsDir string
	cfg        config.DotfilesConfig
	matcher    gitignore.Matcher
	now        func() time.Time
	hostname   string
	logger     zerolog.Logger
}

// New creates a Manager writing through w
func New(w *filesync.Writer, opts Options) *Manager {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	hostname := opts.Hostname
	if hostname == "" {
		hostname, _ = os.Hostname()
	}

	return &Manager{
		fs:         w.FS(),
		writer:     w,
		home:       opts.Home,
		source:     opts.Source,
		backupsDir: opts.BackupsDir,
		cfg:        opts.Config,
		matcher:    newMatcher(opts.Config.Backup.Exclude),
		now:        now,
		hostname:   hostname,
		logger:     logging.GetLogger("dotfiles"),
	}
}

// SyncReport is the result of Sync
type SyncReport struct {
	Results []filesync.Result `json:"results"`
	// Backup is the snapshot taken before overwriting, nil when none was needed
	Backup *Manifest `json:"backup,omitempty"`
}

// Sync copies every planned file into place. Destinations that exist and
// differ from their source are backed up first when backups are enabled.
func (m *Manager) Sync(ctx context.Context) (SyncReport, error) {
	var report SyncReport

	entries, failures := m.Plan()
	report.Results = append(report.Results, failures...)

	if m.cfg.Backup.Enabled {
		var replaced []string
		for _, e := range entries {
			if m.differs(e) {
				replaced = append(replaced, e.Dest)
			}
		}
		if len(replaced) > 0 {
			manifest, err := m.Backup(ctx, replaced)
			if err != nil {
				return report, err
			}
			report.Backup = manifest
		}
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrap(err, errors.ErrCancelled, "dotfile sync cancelled")
		}
		report.Results = append(report.Results, m.writer.CopyFile(e.Source, e.Dest))
	}

	summary := filesync.Summarize(report.Results)
	m.logger.Info().
		Int("written", summary.Written).
		Int("unchanged", summary.Unchanged).
		Int("failed", summary.Failed).
		Msg("Dotfiles synced")

	return report, nil
}

// differs reports whether the destination exists with content other than
// the source's
func (m *Manager) differs(e Entry) bool {
	current, err := m.fs.ReadFile(e.Dest)
	if err != nil {
		return false
	}
	desired, err := m.fs.ReadFile(e.Source)
	if err != nil {
		return false
	}
	return !bytes.Equal(current, desired)
}
