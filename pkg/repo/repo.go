package repo

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/logging"
	"github.com/arthur-debert/devstrap/pkg/types"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// DefaultRef is the branch checked out when none is configured
const DefaultRef = "main"

// Action is what Fetch did to the checkout
type Action string

const (
	ActionCloned   Action = "cloned"
	ActionPulled   Action = "pulled"
	ActionUpToDate Action = "up-to-date"
)

// Options for Fetch
type Options struct {
	URL      string
	Ref      string
	Dir      string
	DryRun   bool
	Progress io.Writer
}

// Result describes a Fetch
type Result struct {
	URL    string `json:"url"`
	Ref    string `json:"ref"`
	Dir    string `json:"dir"`
	Action Action `json:"action"`
	DryRun bool   `json:"dry_run"`
	Head   string `json:"head,omitempty"`
}

// Fetch clones opts.URL into opts.Dir when there is no checkout yet and pulls
// otherwise. fsys is only used to inspect opts.Dir.
func Fetch(ctx context.Context, fsys types.FS, opts Options) (Result, error) {
	logger := logging.GetLogger("repo")

	if opts.Ref == "" {
		opts.Ref = DefaultRef
	}
	result := Result{URL: opts.URL, Ref: opts.Ref, Dir: opts.Dir, DryRun: opts.DryRun}

	if opts.URL == "" {
		return result, errors.New(errors.ErrInvalidInput, "repo.url is not configured")
	}
	if opts.Dir == "" {
		return result, errors.New(errors.ErrInvalidInput, "repo.dir is not configured")
	}

	checkout, err := hasCheckout(fsys, opts.Dir)
	if err != nil {
		return result, err
	}

	if !checkout {
		result.Action = ActionCloned
		if opts.DryRun {
			logger.Info().Str("url", opts.URL).Str("dir", opts.Dir).Msg("Would clone dotfiles repository")
			return result, nil
		}
		logger.Info().Str("url", opts.URL).Str("ref", opts.Ref).Str("dir", opts.Dir).Msg("Cloning dotfiles repository")
		r, err := git.PlainCloneContext(ctx, opts.Dir, false, &git.CloneOptions{
			URL:           opts.URL,
			ReferenceName: plumbing.NewBranchReferenceName(opts.Ref),
			SingleBranch:  true,
			Progress:      opts.Progress,
		})
		if err != nil {
			return result, errors.Wrapf(err, errors.ErrRepoClone, "cannot clone %s", opts.URL)
		}
		result.Head = head(r)
		return result, nil
	}

	result.Action = ActionPulled
	if opts.DryRun {
		logger.Info().Str("dir", opts.Dir).Msg("Would pull dotfiles repository")
		return result, nil
	}

	r, err := git.PlainOpen(opts.Dir)
	if err != nil {
		return result, errors.Wrapf(err, errors.ErrRepoPull, "cannot open repository %s", opts.Dir)
	}
	wt, err := r.Worktree()
	if err != nil {
		return result, errors.Wrapf(err, errors.ErrRepoPull, "cannot open worktree %s", opts.Dir)
	}

	logger.Info().Str("dir", opts.Dir).Str("ref", opts.Ref).Msg("Pulling dotfiles repository")
	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName:    git.DefaultRemoteName,
		ReferenceName: plumbing.NewBranchReferenceName(opts.Ref),
		SingleBranch:  true,
		Progress:      opts.Progress,
	})
	switch {
	case stderrors.Is(err, git.NoErrAlreadyUpToDate):
		result.Action = ActionUpToDate
	case err != nil:
		return result, errors.Wrapf(err, errors.ErrRepoPull, "cannot pull %s", opts.Dir)
	}
	result.Head = head(r)
	return result, nil
}

// hasCheckout reports whether dir already holds a repository. A non-empty
// directory without one is an error.
func hasCheckout(fsys types.FS, dir string) (bool, error) {
	if _, err := fsys.Stat(filepath.Join(dir, git.GitDirName)); err == nil {
		return true, nil
	}

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", dir)
	}
	if len(entries) > 0 {
		return false, errors.Newf(errors.ErrRepoClone, "%s exists and is not a git repository", dir)
	}
	return false, nil
}

func head(r *git.Repository) string {
	ref, err := r.Head()
	if err != nil {
		return ""
	}
	return ref.Hash().String()[:12]
}
