package dotfiles

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/devstrap/pkg/config"
	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/filesync"
	"github.com/arthur-debert/devstrap/pkg/paths"
	"github.com/arthur-debert/devstrap/pkg/types"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Entry is one file to sync
type Entry struct {
	Source string `json:"source"`
	Dest   string `json:"dest"`
}

// newMatcher builds a gitignore matcher from exclude patterns
func newMatcher(patterns []string) gitignore.Matcher {
	parsed := make([]gitignore.Pattern, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		parsed = append(parsed, gitignore.ParsePattern(p, nil))
	}
	return gitignore.NewMatcher(parsed)
}

func splitPath(rel string) []string {
	return strings.Split(filepath.ToSlash(rel), "/")
}

// walkFiles returns every regular file below root that the matcher does not
// exclude, as paths relative to root, sorted
func walkFiles(fsys types.FS, root string, matcher gitignore.Matcher) ([]string, error) {
	var files []string
	var walk func(dir, rel string) error
	walk = func(dir, rel string) error {
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			childRel := entry.Name()
			if rel != "" {
				childRel = filepath.Join(rel, entry.Name())
			}
			if matcher.Match(splitPath(childRel), entry.IsDir()) {
				continue
			}
			if entry.IsDir() {
				if err := walk(filepath.Join(dir, entry.Name()), childRel); err != nil {
					return err
				}
				continue
			}
			files = append(files, childRel)
		}
		return nil
	}

	if err := walk(root, ""); err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Plan expands the configured file list into source/destination pairs.
// Missing sources are reported as failed results; the rest of the plan is
// still returned.
func (m *Manager) Plan() ([]Entry, []filesync.Result) {
	var entries []Entry
	var failures []filesync.Result

	for _, spec := range m.cfg.Files {
		src, dest, err := m.resolve(spec)
		if err != nil {
			failures = append(failures, failedResult(dest, err))
			continue
		}

		info, err := m.fs.Stat(src)
		if err != nil {
			code := errors.ErrFileAccess
			if stderrors.Is(err, fs.ErrNotExist) {
				code = errors.ErrFileNotFound
			}
			failures = append(failures, failedResult(dest, errors.Wrapf(err, code, "dotfile source %s", spec.Source)))
			continue
		}

		if !info.IsDir() {
			entries = append(entries, Entry{Source: src, Dest: dest})
			continue
		}

		files, err := walkFiles(m.fs, src, m.matcher)
		if err != nil {
			failures = append(failures, failedResult(dest, errors.Wrapf(err, errors.ErrFileRead, "cannot walk %s", src)))
			continue
		}
		for _, rel := range files {
			entries = append(entries, Entry{
				Source: filepath.Join(src, rel),
				Dest:   filepath.Join(dest, rel),
			})
		}
	}
	return entries, failures
}

// Targets returns the destinations of the configured files
func (m *Manager) Targets() []string {
	targets := make([]string, 0, len(m.cfg.Files))
	for _, spec := range m.cfg.Files {
		if _, dest, err := m.resolve(spec); err == nil {
			targets = append(targets, dest)
		}
	}
	return targets
}

func (m *Manager) resolve(spec config.DotfileSpec) (src, dest string, err error) {
	if err := paths.ValidateRelative(spec.Source); err != nil {
		return "", spec.Source, err
	}
	src = filepath.Join(m.source, filepath.FromSlash(spec.Source))

	dest = spec.Dest
	if dest == "" {
		dest = filepath.Join(m.home, filepath.FromSlash(spec.Source))
	} else {
		dest = paths.ExpandHomeIn(m.home, dest)
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(m.home, dest)
		}
	}
	return src, dest, nil
}

func failedResult(path string, err error) filesync.Result {
	return filesync.Result{Path: path, Outcome: filesync.OutcomeFailed, Err: err, Error: err.Error()}
}
