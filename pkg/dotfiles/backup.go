package dotfiles

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/filesync"
	"github.com/arthur-debert/devstrap/pkg/paths"
	"gopkg.in/yaml.v3"
)

const (
	// ManifestFile is the manifest name inside a snapshot directory
	ManifestFile = "manifest.yaml"

	// Latest resolves to the newest snapshot
	Latest = "latest"

	idLayout = "20060102-150405"

	storedHome = "home"
	storedRoot = "root"
)

// Manifest describes one backup snapshot
type Manifest struct {
	ID      string          `yaml:"id" json:"id"`
	Created time.Time       `yaml:"created" json:"created"`
	Host    string          `yaml:"host" json:"host"`
	Entries []ManifestEntry `yaml:"entries" json:"entries"`

	// Dir is the snapshot directory; not persisted
	Dir string `yaml:"-" json:"dir"`
}

// ManifestEntry is one saved file
type ManifestEntry struct {
	Original string `yaml:"original" json:"original"`
	Stored   string `yaml:"stored" json:"stored"`
	Digest   string `yaml:"digest" json:"digest"`
	Mode     string `yaml:"mode" json:"mode"`
}

// Backup saves the given files (directories recursively) into a new
// snapshot. Missing files are skipped; when nothing is left no snapshot is
// created and the manifest is nil.
func (m *Manager) Backup(ctx context.Context, targets []string) (*Manifest, error) {
	files, err := m.collect(targets)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		m.logger.Debug().Msg("Nothing to back up")
		return nil, nil
	}

	created := m.now()
	id, err := m.nextID(created)
	if err != nil {
		return nil, err
	}

	manifest := &Manifest{
		ID:      id,
		Created: created,
		Host:    m.hostname,
		Dir:     filepath.Join(m.backupsDir, id),
	}

	for _, original := range files {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCancelled, "backup cancelled")
		}

		info, err := m.fs.Stat(original)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrBackupCreate, "cannot stat %s", original)
		}
		content, err := m.fs.ReadFile(original)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrBackupCreate, "cannot read %s", original)
		}

		stored := m.storedPath(original)
		result := m.writer.WriteFile(filepath.Join(manifest.Dir, filepath.FromSlash(stored)), content, info.Mode().Perm())
		if result.Failed() {
			return nil, errors.Wrapf(result.Err, errors.ErrBackupCreate, "cannot save %s", original)
		}

		manifest.Entries = append(manifest.Entries, ManifestEntry{
			Original: original,
			Stored:   stored,
			Digest:   filesync.Digest(content),
			Mode:     fmt.Sprintf("%04o", info.Mode().Perm()),
		})
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrBackupCreate, "cannot encode manifest")
	}
	if result := m.writer.WriteFile(filepath.Join(manifest.Dir, ManifestFile), data, 0644); result.Failed() {
		return nil, errors.Wrap(result.Err, errors.ErrBackupCreate, "cannot write manifest")
	}

	m.logger.Info().
		Str("id", id).
		Int("files", len(manifest.Entries)).
		Bool("dry_run", m.writer.DryRun()).
		Msg("Backup created")
	return manifest, nil
}

// collect expands targets into existing regular files
func (m *Manager) collect(targets []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, target := range targets {
		target = paths.ExpandHomeIn(m.home, target)
		info, err := m.fs.Stat(target)
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, errors.Wrapf(err, errors.ErrBackupCreate, "cannot stat %s", target)
		}
		if !info.IsDir() {
			add(target)
			continue
		}
		rels, err := walkFiles(m.fs, target, m.matcher)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrBackupCreate, "cannot walk %s", target)
		}
		for _, rel := range rels {
			add(filepath.Join(target, rel))
		}
	}
	return files, nil
}

// storedPath maps an original path to its slash-separated location inside
// a snapshot
func (m *Manager) storedPath(original string) string {
	if rel, err := filepath.Rel(m.home, original); err == nil && !strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel) {
		return storedHome + "/" + filepath.ToSlash(rel)
	}
	clean := strings.ReplaceAll(filepath.ToSlash(original), ":", "")
	return storedRoot + "/" + strings.TrimPrefix(clean, "/")
}

func (m *Manager) nextID(created time.Time) (string, error) {
	base := created.Format(idLayout)
	id := base
	for n := 1; ; n++ {
		_, err := m.fs.Stat(filepath.Join(m.backupsDir, id))
		if stderrors.Is(err, fs.ErrNotExist) {
			return id, nil
		}
		if err != nil {
			return "", errors.Wrap(err, errors.ErrBackupCreate, "cannot inspect backups directory")
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}

// List returns every readable snapshot, newest first
func (m *Manager) List() ([]Manifest, error) {
	entries, err := m.fs.ReadDir(m.backupsDir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrFileRead, "cannot read backups directory")
	}

	var manifests []Manifest
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(m.backupsDir, entry.Name())
		data, err := m.fs.ReadFile(filepath.Join(dir, ManifestFile))
		if err != nil {
			m.logger.Warn().Str("dir", dir).Msg("Skipping backup without manifest")
			continue
		}
		var manifest Manifest
		if err := yaml.Unmarshal(data, &manifest); err != nil {
			m.logger.Warn().Err(err).Str("dir", dir).Msg("Skipping backup with unreadable manifest")
			continue
		}
		manifest.Dir = dir
		manifests = append(manifests, manifest)
	}

	sort.SliceStable(manifests, func(i, j int) bool {
		if !manifests[i].Created.Equal(manifests[j].Created) {
			return manifests[i].Created.After(manifests[j].Created)
		}
		return manifests[i].ID > manifests[j].ID
	})
	return manifests, nil
}

// Prune deletes the oldest snapshots beyond keep and returns their ids
func (m *Manager) Prune(keep int) ([]string, error) {
	if keep < 0 {
		return nil, errors.New(errors.ErrInvalidInput, "keep must not be negative")
	}
	manifests, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(manifests) <= keep {
		return nil, nil
	}

	var removed []string
	for _, manifest := range manifests[keep:] {
		if !m.writer.DryRun() {
			if err := m.fs.RemoveAll(manifest.Dir); err != nil {
				return removed, errors.Wrapf(err, errors.ErrFileWrite, "cannot remove backup %s", manifest.ID)
			}
		}
		removed = append(removed, manifest.ID)
	}

	m.logger.Info().Strs("removed", removed).Bool("dry_run", m.writer.DryRun()).Msg("Pruned backups")
	return removed, nil
}

// Find returns the snapshot with id; Latest selects the newest one
func (m *Manager) Find(id string) (*Manifest, error) {
	manifests, err := m.List()
	if err != nil {
		return nil, err
	}
	if id == Latest || id == "" {
		if len(manifests) == 0 {
			return nil, errors.New(errors.ErrBackupNotFound, "no backups found")
		}
		return &manifests[0], nil
	}
	for i := range manifests {
		if manifests[i].ID == id {
			return &manifests[i], nil
		}
	}
	return nil, errors.Newf(errors.ErrBackupNotFound, "backup %q not found", id).WithDetail("id", id)
}

// Select returns the manifest entries matching only, all of them when only
// is empty. Entries match by original path (~ allowed) or stored path.
func (m *Manager) Select(manifest *Manifest, only []string) []ManifestEntry {
	if len(only) == 0 {
		return manifest.Entries
	}
	var selected []ManifestEntry
	for _, entry := range manifest.Entries {
		for _, want := range only {
			expanded := paths.ExpandHomeIn(m.home, want)
			if entry.Original == expanded || entry.Stored == want ||
				strings.HasPrefix(entry.Original, strings.TrimSuffix(expanded, string(filepath.Separator))+string(filepath.Separator)) {
				selected = append(selected, entry)
				break
			}
		}
	}
	return selected
}

// Restore copies the files of snapshot id back to their original locations
func (m *Manager) Restore(ctx context.Context, id string, only []string) ([]filesync.Result, error) {
	manifest, err := m.Find(id)
	if err != nil {
		return nil, err
	}

	entries := m.Select(manifest, only)
	if len(only) > 0 && len(entries) == 0 {
		return nil, errors.Newf(errors.ErrNotFound, "backup %s has no entries matching %s", manifest.ID, strings.Join(only, ", "))
	}

	results := make([]filesync.Result, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return results, errors.Wrap(err, errors.ErrCancelled, "restore cancelled")
		}

		stored := filepath.Join(manifest.Dir, filepath.FromSlash(entry.Stored))
		content, err := m.fs.ReadFile(stored)
		if err != nil {
			results = append(results, failedResult(entry.Original, errors.Wrapf(err, errors.ErrRestore, "cannot read %s", stored)))
			continue
		}
		if entry.Digest != "" && filesync.Digest(content) != entry.Digest {
			err := errors.Newf(errors.ErrRestore, "stored copy %s does not match its manifest digest", stored).
				WithDetail("backup", manifest.ID)
			results = append(results, failedResult(entry.Original, err))
			continue
		}
		results = append(results, m.writer.WriteFile(entry.Original, content, parseMode(entry.Mode)))
	}

	m.logger.Info().Str("id", manifest.ID).Int("files", len(results)).Msg("Backup restored")
	return results, nil
}

func parseMode(mode string) fs.FileMode {
	var perm uint32
	if _, err := fmt.Sscanf(mode, "%o", &perm); err != nil {
		return 0
	}
	return fs.FileMode(perm).Perm()
}
