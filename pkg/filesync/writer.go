package filesync

import (
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/logging"
	"github.com/arthur-debert/devstrap/pkg/types"
	"github.com/rs/zerolog"
	"github.com/zeebo/blake3"
)

// DefaultFileMode is used for new files written without an explicit mode
const DefaultFileMode fs.FileMode = 0644

// Writer performs idempotent writes through a types.FS
type Writer struct {
	fs     types.FS
	dryRun bool
	logger zerolog.Logger
}

// NewWriter creates a Writer
func NewWriter(fsys types.FS, dryRun bool) *Writer {
	return &Writer{
		fs:     fsys,
		dryRun: dryRun,
		logger: logging.GetLogger("filesync").With().Bool("dry_run", dryRun).Logger(),
	}
}

// DryRun reports whether the writer only simulates writes
func (w *Writer) DryRun() bool {
	return w.dryRun
}

// FS returns the filesystem the writer writes through
func (w *Writer) FS() types.FS {
	return w.fs
}

// Digest returns the hex BLAKE3 digest of data
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// WriteFile makes path hold content with mode perm. A zero perm keeps the
// mode of an existing file and uses DefaultFileMode for new ones.
func (w *Writer) WriteFile(path string, content []byte, perm fs.FileMode) Result {
	current, err := w.fs.ReadFile(path)
	exists := err == nil
	if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return w.fail(path, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", path))
	}

	if exists && blake3.Sum256(current) == blake3.Sum256(content) {
		if perm == 0 {
			return w.done(unchanged(path))
		}
		info, err := w.fs.Stat(path)
		if err != nil {
			return w.fail(path, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path))
		}
		if info.Mode().Perm() == perm.Perm() {
			return w.done(unchanged(path))
		}
		if w.dryRun {
			return w.done(written(path, true))
		}
		if err := w.fs.Chmod(path, perm.Perm()); err != nil {
			return w.fail(path, errors.Wrapf(err, errors.ErrFileWrite, "cannot chmod %s", path))
		}
		return w.done(written(path, false))
	}

	if perm == 0 {
		perm = DefaultFileMode
		if exists {
			if info, err := w.fs.Stat(path); err == nil {
				perm = info.Mode().Perm()
			}
		}
	}

	if w.dryRun {
		return w.done(written(path, true))
	}

	if err := w.writeAtomic(path, content, perm.Perm()); err != nil {
		return w.fail(path, err)
	}
	return w.done(written(path, false))
}

// CopyFile makes dst a copy of src, including its mode
func (w *Writer) CopyFile(src, dst string) Result {
	info, err := w.fs.Stat(src)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return w.fail(dst, errors.Wrapf(err, errors.ErrFileNotFound, "source %s does not exist", src))
		}
		return w.fail(dst, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", src))
	}
	if info.IsDir() {
		return w.fail(dst, errors.Newf(errors.ErrInvalidInput, "source %s is a directory", src))
	}

	content, err := w.fs.ReadFile(src)
	if err != nil {
		return w.fail(dst, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", src))
	}
	return w.WriteFile(dst, content, info.Mode().Perm())
}

// maxLinkHops bounds symlink resolution so a link cycle fails instead of
// looping
const maxLinkHops = 40

// resolveLinks follows path through any symlinks to the file that should
// receive the content. A missing path resolves to itself.
func (w *Writer) resolveLinks(path string) (string, error) {
	for hop := 0; hop < maxLinkHops; hop++ {
		info, err := w.fs.Lstat(path)
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				return path, nil
			}
			return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path)
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			return path, nil
		}
		target, err := w.fs.Readlink(path)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read link %s", path)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		path = target
	}
	return "", errors.Newf(errors.ErrFileAccess, "too many levels of symbolic links at %s", path)
}

func (w *Writer) writeAtomic(path string, content []byte, perm fs.FileMode) error {
	// replace the link target, keeping the link itself
	path, err := w.resolveLinks(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := w.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", dir)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.devstrap-%d.tmp", filepath.Base(path), time.Now().UnixNano()))
	if err := w.fs.WriteFile(tmp, content, perm); err != nil {
		_ = w.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path)
	}
	// WriteFile is subject to the umask
	if err := w.fs.Chmod(tmp, perm); err != nil {
		_ = w.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot chmod %s", path)
	}
	if err := w.fs.Rename(tmp, path); err != nil {
		_ = w.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot replace %s", path)
	}
	return nil
}

func (w *Writer) done(r Result) Result {
	w.logger.Debug().Str("path", r.Path).Str("outcome", string(r.Outcome)).Msg("Synced file")
	return r
}

func (w *Writer) fail(path string, err error) Result {
	w.logger.Error().Err(err).Str("path", path).Msg("Sync failed")
	return failed(path, err)
}
