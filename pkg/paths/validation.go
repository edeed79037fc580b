package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/devstrap/pkg/errors"
)

// ValidatePath performs basic validation on a path.
// It rejects empty paths, null bytes and excessive length.
func ValidatePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}

	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidInput, "path contains null bytes")
	}

	// common filesystem limit
	if len(path) > 4096 {
		return errors.New(errors.ErrInvalidInput, "path exceeds maximum length")
	}

	return nil
}

// ValidateRelative checks a path that must stay inside whatever base it is
// later joined to: relative, no parent references.
func ValidateRelative(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}

	if filepath.IsAbs(path) {
		return errors.Newf(errors.ErrInvalidInput, "path must be relative: %s", path)
	}

	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return errors.Newf(errors.ErrInvalidInput, "path escapes its base directory: %s", path)
	}

	return nil
}

// ContainsPath checks if child is contained within parent.
// Both paths are cleaned before comparison.
func ContainsPath(parent, child string) bool {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(child))
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
