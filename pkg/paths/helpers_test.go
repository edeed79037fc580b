package paths

import (
	"os"
	"path/filepath"
)

func writeFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("# test\n"), 0644)
}
