package auto

import (
	"fmt"
	"os"
	"path/filepath"
)

// CheckDirSafety verifies a directory role before any file is touched: it
// must exist, be a real directory rather than a symlink, and be writable
// (proven by creating and deleting a probe file).
func CheckDirSafety(path, label string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s directory does not exist: %s", label, path)
		}
		return fmt.Errorf("%s directory not accessible: %s: %w", label, path, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("%s is a symbolic link (not allowed): %s", label, path)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s path is not a directory: %s", label, path)
	}

	probe := filepath.Join(path, ".scrubexif_write_test")
	f, err := os.Create(probe)
	if err != nil {
		return fmt.Errorf("%s directory is not writable: %s", label, path)
	}
	f.Close()
	if err := os.Remove(probe); err != nil {
		return fmt.Errorf("%s directory is not writable: %s", label, path)
	}
	return nil
}
