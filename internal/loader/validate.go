package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ValidatePath reports whether path can be handed to Load: it must be
// non-empty, absolute, exist, and name a regular file. The check is
// advisory; Load does not run it, so callers wanting the precondition
// enforced must call it themselves.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: path is empty", ErrInvalidPath)
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %q is not absolute", ErrInvalidPath, path)
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q does not exist", ErrInvalidPath, path)
	}
	if err != nil {
		return fmt.Errorf("%w: stat %q: %v", ErrInvalidPath, path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %q is not a regular file", ErrInvalidPath, path)
	}
	return nil
}
