package inject

import (
	"fmt"
	"os"

	"docid/internal/fsutil"
)

// writeInjected replaces the target file, preserving its permission bits.
func writeInjected(full string, content []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(full); err == nil {
		perm = info.Mode().Perm()
	}
	if err := fsutil.WriteFileAtomic(full, content, perm); err != nil {
		return fmt.Errorf("write %s: %w", full, err)
	}
	return nil
}
