package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// CleanData removes everything inside dataDir and leaves it empty. It needs
// no container. Returns the number of top-level entries removed.
func CleanData(dataDir string) (int, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return 0, fmt.Errorf("create data dir: %w", err)
	}

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return 0, fmt.Errorf("read data dir: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dataDir, entry.Name())); err != nil {
			return removed, fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}
