package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var preloadedExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
}

// LoadPreloaded scans dir for video files and inserts one record per file
// under publicPrefix. Preloaded records get the zero timestamp so uploads
// always list above them. A missing directory is not an error.
func LoadPreloaded(store Store, dir, publicPrefix string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read preloaded directory: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !preloadedExtensions[ext] {
			continue
		}

		record := NewMediaRecord(entry.Name(), publicPrefix+"/"+entry.Name(), true)
		record.Timestamp = 0
		if err := store.Insert(record); err != nil {
			return count, fmt.Errorf("failed to insert preloaded record %s: %w", entry.Name(), err)
		}
		count++
	}

	return count, nil
}
