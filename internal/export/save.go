package export

import (
	"fmt"
	"os"
	"time"
)

// SaveFile writes an export payload to path with mode 0644.
func SaveFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("save export: %w", err)
	}
	return nil
}

// DefaultFilename names a downloaded export when the user gives none.
func DefaultFilename(projectID string, now time.Time) string {
	return fmt.Sprintf("project-%s-export-%s.csv", projectID, now.Format("20060102-150405"))
}
